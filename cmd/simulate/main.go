package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/dungeon-engine/internal/config"
	"github.com/jwebster45206/dungeon-engine/internal/logger"
	"github.com/jwebster45206/dungeon-engine/internal/simulate"
	internalstorage "github.com/jwebster45206/dungeon-engine/internal/storage"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/encounter"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/jwebster45206/dungeon-engine/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := internalstorage.LoadRegistry(cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to load registry", "error", err)
		os.Exit(1)
	}

	dungeonID := cfg.Dungeon
	if dungeonID == "" {
		ids := reg.DungeonIDs()
		if len(ids) == 0 {
			log.Error("No dungeons found", "data_dir", cfg.DataDir)
			os.Exit(1)
		}
		dungeonID = ids[0]
	}
	spec, err := reg.Dungeon(dungeonID)
	if err != nil {
		log.Error("Failed to find dungeon", "dungeon", dungeonID, "error", err)
		os.Exit(1)
	}

	player, err := loadPlayer(cfg)
	if err != nil {
		log.Error("Failed to load player", "player_id", cfg.PlayerID, "error", err)
		os.Exit(1)
	}

	ledger, err := openLedger(ctx, cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to connect to progress ledger")
		os.Exit(1)
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			log.Error("Error closing ledger", "error", err)
		}
	}()

	src := rng.New(cfg.Seed)
	log.Info("Starting dungeon simulation",
		"environment", cfg.Environment,
		"dungeon", spec.ID,
		"player_id", player.ID(),
		"runs", cfg.Runs,
		"seed", src.Seed())

	runner := simulate.NewRunner(encounter.NewSpawner(reg, src, log), ledger, log)

	var completed, ejected int
	for i := 0; i < cfg.Runs; i++ {
		sum, err := runner.Run(ctx, spec, player)
		if errors.Is(err, context.Canceled) {
			log.Info("Simulation interrupted", "runs_finished", i)
			break
		}
		if err != nil {
			logger.WithError(log, err).Error("Run failed", "run", i+1)
			continue
		}
		if sum.Completed {
			completed++
		}
		if sum.Ejected {
			ejected++
		}
	}

	progress, err := ledger.GetProgress(ctx, player.ID())
	if err != nil {
		log.Error("Failed to read progress", "error", err)
		os.Exit(1)
	}
	log.Info("Simulation finished",
		"runs", cfg.Runs,
		"completed", completed,
		"ejected", ejected,
		"total_gold", progress.Gold,
		"total_xp", progress.XP,
		"distinct_items", len(progress.Drops))
}

// loadPlayer reads DATA_DIR/players/<PLAYER_ID>.json, or builds a default
// player when the id is empty or has no file.
func loadPlayer(cfg *config.Config) (*actor.Player, error) {
	if cfg.PlayerID != "" {
		path := filepath.Join(cfg.DataDir, "players", cfg.PlayerID+".json")
		if _, err := os.Stat(path); err == nil {
			return actor.LoadPlayer(path)
		}
	}
	id := cfg.PlayerID
	if id == "" {
		id = uuid.NewString()
	}
	return actor.NewPlayerFromSpec(&actor.PlayerSpec{
		ID:     id,
		MaxHP:  100,
		Attack: registry.StatRange{Min: 6, Max: 12},
	})
}

// openLedger connects to Redis when REDIS_URL is set; otherwise progress is kept in memory.
func openLedger(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Ledger, error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, keeping progress in memory")
		return storage.NewMockLedger(), nil
	}
	ledger, err := internalstorage.NewRedisLedger(cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := ledger.WaitForConnection(waitCtx, 30, 2*time.Second); err != nil {
		_ = ledger.Close()
		return nil, err
	}
	return ledger, nil
}

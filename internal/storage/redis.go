package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// RedisLedger implements storage.Ledger on Redis counters.
// Keys are progress:<player>:gold, progress:<player>:xp and the hash
// progress:<player>:drops keyed by item id.
type RedisLedger struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisLedger implements Ledger interface
var _ storage.Ledger = (*RedisLedger)(nil)

// NewRedisLedger creates a ledger for redisURL, which is either a redis:// URL
// or a bare host:port address. It does not connect until first use.
func NewRedisLedger(redisURL string, logger *slog.Logger) (*RedisLedger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		var err error
		if opts, err = redis.ParseURL(redisURL); err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
	}
	return &RedisLedger{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func progressKey(playerID, field string) string {
	return "progress:" + playerID + ":" + field
}

// Health and lifecycle methods

func (r *RedisLedger) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisLedger) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisLedger) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Progress operations

func (r *RedisLedger) RecordRewards(ctx context.Context, playerID string, gold, xp int) error {
	if playerID == "" {
		return errors.New("player id cannot be empty")
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, progressKey(playerID, "gold"), int64(gold))
		pipe.IncrBy(ctx, progressKey(playerID, "xp"), int64(xp))
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to record rewards", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to record rewards: %w", err)
	}
	return nil
}

func (r *RedisLedger) RecordDrops(ctx context.Context, playerID string, drops []loot.Drop) error {
	if playerID == "" {
		return errors.New("player id cannot be empty")
	}
	if len(drops) == 0 {
		return nil
	}
	key := progressKey(playerID, "drops")
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range drops {
			pipe.HIncrBy(ctx, key, string(d.Item.ID), int64(d.Quantity))
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to record drops", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to record drops: %w", err)
	}
	return nil
}

func (r *RedisLedger) GetProgress(ctx context.Context, playerID string) (storage.Progress, error) {
	p := storage.Progress{PlayerID: playerID, Drops: make(map[item.ID]int)}

	var err error
	if p.Gold, err = r.counter(ctx, progressKey(playerID, "gold")); err != nil {
		return storage.Progress{}, err
	}
	if p.XP, err = r.counter(ctx, progressKey(playerID, "xp")); err != nil {
		return storage.Progress{}, err
	}

	fields, err := r.client.HGetAll(ctx, progressKey(playerID, "drops")).Result()
	if err != nil {
		r.logger.Error("Failed to load drops", "player_id", playerID, "error", err)
		return storage.Progress{}, fmt.Errorf("failed to load drops: %w", err)
	}
	for id, raw := range fields {
		n, err := strconv.Atoi(raw)
		if err != nil {
			r.logger.Warn("Skipping malformed drop count", "player_id", playerID, "item", id, "value", raw)
			continue
		}
		p.Drops[item.ID(id)] = n
	}
	return p, nil
}

// counter reads an integer key; a missing key is zero.
func (r *RedisLedger) counter(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return n, nil
}

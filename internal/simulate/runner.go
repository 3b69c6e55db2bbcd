// Package simulate plays dungeon visits headlessly with a fixed policy and
// forwards rewards to the progress ledger.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/dungeon-engine/internal/logger"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/combat"
	"github.com/jwebster45206/dungeon-engine/pkg/dungeon"
	"github.com/jwebster45206/dungeon-engine/pkg/encounter"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
	"github.com/jwebster45206/dungeon-engine/pkg/state"
	"github.com/jwebster45206/dungeon-engine/pkg/storage"
)

// MaxSteps bounds the number of session calls in one visit.
const MaxSteps = 2000

// ErrStepLimit is returned when a visit does not end within MaxSteps.
var ErrStepLimit = errors.New("visit did not finish within step limit")

// Summary describes one finished visit.
type Summary struct {
	RunID     string `json:"run_id"`
	Dungeon   string `json:"dungeon"`
	Floor     string `json:"floor,omitempty"`
	Rooms     int    `json:"rooms"`
	Cleared   int    `json:"cleared"`
	Completed bool   `json:"completed"`
	Ejected   bool   `json:"ejected"`
	Fights    int    `json:"fights"`
	Rests     int    `json:"rests"`
	Steps     int    `json:"steps"`
	Gold      int    `json:"gold"`
	XP        int    `json:"xp"`
	Drops     int    `json:"drops"`
}

// Runner plays visits against one spawner. A nil ledger skips reward forwarding.
type Runner struct {
	spawner *encounter.Spawner
	ledger  storage.Ledger
	logger  *slog.Logger
}

// NewRunner creates a runner
func NewRunner(spawner *encounter.Spawner, ledger storage.Ledger, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{spawner: spawner, ledger: ledger, logger: log}
}

// visit is the bookkeeping for one Run call.
type visit struct {
	summary Summary
	drops   state.DropLog
	d       *dungeon.Dungeon
	p       *actor.Player
	s       *state.Session
	log     *slog.Logger
}

// Run generates a fresh dungeon for spec and plays it until the player leaves
// or is ejected. The player starts at full health.
func (r *Runner) Run(ctx context.Context, spec *registry.DungeonSpec, p *actor.Player) (Summary, error) {
	runID := uuid.NewString()
	log := logger.WithRunID(r.logger, runID)

	d, err := r.spawner.GenerateDungeon(spec)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to generate dungeon: %w", err)
	}
	p.RestoreFull()

	v := &visit{
		summary: Summary{RunID: runID, Dungeon: spec.ID, Floor: d.Floor, Rooms: d.RoomCount()},
		d:       d,
		p:       p,
		log:     log,
	}
	v.s, err = state.NewSession(d, p, state.Options{
		Source:    r.spawner.Source(),
		Spawner:   r.spawner,
		BossMob:   spec.BossMob,
		Inventory: &v.drops,
		Logger:    log,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to start session: %w", err)
	}
	goldBefore, xpBefore := p.Gold(), p.XP()

	for !v.s.Closed() {
		if err := ctx.Err(); err != nil {
			return v.summary, err
		}
		if v.summary.Steps >= MaxSteps {
			return v.summary, ErrStepLimit
		}
		v.summary.Steps++
		if err := r.step(v); err != nil {
			return v.summary, err
		}
	}

	v.summary.Gold = p.Gold() - goldBefore
	v.summary.XP = p.XP() - xpBefore
	v.summary.Drops = len(v.drops.Drops)

	if err := r.record(ctx, p.ID(), v.summary, v.drops.Drops); err != nil {
		log.Error("Failed to record progress", "error", err)
		return v.summary, err
	}

	log.Info("Run finished",
		"dungeon", v.summary.Dungeon,
		"floor", v.summary.Floor,
		"rooms", v.summary.Rooms,
		"cleared", v.summary.Cleared,
		"completed", v.summary.Completed,
		"ejected", v.summary.Ejected,
		"fights", v.summary.Fights,
		"gold", v.summary.Gold,
		"xp", v.summary.XP,
		"drops", v.summary.Drops)
	return v.summary, nil
}

func (r *Runner) record(ctx context.Context, playerID string, sum Summary, drops []loot.Drop) error {
	if r.ledger == nil {
		return nil
	}
	if err := r.ledger.RecordRewards(ctx, playerID, sum.Gold, sum.XP); err != nil {
		return err
	}
	return r.ledger.RecordDrops(ctx, playerID, drops)
}

// step makes one policy decision and applies it to the session.
func (r *Runner) step(v *visit) error {
	var out state.Outcome
	var err error

	v.summary.Cleared = v.d.ClearedCount()
	switch v.s.Mode() {
	case state.Navigation:
		out, err = r.navigate(v)
	case state.RoomEntry:
		out, err = r.interact(v)
	case state.Rest:
		if v.p.IsFullHealth() {
			out, err = v.s.Continue()
		} else {
			v.summary.Rests++
			out, err = v.s.Rest()
		}
	case state.Boss:
		out, err = v.s.Attack()
	default:
		return fmt.Errorf("unexpected mode %s", v.s.Mode())
	}
	if err != nil {
		return err
	}

	v.log.Debug("Session step", "mode", out.Mode.String(), "kind", out.Kind.String(), "message", out.Message)
	if out.Ejected || out.Left {
		v.summary.Completed = out.Completed
		v.summary.Ejected = out.Ejected
	}
	return nil
}

func (r *Runner) navigate(v *visit) (state.Outcome, error) {
	if v.d.IsCompleted() {
		return v.s.Leave()
	}
	if !v.d.CurrentRoom().Cleared {
		return v.s.EnterRoom()
	}
	dir, ok := NextStep(v.d, v.p.HP()*2 < v.p.MaxHP())
	if !ok {
		return v.s.Leave()
	}
	return v.s.Move(dir)
}

func (r *Runner) interact(v *visit) (state.Outcome, error) {
	if v.d.CurrentRoom().Cleared {
		return v.s.Continue()
	}
	out, err := v.s.Act()
	if err != nil {
		return out, err
	}
	if out.Kind == state.Error {
		// The room cannot be resolved, so the visit ends here.
		v.log.Warn("Abandoning dungeon", "reason", out.Message, "position", v.d.Position().String())
		return v.s.Leave()
	}
	if out.Encounter == nil {
		return out, nil
	}

	v.summary.Fights++
	src := r.spawner.Source()
	res := combat.Fight(src, v.p, out.Encounter)
	if res.Stalled {
		v.log.Warn("Fight stalled", "mob", out.Encounter.ID, "rounds", res.Rounds)
	}
	if !res.Victory {
		return v.s.ResolveCombat(false)
	}
	rewards := combat.DeathRewards(src, out.Encounter, v.p, r.spawner.Registry().ItemSpawner(src))
	v.drops.AddDrops(rewards.Drops)
	return v.s.ResolveCombat(true)
}

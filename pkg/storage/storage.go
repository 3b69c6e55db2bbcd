package storage

import (
	"context"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
)

// Progress is a player's accumulated rewards across dungeon visits.
type Progress struct {
	PlayerID string          `json:"player_id"`
	Gold     int64           `json:"gold"`
	XP       int64           `json:"xp"`
	Drops    map[item.ID]int `json:"drops,omitempty"` // total quantity per item id
}

// Ledger records rewards for the progression system outside the engine.
// The engine only emits deltas; totals are owned by the ledger.
type Ledger interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	RecordRewards(ctx context.Context, playerID string, gold, xp int) error
	RecordDrops(ctx context.Context, playerID string, drops []loot.Drop) error
	GetProgress(ctx context.Context, playerID string) (Progress, error)
}

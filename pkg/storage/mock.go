package storage

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
)

// MockLedger is an in-memory Ledger for testing and for runs without Redis.
type MockLedger struct {
	mu        sync.RWMutex
	progress  map[string]*Progress
	pingError error
}

// Ensure MockLedger implements Ledger interface
var _ Ledger = (*MockLedger)(nil)

// NewMockLedger creates an empty mock ledger
func NewMockLedger() *MockLedger {
	return &MockLedger{progress: make(map[string]*Progress)}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockLedger) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// Ping mocks ledger ping
func (m *MockLedger) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks ledger close
func (m *MockLedger) Close() error {
	return nil
}

func (m *MockLedger) entry(playerID string) *Progress {
	p, ok := m.progress[playerID]
	if !ok {
		p = &Progress{PlayerID: playerID, Drops: make(map[item.ID]int)}
		m.progress[playerID] = p
	}
	return p
}

// RecordRewards adds gold and XP to the player's totals
func (m *MockLedger) RecordRewards(ctx context.Context, playerID string, gold, xp int) error {
	if playerID == "" {
		return errors.New("player id cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.entry(playerID)
	p.Gold += int64(gold)
	p.XP += int64(xp)
	return nil
}

// RecordDrops adds drop quantities to the player's totals
func (m *MockLedger) RecordDrops(ctx context.Context, playerID string, drops []loot.Drop) error {
	if playerID == "" {
		return errors.New("player id cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.entry(playerID)
	for _, d := range drops {
		p.Drops[d.Item.ID] += d.Quantity
	}
	return nil
}

// GetProgress returns a copy of the player's totals. Unknown players have zero progress.
func (m *MockLedger) GetProgress(ctx context.Context, playerID string) (Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.progress[playerID]
	if !ok {
		return Progress{PlayerID: playerID, Drops: map[item.ID]int{}}, nil
	}
	out := *p
	out.Drops = maps.Clone(p.Drops)
	return out, nil
}

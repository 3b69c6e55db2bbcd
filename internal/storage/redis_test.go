package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ledger, err := NewRedisLedger("redis://"+mr.Addr(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger, mr
}

func TestRedisLedger_RecordRewards(t *testing.T) {
	ledger, mr := setupTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.RecordRewards(ctx, "hero", 20, 50))
	require.NoError(t, ledger.RecordRewards(ctx, "hero", 7, 3))

	gold, err := mr.Get("progress:hero:gold")
	require.NoError(t, err)
	assert.Equal(t, "27", gold)

	p, err := ledger.GetProgress(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, int64(27), p.Gold)
	assert.Equal(t, int64(53), p.XP)
}

func TestRedisLedger_RecordDrops(t *testing.T) {
	ledger, mr := setupTestLedger(t)
	ctx := context.Background()

	drops := []loot.Drop{
		{Item: item.Item{ID: "coal"}, Quantity: 2},
		{Item: item.Item{ID: "iron_sword"}, Quantity: 1},
	}
	require.NoError(t, ledger.RecordDrops(ctx, "hero", drops))
	require.NoError(t, ledger.RecordDrops(ctx, "hero", drops[:1]))
	require.NoError(t, ledger.RecordDrops(ctx, "hero", nil))

	assert.Equal(t, "4", mr.HGet("progress:hero:drops", "coal"))

	p, err := ledger.GetProgress(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, map[item.ID]int{"coal": 4, "iron_sword": 1}, p.Drops)
}

func TestRedisLedger_UnknownPlayer(t *testing.T) {
	ledger, _ := setupTestLedger(t)

	p, err := ledger.GetProgress(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", p.PlayerID)
	assert.Zero(t, p.Gold)
	assert.Zero(t, p.XP)
	assert.Empty(t, p.Drops)
}

func TestRedisLedger_Validation(t *testing.T) {
	ledger, _ := setupTestLedger(t)
	ctx := context.Background()
	assert.Error(t, ledger.RecordRewards(ctx, "", 1, 1))
	assert.Error(t, ledger.RecordDrops(ctx, "", nil))
}

func TestRedisLedger_BareAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	ledger, err := NewRedisLedger(mr.Addr(), testLogger())
	require.NoError(t, err)
	defer ledger.Close()

	assert.NoError(t, ledger.Ping(context.Background()))
}

func TestRedisLedger_WaitForConnection(t *testing.T) {
	ledger, mr := setupTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.WaitForConnection(ctx, 3, 10*time.Millisecond))

	mr.Close()
	err := ledger.WaitForConnection(ctx, 2, 10*time.Millisecond)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, ledger.WaitForConnection(cancelled, 5, time.Second))
}

func TestNewRedisLedger_BadURL(t *testing.T) {
	_, err := NewRedisLedger("redis://localhost:notaport", testLogger())
	assert.Error(t, err)
}

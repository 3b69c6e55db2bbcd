package simulate

import (
	"context"
	"testing"

	"github.com/jwebster45206/dungeon-engine/internal/logger"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/dungeon"
	"github.com/jwebster45206/dungeon-engine/pkg/encounter"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/jwebster45206/dungeon-engine/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) (*registry.Registry, *registry.DungeonSpec) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.AddItem(&item.Spec{ID: "coal", Type: item.TypeMaterial}))
	require.NoError(t, reg.AddMob(&registry.MobSpec{
		ID:        "slime",
		MaxHealth: registry.StatRange{Min: 5, Max: 10},
		Attack:    registry.StatRange{Min: 2, Max: 4},
		Gold:      registry.StatRange{Min: 1, Max: 3},
		XP:        registry.StatRange{Min: 2, Max: 2},
		Loot:      loot.NewBuilder().With("coal", 1, 2, loot.Fixed(1)).Build(),
	}))
	require.NoError(t, reg.AddMob(&registry.MobSpec{
		ID:        "dwarf_king",
		MaxHealth: registry.StatRange{Min: 40, Max: 40},
		Attack:    registry.StatRange{Min: 5, Max: 8},
		Gold:      registry.StatRange{Min: 50, Max: 50},
		XP:        registry.StatRange{Min: 100, Max: 100},
	}))
	spec := &registry.DungeonSpec{
		ID:         "old_mine",
		Size:       5,
		MobWeights: map[string]int{"slime": 1},
		BossMob:    "dwarf_king",
		ChestLoot:  loot.NewBuilder().With("coal", 1, 1, loot.Range{Min: 2, Max: 4}).Build(),
	}
	require.NoError(t, reg.AddDungeon(spec))
	return reg, spec
}

func newPlayer(t *testing.T, maxHP, attack int) *actor.Player {
	t.Helper()
	p, err := actor.NewPlayerFromSpec(&actor.PlayerSpec{
		ID:     "hero",
		MaxHP:  maxHP,
		Attack: registry.StatRange{Min: attack, Max: attack},
	})
	require.NoError(t, err)
	return p
}

func TestRunner_CompletesDungeon(t *testing.T) {
	reg, spec := testRegistry(t)
	ledger := storage.NewMockLedger()

	for seed := int64(1); seed <= 20; seed++ {
		runner := NewRunner(encounter.NewSpawner(reg, rng.New(seed), logger.Discard()), ledger, logger.Discard())
		p := newPlayer(t, 1000, 50)

		sum, err := runner.Run(context.Background(), spec, p)
		require.NoError(t, err, "seed %d", seed)
		assert.True(t, sum.Completed, "seed %d", seed)
		assert.False(t, sum.Ejected, "seed %d", seed)
		assert.Equal(t, sum.Rooms, sum.Cleared, "seed %d", seed)
		assert.GreaterOrEqual(t, sum.Gold, 50, "boss gold, seed %d", seed)
		assert.GreaterOrEqual(t, sum.XP, 100, "boss xp, seed %d", seed)
		assert.NotEmpty(t, sum.RunID)
	}

	progress, err := ledger.GetProgress(context.Background(), "hero")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, progress.Gold, int64(20*50))
	assert.Greater(t, progress.Drops["coal"], 0, "every layout has a chest")
}

func TestRunner_Ejected(t *testing.T) {
	reg, spec := testRegistry(t)
	ledger := storage.NewMockLedger()
	runner := NewRunner(encounter.NewSpawner(reg, rng.New(3), logger.Discard()), ledger, logger.Discard())

	// The start room is an uncleared Monster room and a slime always wins.
	sum, err := runner.Run(context.Background(), spec, newPlayer(t, 1, 1))
	require.NoError(t, err)
	assert.True(t, sum.Ejected)
	assert.False(t, sum.Completed)
	assert.Equal(t, 1, sum.Fights)
	assert.Zero(t, sum.Gold)
}

func TestRunner_Cancelled(t *testing.T) {
	reg, spec := testRegistry(t)
	runner := NewRunner(encounter.NewSpawner(reg, rng.New(3), logger.Discard()), nil, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runner.Run(ctx, spec, newPlayer(t, 100, 10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_NoMobs(t *testing.T) {
	reg, spec := testRegistry(t)
	spec.MobWeights = nil
	runner := NewRunner(encounter.NewSpawner(reg, rng.New(5), logger.Discard()), nil, logger.Discard())

	sum, err := runner.Run(context.Background(), spec, newPlayer(t, 100, 10))
	require.NoError(t, err)
	assert.False(t, sum.Completed, "monster rooms cannot be cleared")
	assert.False(t, sum.Ejected)
}

// corridor builds a west-to-east line: Monster(0) Boss(1) Rest(2) Chest(3),
// plus a Trap room south of the start.
func corridor(t *testing.T) *dungeon.Dungeon {
	t.Helper()
	d := dungeon.New("corridor", 5)
	for _, r := range []*dungeon.Room{
		dungeon.NewRoom(dungeon.Monster, 0, 0, nil),
		dungeon.NewRoom(dungeon.Boss, 1, 0, nil),
		dungeon.NewRoom(dungeon.Rest, 2, 0, nil),
		dungeon.NewRoom(dungeon.Chest, 3, 0, nil),
		dungeon.NewRoom(dungeon.Trap, 0, 1, nil),
	} {
		require.NoError(t, d.SetRoom(r))
	}
	require.NoError(t, d.PlacePlayer(0, 0))
	return d
}

func TestNextStep(t *testing.T) {
	d := corridor(t)

	dir, ok := NextStep(d, false)
	require.True(t, ok)
	assert.Equal(t, dungeon.South, dir, "the trap is the only non-boss goal reachable without the boss")

	d.Room(0, 1).Clear()
	dir, ok = NextStep(d, false)
	require.True(t, ok)
	assert.Equal(t, dungeon.East, dir, "the boss is the last resort")

	dir, ok = NextStep(d, true)
	require.True(t, ok)
	assert.Equal(t, dungeon.East, dir)

	d.Room(1, 0).Clear()
	d.Room(3, 0).Clear()
	_, ok = NextStep(d, false)
	assert.False(t, ok, "nothing left but the start")
}

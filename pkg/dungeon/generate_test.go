package dungeon

import (
	"testing"

	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/jwebster45206/dungeon-engine/pkg/weighted"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countTypes(d *Dungeon) map[RoomType]int {
	counts := map[RoomType]int{}
	for r := range d.Rooms() {
		counts[r.Type]++
	}
	return counts
}

func TestGenerate_Invariants(t *testing.T) {
	chest := loot.NewBuilder().With("coal", 1, 2, loot.Fixed(1)).Build()
	maxRooms := int(float64(DefaultSize*DefaultSize) * MaxFill)

	for seed := int64(1); seed <= 200; seed++ {
		d, err := Generate(rng.New(seed), GenerateOptions{Name: "crypt", ChestLoot: chest})
		require.NoError(t, err, "seed %d", seed)

		assert.Equal(t, DefaultSize, d.Size)
		rooms := d.RoomCount()
		require.GreaterOrEqual(t, rooms, 1, "seed %d", seed)
		require.LessOrEqual(t, rooms, maxRooms, "seed %d", seed)

		start := d.CurrentRoom()
		require.NotNil(t, start, "seed %d: player must stand in a room", seed)
		assert.Equal(t, Monster, start.Type)
		assert.True(t, start.Visited)
		pos := d.Position()
		onEdge := pos.X == 0 || pos.Y == 0 || pos.X == d.Size-1 || pos.Y == d.Size-1
		assert.True(t, onEdge, "seed %d: start %s not on edge", seed, pos)

		for _, n := range d.Neighbors(pos.X, pos.Y) {
			if n != nil {
				assert.True(t, n.Revealed, "seed %d: start neighbours are revealed", seed)
			}
		}

		counts := countTypes(d)
		if rooms >= 4 {
			assert.Equal(t, 1, counts[Boss], "seed %d: exactly one boss", seed)
			assert.GreaterOrEqual(t, counts[Chest], 1, "seed %d", seed)
			assert.GreaterOrEqual(t, counts[Rest], 1, "seed %d", seed)
		}
		assert.LessOrEqual(t, counts[Boss], 1)

		for r := range d.Rooms() {
			assert.Equal(t, r.Type == Rest, r.Cleared, "seed %d: only rest rooms start cleared", seed)
			assert.Equal(t, r.Type.HasChest(), r.HasChest(), "seed %d", seed)
			if r.Visited {
				assert.True(t, r.Revealed)
			}
		}

		assert.False(t, d.IsCompleted(), "seed %d: fresh dungeon is never complete", seed)
	}
}

func TestGenerate_BossPrefersDeadEnd(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		d, err := Generate(rng.New(seed), GenerateOptions{})
		require.NoError(t, err)

		start := d.Position()
		var boss *Room
		deadEnds := 0
		for r := range d.Rooms() {
			if r.Type == Boss {
				boss = r
			}
			if r.Position() != start && d.neighborCount(r.X, r.Y) == 1 {
				deadEnds++
			}
		}
		if boss == nil {
			continue
		}
		assert.NotEqual(t, start, boss.Position(), "seed %d: boss is never the start room", seed)
		if deadEnds > 0 {
			assert.Equal(t, 1, d.neighborCount(boss.X, boss.Y), "seed %d: boss sits on a dead end", seed)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(rng.New(99), GenerateOptions{Size: 9})
	require.NoError(t, err)
	b, err := Generate(rng.New(99), GenerateOptions{Size: 9})
	require.NoError(t, err)

	assert.Equal(t, a.Position(), b.Position())
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			ra, rb := a.Room(x, y), b.Room(x, y)
			if ra == nil || rb == nil {
				assert.True(t, ra == nil && rb == nil, "(%d,%d)", x, y)
				continue
			}
			assert.Equal(t, ra.Type, rb.Type)
		}
	}
}

func TestGenerate_Options(t *testing.T) {
	t.Run("custom size", func(t *testing.T) {
		d, err := Generate(rng.New(5), GenerateOptions{Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 10, d.Size)
		assert.LessOrEqual(t, d.RoomCount(), 50)
	})

	t.Run("floor pool", func(t *testing.T) {
		floors, err := weighted.FromOrderedMap(map[string]int{"cavern": 1, "crypt": 0})
		require.NoError(t, err)
		d, err := Generate(rng.New(5), GenerateOptions{FloorWeights: floors})
		require.NoError(t, err)
		assert.Equal(t, "cavern", d.Floor)
	})

	t.Run("all-zero floor pool fails", func(t *testing.T) {
		floors, err := weighted.FromOrderedMap(map[string]int{"cavern": 0})
		require.NoError(t, err)
		_, err = Generate(rng.New(5), GenerateOptions{FloorWeights: floors})
		assert.ErrorIs(t, err, weighted.ErrNoCandidates)
	})

	t.Run("boss weight is ignored", func(t *testing.T) {
		rooms := weighted.NewPool[RoomType]()
		require.NoError(t, rooms.Set(Boss, 100))
		require.NoError(t, rooms.Set(Trap, 1))
		d, err := Generate(rng.New(8), GenerateOptions{RoomWeights: rooms})
		require.NoError(t, err)
		assert.LessOrEqual(t, countTypes(d)[Boss], 1)
		assert.Positive(t, countTypes(d)[Trap])
	})

	t.Run("room pool with only boss fails", func(t *testing.T) {
		rooms := weighted.NewPool[RoomType]()
		require.NoError(t, rooms.Set(Boss, 5))
		_, err := Generate(rng.New(8), GenerateOptions{RoomWeights: rooms})
		assert.ErrorIs(t, err, weighted.ErrNoCandidates)
	})

	t.Run("mob weights are attached", func(t *testing.T) {
		mobs, err := weighted.FromOrderedMap(map[string]int{"slime": 3})
		require.NoError(t, err)
		d, err := Generate(rng.New(8), GenerateOptions{MobWeights: mobs})
		require.NoError(t, err)
		assert.Same(t, mobs, d.MobWeights)
	})

	t.Run("tiny grid", func(t *testing.T) {
		d, err := Generate(rng.New(1), GenerateOptions{Size: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, d.RoomCount())
		assert.NotNil(t, d.CurrentRoom())
	})
}

package weighted

import (
	"errors"
	"math"
	"testing"

	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_Distribution(t *testing.T) {
	p := NewPool[string]()
	require.NoError(t, p.Set("A", 3))
	require.NoError(t, p.Set("B", 1))

	src := rng.New(12345)
	counts := map[string]int{}
	const trials = 20000
	for i := 0; i < trials; i++ {
		k, err := Select(src, p)
		require.NoError(t, err)
		counts[k]++
	}

	// Expect roughly 75% / 25%.
	if counts["A"] < 14500 || counts["A"] > 15500 {
		t.Errorf("expected ~15000 for weight 3, got %d", counts["A"])
	}
	ratio := float64(counts["A"]) / float64(counts["B"])
	assert.InDelta(t, 3.0, ratio, 0.25, "A:B ratio should converge to 3:1")
}

func TestSelect_CumulativeWalk(t *testing.T) {
	p := NewPool[string]()
	require.NoError(t, p.Set("common", 5))
	require.NoError(t, p.Set("rare", 2))
	require.NoError(t, p.Set("epic", 1))

	tests := []struct {
		roll int
		want string
	}{
		{0, "common"},
		{4, "common"},
		{5, "rare"},
		{6, "rare"},
		{7, "epic"},
	}
	for _, tt := range tests {
		got, err := Select(rng.NewScripted(tt.roll), p)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "roll %d", tt.roll)
	}
}

func TestSelect_SkipsZeroWeight(t *testing.T) {
	p := NewPool[int]()
	require.NoError(t, p.Set(1, 0))
	require.NoError(t, p.Set(2, 2))
	require.NoError(t, p.Set(3, 0))
	require.NoError(t, p.Set(4, 1))

	for i := 0; i < 100; i++ {
		k, err := Select(rng.New(int64(i+1)), p)
		require.NoError(t, err)
		if k == 1 || k == 3 {
			t.Fatalf("zero-weight key %d selected", k)
		}
	}

	got, err := Select(rng.NewScripted(2), p)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestSelect_NoCandidates(t *testing.T) {
	tests := []struct {
		name string
		pool *Pool[string]
	}{
		{"nil pool", nil},
		{"empty pool", NewPool[string]()},
		{"all zero", func() *Pool[string] {
			p := NewPool[string]()
			_ = p.Set("a", 0)
			_ = p.Set("b", 0)
			return p
		}()},
	}
	src := rng.New(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				_, err := Select(src, tt.pool)
				if !errors.Is(err, ErrNoCandidates) {
					t.Fatalf("expected ErrNoCandidates, got %v", err)
				}
			}
		})
	}
}

func TestPool_Set(t *testing.T) {
	p := NewPool[string]()
	require.NoError(t, p.Set("a", 1))
	require.NoError(t, p.Set("b", 2))
	require.NoError(t, p.Set("a", 5))

	assert.Equal(t, []string{"a", "b"}, p.Keys(), "update keeps insertion position")
	assert.Equal(t, 5, p.Weight("a"))
	assert.Equal(t, 0, p.Weight("missing"))
	assert.Equal(t, 7, p.Total())
	assert.Equal(t, 2, p.Len())

	err := p.Set("c", -1)
	assert.ErrorIs(t, err, ErrNegativeWeight)
	assert.Equal(t, 2, p.Len())
}

func TestPool_SetRejectsOverflow(t *testing.T) {
	p := NewPool[string]()
	require.NoError(t, p.Set("a", math.MaxInt-10))
	require.NoError(t, p.Set("b", 10))
	assert.Equal(t, math.MaxInt, p.Total())

	err := p.Set("c", 1)
	assert.ErrorIs(t, err, ErrWeightOverflow)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, math.MaxInt, p.Total())

	// Replacing a weight only counts the new value against the total.
	require.NoError(t, p.Set("b", 5))
	require.NoError(t, p.Set("a", math.MaxInt-5))
	assert.ErrorIs(t, p.Set("a", math.MaxInt-4), ErrWeightOverflow)
	assert.Equal(t, math.MaxInt-5, p.Weight("a"))

	_, err = FromOrderedMap(map[string]int{"x": math.MaxInt, "y": 1})
	assert.ErrorIs(t, err, ErrWeightOverflow)
}

func TestFromOrderedMap_Deterministic(t *testing.T) {
	weights := map[string]int{"slime": 3, "goblin": 5, "bat": 1}
	p, err := FromOrderedMap(weights)
	require.NoError(t, err)
	assert.Equal(t, []string{"bat", "goblin", "slime"}, p.Keys())

	// Roll 0 always lands on the first key in sorted order.
	got, err := Select(rng.NewScripted(0), p)
	require.NoError(t, err)
	assert.Equal(t, "bat", got)

	_, err = FromOrderedMap(map[string]int{"bad": -2})
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

package registry

import (
	"testing"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"slime":        "Slime",
		"dwarf_king":   "Dwarf King",
		"iron-ore":     "Iron Ore",
		"__odd__name_": "Odd Name",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, DisplayName(in), "DisplayName(%q)", in)
	}
}

func TestStatRange(t *testing.T) {
	r := StatRange{Min: 3, Max: 7}
	src := rng.New(5)
	for i := 0; i < 200; i++ {
		v := r.Roll(src)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 7)
	}
	assert.Equal(t, StatRange{Min: 5, Max: 11}, r.Scale(1.5))
	assert.Equal(t, 4, StatRange{Min: 4, Max: 4}.Roll(rng.NewScripted()))
}

func TestMobSpec_WithMultiplier(t *testing.T) {
	base := &MobSpec{
		ID:        "goblin",
		Name:      "Goblin",
		MaxHealth: StatRange{10, 20},
		Attack:    StatRange{2, 4},
		Defense:   StatRange{1, 1},
		Gold:      StatRange{5, 10},
		XP:        StatRange{3, 3},
	}
	scaled := base.WithMultiplier(2)
	assert.Equal(t, StatRange{20, 40}, scaled.MaxHealth)
	assert.Equal(t, StatRange{4, 8}, scaled.Attack)
	assert.Equal(t, StatRange{10, 20}, scaled.Gold)
	assert.Equal(t, "Goblin", scaled.Name)
	assert.Equal(t, StatRange{10, 20}, base.MaxHealth, "original is untouched")
}

func TestRegistry_Lookups(t *testing.T) {
	r := New()
	require.NoError(t, r.AddItem(&item.Spec{ID: "copper_ore"}))
	require.NoError(t, r.AddMob(&MobSpec{ID: "slime"}))
	require.NoError(t, r.AddRock(&RockSpec{ID: "iron_rock", Health: 3}))
	require.NoError(t, r.AddDungeon(&DungeonSpec{ID: "old_mine", MobWeights: map[string]int{"slime": 1}}))

	it, err := r.Item("copper_ore")
	require.NoError(t, err)
	assert.Equal(t, "Copper Ore", it.Name)
	assert.Equal(t, item.TypeMaterial, it.Type)

	mob, err := r.Mob("slime")
	require.NoError(t, err)
	assert.Equal(t, "Slime", mob.Name)

	rock, err := r.Rock("iron_rock")
	require.NoError(t, err)
	assert.Equal(t, "Iron Rock", rock.Name)

	d, err := r.Dungeon("old_mine")
	require.NoError(t, err)
	assert.Equal(t, "Old Mine", d.Name)
	assert.Equal(t, []string{"old_mine"}, r.DungeonIDs())

	_, err = r.Item("nope")
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, err = r.Mob("nope")
	assert.ErrorIs(t, err, ErrUnknownMob)
	_, err = r.Rock("nope")
	assert.ErrorIs(t, err, ErrUnknownRock)
	_, err = r.Dungeon("nope")
	assert.ErrorIs(t, err, ErrUnknownDungeon)

	items, mobs, rocks, dungeons := r.Counts()
	assert.Equal(t, []int{1, 1, 1, 1}, []int{items, mobs, rocks, dungeons})
}

func TestRegistry_AddValidation(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.AddItem(nil), ErrMissingID)
	assert.ErrorIs(t, r.AddMob(&MobSpec{}), ErrMissingID)
	assert.ErrorIs(t, r.AddRock(&RockSpec{}), ErrMissingID)
	assert.ErrorIs(t, r.AddDungeon(&DungeonSpec{}), ErrMissingID)
	assert.Error(t, r.AddItem(&item.Spec{ID: "x", Type: "potato"}))

	// Existing names are kept.
	require.NoError(t, r.AddMob(&MobSpec{ID: "dwarf_king", Name: "King Brok"}))
	m, err := r.Mob("dwarf_king")
	require.NoError(t, err)
	assert.Equal(t, "King Brok", m.Name)
}

func TestRegistry_ItemSpawner(t *testing.T) {
	r := New()
	require.NoError(t, r.AddItem(&item.Spec{ID: "coal", Type: item.TypeMaterial, GoldValue: 2}))

	tbl := loot.NewBuilder().
		With("coal", 1, 1, loot.Fixed(3)).
		With("unobtainium", 1, 1, loot.Fixed(1)).
		Build()

	src := rng.New(9)
	drops := tbl.RollDrops(src, 0, r.ItemSpawner(src))
	require.Len(t, drops, 1, "unknown item trial is skipped")
	assert.Equal(t, item.ID("coal"), drops[0].Item.ID)
	assert.Equal(t, "Coal", drops[0].Item.Name)
	assert.Equal(t, 3, drops[0].Quantity)

	_, err := r.SpawnItem(src, "unobtainium")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

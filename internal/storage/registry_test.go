package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadRegistry(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "items"), "coal.json", `{"type": "material", "gold_value": 2}`)
	writeFile(t, filepath.Join(dataDir, "items"), "iron_sword.json", `{"id": "ignored", "type": "weapon", "attack": 8}`)
	writeFile(t, filepath.Join(dataDir, "items"), "broken.json", `{not json`)
	writeFile(t, filepath.Join(dataDir, "items"), "notes.txt", `ignored`)
	writeFile(t, filepath.Join(dataDir, "mobs"), "slime.json", `{
		"max_health": {"min": 5, "max": 8},
		"attack": {"min": 1, "max": 2},
		"loot": [
			{"item": "coal", "numerator": 1, "denominator": 2, "quantity": {"min": 1, "max": 3}},
			{"item": "coal", "numerator": 1, "denominator": 2, "quantity": {"min": 1, "max": 1}},
			{"item": "bad", "numerator": 3, "denominator": 2, "quantity": {"min": 1, "max": 1}}
		]
	}`)
	writeFile(t, filepath.Join(dataDir, "dungeons"), "old_mine.json", `{
		"size": 5,
		"mob_weights": {"slime": 1},
		"room_weights": {"monster": 3, "chest": 1}
	}`)

	reg, err := LoadRegistry(dataDir, testLogger())
	require.NoError(t, err)

	items, mobs, rocks, dungeons := reg.Counts()
	assert.Equal(t, 2, items, "broken and non-json files are skipped")
	assert.Equal(t, 1, mobs)
	assert.Equal(t, 0, rocks, "missing directory is empty")
	assert.Equal(t, 1, dungeons)

	sword, err := reg.Item("iron_sword")
	require.NoError(t, err)
	assert.Equal(t, item.TypeWeapon, sword.Type)
	assert.Equal(t, "Iron Sword", sword.Name)

	slime, err := reg.Mob("slime")
	require.NoError(t, err)
	assert.Equal(t, 1, slime.Loot.Len(), "invalid and duplicate loot rows are dropped")

	mine, err := reg.Dungeon("old_mine")
	require.NoError(t, err)
	assert.Equal(t, "Old Mine", mine.Name)
	assert.Equal(t, 5, mine.Size)
}

func TestLoadRegistry_ShippedData(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "data"), testLogger())
	require.NoError(t, err)

	for _, id := range reg.DungeonIDs() {
		spec, err := reg.Dungeon(id)
		require.NoError(t, err)
		for mob := range spec.MobWeights {
			_, err := reg.Mob(mob)
			assert.NoError(t, err, "dungeon %s references mob %s", id, mob)
		}
		if spec.BossMob != "" {
			_, err := reg.Mob(spec.BossMob)
			assert.NoError(t, err, "dungeon %s boss", id)
		}
		for _, e := range spec.ChestLoot.Entries() {
			_, err := reg.Item(e.Item)
			assert.NoError(t, err, "dungeon %s chest item %s", id, e.Item)
		}
	}
	assert.NotEmpty(t, reg.DungeonIDs())
}

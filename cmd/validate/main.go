package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/dungeon"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
	"github.com/zyedidia/generic/mapset"
)

func main() {
	dataDir := "./data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	validator := NewDataValidator(dataDir)
	if err := validator.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Data files are valid!")
}

// DataValidator strictly checks the JSON spec files under a data directory
// and the references between them.
type DataValidator struct {
	dataDir string
	errors  []string

	items mapset.Set[string]
	mobs  mapset.Set[string]
	rocks mapset.Set[string]
}

func NewDataValidator(dataDir string) *DataValidator {
	return &DataValidator{
		dataDir: dataDir,
		items:   mapset.New[string](),
		mobs:    mapset.New[string](),
		rocks:   mapset.New[string](),
	}
}

// lootRows captures loot tables before the permissive builder filters them.
type lootRows struct {
	Loot      []loot.Entry `json:"loot"`
	ChestLoot []loot.Entry `json:"chest_loot"`
}

// Validate checks every file and returns all problems found.
func (v *DataValidator) Validate() error {
	v.errors = nil

	// Items first so loot rows can be checked against them.
	v.validateDir("items", func(id string, data []byte) {
		var spec item.Spec
		if !v.decodeStrict(id, data, &spec) {
			return
		}
		if spec.Type != "" && !spec.Type.Valid() {
			v.addError(fmt.Sprintf("item %s has invalid type %q", id, spec.Type))
		}
		v.items.Put(id)
	})

	var dungeons []string
	dungeonSpecs := map[string]*registry.DungeonSpec{}

	v.validateDir("mobs", func(id string, data []byte) {
		var spec registry.MobSpec
		if !v.decodeStrict(id, data, &spec) {
			return
		}
		v.validateRange("mob "+id+" max_health", spec.MaxHealth)
		v.validateRange("mob "+id+" attack", spec.Attack)
		v.validateRange("mob "+id+" defense", spec.Defense)
		v.validateRange("mob "+id+" gold", spec.Gold)
		v.validateRange("mob "+id+" xp", spec.XP)
		v.validateLoot("mob "+id, data)
		v.mobs.Put(id)
	})
	v.validateDir("rocks", func(id string, data []byte) {
		var spec registry.RockSpec
		if !v.decodeStrict(id, data, &spec) {
			return
		}
		if spec.Health <= 0 {
			v.addError(fmt.Sprintf("rock %s must have positive health", id))
		}
		v.validateLoot("rock "+id, data)
		v.rocks.Put(id)
	})
	v.validateDir("dungeons", func(id string, data []byte) {
		var spec registry.DungeonSpec
		if !v.decodeStrict(id, data, &spec) {
			return
		}
		v.validateLoot("dungeon "+id, data)
		dungeons = append(dungeons, id)
		dungeonSpecs[id] = &spec
	})
	v.validateDir("players", func(id string, data []byte) {
		var spec actor.PlayerSpec
		if !v.decodeStrict(id, data, &spec) {
			return
		}
		if spec.MaxHP <= 0 {
			v.addError(fmt.Sprintf("player %s must have positive max_hp", id))
		}
		v.validateRange("player "+id+" attack", spec.Attack)
	})

	sort.Strings(dungeons)
	for _, id := range dungeons {
		v.validateDungeon(id, dungeonSpecs[id])
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", v.dataDir, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *DataValidator) validateDir(dir string, check func(id string, data []byte)) {
	path := filepath.Join(v.dataDir, dir)
	entries, err := os.ReadDir(path)
	if err != nil {
		if !os.IsNotExist(err) {
			v.addError(fmt.Sprintf("failed to read %s: %v", path, err))
		}
		return
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			v.addError(fmt.Sprintf("%s/%s must have .json extension", dir, name))
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if !isValidID(id) {
			v.addError(fmt.Sprintf("%s/%s filename must be lowercase snake_case", dir, name))
			continue
		}

		data, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			v.addError(fmt.Sprintf("failed to read %s/%s: %v", dir, name, err))
			continue
		}
		if !json.Valid(data) {
			v.addError(fmt.Sprintf("%s/%s contains invalid JSON", dir, name))
			continue
		}
		check(id, data)
	}
}

func (v *DataValidator) decodeStrict(id string, data []byte, target any) bool {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		v.addError(fmt.Sprintf("%s failed strict JSON unmarshaling: %v", id, err))
		return false
	}
	return true
}

func (v *DataValidator) validateRange(field string, r registry.StatRange) {
	if r.Min > r.Max {
		v.addError(fmt.Sprintf("%s has min %d above max %d", field, r.Min, r.Max))
	}
}

// validateLoot reports rows the loader would silently drop, and rows naming unknown items.
func (v *DataValidator) validateLoot(owner string, data []byte) {
	var rows lootRows
	if err := json.Unmarshal(data, &rows); err != nil {
		v.addError(fmt.Sprintf("%s loot: %v", owner, err))
		return
	}
	for _, table := range [][]loot.Entry{rows.Loot, rows.ChestLoot} {
		seen := mapset.New[item.ID]()
		for _, e := range table {
			if err := e.Validate(); err != nil {
				v.addError(fmt.Sprintf("%s loot row %s: %v", owner, e.Item, err))
			}
			if seen.Has(e.Item) {
				v.addError(fmt.Sprintf("%s loot lists %s more than once", owner, e.Item))
			}
			seen.Put(e.Item)
			if !v.items.Has(string(e.Item)) {
				v.addError(fmt.Sprintf("%s loot references unknown item %s", owner, e.Item))
			}
		}
	}
}

func (v *DataValidator) validateDungeon(id string, spec *registry.DungeonSpec) {
	if spec.Size < 0 {
		v.addError(fmt.Sprintf("dungeon %s has negative size", id))
	}
	if len(spec.MobWeights) == 0 {
		v.addError(fmt.Sprintf("dungeon %s has no mob_weights", id))
	}
	v.validateWeights("dungeon "+id+" mob", spec.MobWeights, &v.mobs)
	v.validateWeights("dungeon "+id+" rock", spec.RockWeights, &v.rocks)
	v.validateWeights("dungeon "+id+" floor", spec.FloorWeights, nil)

	for name, w := range spec.RoomWeights {
		if _, err := dungeon.ParseRoomType(name); err != nil {
			v.addError(fmt.Sprintf("dungeon %s: %v", id, err))
		}
		if w < 0 {
			v.addError(fmt.Sprintf("dungeon %s room weight %s is negative", id, name))
		}
	}

	if spec.BossMob == "" {
		v.addError(fmt.Sprintf("dungeon %s has no boss_mob", id))
	} else if !v.mobs.Has(spec.BossMob) {
		v.addError(fmt.Sprintf("dungeon %s boss_mob references unknown mob %s", id, spec.BossMob))
	}
}

// validateWeights checks weights are non-negative and, when known is set, that every key exists.
func (v *DataValidator) validateWeights(field string, weights map[string]int, known *mapset.Set[string]) {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if weights[k] < 0 {
			v.addError(fmt.Sprintf("%s weight %s is negative", field, k))
		}
		if known != nil && !known.Has(k) {
			v.addError(fmt.Sprintf("%s weight references unknown id %s", field, k))
		}
	}
}

func (v *DataValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

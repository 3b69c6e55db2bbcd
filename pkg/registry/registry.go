// Package registry holds the static item, mob, rock and dungeon specs that
// live entities are instantiated from.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrUnknownItem    = errors.New("unknown item")
	ErrUnknownMob     = errors.New("unknown mob")
	ErrUnknownRock    = errors.New("unknown rock")
	ErrUnknownDungeon = errors.New("unknown dungeon")
	ErrMissingID      = errors.New("spec id is required")
)

// Registry is an in-memory spec store keyed by id.
// It is populated once at startup and read-only afterwards.
type Registry struct {
	items    map[item.ID]*item.Spec
	mobs     map[string]*MobSpec
	rocks    map[string]*RockSpec
	dungeons map[string]*DungeonSpec
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		items:    make(map[item.ID]*item.Spec),
		mobs:     make(map[string]*MobSpec),
		rocks:    make(map[string]*RockSpec),
		dungeons: make(map[string]*DungeonSpec),
	}
}

// DisplayName turns an id like "dwarf_king" into "Dwarf King".
func DisplayName(id string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(id))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// AddItem registers an item spec, replacing any spec with the same id.
func (r *Registry) AddItem(spec *item.Spec) error {
	if spec == nil || spec.ID == "" {
		return ErrMissingID
	}
	if spec.Name == "" {
		spec.Name = DisplayName(string(spec.ID))
	}
	if spec.Type == "" {
		spec.Type = item.TypeMaterial
	}
	if !spec.Type.Valid() {
		return fmt.Errorf("item %s: invalid type %q", spec.ID, spec.Type)
	}
	r.items[spec.ID] = spec
	return nil
}

// AddMob registers a mob spec.
func (r *Registry) AddMob(spec *MobSpec) error {
	if spec == nil || spec.ID == "" {
		return ErrMissingID
	}
	if spec.Name == "" {
		spec.Name = DisplayName(spec.ID)
	}
	r.mobs[spec.ID] = spec
	return nil
}

// AddRock registers a rock spec.
func (r *Registry) AddRock(spec *RockSpec) error {
	if spec == nil || spec.ID == "" {
		return ErrMissingID
	}
	if spec.Name == "" {
		spec.Name = DisplayName(spec.ID)
	}
	r.rocks[spec.ID] = spec
	return nil
}

// AddDungeon registers a dungeon spec.
func (r *Registry) AddDungeon(spec *DungeonSpec) error {
	if spec == nil || spec.ID == "" {
		return ErrMissingID
	}
	if spec.Name == "" {
		spec.Name = DisplayName(spec.ID)
	}
	r.dungeons[spec.ID] = spec
	return nil
}

// Item returns the item spec for id.
func (r *Registry) Item(id item.ID) (*item.Spec, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return s, nil
}

// Mob returns the mob spec for id.
func (r *Registry) Mob(id string) (*MobSpec, error) {
	s, ok := r.mobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMob, id)
	}
	return s, nil
}

// Rock returns the rock spec for id.
func (r *Registry) Rock(id string) (*RockSpec, error) {
	s, ok := r.rocks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRock, id)
	}
	return s, nil
}

// Dungeon returns the dungeon spec for id.
func (r *Registry) Dungeon(id string) (*DungeonSpec, error) {
	s, ok := r.dungeons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDungeon, id)
	}
	return s, nil
}

// DungeonIDs returns the registered dungeon ids in sorted order.
func (r *Registry) DungeonIDs() []string {
	ids := make([]string, 0, len(r.dungeons))
	for id := range r.dungeons {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Counts reports how many specs of each kind are registered.
func (r *Registry) Counts() (items, mobs, rocks, dungeons int) {
	return len(r.items), len(r.mobs), len(r.rocks), len(r.dungeons)
}

// SpawnItem instantiates a live item from its spec.
func (r *Registry) SpawnItem(src rng.Source, id item.ID) (item.Item, error) {
	spec, err := r.Item(id)
	if err != nil {
		return item.Item{}, err
	}
	return item.Spawn(src, spec), nil
}

// ItemSpawner adapts the registry to the loot spawner signature.
// Unknown ids report false so the loot trial is skipped.
func (r *Registry) ItemSpawner(src rng.Source) loot.Spawner {
	return func(id item.ID) (item.Item, bool) {
		it, err := r.SpawnItem(src, id)
		if err != nil {
			return item.Item{}, false
		}
		return it, true
	}
}

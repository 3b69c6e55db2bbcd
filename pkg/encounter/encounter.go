// Package encounter turns weighted pools into live encounters using the
// spec registry. An empty pool is an error, never a default entity.
package encounter

import (
	"cmp"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/dungeon"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/jwebster45206/dungeon-engine/pkg/weighted"
)

// Spawner resolves pools against a registry.
type Spawner struct {
	registry *registry.Registry
	src      rng.Source
	logger   *slog.Logger
}

// NewSpawner creates a Spawner. A nil logger uses slog.Default().
func NewSpawner(reg *registry.Registry, src rng.Source, logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{registry: reg, src: src, logger: logger}
}

// Registry returns the registry the spawner reads from.
func (s *Spawner) Registry() *registry.Registry {
	return s.registry
}

// Source returns the spawner's random source.
func (s *Spawner) Source() rng.Source {
	return s.src
}

// SpawnMob selects a mob id from pool and instantiates it.
func (s *Spawner) SpawnMob(pool *weighted.Pool[string]) (*actor.Mob, error) {
	id, err := weighted.Select(s.src, pool)
	if err != nil {
		s.logger.Debug("mob spawn failed", "error", err)
		return nil, fmt.Errorf("spawn mob: %w", err)
	}
	spec, err := s.registry.Mob(id)
	if err != nil {
		s.logger.Debug("mob spawn failed", "mob_id", id, "error", err)
		return nil, fmt.Errorf("spawn mob: %w", err)
	}
	m := actor.NewMob(s.src, spec)
	s.logger.Debug("mob spawned", "mob_id", id, "hp", m.HP, "defense", m.Defense)
	return m, nil
}

// SpawnBoss instantiates the boss mob with the given id.
func (s *Spawner) SpawnBoss(id string) (*actor.Mob, error) {
	spec, err := s.registry.Mob(id)
	if err != nil {
		return nil, fmt.Errorf("spawn boss: %w", err)
	}
	m := actor.NewMob(s.src, spec)
	m.Boss = true
	s.logger.Debug("boss spawned", "mob_id", id, "hp", m.HP)
	return m, nil
}

// SpawnRock selects a rock id from pool and instantiates it.
func (s *Spawner) SpawnRock(pool *weighted.Pool[string]) (*actor.Rock, error) {
	id, err := weighted.Select(s.src, pool)
	if err != nil {
		return nil, fmt.Errorf("spawn rock: %w", err)
	}
	spec, err := s.registry.Rock(id)
	if err != nil {
		return nil, fmt.Errorf("spawn rock: %w", err)
	}
	return actor.NewRock(spec), nil
}

// SelectFloor picks a floor type from pool.
func (s *Spawner) SelectFloor(pool *weighted.Pool[string]) (string, error) {
	floor, err := weighted.Select(s.src, pool)
	if err != nil {
		return "", fmt.Errorf("select floor: %w", err)
	}
	return floor, nil
}

// SelectRoomType picks a room type from pool.
func (s *Spawner) SelectRoomType(pool *weighted.Pool[dungeon.RoomType]) (dungeon.RoomType, error) {
	t, err := weighted.Select(s.src, pool)
	if err != nil {
		return dungeon.Monster, fmt.Errorf("select room type: %w", err)
	}
	return t, nil
}

// Pools are the weighted pools a dungeon spec defines.
type Pools struct {
	Mobs   *weighted.Pool[string]
	Rocks  *weighted.Pool[string]
	Floors *weighted.Pool[string]
	Rooms  *weighted.Pool[dungeon.RoomType]
}

// PoolsFromSpec builds ordered pools from the spec's weight maps.
// Keys are inserted in sorted order so selection is reproducible for a seed.
func PoolsFromSpec(spec *registry.DungeonSpec) (Pools, error) {
	var p Pools
	var err error
	if p.Mobs, err = weighted.FromOrderedMap(spec.MobWeights); err != nil {
		return Pools{}, fmt.Errorf("mob weights: %w", err)
	}
	if p.Rocks, err = weighted.FromOrderedMap(spec.RockWeights); err != nil {
		return Pools{}, fmt.Errorf("rock weights: %w", err)
	}
	if p.Floors, err = weighted.FromOrderedMap(spec.FloorWeights); err != nil {
		return Pools{}, fmt.Errorf("floor weights: %w", err)
	}

	rooms := make(map[dungeon.RoomType]int, len(spec.RoomWeights))
	for name, w := range spec.RoomWeights {
		t, err := dungeon.ParseRoomType(name)
		if err != nil {
			return Pools{}, fmt.Errorf("room weights: %w", err)
		}
		rooms[t] = w
	}
	if p.Rooms, err = weighted.FromMap(rooms, cmp.Compare[dungeon.RoomType]); err != nil {
		return Pools{}, fmt.Errorf("room weights: %w", err)
	}
	return p, nil
}

// GenerateDungeon builds a fresh dungeon for spec.
func (s *Spawner) GenerateDungeon(spec *registry.DungeonSpec) (*dungeon.Dungeon, error) {
	pools, err := PoolsFromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("dungeon %s: %w", spec.ID, err)
	}
	d, err := dungeon.Generate(s.src, dungeon.GenerateOptions{
		Name:         spec.Name,
		Size:         spec.Size,
		RoomWeights:  pools.Rooms,
		MobWeights:   pools.Mobs,
		RockWeights:  pools.Rocks,
		FloorWeights: pools.Floors,
		ChestLoot:    spec.ChestLoot,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("dungeon %s: %w", spec.ID, err)
	}
	return d, nil
}

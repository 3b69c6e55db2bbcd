package registry

import (
	"math"

	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

// StatRange is an inclusive stat range rolled when an entity spawns.
type StatRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Roll draws a value uniformly from the range.
func (r StatRange) Roll(src rng.Source) int {
	return rng.Range(src, r.Min, r.Max)
}

// Scale multiplies both bounds, rounding to the nearest integer.
func (r StatRange) Scale(f float64) StatRange {
	return StatRange{
		Min: int(math.Round(float64(r.Min) * f)),
		Max: int(math.Round(float64(r.Max) * f)),
	}
}

// MobSpec is the static definition of a mob.
type MobSpec struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Boss      bool        `json:"boss,omitempty"`
	MaxHealth StatRange   `json:"max_health"`
	Attack    StatRange   `json:"attack"`
	Defense   StatRange   `json:"defense"`
	Gold      StatRange   `json:"gold"`
	XP        StatRange   `json:"xp"`
	Loot      *loot.Table `json:"loot,omitempty"`
}

// WithMultiplier returns a copy of the spec with every stat range scaled by f.
// Name, boss flag and loot are kept.
func (s *MobSpec) WithMultiplier(f float64) *MobSpec {
	scaled := *s
	scaled.MaxHealth = s.MaxHealth.Scale(f)
	scaled.Attack = s.Attack.Scale(f)
	scaled.Defense = s.Defense.Scale(f)
	scaled.Gold = s.Gold.Scale(f)
	scaled.XP = s.XP.Scale(f)
	return &scaled
}

// RockSpec is the static definition of a mineable rock.
type RockSpec struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Health int         `json:"health"`
	Loot   *loot.Table `json:"loot,omitempty"`
}

// DungeonSpec configures generation and encounters for one dungeon.
type DungeonSpec struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Size         int            `json:"size,omitempty"`          // Grid width and height; 0 uses the default
	MobWeights   map[string]int `json:"mob_weights"`             // Mob id -> spawn weight
	RockWeights  map[string]int `json:"rock_weights,omitempty"`  // Rock id -> spawn weight
	RoomWeights  map[string]int `json:"room_weights,omitempty"`  // Room type name -> weight; empty uses the default mix
	FloorWeights map[string]int `json:"floor_weights,omitempty"` // Floor type -> weight
	BossMob      string         `json:"boss_mob,omitempty"`
	ChestLoot    *loot.Table    `json:"chest_loot,omitempty"`
}

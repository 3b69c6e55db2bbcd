package actor

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

// PlayerSpec is the serializable specification for the player.
// HP of 0 means full health. Defense is stored on the actor as AC above baseAC.
// GoldFind is a percent bonus to gold from kills; every 100 MagicFind
// grants one extra loot attempt per entry.
type PlayerSpec struct {
	ID         string             `json:"id"`
	Name       string             `json:"name,omitempty"`
	HP         int                `json:"hp,omitempty"`
	MaxHP      int                `json:"max_hp"`
	Defense    int                `json:"defense,omitempty"`
	Attack     registry.StatRange `json:"attack"`
	GoldFind   int                `json:"goldfind,omitempty"`
	MagicFind  int                `json:"magicfind,omitempty"`
	Gold       int                `json:"gold,omitempty"`
	XP         int                `json:"xp,omitempty"`
	Attributes map[string]int     `json:"attributes,omitempty"` // Skills, proficiencies, etc.
}

// baseAC is the armor class of an unarmored actor. Defense is the bonus above it.
const baseAC = 10

// Player is the runtime representation of the player for one session.
// Health and defense live on the d20 actor; gold and XP are tracked here.
type Player struct {
	Spec  *PlayerSpec
	Actor *d20.Actor // Built at runtime from PlayerSpec

	hp   int
	gold int
	xp   int
}

// NewPlayerFromSpec creates a Player from a PlayerSpec
func NewPlayerFromSpec(spec *PlayerSpec) (*Player, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	if spec.MaxHP <= 0 {
		return nil, fmt.Errorf("max_hp must be positive, got %d", spec.MaxHP)
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}

	attrs := make(map[string]int, len(spec.Attributes))
	maps.Copy(attrs, spec.Attributes)

	actor, err := d20.NewActor(spec.ID).
		WithHP(spec.MaxHP).
		WithAC(baseAC+max(spec.Defense, 0)).
		WithAttributes(attrs).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	p := &Player{
		Spec:  spec,
		Actor: actor,
		hp:    spec.MaxHP,
		gold:  spec.Gold,
		xp:    spec.XP,
	}
	if spec.HP > 0 && spec.HP < spec.MaxHP {
		p.setHP(spec.HP)
	}
	return p, nil
}

// LoadPlayer loads a player from a JSON file.
// The filename (without .json extension) overrides any ID in the JSON
func LoadPlayer(path string) (*Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read player file: %w", err)
	}

	var spec PlayerSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player spec: %w", err)
	}
	spec.ID = strings.TrimSuffix(filepath.Base(path), ".json")

	return NewPlayerFromSpec(&spec)
}

// setHP keeps the local counter authoritative and mirrors it onto the actor.
// d20 may refuse some values (such as 0); the local counter is kept regardless.
func (p *Player) setHP(hp int) {
	p.hp = min(max(hp, 0), p.MaxHP())
	_ = p.Actor.SetHP(p.hp)
}

// ID returns the player's id.
func (p *Player) ID() string { return p.Spec.ID }

// Name returns the display name, falling back to the id.
func (p *Player) Name() string {
	if p.Spec.Name != "" {
		return p.Spec.Name
	}
	return p.Spec.ID
}

// HP returns current health.
func (p *Player) HP() int { return p.hp }

// MaxHP returns maximum health.
func (p *Player) MaxHP() int { return p.Actor.MaxHP() }

// Defense returns the player's defense, read from the actor's AC.
func (p *Player) Defense() int { return p.Actor.AC() - baseAC }

// GoldFind returns the percent gold bonus.
func (p *Player) GoldFind() int { return p.Spec.GoldFind }

// MagicFind returns the loot bonus-roll stat.
func (p *Player) MagicFind() int { return p.Spec.MagicFind }

// Gold returns gold earned so far.
func (p *Player) Gold() int { return p.gold }

// XP returns experience earned so far.
func (p *Player) XP() int { return p.xp }

// IsAlive reports whether the player has health left.
func (p *Player) IsAlive() bool { return p.hp > 0 }

// IsFullHealth reports whether health is at maximum.
func (p *Player) IsFullHealth() bool { return p.hp >= p.MaxHP() }

// TakeDamage reduces health, never below 0.
func (p *Player) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	p.setHP(p.hp - n)
}

// Heal restores up to n health, capped at max, and returns the amount healed.
func (p *Player) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	before := p.hp
	p.setHP(p.hp + n)
	return p.hp - before
}

// HealPercent heals a fraction of max health, rounded, and returns the amount healed.
func (p *Player) HealPercent(fraction float64) int {
	return p.Heal(int(math.Round(float64(p.MaxHP()) * fraction)))
}

// RestoreFull sets health back to max.
func (p *Player) RestoreFull() {
	p.setHP(p.MaxHP())
}

// AddGold adds gold; negative amounts are ignored.
func (p *Player) AddGold(n int) {
	if n > 0 {
		p.gold += n
	}
}

// GainXP adds experience; negative amounts are ignored.
func (p *Player) GainXP(n int) {
	if n > 0 {
		p.xp += n
	}
}

// RollAttack returns the raw damage of one hit, before defense.
func (p *Player) RollAttack(src rng.Source) int {
	return p.Spec.Attack.Roll(src)
}

// Snapshot returns a spec reflecting the player's current state.
func (p *Player) Snapshot() PlayerSpec {
	s := *p.Spec
	s.HP = p.hp
	s.MaxHP = p.MaxHP()
	s.Defense = p.Defense()
	s.Gold = p.gold
	s.XP = p.xp
	return s
}

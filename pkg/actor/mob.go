package actor

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

// Mob is a live creature spawned from a MobSpec.
// Gold and XP stay as ranges and are rolled when the mob dies.
type Mob struct {
	UUID    uuid.UUID          `json:"uuid"`
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Boss    bool               `json:"boss,omitempty"`
	HP      int                `json:"hp"`
	MaxHP   int                `json:"max_hp"`
	Attack  registry.StatRange `json:"attack"`
	Defense int                `json:"defense"`
	Gold    registry.StatRange `json:"gold"`
	XP      registry.StatRange `json:"xp"`
	Loot    *loot.Table        `json:"loot,omitempty"`
}

// NewMob rolls a mob instance from its spec. Health and defense are rolled
// once; the attack range is kept for per-hit rolls.
func NewMob(src rng.Source, spec *registry.MobSpec) *Mob {
	if spec == nil {
		return nil
	}
	hp := spec.MaxHealth.Roll(src)
	if hp < 1 {
		hp = 1
	}
	return &Mob{
		UUID:    uuid.New(),
		ID:      spec.ID,
		Name:    spec.Name,
		Boss:    spec.Boss,
		HP:      hp,
		MaxHP:   hp,
		Attack:  spec.Attack,
		Defense: spec.Defense.Roll(src),
		Gold:    spec.Gold,
		XP:      spec.XP,
		Loot:    spec.Loot,
	}
}

// TakeDamage reduces the mob's HP by the specified amount.
// HP cannot go below 0.
func (m *Mob) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	m.HP -= n
	if m.HP < 0 {
		m.HP = 0
	}
}

// Heal increases the mob's HP by the specified amount.
// HP cannot exceed MaxHP.
func (m *Mob) Heal(n int) {
	if n <= 0 {
		return
	}
	m.HP += n
	if m.HP > m.MaxHP {
		m.HP = m.MaxHP
	}
}

// IsDefeated returns true if the mob's HP is 0 or less.
func (m *Mob) IsDefeated() bool {
	return m.HP <= 0
}

// RollAttack returns the raw damage of one hit, before defense.
func (m *Mob) RollAttack(src rng.Source) int {
	return m.Attack.Roll(src)
}

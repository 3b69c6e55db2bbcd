// Package combat holds the damage and reward arithmetic shared by boss
// fights and the reference fight loop.
package combat

import (
	"math"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

// DefenseConstant controls diminishing returns: defense equal to the constant halves damage.
const DefenseConstant = 50.0

// DamageReduction returns the fraction of damage removed by defense, in [0,1).
// Negative defense counts as 0.
func DamageReduction(defense int) float64 {
	d := float64(max(defense, 0))
	return d / (d + DefenseConstant)
}

// ApplyDefense reduces raw damage by the defender's defense, rounding to the nearest point.
func ApplyDefense(raw, defense int) int {
	return int(math.Round(float64(raw) * (1 - DamageReduction(defense))))
}

// ApplyGoldFind scales base gold by a percentage bonus. 100 gold find doubles gold.
func ApplyGoldFind(base, goldFind int) int {
	return int(math.Round(float64(base) * (1 + float64(goldFind)/100)))
}

// ExchangeResult describes one round: the player strikes, then the mob
// strikes back if it survived.
type ExchangeResult struct {
	PlayerDamage   int  `json:"player_damage"` // dealt by the player
	MobDamage      int  `json:"mob_damage"`    // dealt by the mob
	MobCountered   bool `json:"mob_countered"`
	MobDefeated    bool `json:"mob_defeated"`
	PlayerDefeated bool `json:"player_defeated"`
}

// Exchange resolves one round between the player and a mob.
func Exchange(src rng.Source, p *actor.Player, m *actor.Mob) ExchangeResult {
	var res ExchangeResult

	res.PlayerDamage = ApplyDefense(p.RollAttack(src), m.Defense)
	m.TakeDamage(res.PlayerDamage)
	if m.IsDefeated() {
		res.MobDefeated = true
		return res
	}

	res.MobCountered = true
	res.MobDamage = ApplyDefense(m.RollAttack(src), p.Defense())
	p.TakeDamage(res.MobDamage)
	res.PlayerDefeated = !p.IsAlive()
	return res
}

// Rewards are what a defeated mob grants.
type Rewards struct {
	Gold  int         `json:"gold"`
	XP    int         `json:"xp"`
	Drops []loot.Drop `json:"drops,omitempty"`
}

// DeathRewards rolls gold, XP and loot for a defeated mob and credits
// gold and XP to the player. Drops are returned for the inventory.
func DeathRewards(src rng.Source, m *actor.Mob, p *actor.Player, spawn loot.Spawner) Rewards {
	r := Rewards{
		Gold: ApplyGoldFind(m.Gold.Roll(src), p.GoldFind()),
		XP:   m.XP.Roll(src),
	}
	if m.Loot != nil {
		r.Drops = m.Loot.RollDrops(src, p.MagicFind(), spawn)
	}
	p.AddGold(r.Gold)
	p.GainXP(r.XP)
	return r
}

// maxRounds bounds Fight so zero-damage matchups terminate.
const maxRounds = 1000

// FightResult summarizes a fight resolved by Fight.
type FightResult struct {
	Victory bool `json:"victory"`
	Rounds  int  `json:"rounds"`
	Dealt   int  `json:"dealt"`
	Taken   int  `json:"taken"`
	Stalled bool `json:"stalled,omitempty"` // neither side could finish within maxRounds
}

// Fight repeats exchanges until one side falls. It does not grant rewards;
// callers use DeathRewards on victory.
func Fight(src rng.Source, p *actor.Player, m *actor.Mob) FightResult {
	var res FightResult
	for res.Rounds < maxRounds {
		res.Rounds++
		ex := Exchange(src, p, m)
		res.Dealt += ex.PlayerDamage
		res.Taken += ex.MobDamage
		if ex.MobDefeated {
			res.Victory = true
			return res
		}
		if ex.PlayerDefeated {
			return res
		}
	}
	res.Stalled = true
	return res
}

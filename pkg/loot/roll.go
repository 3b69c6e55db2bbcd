package loot

import (
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

// Drop is a freshly spawned item and the quantity that dropped.
type Drop struct {
	Item     item.Item `json:"item"`
	Quantity int       `json:"quantity"`
}

// Spawner instantiates an item by id. It returns false for unknown items.
type Spawner func(id item.ID) (item.Item, bool)

// BonusRolls converts magic find into extra loot attempts.
// Every full 100 points is a guaranteed roll; the remainder is the percent
// chance of one more.
func BonusRolls(src rng.Source, magicFind int) int {
	if magicFind <= 0 {
		return 0
	}
	guaranteed := magicFind / 100
	remainder := magicFind % 100
	if remainder > 0 && rng.Chance(src, remainder, 100) {
		return guaranteed + 1
	}
	return guaranteed
}

// RollDrops resolves the table once. Each entry is tried 1+BonusRolls times;
// the bonus count is drawn once and shared by every entry. At most one drop
// is returned per entry, in entry order. Trials whose item cannot be spawned
// are skipped.
func (t *Table) RollDrops(src rng.Source, magicFind int, spawn Spawner) []Drop {
	if t.IsEmpty() {
		return nil
	}
	totalRolls := 1 + BonusRolls(src, magicFind)

	var drops []Drop
	for _, e := range t.entries {
		if best, ok := rollEntry(src, e, totalRolls, spawn); ok {
			drops = append(drops, best)
		}
	}
	return drops
}

func rollEntry(src rng.Source, e Entry, rolls int, spawn Spawner) (Drop, bool) {
	var best Drop
	found := false
	for i := 0; i < rolls; i++ {
		if !rng.Chance(src, e.Numerator, e.Denominator) {
			continue
		}
		it, ok := spawn(e.Item)
		if !ok {
			continue
		}
		d := Drop{Item: it, Quantity: e.Quantity.Roll(src)}
		if !found {
			best, found = d, true
			continue
		}
		best = better(best, d)
	}
	return best, found
}

// better keeps the existing drop unless the candidate is strictly better:
// higher quality for equipment, higher quantity otherwise.
func better(existing, candidate Drop) Drop {
	if existing.Item.Type.IsEquipment() {
		if candidate.Item.Quality > existing.Item.Quality {
			return candidate
		}
		return existing
	}
	if candidate.Quantity > existing.Quantity {
		return candidate
	}
	return existing
}

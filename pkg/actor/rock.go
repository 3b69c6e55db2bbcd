package actor

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/registry"
)

// Rock is a mineable node. Its loot is rolled once it is depleted.
type Rock struct {
	UUID  uuid.UUID   `json:"uuid"`
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	HP    int         `json:"hp"`
	MaxHP int         `json:"max_hp"`
	Loot  *loot.Table `json:"loot,omitempty"`
}

// NewRock creates a rock at full health from its spec.
func NewRock(spec *registry.RockSpec) *Rock {
	if spec == nil {
		return nil
	}
	hp := max(spec.Health, 1)
	return &Rock{
		UUID:  uuid.New(),
		ID:    spec.ID,
		Name:  spec.Name,
		HP:    hp,
		MaxHP: hp,
		Loot:  spec.Loot,
	}
}

// Mine applies one strike and reports whether this strike depleted the rock.
// Striking an already depleted rock does nothing.
func (r *Rock) Mine(damage int) bool {
	if r.IsDepleted() || damage <= 0 {
		return false
	}
	r.HP -= damage
	if r.HP < 0 {
		r.HP = 0
	}
	return r.HP == 0
}

// IsDepleted reports whether the rock has been mined out.
func (r *Rock) IsDepleted() bool {
	return r.HP <= 0
}

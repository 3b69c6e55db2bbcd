// Package item defines item specs and the live item instances spawned from them.
package item

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/jwebster45206/dungeon-engine/pkg/weighted"
)

// ID identifies an item spec in the registry (e.g. "copper_ore").
type ID string

// Type is the broad kind of an item.
type Type string

const (
	TypeWeapon     Type = "weapon"
	TypeArmor      Type = "armor"
	TypeShield     Type = "shield"
	TypeMaterial   Type = "material"
	TypeConsumable Type = "consumable"
	TypeUpgrade    Type = "upgrade"
)

// IsEquipment reports whether items of this type can be equipped.
// Equipment carries a quality that scales its stats.
func (t Type) IsEquipment() bool {
	switch t {
	case TypeWeapon, TypeArmor, TypeShield:
		return true
	}
	return false
}

// Valid reports whether t is a known item type.
func (t Type) Valid() bool {
	switch t {
	case TypeWeapon, TypeArmor, TypeShield, TypeMaterial, TypeConsumable, TypeUpgrade:
		return true
	}
	return false
}

// Quality is the craftsmanship tier of an item, ordered from worst to best.
type Quality int

const (
	Poor Quality = iota
	Normal
	Improved
	WellForged
	Masterworked
	Mythic
)

var qualityNames = [...]string{"Poor", "Normal", "Improved", "WellForged", "Masterworked", "Mythic"}

// AllQualities lists every quality in ascending order.
func AllQualities() []Quality {
	return []Quality{Poor, Normal, Improved, WellForged, Masterworked, Mythic}
}

func (q Quality) String() string {
	if q < Poor || q > Mythic {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// ParseQuality converts a quality name into a Quality.
func ParseQuality(s string) (Quality, error) {
	for i, name := range qualityNames {
		if name == s {
			return Quality(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown item quality %q", s)
}

// MarshalJSON encodes the quality by name.
func (q Quality) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON decodes a quality name.
func (q *Quality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseQuality(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Multiplier scales equipment attack and defense.
func (q Quality) Multiplier() float64 {
	switch q {
	case Poor:
		return 0.8
	case Improved:
		return 1.2
	case WellForged:
		return 1.4
	case Masterworked:
		return 1.6
	case Mythic:
		return 1.8
	}
	return 1.0
}

// ValueMultiplier scales the gold value of an item.
func (q Quality) ValueMultiplier() float64 {
	switch q {
	case Poor:
		return 0.8
	case Improved:
		return 1.1
	case WellForged:
		return 1.2
	case Masterworked:
		return 1.3
	case Mythic:
		return 1.4
	}
	return 1.0
}

// Next returns the next quality tier, or q itself at Mythic.
func (q Quality) Next() Quality {
	if q >= Mythic {
		return Mythic
	}
	return q + 1
}

// qualityWeights is the drop distribution for rolled qualities.
var qualityWeights = []struct {
	q      Quality
	weight int
}{
	{Poor, 10},
	{Normal, 55},
	{Improved, 20},
	{WellForged, 9},
	{Masterworked, 5},
	{Mythic, 1},
}

// QualityPool returns a fresh weighted pool of the default quality distribution.
func QualityPool() *weighted.Pool[Quality] {
	p := weighted.NewPool[Quality]()
	for _, w := range qualityWeights {
		_ = p.Set(w.q, w.weight) // weights are constant and non-negative
	}
	return p
}

// RollQuality draws a quality from the default distribution.
func RollQuality(src rng.Source) Quality {
	q, err := weighted.Select(src, QualityPool())
	if err != nil {
		return Normal
	}
	return q
}

// Spec is the static definition of an item, loaded from data files.
type Spec struct {
	ID        ID       `json:"id"`
	Name      string   `json:"name"`
	Type      Type     `json:"type"`
	Quality   *Quality `json:"quality,omitempty"` // Fixed quality; nil means roll on spawn
	Attack    int      `json:"attack,omitempty"`
	Defense   int      `json:"defense,omitempty"`
	GoldValue int      `json:"gold_value,omitempty"`
	MaxStack  int      `json:"max_stack,omitempty"`
}

// Item is a live, spawned instance of a Spec.
type Item struct {
	UUID      uuid.UUID `json:"uuid"`
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Quality   Quality   `json:"quality"`
	Attack    int       `json:"attack,omitempty"`
	Defense   int       `json:"defense,omitempty"`
	GoldValue int       `json:"gold_value,omitempty"`
}

// Spawn instantiates an item from its spec.
// A fixed spec quality is used as-is; otherwise one is rolled.
// Equipment stats are scaled by the quality multiplier.
func Spawn(src rng.Source, spec *Spec) Item {
	quality := Normal
	if spec.Quality != nil {
		quality = *spec.Quality
	} else if spec.Type.IsEquipment() {
		quality = RollQuality(src)
	}

	it := Item{
		UUID:      uuid.New(),
		ID:        spec.ID,
		Name:      spec.Name,
		Type:      spec.Type,
		Quality:   quality,
		Attack:    spec.Attack,
		Defense:   spec.Defense,
		GoldValue: spec.GoldValue,
	}
	if spec.Type.IsEquipment() {
		it.Attack = scale(spec.Attack, quality.Multiplier())
		it.Defense = scale(spec.Defense, quality.Multiplier())
	}
	return it
}

// Value returns the gold value of the item adjusted by quality.
func (i Item) Value() int {
	return scale(i.GoldValue, i.Quality.ValueMultiplier())
}

// SellPrice is half the item's value, rounded down.
func (i Item) SellPrice() int {
	return i.Value() / 2
}

func scale(n int, f float64) int {
	return int(math.Round(float64(n) * f))
}

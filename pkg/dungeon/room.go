package dungeon

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
)

// RoomType is what a room offers when entered.
type RoomType int

const (
	Monster RoomType = iota
	Boss
	Rest
	Trap
	Chest
	Treasure
)

var roomTypeNames = [...]string{"Monster", "Boss", "Rest", "Trap", "Chest", "Treasure"}

// AllRoomTypes lists every room type.
func AllRoomTypes() []RoomType {
	return []RoomType{Monster, Boss, Rest, Trap, Chest, Treasure}
}

func (t RoomType) String() string {
	if t < Monster || t > Treasure {
		return fmt.Sprintf("RoomType(%d)", int(t))
	}
	return roomTypeNames[t]
}

// ParseRoomType converts a room type name, case-insensitively.
func ParseRoomType(s string) (RoomType, error) {
	for i, name := range roomTypeNames {
		if strings.EqualFold(name, s) {
			return RoomType(i), nil
		}
	}
	return Monster, fmt.Errorf("unknown room type %q", s)
}

// MarshalText encodes the room type by name.
func (t RoomType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a room type name.
func (t *RoomType) UnmarshalText(text []byte) error {
	parsed, err := ParseRoomType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// HasChest reports whether rooms of this type carry a loot container.
func (t RoomType) HasChest() bool {
	return t == Chest || t == Treasure
}

// Room is one occupied grid cell.
// Visited implies Revealed. Rest rooms are cleared from creation.
type Room struct {
	Type     RoomType    `json:"type"`
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Visited  bool        `json:"visited"`
	Revealed bool        `json:"revealed"`
	Cleared  bool        `json:"cleared"`
	Chest    *loot.Table `json:"chest,omitempty"` // nil once opened
}

// NewRoom creates a room of the given type at (x, y).
// Chest and Treasure rooms get a copy of chest as their container.
func NewRoom(t RoomType, x, y int, chest *loot.Table) *Room {
	r := &Room{Type: t, X: x, Y: y, Cleared: t == Rest}
	if t.HasChest() {
		r.Chest = chest.Clone()
		if r.Chest == nil {
			r.Chest = &loot.Table{}
		}
	}
	return r
}

// Position returns the room's grid coordinate.
func (r *Room) Position() Position {
	return Position{X: r.X, Y: r.Y}
}

// Visit marks the room as visited, which also reveals it.
func (r *Room) Visit() {
	r.Visited = true
	r.Revealed = true
}

// Reveal makes the room visible on the map without visiting it.
func (r *Room) Reveal() {
	r.Revealed = true
}

// Clear marks the room as cleared. Clearing twice is a no-op.
func (r *Room) Clear() {
	r.Cleared = true
}

// SetType changes the room type, keeping creation invariants:
// Rest rooms become cleared, other types are uncleared, and the chest
// container is attached or dropped.
func (r *Room) SetType(t RoomType, chest *loot.Table) {
	r.Type = t
	r.Cleared = t == Rest
	r.Chest = nil
	if t.HasChest() {
		r.Chest = chest.Clone()
		if r.Chest == nil {
			r.Chest = &loot.Table{}
		}
	}
}

// OpenChest consumes the room's loot container and rolls its drops.
// A room whose chest was already opened, or that has none, yields nothing.
func (r *Room) OpenChest(src rng.Source, magicFind int, spawn loot.Spawner) []loot.Drop {
	if r.Chest == nil {
		return nil
	}
	chest := r.Chest
	r.Chest = nil
	return chest.RollDrops(src, magicFind, spawn)
}

// HasChest reports whether the room still holds an unopened container.
func (r *Room) HasChest() bool {
	return r.Chest != nil
}

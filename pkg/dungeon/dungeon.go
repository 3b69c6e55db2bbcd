// Package dungeon models the room grid: adjacency, fog of war, movement,
// completion and procedural generation.
package dungeon

import (
	"errors"
	"fmt"
	"iter"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/weighted"
)

// DefaultSize is the grid width and height used when none is configured.
const DefaultSize = 7

// ErrNoRoomAtPosition is returned when moving into an empty or out-of-range cell.
var ErrNoRoomAtPosition = errors.New("no room at position")

// Position is a grid coordinate. X grows east, Y grows south.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Offset()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Dungeon owns a Size x Size grid of optional rooms and the player's position.
// While generated, the player's position always holds a room.
type Dungeon struct {
	Name        string                 `json:"name"`
	Size        int                    `json:"size"`
	MobWeights  *weighted.Pool[string] `json:"-"`
	RockWeights *weighted.Pool[string] `json:"-"` // mineable rocks; nil when the dungeon has none
	Floor       string                 `json:"floor,omitempty"`
	Boss        *actor.Mob             `json:"boss,omitempty"` // spawned once, on first entry to the boss room

	grid   [][]*Room
	player Position
}

// New creates an empty dungeon. A non-positive size uses DefaultSize.
func New(name string, size int) *Dungeon {
	if size <= 0 {
		size = DefaultSize
	}
	d := &Dungeon{Name: name, Size: size}
	d.grid = emptyGrid(size)
	return d
}

func emptyGrid(size int) [][]*Room {
	g := make([][]*Room, size)
	for y := range g {
		g[y] = make([]*Room, size)
	}
	return g
}

// InBounds reports whether (x, y) lies on the grid.
func (d *Dungeon) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < d.Size && y < d.Size
}

// Room returns the room at (x, y), or nil for empty or out-of-range cells.
func (d *Dungeon) Room(x, y int) *Room {
	if !d.InBounds(x, y) {
		return nil
	}
	return d.grid[y][x]
}

// SetRoom places r at its own coordinate, replacing any existing room.
func (d *Dungeon) SetRoom(r *Room) error {
	if r == nil || !d.InBounds(r.X, r.Y) {
		return fmt.Errorf("%w: room outside %dx%d grid", ErrNoRoomAtPosition, d.Size, d.Size)
	}
	d.grid[r.Y][r.X] = r
	return nil
}

// PlacePlayer puts the player on (x, y), visiting that room and revealing its neighbours.
func (d *Dungeon) PlacePlayer(x, y int) error {
	room := d.Room(x, y)
	if room == nil {
		return fmt.Errorf("%w: %s", ErrNoRoomAtPosition, Position{x, y})
	}
	d.player = Position{X: x, Y: y}
	room.Visit()
	d.RevealAdjacent(x, y)
	return nil
}

// Position returns the player's coordinate.
func (d *Dungeon) Position() Position {
	return d.player
}

// CurrentRoom returns the room the player stands in.
func (d *Dungeon) CurrentRoom() *Room {
	return d.Room(d.player.X, d.player.Y)
}

// Neighbors returns the rooms north, east, south and west of (x, y); absent cells are nil.
func (d *Dungeon) Neighbors(x, y int) [4]*Room {
	var n [4]*Room
	for i, dir := range AllDirections() {
		p := Position{X: x, Y: y}.Step(dir)
		n[i] = d.Room(p.X, p.Y)
	}
	return n
}

// neighborCount returns how many occupied cells border (x, y).
func (d *Dungeon) neighborCount(x, y int) int {
	count := 0
	for _, r := range d.Neighbors(x, y) {
		if r != nil {
			count++
		}
	}
	return count
}

// MovePlayer moves one cell in dir. On success the destination is visited
// and its four neighbours are revealed. On failure nothing changes.
func (d *Dungeon) MovePlayer(dir Direction) (*Room, error) {
	target := d.player.Step(dir)
	room := d.Room(target.X, target.Y)
	if room == nil {
		return nil, fmt.Errorf("%w: %s of %s", ErrNoRoomAtPosition, dir, d.player)
	}
	d.player = target
	room.Visit()
	d.RevealAdjacent(target.X, target.Y)
	return room, nil
}

// RevealAdjacent reveals every room bordering (x, y).
func (d *Dungeon) RevealAdjacent(x, y int) {
	for _, r := range d.Neighbors(x, y) {
		if r != nil {
			r.Reveal()
		}
	}
}

// RevealAll reveals every room in the dungeon.
func (d *Dungeon) RevealAll() {
	for r := range d.Rooms() {
		r.Reveal()
	}
}

// AvailableDirections lists the directions from the player's position that lead to a room.
func (d *Dungeon) AvailableDirections() []Direction {
	var dirs []Direction
	for _, dir := range AllDirections() {
		p := d.player.Step(dir)
		if d.Room(p.X, p.Y) != nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Rooms iterates over every occupied cell in row-major order.
func (d *Dungeon) Rooms() iter.Seq[*Room] {
	return func(yield func(*Room) bool) {
		for _, row := range d.grid {
			for _, r := range row {
				if r == nil {
					continue
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// RoomCount returns the number of occupied cells.
func (d *Dungeon) RoomCount() int {
	n := 0
	for range d.Rooms() {
		n++
	}
	return n
}

// ClearedCount returns the number of cleared rooms.
func (d *Dungeon) ClearedCount() int {
	n := 0
	for r := range d.Rooms() {
		if r.Cleared {
			n++
		}
	}
	return n
}

// IsCompleted reports whether every room is cleared.
func (d *Dungeon) IsCompleted() bool {
	for r := range d.Rooms() {
		if !r.Cleared {
			return false
		}
	}
	return true
}

// IsGenerated reports whether the dungeon has any rooms.
func (d *Dungeon) IsGenerated() bool {
	return d.RoomCount() > 0
}

// Reset discards the layout, the boss and the player's position.
// The dungeon must be generated again before the next visit.
func (d *Dungeon) Reset() {
	d.grid = emptyGrid(d.Size)
	d.player = Position{}
	d.Boss = nil
	d.Floor = ""
}

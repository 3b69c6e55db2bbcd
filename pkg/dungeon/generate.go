package dungeon

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/jwebster45206/dungeon-engine/pkg/weighted"
	"github.com/zyedidia/generic/mapset"
)

const (
	// MaxFill is the largest fraction of the grid that may hold rooms.
	MaxFill = 0.5
	// MinRooms is the smallest room count generation aims for.
	MinRooms = 5
	// stuckLimit is how many consecutive failed expansions end the walk.
	stuckLimit = 50
)

// DefaultRoomWeights returns the standard room mix: 60 Monster, 25 Chest, 15 Rest.
func DefaultRoomWeights() *weighted.Pool[RoomType] {
	p := weighted.NewPool[RoomType]()
	_ = p.Set(Monster, 60)
	_ = p.Set(Chest, 25)
	_ = p.Set(Rest, 15)
	return p
}

// GenerateOptions configures Generate. Zero values fall back to defaults.
type GenerateOptions struct {
	Name         string
	Size         int
	RoomWeights  *weighted.Pool[RoomType] // Boss weight is ignored; the boss room is placed separately
	MobWeights   *weighted.Pool[string]
	RockWeights  *weighted.Pool[string]
	FloorWeights *weighted.Pool[string]
	ChestLoot    *loot.Table
	Logger       *slog.Logger
}

// Generate builds a new dungeon with a corridor-favouring random walk.
//
// The start room sits on a random edge, is a Monster room and is visited.
// The walk keeps its heading 70% of the time and jumps to a random placed
// room when stuck. Afterwards exactly one Boss room is placed on a dead end,
// at least one Chest and one Rest room are guaranteed, and the start room's
// neighbours are revealed.
func Generate(src rng.Source, opts GenerateOptions) (*Dungeon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	roomPool, err := walkPool(opts.RoomWeights)
	if err != nil {
		return nil, err
	}

	d := New(opts.Name, opts.Size)
	d.MobWeights = opts.MobWeights
	d.RockWeights = opts.RockWeights

	if opts.FloorWeights != nil && opts.FloorWeights.Len() > 0 {
		floor, err := weighted.Select(src, opts.FloorWeights)
		if err != nil {
			return nil, fmt.Errorf("select floor: %w", err)
		}
		d.Floor = floor
	}

	maxRooms := max(int(float64(d.Size*d.Size)*MaxFill), 1)
	target := rng.Range(src, min(MinRooms, maxRooms), maxRooms)

	start := randomEdge(src, d.Size)
	startRoom := NewRoom(Monster, start.X, start.Y, nil)
	startRoom.Visit()
	_ = d.SetRoom(startRoom)
	d.player = start

	placed := []Position{start}
	cur := start
	heading := Direction(src.Intn(4))
	stuck := 0

	for len(placed) < target && stuck < stuckLimit {
		found := false
		for _, dir := range walkOrder(src, heading) {
			next := cur.Step(dir)
			if !d.InBounds(next.X, next.Y) || d.Room(next.X, next.Y) != nil {
				continue
			}
			t, err := weighted.Select(src, roomPool)
			if err != nil {
				return nil, fmt.Errorf("select room type: %w", err)
			}
			_ = d.SetRoom(NewRoom(t, next.X, next.Y, opts.ChestLoot))
			placed = append(placed, next)
			cur, heading = next, dir
			found = true
			stuck = 0
			break
		}
		if !found {
			stuck++
			cur = placed[src.Intn(len(placed))]
			heading = Direction(src.Intn(4))
		}
	}

	protected := mapset.New[Position]()
	protected.Put(start)

	if boss, ok := d.placeBoss(src, placed, protected, opts.ChestLoot); ok {
		protected.Put(boss)
	}
	d.ensureType(src, placed, protected, Chest, opts.ChestLoot)
	d.ensureType(src, placed, protected, Rest, opts.ChestLoot)

	d.RevealAdjacent(start.X, start.Y)

	logger.Debug("dungeon generated",
		"name", d.Name,
		"size", d.Size,
		"target_rooms", target,
		"rooms", d.RoomCount(),
		"start", start.String(),
		"floor", d.Floor)
	return d, nil
}

// walkPool copies the room pool without Boss, defaulting when nil or empty.
func walkPool(p *weighted.Pool[RoomType]) (*weighted.Pool[RoomType], error) {
	if p == nil || p.Len() == 0 {
		return DefaultRoomWeights(), nil
	}
	out := weighted.NewPool[RoomType]()
	for _, t := range p.Keys() {
		if t == Boss {
			continue
		}
		if err := out.Set(t, p.Weight(t)); err != nil {
			return nil, err
		}
	}
	if out.Total() == 0 {
		return nil, fmt.Errorf("room weights: %w", weighted.ErrNoCandidates)
	}
	return out, nil
}

// walkOrder favours the current heading, then its perpendiculars, then the
// reverse. 30% of the time all four directions are shuffled instead.
func walkOrder(src rng.Source, heading Direction) []Direction {
	if rng.Chance(src, 7, 10) {
		return []Direction{heading, (heading + 1) % 4, (heading + 3) % 4, heading.Opposite()}
	}
	order := AllDirections()
	rng.Shuffle(src, len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

func randomEdge(src rng.Source, size int) Position {
	switch src.Intn(4) {
	case 0:
		return Position{X: src.Intn(size), Y: 0}
	case 1:
		return Position{X: size - 1, Y: src.Intn(size)}
	case 2:
		return Position{X: src.Intn(size), Y: size - 1}
	default:
		return Position{X: 0, Y: src.Intn(size)}
	}
}

// candidates returns placed positions not in protected that satisfy keep.
func (d *Dungeon) candidates(placed []Position, protected mapset.Set[Position], keep func(*Room) bool) []Position {
	var out []Position
	for _, p := range placed {
		if protected.Has(p) {
			continue
		}
		if r := d.Room(p.X, p.Y); r != nil && keep(r) {
			out = append(out, p)
		}
	}
	return out
}

func pick(src rng.Source, ps []Position) (Position, bool) {
	if len(ps) == 0 {
		return Position{}, false
	}
	return ps[src.Intn(len(ps))], true
}

// placeBoss converts a random dead end (exactly one neighbour) into the Boss
// room, falling back to a Monster room and then to any room. The start room
// is never chosen.
func (d *Dungeon) placeBoss(src rng.Source, placed []Position, protected mapset.Set[Position], chest *loot.Table) (Position, bool) {
	deadEnds := d.candidates(placed, protected, func(r *Room) bool {
		return d.neighborCount(r.X, r.Y) == 1
	})
	p, ok := pick(src, deadEnds)
	if !ok {
		p, ok = pick(src, d.candidates(placed, protected, func(r *Room) bool { return r.Type == Monster }))
	}
	if !ok {
		p, ok = pick(src, d.candidates(placed, protected, func(*Room) bool { return true }))
	}
	if !ok {
		return Position{}, false
	}
	d.Room(p.X, p.Y).SetType(Boss, chest)
	return p, true
}

// ensureType converts a random unprotected Monster room to t if no room of
// type t exists. Without Monster rooms it takes a room whose type appears
// more than once, so another guaranteed type is never removed.
func (d *Dungeon) ensureType(src rng.Source, placed []Position, protected mapset.Set[Position], t RoomType, chest *loot.Table) {
	counts := make(map[RoomType]int)
	for r := range d.Rooms() {
		counts[r.Type]++
	}
	if counts[t] > 0 {
		return
	}
	p, ok := pick(src, d.candidates(placed, protected, func(r *Room) bool { return r.Type == Monster }))
	if !ok {
		p, ok = pick(src, d.candidates(placed, protected, func(r *Room) bool {
			return r.Type != Boss && counts[r.Type] > 1
		}))
	}
	if ok {
		d.Room(p.X, p.Y).SetType(t, chest)
	}
}

package simulate

import (
	"github.com/jwebster45206/dungeon-engine/pkg/dungeon"
	"github.com/zyedidia/generic/mapset"
)

// NextStep returns the first direction on a shortest path from the player to
// the nearest goal room. Goals in order of preference: a Rest room when
// wantRest is set, any uncleared room other than the boss, then the boss.
// It returns false when no goal is reachable.
func NextStep(d *dungeon.Dungeon, wantRest bool) (dungeon.Direction, bool) {
	goals := []func(*dungeon.Room) bool{
		func(r *dungeon.Room) bool { return !r.Cleared && r.Type != dungeon.Boss },
		func(r *dungeon.Room) bool { return !r.Cleared },
	}
	if wantRest {
		goals = append([]func(*dungeon.Room) bool{
			func(r *dungeon.Room) bool { return r.Type == dungeon.Rest },
		}, goals...)
	}
	for _, goal := range goals {
		if dir, ok := firstStep(d, goal); ok {
			return dir, true
		}
	}
	return dungeon.North, false
}

// firstStep runs a breadth-first search over rooms from the player's position.
// The starting room never counts as a goal, and an uncleared boss room is
// only entered as a goal since walking into it starts the fight.
func firstStep(d *dungeon.Dungeon, goal func(*dungeon.Room) bool) (dungeon.Direction, bool) {
	start := d.Position()
	first := map[dungeon.Position]dungeon.Direction{}
	seen := mapset.New[dungeon.Position]()
	seen.Put(start)
	queue := []dungeon.Position{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range dungeon.AllDirections() {
			next := cur.Step(dir)
			room := d.Room(next.X, next.Y)
			if room == nil || seen.Has(next) {
				continue
			}
			seen.Put(next)
			if cur == start {
				first[next] = dir
			} else {
				first[next] = first[cur]
			}
			if goal(room) {
				return first[next], true
			}
			if room.Type == dungeon.Boss && !room.Cleared {
				continue
			}
			queue = append(queue, next)
		}
	}
	return dungeon.North, false
}

package dungeon

import "fmt"

// Direction is a cardinal movement direction.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns the four directions in N, E, S, W order.
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// Offset returns the grid delta for the direction. North decreases Y.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts a direction name or its first letter, in any case.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "North", "north", "N", "n":
		return North, nil
	case "East", "east", "E", "e":
		return East, nil
	case "South", "south", "S", "s":
		return South, nil
	case "West", "west", "W", "w":
		return West, nil
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

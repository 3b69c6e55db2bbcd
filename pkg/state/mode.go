package state

import "fmt"

// Mode is the room-interaction state of a dungeon visit.
type Mode int

const (
	Navigation Mode = iota // choosing a direction or leaving
	RoomEntry              // standing in a room that offers one action
	Rest                   // in a rest room, may heal
	Boss                   // trapped with a live boss
)

func (m Mode) String() string {
	switch m {
	case Navigation:
		return "Navigation"
	case RoomEntry:
		return "RoomEntry"
	case Rest:
		return "Rest"
	case Boss:
		return "Boss"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Kind classifies an outcome message for display.
type Kind int

const (
	Success Kind = iota
	Info
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Info:
		return "info"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ActionType names a choice offered to the player.
type ActionType string

const (
	ActionMove     ActionType = "move"
	ActionEnter    ActionType = "enter"
	ActionLeave    ActionType = "leave"
	ActionFight    ActionType = "fight"
	ActionOpen     ActionType = "open"
	ActionProceed  ActionType = "proceed"
	ActionContinue ActionType = "continue"
	ActionRest     ActionType = "rest"
	ActionAttack   ActionType = "attack"
)

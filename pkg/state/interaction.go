package state

import (
	"github.com/jwebster45206/dungeon-engine/pkg/dungeon"
	"github.com/leonelquinteros/gotext"
)

// interaction is the contextual action an uncleared room offers.
// The set is closed: interactionFor is the only constructor.
type interaction interface {
	action() ActionType
	label() string
	resolve(s *Session, room *dungeon.Room) Outcome
}

type (
	fightInteraction   struct{} // Monster
	bossInteraction    struct{} // Boss
	chestInteraction   struct{} // Chest, Treasure
	proceedInteraction struct{} // Trap and anything else
)

func interactionFor(t dungeon.RoomType) interaction {
	switch t {
	case dungeon.Monster:
		return fightInteraction{}
	case dungeon.Boss:
		return bossInteraction{}
	case dungeon.Chest, dungeon.Treasure:
		return chestInteraction{}
	case dungeon.Rest, dungeon.Trap:
		return proceedInteraction{}
	}
	return proceedInteraction{}
}

func (fightInteraction) action() ActionType { return ActionFight }
func (fightInteraction) label() string      { return gotext.Get("Fight") }

// resolve spawns a mob and hands it to the combat collaborator. The session
// stays in RoomEntry until ResolveCombat reports the result.
func (fightInteraction) resolve(s *Session, _ *dungeon.Room) Outcome {
	if s.pending != nil {
		return s.outcome(Info, gotext.Get("A %s blocks the way!", s.pending.Name)).withEncounter(s.pending)
	}
	mob, err := s.spawner.SpawnMob(s.dungeon.MobWeights)
	if err != nil {
		s.logger.Debug("no encounter for monster room", "error", err)
		return s.outcome(Error, gotext.Get("No enemies to fight!"))
	}
	s.pending = mob
	return s.outcome(Info, gotext.Get("A wild %s appears!", mob.Name)).withEncounter(mob)
}

func (bossInteraction) action() ActionType { return ActionFight }
func (bossInteraction) label() string      { return gotext.Get("Fight") }

func (bossInteraction) resolve(s *Session, _ *dungeon.Room) Outcome {
	return s.engageBoss()
}

func (chestInteraction) action() ActionType { return ActionOpen }
func (chestInteraction) label() string      { return gotext.Get("Open") }

// resolve consumes the chest, hands drops to the inventory and clears the room.
func (chestInteraction) resolve(s *Session, room *dungeon.Room) Outcome {
	drops := room.OpenChest(s.src, s.player.MagicFind(), s.spawner.Registry().ItemSpawner(s.src))
	room.Clear()
	s.inventory.AddDrops(drops)
	s.transition(Navigation)

	if len(drops) == 0 {
		return s.outcome(Info, gotext.Get("The chest was empty."))
	}
	return s.outcome(Success, gotext.Get("Found %d items!", len(drops))).withDrops(drops)
}

func (proceedInteraction) action() ActionType { return ActionProceed }
func (proceedInteraction) label() string      { return gotext.Get("Proceed") }

func (proceedInteraction) resolve(s *Session, room *dungeon.Room) Outcome {
	room.Clear()
	s.transition(Navigation)
	return s.outcome(Info, gotext.Get("Room cleared."))
}

// Package state drives a single dungeon visit: moving between rooms, the
// contextual action each room offers, resting, and the boss fight.
package state

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/combat"
	"github.com/jwebster45206/dungeon-engine/pkg/dungeon"
	"github.com/jwebster45206/dungeon-engine/pkg/encounter"
	"github.com/jwebster45206/dungeon-engine/pkg/loot"
	"github.com/jwebster45206/dungeon-engine/pkg/rng"
	"github.com/leonelquinteros/gotext"
)

var (
	// ErrSessionClosed is returned by every call after the player left or was ejected.
	ErrSessionClosed = errors.New("session is closed")
	// ErrActionUnavailable is returned when an action is not offered in the current mode.
	ErrActionUnavailable = errors.New("action not available")
)

// RestFraction is the share of max health restored by resting.
const RestFraction = 0.5

// Inventory receives drops from chests and boss kills.
type Inventory interface {
	AddDrops(drops []loot.Drop)
}

// DropLog is an Inventory that keeps every drop it receives.
type DropLog struct {
	Drops []loot.Drop
}

// AddDrops appends drops to the log.
func (l *DropLog) AddDrops(drops []loot.Drop) {
	l.Drops = append(l.Drops, drops...)
}

type discardInventory struct{}

func (discardInventory) AddDrops([]loot.Drop) {}

// Options configures a Session.
type Options struct {
	Source    rng.Source
	Spawner   *encounter.Spawner
	BossMob   string    // registry id of the boss spawned in the Boss room
	Inventory Inventory // nil discards drops
	Logger    *slog.Logger
}

// Action is one choice offered by Actions.
type Action struct {
	Type      ActionType        `json:"type"`
	Label     string            `json:"label"`
	Direction dungeon.Direction `json:"direction"` // for ActionMove
}

// Outcome reports the result of one session call.
type Outcome struct {
	Mode      Mode                   `json:"mode"`
	Kind      Kind                   `json:"kind"`
	Message   string                 `json:"message"`
	Drops     []loot.Drop            `json:"drops,omitempty"`
	Rewards   *combat.Rewards        `json:"rewards,omitempty"`
	Encounter *actor.Mob             `json:"encounter,omitempty"` // mob handed to the combat collaborator
	Exchange  *combat.ExchangeResult `json:"exchange,omitempty"`
	Ejected   bool                   `json:"ejected,omitempty"`
	Left      bool                   `json:"left,omitempty"`
	Completed bool                   `json:"completed"` // every room cleared, observed before any reset
}

func (o Outcome) withDrops(drops []loot.Drop) Outcome {
	o.Drops = drops
	return o
}

func (o Outcome) withEncounter(m *actor.Mob) Outcome {
	o.Encounter = m
	return o
}

// Session is the room-interaction state machine for one dungeon visit.
// It is not safe for concurrent use and is not persisted.
type Session struct {
	dungeon   *dungeon.Dungeon
	player    *actor.Player
	src       rng.Source
	spawner   *encounter.Spawner
	bossMob   string
	inventory Inventory
	logger    *slog.Logger

	mode    Mode
	pending *actor.Mob // spawned for the current Monster room, awaiting ResolveCombat
	closed  bool
}

// NewSession starts a visit in Navigation mode at the dungeon's current position.
func NewSession(d *dungeon.Dungeon, p *actor.Player, opts Options) (*Session, error) {
	if d == nil || d.CurrentRoom() == nil {
		return nil, fmt.Errorf("dungeon has no room at the player's position")
	}
	if p == nil {
		return nil, fmt.Errorf("player cannot be nil")
	}
	if opts.Spawner == nil {
		return nil, fmt.Errorf("spawner cannot be nil")
	}
	if opts.Source == nil {
		opts.Source = opts.Spawner.Source()
	}
	if opts.Inventory == nil {
		opts.Inventory = discardInventory{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{
		dungeon:   d,
		player:    p,
		src:       opts.Source,
		spawner:   opts.Spawner,
		bossMob:   opts.BossMob,
		inventory: opts.Inventory,
		logger:    opts.Logger,
		mode:      Navigation,
	}, nil
}

// Mode returns the current state.
func (s *Session) Mode() Mode { return s.mode }

// Closed reports whether the visit has ended.
func (s *Session) Closed() bool { return s.closed }

// Dungeon returns the dungeon being explored.
func (s *Session) Dungeon() *dungeon.Dungeon { return s.dungeon }

// Player returns the player.
func (s *Session) Player() *actor.Player { return s.player }

// Pending returns the mob awaiting ResolveCombat, if any.
func (s *Session) Pending() *actor.Mob { return s.pending }

func (s *Session) transition(to Mode) {
	if s.mode != to {
		s.logger.Debug("session transition", "from", s.mode.String(), "to", to.String())
	}
	s.mode = to
}

func (s *Session) outcome(kind Kind, msg string) Outcome {
	return Outcome{
		Mode:      s.mode,
		Kind:      kind,
		Message:   msg,
		Completed: s.dungeon.IsCompleted(),
	}
}

func (s *Session) require(modes ...Mode) error {
	if s.closed {
		return ErrSessionClosed
	}
	for _, m := range modes {
		if s.mode == m {
			return nil
		}
	}
	return fmt.Errorf("%w in %s", ErrActionUnavailable, s.mode)
}

// Actions lists the choices for the current mode. A closed session offers none.
func (s *Session) Actions() []Action {
	if s.closed {
		return nil
	}
	switch s.mode {
	case Navigation:
		var actions []Action
		for _, dir := range s.dungeon.AvailableDirections() {
			actions = append(actions, Action{Type: ActionMove, Label: directionLabel(dir), Direction: dir})
		}
		actions = append(actions,
			Action{Type: ActionEnter, Label: gotext.Get("Enter")},
			Action{Type: ActionLeave, Label: gotext.Get("Leave")},
		)
		return actions
	case RoomEntry:
		room := s.dungeon.CurrentRoom()
		if room.Cleared {
			return []Action{{Type: ActionContinue, Label: gotext.Get("Continue")}}
		}
		in := interactionFor(room.Type)
		return []Action{{Type: in.action(), Label: in.label()}}
	case Rest:
		return []Action{
			{Type: ActionRest, Label: s.restLabel()},
			{Type: ActionContinue, Label: gotext.Get("Continue")},
		}
	case Boss:
		return []Action{{Type: ActionAttack, Label: gotext.Get("Attack")}}
	}
	return nil
}

func (s *Session) restLabel() string {
	if s.player.IsFullHealth() {
		return gotext.Get("Rest (Full HP)")
	}
	return gotext.Get("Rest (+%d HP)", s.restAmount())
}

func (s *Session) restAmount() int {
	heal := int(float64(s.player.MaxHP())*RestFraction + 0.5)
	return min(heal, s.player.MaxHP()-s.player.HP())
}

// Move walks one room in dir. Entering an uncleared Boss room traps the
// player in Boss mode; entering a cleared room resolves immediately.
// A blocked move keeps Navigation and reports an error message.
func (s *Session) Move(dir dungeon.Direction) (Outcome, error) {
	if err := s.require(Navigation); err != nil {
		return Outcome{}, err
	}
	room, err := s.dungeon.MovePlayer(dir)
	if err != nil {
		s.logger.Debug("move blocked", "direction", dir.String(), "error", err)
		return s.outcome(Error, gotext.Get("Cannot move in that direction")), nil
	}
	return s.enter(room), nil
}

// EnterRoom enters the current room without moving.
func (s *Session) EnterRoom() (Outcome, error) {
	if err := s.require(Navigation); err != nil {
		return Outcome{}, err
	}
	return s.enter(s.dungeon.CurrentRoom()), nil
}

// enter applies RoomEntry rules for a room the player is standing in.
func (s *Session) enter(room *dungeon.Room) Outcome {
	if room.Cleared {
		return s.passThrough(room)
	}
	if room.Type == dungeon.Boss {
		return s.engageBoss()
	}
	s.transition(RoomEntry)
	return s.outcome(Info, gotext.Get("You enter the %s.", roomTitle(room.Type)))
}

// passThrough leaves a cleared room: Rest rooms open the Rest menu, anything else returns to Navigation.
func (s *Session) passThrough(room *dungeon.Room) Outcome {
	if room.Type == dungeon.Rest {
		s.transition(Rest)
		return s.outcome(Info, gotext.Get("You enter the %s.", roomTitle(room.Type)))
	}
	s.transition(Navigation)
	return s.outcome(Info, gotext.Get("This room has been cleared."))
}

// Act performs the current room's contextual action (Fight, Open or Proceed).
func (s *Session) Act() (Outcome, error) {
	if err := s.require(RoomEntry); err != nil {
		return Outcome{}, err
	}
	room := s.dungeon.CurrentRoom()
	if room.Cleared {
		return s.passThrough(room), nil
	}
	return interactionFor(room.Type).resolve(s, room), nil
}

// ResolveCombat reports the result of the fight handed off by Act.
// Victory clears the room; defeat ejects the player from the dungeon.
func (s *Session) ResolveCombat(victory bool) (Outcome, error) {
	if err := s.require(RoomEntry); err != nil {
		return Outcome{}, err
	}
	if s.pending == nil {
		return Outcome{}, fmt.Errorf("%w: no combat in progress", ErrActionUnavailable)
	}
	mob := s.pending
	s.pending = nil

	if !victory {
		return s.eject(gotext.Get("You were defeated by the %s!", mob.Name)), nil
	}
	s.dungeon.CurrentRoom().Clear()
	s.transition(Navigation)
	return s.outcome(Success, gotext.Get("%s defeated!", mob.Name)), nil
}

// Rest heals half of max health, capped at max. At full health it is a no-op.
func (s *Session) Rest() (Outcome, error) {
	if err := s.require(Rest); err != nil {
		return Outcome{}, err
	}
	if s.player.IsFullHealth() {
		return s.outcome(Info, gotext.Get("Already at full health!")), nil
	}
	healed := s.player.HealPercent(RestFraction)
	return s.outcome(Success, gotext.Get("Rested and recovered %d HP!", healed)), nil
}

// Continue returns to Navigation from a Rest room or a cleared room.
func (s *Session) Continue() (Outcome, error) {
	if err := s.require(Rest, RoomEntry); err != nil {
		return Outcome{}, err
	}
	if s.mode == RoomEntry && !s.dungeon.CurrentRoom().Cleared {
		return Outcome{}, fmt.Errorf("%w: room is not cleared", ErrActionUnavailable)
	}
	s.transition(Navigation)
	return s.outcome(Info, ""), nil
}

// engageBoss spawns the dungeon's boss once and traps the player.
func (s *Session) engageBoss() Outcome {
	if s.dungeon.Boss == nil {
		boss, err := s.spawner.SpawnBoss(s.bossMob)
		if err != nil {
			s.logger.Debug("no boss for boss room", "boss_mob", s.bossMob, "error", err)
			s.transition(RoomEntry)
			return s.outcome(Error, gotext.Get("No enemies to fight!"))
		}
		s.dungeon.Boss = boss
	}
	s.transition(Boss)
	return s.outcome(Info, gotext.Get("The %s blocks your escape!", s.dungeon.Boss.Name))
}

// Attack resolves one exchange with the boss.
func (s *Session) Attack() (Outcome, error) {
	if err := s.require(Boss); err != nil {
		return Outcome{}, err
	}
	boss := s.dungeon.Boss
	if boss == nil {
		// The boss was lost; treat the room as no longer trapping.
		s.transition(RoomEntry)
		return s.outcome(Error, gotext.Get("No enemies to fight!")), nil
	}

	ex := combat.Exchange(s.src, s.player, boss)

	if ex.MobDefeated {
		rewards := combat.DeathRewards(s.src, boss, s.player, s.spawner.Registry().ItemSpawner(s.src))
		s.inventory.AddDrops(rewards.Drops)
		s.dungeon.CurrentRoom().Clear()
		s.dungeon.Boss = nil
		s.transition(Navigation)
		s.logger.Info("boss defeated",
			"boss", boss.ID,
			"gold", rewards.Gold,
			"xp", rewards.XP,
			"drops", len(rewards.Drops))

		out := s.outcome(Success, gotext.Get("%s has been slain! +%d gold, +%d XP", boss.Name, rewards.Gold, rewards.XP))
		out.Rewards = &rewards
		out.Drops = rewards.Drops
		out.Exchange = &ex
		return out, nil
	}

	if ex.PlayerDefeated {
		out := s.eject(gotext.Get("You were slain by the %s!", boss.Name))
		out.Exchange = &ex
		return out, nil
	}

	out := s.outcome(Info, gotext.Get("You dealt %d damage. %s dealt %d damage.", ex.PlayerDamage, boss.Name, ex.MobDamage))
	out.Exchange = &ex
	return out, nil
}

// Leave ends the visit. It is refused while trapped with the boss.
// The dungeon is reset on exit.
func (s *Session) Leave() (Outcome, error) {
	if err := s.require(Navigation, RoomEntry, Rest); err != nil {
		return Outcome{}, err
	}
	out := s.outcome(Info, gotext.Get("You leave the dungeon."))
	out.Left = true
	s.close()
	out.Mode = s.mode
	return out, nil
}

// eject removes a defeated player: the dungeon is reset and the session closes.
func (s *Session) eject(msg string) Outcome {
	out := s.outcome(Error, msg)
	out.Ejected = true
	s.logger.Info("player ejected from dungeon",
		"dungeon", s.dungeon.Name,
		"cleared", s.dungeon.ClearedCount(),
		"rooms", s.dungeon.RoomCount())
	s.close()
	out.Mode = s.mode
	return out
}

func (s *Session) close() {
	s.pending = nil
	s.dungeon.Reset()
	s.transition(Navigation)
	s.closed = true
}

func directionLabel(dir dungeon.Direction) string {
	switch dir {
	case dungeon.North:
		return gotext.Get("North")
	case dungeon.East:
		return gotext.Get("East")
	case dungeon.South:
		return gotext.Get("South")
	case dungeon.West:
		return gotext.Get("West")
	}
	return dir.String()
}

func roomTitle(t dungeon.RoomType) string {
	switch t {
	case dungeon.Monster:
		return gotext.Get("Monster Room")
	case dungeon.Boss:
		return gotext.Get("Boss Room")
	case dungeon.Chest:
		return gotext.Get("Treasure Chest")
	case dungeon.Rest:
		return gotext.Get("Rest Area")
	case dungeon.Trap:
		return gotext.Get("Trap Room")
	case dungeon.Treasure:
		return gotext.Get("Treasure Room")
	}
	return gotext.Get("Unknown")
}

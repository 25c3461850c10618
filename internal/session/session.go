// Package session holds the mutable state of one player's game.
//
// A Session is the single source of truth while playing: location,
// inventory, countdown, solved puzzles and the pending message. Actions
// reach it through action.State; the UI reaches it through the methods
// below. A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/entity"
	"github.com/samdwyer/escaperoom/internal/gamedata"
	"github.com/samdwyer/escaperoom/internal/store"
	"github.com/samdwyer/escaperoom/internal/telemetry"
	"github.com/samdwyer/escaperoom/internal/world"
)

// EscapePuzzle is completed when the player gets out of the building.
const EscapePuzzle = "escape"

var (
	ErrNotLoggedIn = errors.New("no account is logged in")
	ErrNoEntity    = errors.New("no entity is selected")
	ErrEnded       = errors.New("session has ended")
	ErrStarted     = errors.New("game has already started")
)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithHasher sets the password hasher.
func WithHasher(h Hasher) Option {
	return func(s *Session) { s.hasher = h }
}

// Session is one player's game.
type Session struct {
	building *world.Building
	texts    gamedata.TextResolver
	store    store.Store
	log      *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
	hasher   Hasher

	accountID uuid.UUID
	account   *store.AccountRecord

	floor      int
	room       int
	entity     int // index into the current room, -1 for none
	inventory  map[gamedata.Item]struct{}
	budget     time.Duration
	start      time.Time
	difficulty gamedata.Difficulty
	message    string
	hasMessage bool
	puzzles    map[string]struct{}
	hintsUsed  map[string]int
	penalties  time.Duration
	ended      bool
	fresh      bool
}

// New creates a logged-out session over the given content and store.
func New(building *world.Building, texts gamedata.TextResolver, st store.Store, opts ...Option) *Session {
	s := &Session{
		building: building,
		texts:    texts,
		store:    st,
		log:      zap.NewNop(),
		tracer:   telemetry.Tracer("session"),
		now:      time.Now,
		hasher:   NewBcryptHasher(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("session")
	s.clear()
	return s
}

// clear resets the game fields to a new game at the current difficulty.
func (s *Session) clear() {
	s.floor, s.room, s.entity = 0, 0, -1
	s.inventory = map[gamedata.Item]struct{}{}
	s.puzzles = map[string]struct{}{}
	s.hintsUsed = map[string]int{}
	s.budget = s.difficulty.StartingTime()
	s.start = s.now()
	s.message, s.hasMessage = "", false
	s.penalties = 0
	s.ended = false
	s.fresh = true
}

// Texts returns the text catalog the session plays with.
func (s *Session) Texts() gamedata.TextResolver { return s.texts }

// Time returns the countdown: the stored budget minus the time since the
// session started. It goes negative once the budget runs out and stops
// moving when the session ends.
func (s *Session) Time() time.Duration {
	if s.ended {
		return s.budget
	}
	return s.budget - s.now().Sub(s.start)
}

// freeze folds the elapsed time into the budget.
func (s *Session) freeze() {
	if !s.ended {
		now := s.now()
		s.budget -= now.Sub(s.start)
		s.start = now
	}
}

// Penalties returns the total time lost to penalties and hints this run.
func (s *Session) Penalties() time.Duration { return s.penalties }

// TakeMessage returns the pending message and clears it.
func (s *Session) TakeMessage() (string, bool) {
	msg, ok := s.message, s.hasMessage
	s.message, s.hasMessage = "", false
	return msg, ok
}

// SetMessage replaces the pending message.
func (s *Session) SetMessage(text string) {
	s.message, s.hasMessage = text, true
}

// HasItem reports whether the item is in the inventory.
func (s *Session) HasItem(item gamedata.Item) bool {
	_, ok := s.inventory[item]
	return ok
}

// AddItem puts an item in the inventory. Adding it again changes nothing.
func (s *Session) AddItem(item gamedata.Item) {
	if item == "" {
		return
	}
	s.inventory[item] = struct{}{}
}

// ClearItems empties the inventory.
func (s *Session) ClearItems() {
	s.inventory = map[gamedata.Item]struct{}{}
}

// Inventory returns the carried items in id order.
func (s *Session) Inventory() []gamedata.Item {
	items := make([]gamedata.Item, 0, len(s.inventory))
	for item := range s.inventory {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}

// CompletePuzzle marks a puzzle solved.
func (s *Session) CompletePuzzle(name string) {
	s.puzzles[name] = struct{}{}
}

// IsPuzzleCompleted reports whether a puzzle is solved.
func (s *Session) IsPuzzleCompleted(name string) bool {
	_, ok := s.puzzles[name]
	return ok
}

// CompletedPuzzles returns the solved puzzles in name order.
func (s *Session) CompletedPuzzles() []string {
	return sortedKeys(s.puzzles)
}

// RemoveTime takes d off the countdown.
func (s *Session) RemoveTime(d time.Duration) {
	s.budget -= d
	s.penalties += d
}

// Difficulty returns the difficulty of the current game.
func (s *Session) Difficulty() gamedata.Difficulty { return s.difficulty }

// SetDifficulty picks the difficulty of a game that has not started yet and
// resets the countdown to that difficulty's starting time. Once the player
// has acted or taken a hint the difficulty is fixed and ErrStarted is
// returned.
func (s *Session) SetDifficulty(d gamedata.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("invalid difficulty %d", int(d))
	}
	if !s.fresh {
		return fmt.Errorf("set difficulty %s: %w", d, ErrStarted)
	}
	s.difficulty = d
	s.budget = d.StartingTime()
	s.start = s.now()
	return nil
}

// Fresh reports whether the game has not been played yet. Only a fresh game
// can change difficulty.
func (s *Session) Fresh() bool { return s.fresh }

// End stops the session for good.
func (s *Session) End() {
	s.freeze()
	s.ended = true
}

// IsEnded reports whether End was called.
func (s *Session) IsEnded() bool { return s.ended }

// CurrentFloor returns the floor the player is on.
func (s *Session) CurrentFloor() *world.Floor {
	f, _ := s.building.Floor(s.floor)
	return f
}

// CurrentRoom returns the room the player is in.
func (s *Session) CurrentRoom() *world.Room {
	r, _ := s.building.Room(s.floor, s.room)
	return r
}

// Location returns the current floor and room indexes.
func (s *Session) Location() (floor, room int) { return s.floor, s.room }

// CurrentEntity returns the selected entity, or nil.
func (s *Session) CurrentEntity() *entity.Entity {
	r := s.CurrentRoom()
	if r == nil || s.entity < 0 || s.entity >= len(r.Entities) {
		return nil
	}
	return r.Entities[s.entity]
}

// SetCurrentFloor moves to the first room of the floor at index and drops
// the entity selection.
func (s *Session) SetCurrentFloor(index int) error {
	if _, ok := s.building.Floor(index); !ok {
		return gamedata.NewContentReferenceError(gamedata.RefFloor, strconv.Itoa(index))
	}
	s.floor, s.room, s.entity = index, 0, -1
	return nil
}

// SetCurrentRoom moves to another room on the current floor.
func (s *Session) SetCurrentRoom(index int) error {
	if _, ok := s.building.Room(s.floor, index); !ok {
		return gamedata.NewContentReferenceError(gamedata.RefRoom, strconv.Itoa(index))
	}
	s.room, s.entity = index, -1
	return nil
}

// PickEntity selects an entity in the current room.
func (s *Session) PickEntity(e *entity.Entity) error {
	r := s.CurrentRoom()
	i := r.EntityIndex(e)
	if i < 0 {
		id := "<nil>"
		if e != nil {
			id = e.ID()
		}
		return gamedata.NewContentReferenceError(gamedata.RefEntity, id)
	}
	s.entity = i
	return nil
}

// LeaveEntity drops the entity selection.
func (s *Session) LeaveEntity() { s.entity = -1 }

// SwapEntityState switches an entity on the current floor to another state.
func (s *Session) SwapEntityState(entityID, stateName string) error {
	e := s.CurrentFloor().FindEntity(entityID)
	if e == nil {
		return gamedata.NewContentReferenceError(gamedata.RefEntity, entityID)
	}
	return e.SwapState(stateName)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package action implements the composable command objects that content
// attaches to entity states.
package action

// =============================================================================
// ACTION SYSTEM DESIGN
// =============================================================================
//
// Actions are small, immutable, data-driven commands. Content describes them
// in JSON (see Spec) and they are compiled once at load time. Executing an
// action only mutates session state through the State interface; control-flow
// variants execute their children.
//
// Variants (closed set, see Kind):
//   - chain:          run every child in order
//   - conditional:    run "then" or "else" depending on a predicate
//   - giveItem:       add an item to the inventory (set semantics)
//   - setFloor:       move to a floor by index and empty the inventory
//   - setMessage:     set the consume-once message
//   - removeTime:     subtract severity x difficulty seconds from the timer
//   - completePuzzle: mark a puzzle solved
//   - swapEntities:   switch an entity on the current floor to another state
//   - takeInput:      dispatch on free-text input
//   - default:        do nothing
//
// Errors:
//   Content mistakes (unknown floor, entity or state) surface as
//   *gamedata.ContentReferenceError. Chains stop at the first error.

import (
	"context"
	"time"

	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// Kind identifies an action variant.
type Kind string

const (
	KindChain          Kind = "chain"
	KindConditional    Kind = "conditional"
	KindGiveItem       Kind = "giveItem"
	KindSetFloor       Kind = "setFloor"
	KindSetMessage     Kind = "setMessage"
	KindRemoveTime     Kind = "removeTime"
	KindCompletePuzzle Kind = "completePuzzle"
	KindSwapEntities   Kind = "swapEntities"
	KindTakeInput      Kind = "takeInput"
	KindDefault        Kind = "default"
)

// Reader is the read-only view of session state that predicates may consult.
type Reader interface {
	HasItem(item gamedata.Item) bool
	IsPuzzleCompleted(name string) bool
	Difficulty() gamedata.Difficulty
}

// State is everything an action is allowed to change.
type State interface {
	Reader

	AddItem(item gamedata.Item)
	ClearItems()
	SetCurrentFloor(index int) error
	SetMessage(text string)
	RemoveTime(d time.Duration)
	CompletePuzzle(name string)
	SwapEntityState(entityID, stateName string) error
}

// Action is a command executed in response to player intent.
type Action interface {
	Kind() Kind
	Execute(ctx context.Context, s State) error

	sealed()
}

// InputReceiver is implemented by actions that consume free-text input.
// The input must be set before each Execute.
type InputReceiver interface {
	SetInput(text string)
}

// Penalty returns the time a mistake of the given severity costs at the given
// difficulty.
func Penalty(severity gamedata.Severity, difficulty gamedata.Difficulty) time.Duration {
	return time.Duration(severity.Base()*difficulty.Multiplier()) * time.Second
}

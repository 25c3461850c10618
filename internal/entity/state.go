// Package entity implements interactable game objects and the finite-state
// model that decides which actions they run.
package entity

import "github.com/samdwyer/escaperoom/internal/action"

// Verb is a player intent directed at an entity.
type Verb string

const (
	VerbAttack   Verb = "attack"
	VerbInspect  Verb = "inspect"
	VerbInteract Verb = "interact"
	VerbInput    Verb = "input"
)

// Capabilities flags which verbs an entity state exposes. A capability is
// independent of whether an action is attached: a state can expose a verb
// that only prints text, or hide a verb that has an action.
type Capabilities struct {
	Attack   bool `json:"attack"`
	Inspect  bool `json:"inspect"`
	Interact bool `json:"interact"`
	Input    bool `json:"input"`
}

// DefaultCapabilities exposes attack, inspect and interact but not input.
func DefaultCapabilities() Capabilities {
	return Capabilities{Attack: true, Inspect: true, Interact: true}
}

// Allows reports whether the verb is exposed.
func (c Capabilities) Allows(v Verb) bool {
	switch v {
	case VerbAttack:
		return c.Attack
	case VerbInspect:
		return c.Inspect
	case VerbInteract:
		return c.Interact
	case VerbInput:
		return c.Input
	default:
		return false
	}
}

// State is one named behavior set of an entity.
type State struct {
	id           string
	attack       action.Action
	inspect      action.Action
	interact     action.Action
	input        action.Action
	capabilities Capabilities
}

// NewState creates a state with the default capabilities. Any action may be nil.
func NewState(id string, attack, inspect, interact, input action.Action) *State {
	return NewStateWithCapabilities(id, attack, inspect, interact, input, DefaultCapabilities())
}

// NewStateWithCapabilities creates a state with explicit capabilities.
func NewStateWithCapabilities(id string, attack, inspect, interact, input action.Action, caps Capabilities) *State {
	return &State{
		id:           id,
		attack:       attack,
		inspect:      inspect,
		interact:     interact,
		input:        input,
		capabilities: caps,
	}
}

// ID returns the state name.
func (s *State) ID() string { return s.id }

// Capabilities returns the exposed verbs.
func (s *State) Capabilities() Capabilities { return s.capabilities }

// Action returns the action attached to a verb, or nil.
func (s *State) Action(v Verb) action.Action {
	switch v {
	case VerbAttack:
		return s.attack
	case VerbInspect:
		return s.inspect
	case VerbInteract:
		return s.interact
	case VerbInput:
		return s.input
	default:
		return nil
	}
}

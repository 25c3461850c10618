package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/samdwyer/escaperoom/internal/action"
	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// Env is what verb dispatch needs: the mutable session state and the text
// catalog.
type Env interface {
	action.State
	Texts() gamedata.TextResolver
}

// Entity is an interactable object with one current state out of a fixed set.
type Entity struct {
	id      string
	states  map[string]*State
	order   []string
	initial string
	current string
}

// New creates an entity. It fails when no states are given or two states
// share an id. The initial state is the one named like the entity, else the
// first declared.
func New(id string, states ...*State) (*Entity, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("entity %q: at least one state is required", id)
	}
	e := &Entity{id: id, states: make(map[string]*State, len(states))}
	for _, s := range states {
		if s == nil {
			return nil, fmt.Errorf("entity %q: nil state", id)
		}
		if _, dup := e.states[s.id]; dup {
			return nil, fmt.Errorf("entity %q: duplicate state %q", id, s.id)
		}
		e.states[s.id] = s
		e.order = append(e.order, s.id)
	}
	e.initial = e.order[0]
	if _, ok := e.states[id]; ok {
		e.initial = id
	}
	e.current = e.initial
	return e, nil
}

// MustNew creates an entity, panicking on error.
func MustNew(id string, states ...*State) *Entity {
	e, err := New(id, states...)
	if err != nil {
		panic(err)
	}
	return e
}

// ID returns the entity id.
func (e *Entity) ID() string { return e.id }

// State returns the current state.
func (e *Entity) State() *State { return e.states[e.current] }

// InitialState returns the name of the state the entity starts in.
func (e *Entity) InitialState() string { return e.initial }

// StateNames returns the declared state names in declaration order.
func (e *Entity) StateNames() []string { return append([]string(nil), e.order...) }

// HasState reports whether the name is a declared state.
func (e *Entity) HasState(name string) bool {
	_, ok := e.states[name]
	return ok
}

// Lookup returns the declared state with the given name.
func (e *Entity) Lookup(name string) (*State, bool) {
	s, ok := e.states[name]
	return s, ok
}

// SwapState switches the current state. Unknown names are content errors and
// leave the entity unchanged.
func (e *Entity) SwapState(name string) error {
	if _, ok := e.states[name]; !ok {
		return gamedata.NewContentReferenceError(gamedata.RefState, e.id+"/"+name)
	}
	e.current = name
	return nil
}

// Reset returns the entity to its initial state.
func (e *Entity) Reset() { e.current = e.initial }

// Name returns the entity's display name.
func (e *Entity) Name(texts gamedata.TextResolver) string {
	return gamedata.Text(texts, gamedata.NamespaceEntities, e.id+".name")
}

// Interact runs the current state's interact verb.
func (e *Entity) Interact(ctx context.Context, env Env) error {
	return e.dispatch(ctx, env, VerbInteract)
}

// Inspect runs the current state's inspect verb.
func (e *Entity) Inspect(ctx context.Context, env Env) error {
	return e.dispatch(ctx, env, VerbInspect)
}

// Attack runs the current state's attack verb.
func (e *Entity) Attack(ctx context.Context, env Env) error {
	return e.dispatch(ctx, env, VerbAttack)
}

// dispatch sets the verb's text as the message and then runs the verb's
// action. A hidden verb does nothing.
func (e *Entity) dispatch(ctx context.Context, env Env, verb Verb) error {
	state := e.State()
	if !state.capabilities.Allows(verb) {
		return nil
	}
	env.SetMessage(gamedata.Text(env.Texts(), gamedata.NamespaceEntities, e.textKey(state, string(verb))))
	if a := state.Action(verb); a != nil {
		return a.Execute(ctx, env)
	}
	return nil
}

// TakeInput answers free-text input. The message is the state's reply to the
// normalized input, or the generic "didn't understand" text; the input action
// runs either way. A state that takes no input ignores it.
func (e *Entity) TakeInput(ctx context.Context, env Env, text string) error {
	state := e.State()
	if !state.capabilities.Allows(VerbInput) {
		return nil
	}
	normalized := action.Normalize(text)

	reply, err := env.Texts().Resolve(gamedata.NamespaceEntities, e.textKey(state, "input."+normalized))
	var refErr *gamedata.ContentReferenceError
	if errors.As(err, &refErr) || normalized == "" {
		reply = gamedata.Text(env.Texts(), gamedata.NamespaceGame, "input.unknown")
	} else if err != nil {
		return err
	}
	env.SetMessage(reply)

	a := state.Action(VerbInput)
	if a == nil {
		return nil
	}
	if r, ok := a.(action.InputReceiver); ok {
		r.SetInput(text)
	}
	return a.Execute(ctx, env)
}

func (e *Entity) textKey(s *State, suffix string) string {
	return e.id + "." + s.id + "." + suffix
}

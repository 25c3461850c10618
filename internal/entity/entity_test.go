package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/escaperoom/internal/action"
	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// testEnv is a minimal Env backed by maps.
type testEnv struct {
	texts    *gamedata.Catalog
	message  string
	items    map[gamedata.Item]bool
	puzzles  map[string]bool
	entities map[string]*Entity
}

func newTestEnv(texts map[string]map[string]string, entities ...*Entity) *testEnv {
	env := &testEnv{
		texts:    gamedata.NewCatalog(texts),
		items:    map[gamedata.Item]bool{},
		puzzles:  map[string]bool{},
		entities: map[string]*Entity{},
	}
	for _, e := range entities {
		env.entities[e.ID()] = e
	}
	return env
}

func (t *testEnv) Texts() gamedata.TextResolver       { return t.texts }
func (t *testEnv) HasItem(item gamedata.Item) bool    { return t.items[item] }
func (t *testEnv) IsPuzzleCompleted(name string) bool { return t.puzzles[name] }
func (t *testEnv) Difficulty() gamedata.Difficulty    { return gamedata.DifficultyTrivial }
func (t *testEnv) AddItem(item gamedata.Item)         { t.items[item] = true }
func (t *testEnv) ClearItems()                        { t.items = map[gamedata.Item]bool{} }
func (t *testEnv) SetCurrentFloor(int) error          { return nil }
func (t *testEnv) SetMessage(text string)             { t.message = text }
func (t *testEnv) RemoveTime(time.Duration)           {}
func (t *testEnv) CompletePuzzle(name string)         { t.puzzles[name] = true }

func (t *testEnv) SwapEntityState(entityID, stateName string) error {
	e, ok := t.entities[entityID]
	if !ok {
		return gamedata.NewContentReferenceError(gamedata.RefEntity, entityID)
	}
	return e.SwapState(stateName)
}

func TestNewRequiresStates(t *testing.T) {
	_, err := New("empty")
	assert.Error(t, err)

	_, err = New("dup", NewState("a", nil, nil, nil, nil), NewState("a", nil, nil, nil, nil))
	assert.Error(t, err)

	assert.Panics(t, func() { MustNew("empty") })
}

func TestInitialState(t *testing.T) {
	named := MustNew("door",
		NewState("door_open", nil, nil, nil, nil),
		NewState("door", nil, nil, nil, nil),
	)
	assert.Equal(t, "door", named.State().ID())

	first := MustNew("lamp",
		NewState("lamp_off", nil, nil, nil, nil),
		NewState("lamp_on", nil, nil, nil, nil),
	)
	assert.Equal(t, "lamp_off", first.State().ID())
	assert.Equal(t, []string{"lamp_off", "lamp_on"}, first.StateNames())
}

func TestSwapStateRoundTrip(t *testing.T) {
	e := MustNew("door",
		NewState("door", nil, nil, nil, nil),
		NewState("door_open", nil, nil, nil, nil),
	)

	require.NoError(t, e.SwapState("door_open"))
	assert.Equal(t, "door_open", e.State().ID())
	require.NoError(t, e.SwapState("door"))
	assert.Equal(t, "door", e.State().ID())

	var refErr *gamedata.ContentReferenceError
	require.ErrorAs(t, e.SwapState("melted"), &refErr)
	assert.Equal(t, "door", e.State().ID())

	require.NoError(t, e.SwapState("door_open"))
	e.Reset()
	assert.Equal(t, "door", e.State().ID())
}

func TestDefaultCapabilities(t *testing.T) {
	s := NewState("x", nil, nil, nil, nil)
	caps := s.Capabilities()
	assert.True(t, caps.Allows(VerbAttack))
	assert.True(t, caps.Allows(VerbInspect))
	assert.True(t, caps.Allows(VerbInteract))
	assert.False(t, caps.Allows(VerbInput))
	assert.False(t, caps.Allows(Verb("dance")))
}

func TestVerbSetsMessageBeforeAction(t *testing.T) {
	ctx := context.Background()
	bed := MustNew("bed",
		NewState("bed", nil, nil, action.NewChain(
			action.NewGiveItem(gamedata.ItemFlashlight),
			action.NewSwapEntities("bed", "bed_searched"),
		), nil),
		NewState("bed_searched", nil, nil, nil, nil),
	)
	env := newTestEnv(map[string]map[string]string{
		gamedata.NamespaceEntities: {
			"bed.bed.interact":          "You rummage under the mattress.",
			"bed.bed_searched.interact": "Nothing else here.",
		},
	}, bed)

	require.NoError(t, bed.Interact(ctx, env))
	assert.Equal(t, "You rummage under the mattress.", env.message)
	assert.True(t, env.HasItem(gamedata.ItemFlashlight))
	assert.Equal(t, "bed_searched", bed.State().ID())

	// message-only verb without an action
	require.NoError(t, bed.Interact(ctx, env))
	assert.Equal(t, "Nothing else here.", env.message)
}

func TestMissingTextUsesPlaceholder(t *testing.T) {
	e := MustNew("statue", NewState("statue", nil, nil, nil, nil))
	env := newTestEnv(nil, e)

	require.NoError(t, e.Inspect(context.Background(), env))
	assert.Equal(t, "[Missing text: entities.statue.statue.inspect]", env.message)
}

func TestSuppressedCapabilityIsNoop(t *testing.T) {
	caps := Capabilities{Inspect: true}
	e := MustNew("vase",
		NewStateWithCapabilities("vase", action.NewGiveItem(gamedata.ItemKey), nil, nil, nil, caps))
	env := newTestEnv(nil, e)

	require.NoError(t, e.Attack(context.Background(), env))
	assert.Empty(t, env.message)
	assert.False(t, env.HasItem(gamedata.ItemKey))
}

func TestTakeInput(t *testing.T) {
	ctx := context.Background()
	radio := MustNew("radio", NewStateWithCapabilities("radio", nil, nil, nil,
		action.NewTakeInput([]action.Case{
			action.ExactCase("cd", action.NewCompletePuzzle("radio")),
		}, action.NewGiveItem(gamedata.ItemBattery)),
		Capabilities{Input: true},
	))
	env := newTestEnv(map[string]map[string]string{
		gamedata.NamespaceGame:     {"input.unknown": "Nothing happens."},
		gamedata.NamespaceEntities: {"radio.radio.input.cd": "The radio crackles."},
	}, radio)

	require.NoError(t, radio.TakeInput(ctx, env, "  Cd"))
	assert.Equal(t, "The radio crackles.", env.message)
	assert.True(t, env.IsPuzzleCompleted("radio"))
	assert.False(t, env.HasItem(gamedata.ItemBattery))

	// unknown input still runs the input action
	require.NoError(t, radio.TakeInput(ctx, env, "xyz"))
	assert.Equal(t, "Nothing happens.", env.message)
	assert.True(t, env.HasItem(gamedata.ItemBattery))
}

func TestTakeInputWithoutAction(t *testing.T) {
	e := MustNew("wall", NewStateWithCapabilities("wall", nil, nil, nil, nil, Capabilities{Input: true}))
	env := newTestEnv(nil, e)

	require.NoError(t, e.TakeInput(context.Background(), env, "hello"))
	assert.Equal(t, "[Missing text: game.input.unknown]", env.message)
}

func TestTakeInputRequiresCapability(t *testing.T) {
	chest := MustNew("chest", NewStateWithCapabilities("chest", nil, nil, nil,
		action.NewGiveItem(gamedata.ItemKey),
		Capabilities{Inspect: true},
	))
	env := newTestEnv(map[string]map[string]string{
		gamedata.NamespaceGame: {"input.unknown": "Nothing happens."},
	}, chest)

	require.NoError(t, chest.TakeInput(context.Background(), env, "open"))
	assert.Empty(t, env.message)
	assert.False(t, env.HasItem(gamedata.ItemKey))
}

func TestName(t *testing.T) {
	e := MustNew("bed", NewState("bed", nil, nil, nil, nil))
	texts := gamedata.NewCatalog(map[string]map[string]string{
		gamedata.NamespaceEntities: {"bed.name": "Bed"},
	})
	assert.Equal(t, "Bed", e.Name(texts))
}

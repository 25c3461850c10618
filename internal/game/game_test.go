package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/samdwyer/escaperoom/internal/gamedata"
	"github.com/samdwyer/escaperoom/internal/session"
	"github.com/samdwyer/escaperoom/internal/store"
	"github.com/samdwyer/escaperoom/internal/world"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestController(t *testing.T) (*controller, *testClock, store.Store) {
	t.Helper()
	dir := t.TempDir()
	st := store.NewFileStore(filepath.Join(dir, "accounts.json"), filepath.Join(dir, "gamestates.json"), zap.NewNop())
	texts := gamedata.MustLoadBundle().Catalog(gamedata.BaseLocale)
	clock := &testClock{now: time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)}
	s := session.New(world.MustLoadBuilding(texts), texts, st,
		session.WithClock(clock.Now),
		session.WithHasher(session.NewBcryptHasher(bcrypt.MinCost)),
	)
	return newController(s, zap.NewNop()), clock, st
}

func typeText(ctx context.Context, c *controller, text string) {
	for _, r := range text {
		c.key(ctx, tcell.KeyRune, r)
	}
}

// signUp creates an account through the login form and picks a difficulty.
func signUp(t *testing.T, c *controller, username string) {
	t.Helper()
	ctx := context.Background()
	typeText(ctx, c, username)
	c.key(ctx, tcell.KeyEnter, 0)
	typeText(ctx, c, "hunter2")
	c.key(ctx, tcell.KeyTab, 0)
	c.key(ctx, tcell.KeyEnter, 0)
	require.Equal(t, StateDifficulty, c.state, c.form.reason)
	c.key(ctx, tcell.KeyRune, '1')
	require.Equal(t, StatePlay, c.state)
}

func TestLoginForm(t *testing.T) {
	var f loginForm
	for _, r := range "bobé" {
		f.typeRune(r)
	}
	f.backspace()
	assert.Equal(t, "bob", f.values[fieldUsername])

	f.moveFocus(1)
	assert.Equal(t, fieldPassword, f.focus)
	f.moveFocus(1)
	assert.Equal(t, fieldUsername, f.focus)
	f.moveFocus(-1)
	assert.Equal(t, fieldPassword, f.focus)

	f.typeRune('x')
	f.fail("wrong password")
	assert.Empty(t, f.values[fieldPassword])
	assert.Equal(t, "wrong password", f.reason)

	f.toggleCreate()
	assert.True(t, f.create)
	assert.Empty(t, f.reason)
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t)

	typeText(ctx, c, "nobody")
	c.key(ctx, tcell.KeyEnter, 0)
	typeText(ctx, c, "pw")
	c.key(ctx, tcell.KeyEnter, 0)

	assert.Equal(t, StateLogin, c.state)
	assert.Equal(t, session.ReasonUnknownUsername, c.form.reason)
	assert.Equal(t, session.ReasonUnknownUsername, c.loginView().Reason)
	assert.Empty(t, c.form.values[fieldPassword])

	c.key(ctx, tcell.KeyEscape, 0)
	assert.False(t, c.running)
}

func TestDifficultyChoice(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t)
	typeText(ctx, c, "alice")
	c.key(ctx, tcell.KeyEnter, 0)
	typeText(ctx, c, "pw")
	c.key(ctx, tcell.KeyTab, 0)
	c.key(ctx, tcell.KeyEnter, 0)
	require.Equal(t, StateDifficulty, c.state)
	assert.Len(t, c.difficultyView().Lines, 3)

	c.key(ctx, tcell.KeyRune, '7')
	assert.Equal(t, StateDifficulty, c.state)
	c.key(ctx, tcell.KeyRune, '3')
	assert.Equal(t, StatePlay, c.state)
	assert.Equal(t, gamedata.DifficultyVirtuosic, c.session.Difficulty())
	assert.Equal(t, 20*time.Minute, c.session.Time())
}

func TestPlayKeys(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t)
	signUp(t, c, "alice")

	v := c.playView()
	assert.Equal(t, "Basement / Cell", v.Location)
	assert.Equal(t, []string{"Bed", "Floor grate", "Cell door"}, v.Entities)
	assert.Equal(t, -1, v.Selected)
	assert.Equal(t, "Carrying: nothing", v.Inventory)

	c.key(ctx, tcell.KeyRune, 'e')
	assert.Empty(t, c.message, "nothing selected")

	c.key(ctx, tcell.KeyRune, '1')
	c.key(ctx, tcell.KeyRune, 'e')
	assert.Equal(t, "You tear the mattress open.", c.message)
	assert.Equal(t, "Carrying: Flashlight", c.playView().Inventory)

	c.key(ctx, tcell.KeyRune, '9')
	assert.Equal(t, 0, c.playView().Selected, "out of range digits are ignored")

	c.key(ctx, tcell.KeyLeft, 0)
	assert.Equal(t, "Basement / Cell", c.playView().Location, "no room to the left")
	c.key(ctx, tcell.KeyRight, 0)
	assert.Equal(t, "Basement / Workshop", c.playView().Location)
	assert.Empty(t, c.message)

	c.key(ctx, tcell.KeyRune, '1')
	c.key(ctx, tcell.KeyRune, 't')
	assert.Equal(t, StatePlay, c.state, "the toolbox takes no text")

	c.key(ctx, tcell.KeyRune, '2')
	assert.Equal(t, []string{"[i] inspect", "[e] interact", "[a] attack", "[t] type"}, c.playView().Verbs)
	c.key(ctx, tcell.KeyRune, 't')
	require.Equal(t, StateInput, c.state)
	typeText(ctx, c, "19422")
	c.key(ctx, tcell.KeyBackspace2, 0)
	assert.Equal(t, "1942", c.playView().Prompt)
	c.key(ctx, tcell.KeyEnter, 0)

	assert.Equal(t, StatePlay, c.state)
	assert.Equal(t, "The keypad chimes and the hatch unlocks.", c.message)
	assert.True(t, c.session.IsPuzzleCompleted("hatch"))

	c.key(ctx, tcell.KeyRune, 'h')
	assert.Contains(t, c.message, "bench")

	c.key(ctx, tcell.KeyEscape, 0)
	assert.Nil(t, c.session.CurrentEntity())
}

func TestTimeoutEndsGame(t *testing.T) {
	ctx := context.Background()
	c, clock, st := newTestController(t)
	signUp(t, c, "alice")

	clock.now = clock.now.Add(44 * time.Minute)
	c.tick(ctx)
	assert.Equal(t, StatePlay, c.state)

	clock.now = clock.now.Add(2 * time.Minute)
	c.tick(ctx)
	require.Equal(t, StateEnded, c.state)
	assert.True(t, c.session.IsEnded())
	assert.Equal(t, "Time is up.", c.endView().Title)
	assert.Empty(t, st.LoadGameStates(ctx), "a finished game is not resumed")

	c.key(ctx, tcell.KeyRune, 'x')
	assert.False(t, c.running)
}

func TestEscapeRecordsScore(t *testing.T) {
	ctx := context.Background()
	c, clock, _ := newTestController(t)
	signUp(t, c, "alice")

	clock.now = clock.now.Add(5 * time.Minute)
	c.session.CompletePuzzle(session.EscapePuzzle)
	c.tick(ctx)

	require.Equal(t, StateEnded, c.state)
	v := c.endView()
	assert.Equal(t, "You escaped!", v.Title)
	assert.Equal(t, "Score: 2500  New high score!", v.Lines[0])
	assert.Contains(t, v.Lines[3], "alice")
	assert.Contains(t, v.Lines[3], "40:00")
}

func TestQuitSaves(t *testing.T) {
	ctx := context.Background()
	c, _, st := newTestController(t)
	signUp(t, c, "alice")

	c.key(ctx, tcell.KeyRune, '1')
	c.key(ctx, tcell.KeyRune, 'e')
	c.key(ctx, tcell.KeyRune, 'q')

	assert.False(t, c.running)
	assert.False(t, c.session.LoggedIn())
	states := st.LoadGameStates(ctx)
	require.Len(t, states, 1)
	for _, rec := range states {
		assert.Equal(t, []gamedata.Item{gamedata.ItemFlashlight}, rec.CurrentItems)
	}
}

func TestResumeSkipsDifficulty(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t)
	signUp(t, c, "alice")
	c.key(ctx, tcell.KeyRune, '1')
	c.key(ctx, tcell.KeyRune, 'i')
	c.key(ctx, tcell.KeyRune, 'q')

	c.running, c.state = true, StateLogin
	typeText(ctx, c, "alice")
	c.key(ctx, tcell.KeyEnter, 0)
	typeText(ctx, c, "hunter2")
	c.key(ctx, tcell.KeyEnter, 0)
	assert.Equal(t, StatePlay, c.state)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "login", StateLogin.String())
	assert.Equal(t, "ended", StateEnded.String())
	assert.Equal(t, "unknown", State(42).String())
}

package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/entity"
	"github.com/samdwyer/escaperoom/internal/gamedata"
	"github.com/samdwyer/escaperoom/internal/score"
	"github.com/samdwyer/escaperoom/internal/session"
	"github.com/samdwyer/escaperoom/internal/ui"
)

// controller turns key presses into session calls and builds the views to
// draw. It owns reading the session's message.
type controller struct {
	session *session.Session
	texts   gamedata.TextResolver
	log     *zap.Logger

	state   State
	form    loginForm
	prompt  []rune
	message string
	failed  bool
	result  []string
	running bool
}

func newController(s *session.Session, log *zap.Logger) *controller {
	return &controller{
		session: s,
		texts:   s.Texts(),
		log:     log,
		state:   StateLogin,
		running: true,
	}
}

func (c *controller) text(key string) string {
	return gamedata.Text(c.texts, gamedata.NamespaceGame, key)
}

// key handles one key press.
func (c *controller) key(ctx context.Context, k tcell.Key, r rune) {
	switch c.state {
	case StateLogin:
		c.loginKey(ctx, k, r)
	case StateDifficulty:
		c.difficultyKey(k, r)
	case StatePlay:
		c.playKey(ctx, k, r)
	case StateInput:
		c.inputKey(ctx, k, r)
	case StateEnded:
		c.running = false
	}
}

func (c *controller) loginKey(ctx context.Context, k tcell.Key, r rune) {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.running = false
	case tcell.KeyTab:
		c.form.toggleCreate()
	case tcell.KeyUp:
		c.form.moveFocus(-1)
	case tcell.KeyDown:
		c.form.moveFocus(1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		c.form.backspace()
	case tcell.KeyEnter:
		if c.form.focus == fieldUsername {
			c.form.moveFocus(1)
			return
		}
		c.submitLogin(ctx)
	case tcell.KeyRune:
		c.form.typeRune(r)
	}
}

func (c *controller) submitLogin(ctx context.Context) {
	username, password := c.form.values[fieldUsername], c.form.values[fieldPassword]
	var (
		ok     bool
		reason string
	)
	if c.form.create {
		ok, reason = c.session.CreateAccount(ctx, username, password)
	} else {
		ok, reason = c.session.Login(ctx, username, password)
	}
	if !ok {
		c.form.fail(reason)
		return
	}

	c.form = loginForm{}
	if c.session.Fresh() {
		c.state = StateDifficulty
		return
	}
	c.state = StatePlay
}

func (c *controller) difficultyKey(k tcell.Key, r rune) {
	if k == tcell.KeyEscape {
		c.state = StatePlay
		return
	}
	if k != tcell.KeyRune || r < '1' || r > '3' {
		return
	}
	if err := c.session.SetDifficulty(gamedata.Difficulty(r - '1')); err != nil {
		c.log.Error("set difficulty", zap.Error(err))
	}
	c.state = StatePlay
}

func (c *controller) playKey(ctx context.Context, k tcell.Key, r rune) {
	switch k {
	case tcell.KeyEscape:
		c.session.LeaveEntity()
	case tcell.KeyCtrlC:
		c.quit(ctx)
	case tcell.KeyLeft:
		c.moveRoom(-1)
	case tcell.KeyRight:
		c.moveRoom(1)
	case tcell.KeyRune:
		switch {
		case r >= '1' && r <= '9':
			c.pick(int(r - '1'))
		case r == 'i':
			c.run(ctx, c.session.Inspect)
		case r == 'e':
			c.run(ctx, c.session.Interact)
		case r == 'a':
			c.run(ctx, c.session.Attack)
		case r == 't':
			if e := c.session.CurrentEntity(); e != nil && e.State().Capabilities().Allows(entity.VerbInput) {
				c.prompt = c.prompt[:0]
				c.state = StateInput
			}
		case r == 'h':
			c.hint()
		case r == 'v':
			c.session.SetTTS(!c.session.TTS())
		case r == 'q':
			c.quit(ctx)
		}
	}
}

func (c *controller) inputKey(ctx context.Context, k tcell.Key, r rune) {
	switch k {
	case tcell.KeyEscape:
		c.state = StatePlay
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.prompt) > 0 {
			c.prompt = c.prompt[:len(c.prompt)-1]
		}
	case tcell.KeyEnter:
		text := string(c.prompt)
		c.state = StatePlay
		c.run(ctx, func(ctx context.Context) error {
			return c.session.Input(ctx, text)
		})
	case tcell.KeyRune:
		c.prompt = append(c.prompt, r)
	}
}

func (c *controller) pick(index int) {
	room := c.session.CurrentRoom()
	if index >= len(room.Entities) {
		return
	}
	if err := c.session.PickEntity(room.Entities[index]); err != nil {
		c.log.Error("pick entity", zap.Error(err))
	}
}

func (c *controller) moveRoom(delta int) {
	_, room := c.session.Location()
	if err := c.session.SetCurrentRoom(room + delta); err != nil {
		return // edge of the floor
	}
	c.message, c.failed = "", false
}

// run performs one intent and takes the resulting message.
func (c *controller) run(ctx context.Context, intent func(context.Context) error) {
	err := intent(ctx)
	switch {
	case errors.Is(err, session.ErrNoEntity):
		return
	case err != nil:
		c.message, c.failed = c.text("action.failed"), true
		return
	}
	c.message, c.failed = "", false
	if msg, ok := c.session.TakeMessage(); ok {
		c.message = msg
	}
	c.tick(ctx)
}

func (c *controller) hint() {
	puzzle := ""
	if e := c.session.CurrentEntity(); e != nil {
		puzzle = e.ID()
	}
	c.message, c.failed = c.session.Hint(puzzle), false
}

// tick ends the game once the player escapes or runs out of time.
func (c *controller) tick(ctx context.Context) {
	if c.state != StatePlay && c.state != StateInput {
		return
	}
	escaped := c.session.IsPuzzleCompleted(session.EscapePuzzle)
	if !escaped && c.session.Time() > 0 {
		return
	}
	c.finish(ctx, escaped)
}

func (c *controller) finish(ctx context.Context, escaped bool) {
	c.session.End()

	headline := c.text("ui.end.timeout")
	if escaped {
		headline = c.text("ui.end.escaped")
	}
	c.result = []string{headline}

	total := score.Total(c.session.Time(), c.session.Difficulty())
	line := fmt.Sprintf("%s: %d", c.text("ui.end.score"), total)
	if escaped {
		improved, err := c.session.RecordSession(ctx)
		if err != nil {
			c.log.Error("record session", zap.Error(err))
		}
		if improved {
			line += "  " + c.text("ui.end.best")
		}
	}
	c.result = append(c.result, line, "", c.text("ui.end.leaderboard"))
	for i, e := range c.session.Leaderboard(ctx) {
		c.result = append(c.result, fmt.Sprintf("%d. %-16s %6s  %s", i+1, e.Username, ui.FormatTime(time.Duration(*e.TimeRemaining)*time.Second), e.Difficulty))
	}

	if err := c.session.Write(ctx); err != nil {
		c.log.Error("write finished session", zap.Error(err))
	}
	c.state = StateEnded
}

func (c *controller) quit(ctx context.Context) {
	if err := c.session.Logout(ctx); err != nil {
		c.log.Error("save on quit", zap.Error(err))
	}
	c.running = false
}

func (c *controller) playView() ui.PlayView {
	s := c.session
	room := s.CurrentRoom()
	v := ui.PlayView{
		Location: s.CurrentFloor().Name(c.texts) + " / " + room.Name(c.texts),
		Intro:    room.Intro(c.texts),
		Selected: -1,
		Time:     s.Time(),
		Message:  c.message,
		Failed:   c.failed,
		Help:     c.text("ui.keys.play"),
	}

	selected := s.CurrentEntity()
	for i, e := range room.Entities {
		v.Entities = append(v.Entities, e.Name(c.texts))
		if e == selected {
			v.Selected = i
		}
	}
	if selected != nil {
		caps := selected.State().Capabilities()
		for _, verb := range []struct {
			key  string
			verb entity.Verb
		}{{"i", entity.VerbInspect}, {"e", entity.VerbInteract}, {"a", entity.VerbAttack}, {"t", entity.VerbInput}} {
			if caps.Allows(verb.verb) {
				v.Verbs = append(v.Verbs, "["+verb.key+"] "+c.text("verb."+string(verb.verb)))
			}
		}
	}

	items := s.Inventory()
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, gamedata.ItemName(c.texts, item))
	}
	carrying := c.text("ui.nothing")
	if len(names) > 0 {
		carrying = strings.Join(names, ", ")
	}
	v.Inventory = c.text("ui.carrying") + " " + carrying

	if c.state == StateInput {
		v.Typing = true
		v.Prompt = string(c.prompt)
		v.Help = c.text("ui.keys.input")
	}
	return v
}

func (c *controller) loginView() ui.LoginView {
	mode := c.text("ui.login.existing")
	if c.form.create {
		mode = c.text("ui.login.create")
	}
	return ui.LoginView{
		Title:  c.text("ui.login.title"),
		Mode:   mode,
		Labels: [2]string{c.text("ui.login.username"), c.text("ui.login.password")},
		Values: c.form.values,
		Focus:  c.form.focus,
		Reason: c.form.reason,
		Help:   c.text("ui.login.keys"),
	}
}

func (c *controller) difficultyView() ui.MenuView {
	v := ui.MenuView{
		Title: c.text("ui.difficulty.title"),
		Help:  c.text("ui.difficulty.keys"),
	}
	for d := gamedata.DifficultyTrivial; d <= gamedata.DifficultyVirtuosic; d++ {
		v.Lines = append(v.Lines, fmt.Sprintf("%d. %-12s %s  x%d", int(d)+1, d, ui.FormatTime(d.StartingTime()), d.Multiplier()))
	}
	return v
}

func (c *controller) endView() ui.MenuView {
	v := ui.MenuView{Help: c.text("ui.end.keys")}
	if len(c.result) > 0 {
		v.Title, v.Lines = c.result[0], c.result[1:]
	}
	return v
}

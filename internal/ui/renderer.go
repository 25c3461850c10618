package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
)

// lowTime is when the countdown turns red.
const lowTime = 5 * time.Minute

// PlayView is everything shown while exploring a room.
type PlayView struct {
	Location  string // "Floor / Room"
	Intro     string
	Entities  []string
	Selected  int // index into Entities, -1 for none
	Verbs     []string
	Inventory string
	Time      time.Duration
	Message   string
	Failed    bool
	Prompt    string // free text being typed; shown when Typing is set
	Typing    bool
	Help      string
}

// LoginView is the login form.
type LoginView struct {
	Title  string
	Mode   string
	Labels [2]string // username, password
	Values [2]string
	Focus  int
	Reason string
	Help   string
}

// MenuView is a title with a list of lines, used for the difficulty picker
// and the end screen.
type MenuView struct {
	Title string
	Lines []string
	Help  string
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
	theme  Theme
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, theme Theme) *Renderer {
	return &Renderer{screen: screen, theme: theme}
}

// RenderPlay draws the room view.
func (r *Renderer) RenderPlay(v PlayView) {
	r.screen.Clear()
	width, height := r.screen.Size()

	r.screen.DrawText(1, 0, v.Location, r.theme.Title)
	timer := FormatTime(v.Time)
	timerStyle := r.theme.Timer
	if v.Time < lowTime {
		timerStyle = r.theme.TimerLow
	}
	r.screen.DrawText(width-len(timer)-1, 0, timer, timerStyle)

	y := r.paragraph(1, 2, width-2, v.Intro, r.theme.Text) + 1

	for i, name := range v.Entities {
		style := r.theme.Entity
		marker := "  "
		if i == v.Selected {
			style = r.theme.Selected
			marker = "> "
		}
		x := r.screen.DrawText(1, y, marker, style)
		r.screen.DrawText(x, y, strconv.Itoa(i+1)+") "+name, style)
		y++
	}
	if len(v.Verbs) > 0 {
		r.screen.DrawText(3, y, strings.Join(v.Verbs, "  "), r.theme.Muted)
		y++
	}
	y++

	r.screen.DrawText(1, y, v.Inventory, r.theme.Muted)
	y += 2

	msgStyle := r.theme.Message
	if v.Failed {
		msgStyle = r.theme.Error
	}
	r.paragraph(1, y, width-2, v.Message, msgStyle)

	if v.Typing {
		x := r.screen.DrawText(1, height-2, "> ", r.theme.Selected)
		r.screen.DrawText(x, height-2, v.Prompt+"_", r.theme.Text)
	}
	r.screen.DrawText(1, height-1, v.Help, r.theme.Muted)
	r.screen.Show()
}

// RenderLogin draws the login form.
func (r *Renderer) RenderLogin(v LoginView) {
	r.screen.Clear()
	width, height := r.screen.Size()

	r.screen.DrawText(1, 1, v.Title, r.theme.Title)
	r.screen.DrawText(1, 3, v.Mode, r.theme.Muted)
	for i := range v.Labels {
		style := r.theme.Text
		if i == v.Focus {
			style = r.theme.Selected
		}
		value := v.Values[i]
		if i == 1 {
			value = strings.Repeat("*", len(value))
		}
		x := r.screen.DrawText(1, 5+i, v.Labels[i]+": ", style)
		if i == v.Focus {
			value += "_"
		}
		r.screen.DrawText(x, 5+i, value, r.theme.Text)
	}
	r.paragraph(1, 8, width-2, v.Reason, r.theme.Error)
	r.screen.DrawText(1, height-1, v.Help, r.theme.Muted)
	r.screen.Show()
}

// RenderMenu draws a titled list.
func (r *Renderer) RenderMenu(v MenuView) {
	r.screen.Clear()
	width, height := r.screen.Size()

	r.screen.DrawText(1, 1, v.Title, r.theme.Title)
	y := 3
	for _, line := range v.Lines {
		y = r.paragraph(1, y, width-2, line, r.theme.Text)
	}
	r.screen.DrawText(1, height-1, v.Help, r.theme.Muted)
	r.screen.Show()
}

// paragraph draws wrapped text and returns the row after it.
func (r *Renderer) paragraph(x, y, width int, text string, style tcell.Style) int {
	if text == "" {
		return y
	}
	for _, line := range Wrap(text, width) {
		r.screen.DrawText(x, y, line, style)
		y++
	}
	return y
}

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// ThemeFile is the JSON layout of theme.json: hex colors by role.
type ThemeFile struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Muted    string `json:"muted"`
	Entity   string `json:"entity"`
	Selected string `json:"selected"`
	Message  string `json:"message"`
	Timer    string `json:"timer"`
	TimerLow string `json:"timerLow"`
	Error    string `json:"error"`
}

// Theme holds the style for each kind of text on screen.
type Theme struct {
	Title    tcell.Style
	Text     tcell.Style
	Muted    tcell.Style
	Entity   tcell.Style
	Selected tcell.Style
	Message  tcell.Style
	Timer    tcell.Style
	TimerLow tcell.Style
	Error    tcell.Style
}

// LoadTheme reads the embedded theme.json.
func LoadTheme() (Theme, error) {
	file, err := gamedata.Load[ThemeFile]("theme.json")
	if err != nil {
		return Theme{}, err
	}
	return NewTheme(file)
}

// NewTheme parses every color in file.
func NewTheme(file ThemeFile) (Theme, error) {
	var (
		t   Theme
		err error
	)
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	style := func(hex string) tcell.Style {
		if err != nil {
			return base
		}
		var c tcell.Color
		c, err = ParseHexColor(hex)
		return base.Foreground(c)
	}

	t.Title = style(file.Title).Bold(true)
	t.Text = style(file.Text)
	t.Muted = style(file.Muted)
	t.Entity = style(file.Entity)
	t.Selected = style(file.Selected).Bold(true)
	t.Message = style(file.Message)
	t.Timer = style(file.Timer)
	t.TimerLow = style(file.TimerLow).Bold(true)
	t.Error = style(file.Error)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %w", err)
	}
	return t, nil
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %q", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return tcell.NewHexColor(int32(rgb)), nil
}

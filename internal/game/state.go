// Package game drives the session from the terminal.
package game

// State is which screen the player is on.
type State int

const (
	// StateLogin shows the login and account creation form.
	StateLogin State = iota
	// StateDifficulty asks a new player for a difficulty.
	StateDifficulty
	// StatePlay is the room view.
	StatePlay
	// StateInput collects free text for the selected entity.
	StateInput
	// StateEnded shows the result and leaderboard.
	StateEnded
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateLogin:
		return "login"
	case StateDifficulty:
		return "difficulty"
	case StatePlay:
		return "play"
	case StateInput:
		return "input"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

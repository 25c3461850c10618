package game

import "time"

// Config holds game loop options.
type Config struct {
	// Tick is how often the countdown is redrawn and checked.
	Tick time.Duration
}

// DefaultConfig returns the options used by the terminal build.
func DefaultConfig() Config {
	return Config{Tick: time.Second}
}

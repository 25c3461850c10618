package gamedata

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the tier a session is played at. Higher tiers multiply
// penalties and scores.
type Difficulty int

const (
	DifficultyTrivial Difficulty = iota
	DifficultySubstantial
	DifficultyVirtuosic
)

// ParseDifficulty parses a difficulty name, case-insensitively.
func ParseDifficulty(name string) (Difficulty, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRIVIAL":
		return DifficultyTrivial, nil
	case "SUBSTANTIAL":
		return DifficultySubstantial, nil
	case "VIRTUOSIC":
		return DifficultyVirtuosic, nil
	default:
		return DifficultyTrivial, fmt.Errorf("unknown difficulty %q", name)
	}
}

// String returns the canonical upper-case difficulty name.
func (d Difficulty) String() string {
	switch d {
	case DifficultyTrivial:
		return "TRIVIAL"
	case DifficultySubstantial:
		return "SUBSTANTIAL"
	case DifficultyVirtuosic:
		return "VIRTUOSIC"
	default:
		return "UNKNOWN"
	}
}

// Multiplier scales penalties and scores: 1, 2 and 3 from easiest to hardest.
func (d Difficulty) Multiplier() int {
	switch d {
	case DifficultySubstantial:
		return 2
	case DifficultyVirtuosic:
		return 3
	default:
		return 1
	}
}

// StartingTime is the countdown budget a fresh game starts with.
func (d Difficulty) StartingTime() time.Duration {
	switch d {
	case DifficultySubstantial:
		return 30 * time.Minute
	case DifficultyVirtuosic:
		return 20 * time.Minute
	default:
		return 45 * time.Minute
	}
}

// Valid reports whether d is one of the defined difficulties.
func (d Difficulty) Valid() bool {
	return d >= DifficultyTrivial && d <= DifficultyVirtuosic
}

// MarshalText encodes the difficulty by name.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a difficulty name.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Severity grades how costly a mistake is.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// penaltyUnit is the smallest penalty, in seconds.
const penaltyUnit = 5

// Base returns the un-scaled penalty in seconds: 1x, 2x or 3x the unit.
func (s Severity) Base() int {
	switch s {
	case SeverityHigh:
		return 3 * penaltyUnit
	case SeverityMedium:
		return 2 * penaltyUnit
	default:
		return penaltyUnit
	}
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	switch s := Severity(strings.ToUpper(strings.TrimSpace(name))); s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return s, nil
	default:
		return "", fmt.Errorf("unknown severity %q", name)
	}
}

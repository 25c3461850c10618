package action

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MatchMode selects how a TakeInput case pattern is compared with input.
type MatchMode string

const (
	// MatchExact compares the normalized input with the normalized pattern.
	MatchExact MatchMode = "exact"
	// MatchRegex matches the whole normalized input, case-insensitively.
	MatchRegex MatchMode = "regex"
)

// Normalize trims and lower-cases free-text input.
func Normalize(input string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(input))
}

// Case is one pattern of a TakeInput.
type Case struct {
	Pattern string
	Mode    MatchMode
	Action  Action

	re *regexp.Regexp
}

// ExactCase builds an exact-match case.
func ExactCase(pattern string, a Action) Case {
	return Case{Pattern: pattern, Mode: MatchExact, Action: a}
}

// RegexCase builds a regex case. The pattern must match the whole input.
func RegexCase(pattern string, a Action) (Case, error) {
	re, err := regexp.Compile("(?i)^(?:" + pattern + ")$")
	if err != nil {
		return Case{}, fmt.Errorf("compile input pattern %q: %w", pattern, err)
	}
	return Case{Pattern: pattern, Mode: MatchRegex, Action: a, re: re}, nil
}

func (c Case) matches(normalized string) bool {
	if c.Mode == MatchRegex && c.re != nil {
		return c.re.MatchString(normalized)
	}
	return normalized == Normalize(c.Pattern)
}

// TakeInput dispatches on free-text input: the first matching case runs,
// otherwise the default (if any). The input is set with SetInput before each
// Execute; one instance serves every attempt the player makes.
type TakeInput struct {
	cases    []Case
	fallback Action
	input    string
}

// NewTakeInput creates an input dispatcher. fallback may be nil.
func NewTakeInput(cases []Case, fallback Action) *TakeInput {
	return &TakeInput{cases: append([]Case(nil), cases...), fallback: fallback}
}

func (t *TakeInput) Kind() Kind { return KindTakeInput }

// SetInput replaces the input used by the next Execute.
func (t *TakeInput) SetInput(text string) {
	t.input = text
	for _, c := range t.cases {
		forwardInput(c.Action, text)
	}
	forwardInput(t.fallback, text)
}

// Input returns the input the next Execute will use.
func (t *TakeInput) Input() string { return t.input }

func (t *TakeInput) Execute(ctx context.Context, s State) error {
	normalized := Normalize(t.input)
	for _, c := range t.cases {
		if c.matches(normalized) {
			if c.Action == nil {
				return nil
			}
			return c.Action.Execute(ctx, s)
		}
	}
	if t.fallback != nil {
		return t.fallback.Execute(ctx, s)
	}
	return nil
}

func (t *TakeInput) sealed() {}

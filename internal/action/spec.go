package action

import (
	"fmt"

	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// Spec is the JSON form of an action as written in content files.
//
//	{"type": "chain", "actions": [...]}
//	{"type": "conditional", "if": {"hasItem": "KEY"}, "then": {...}, "else": {...}}
//	{"type": "giveItem", "item": "KEY"}
//	{"type": "setFloor", "floor": 1}
//	{"type": "setMessage", "key": "door.locked"}   // or "text": "literal"
//	{"type": "removeTime", "severity": "HIGH"}     // "addPenalty" is accepted too
//	{"type": "completePuzzle", "puzzle": "grate"}
//	{"type": "swapEntities", "entity": "door", "state": "door_open"}
//	{"type": "takeInput", "cases": [{"pattern": "cd", "match": "exact", "action": {...}}], "default": {...}}
//	{"type": "default"}
type Spec struct {
	Type     string         `json:"type"`
	Actions  []Spec         `json:"actions,omitempty"`
	If       *PredicateSpec `json:"if,omitempty"`
	Then     *Spec          `json:"then,omitempty"`
	Else     *Spec          `json:"else,omitempty"`
	Item     string         `json:"item,omitempty"`
	Floor    *int           `json:"floor,omitempty"`
	Text     string         `json:"text,omitempty"`
	Key      string         `json:"key,omitempty"`
	Severity string         `json:"severity,omitempty"`
	Puzzle   string         `json:"puzzle,omitempty"`
	Entity   string         `json:"entity,omitempty"`
	State    string         `json:"state,omitempty"`
	Cases    []CaseSpec     `json:"cases,omitempty"`
	Default  *Spec          `json:"default,omitempty"`
}

// CaseSpec is one TakeInput case. Match defaults to "exact".
type CaseSpec struct {
	Pattern string `json:"pattern"`
	Match   string `json:"match,omitempty"`
	Action  Spec   `json:"action"`
}

// PredicateSpec is the JSON form of a predicate. Exactly one field is set.
type PredicateSpec struct {
	HasItem         string          `json:"hasItem,omitempty"`
	PuzzleCompleted string          `json:"puzzleCompleted,omitempty"`
	AtLeast         string          `json:"atLeast,omitempty"`
	Not             *PredicateSpec  `json:"not,omitempty"`
	All             []PredicateSpec `json:"all,omitempty"`
	Any             []PredicateSpec `json:"any,omitempty"`
}

// Build compiles a spec into an action. A nil spec builds a nil action.
// Message keys are resolved against the messages namespace now, so missing
// text fails content loading rather than play.
func Build(spec *Spec, texts gamedata.TextResolver) (Action, error) {
	if spec == nil {
		return nil, nil
	}

	switch Kind(spec.Type) {
	case KindChain:
		children := make([]Action, 0, len(spec.Actions))
		for i := range spec.Actions {
			child, err := Build(&spec.Actions[i], texts)
			if err != nil {
				return nil, fmt.Errorf("chain[%d]: %w", i, err)
			}
			children = append(children, child)
		}
		return NewChain(children...), nil

	case KindConditional:
		if spec.If == nil {
			return nil, fmt.Errorf("conditional: missing predicate")
		}
		pred, err := BuildPredicate(spec.If)
		if err != nil {
			return nil, fmt.Errorf("conditional: %w", err)
		}
		then, err := Build(spec.Then, texts)
		if err != nil {
			return nil, fmt.Errorf("conditional then: %w", err)
		}
		otherwise, err := Build(spec.Else, texts)
		if err != nil {
			return nil, fmt.Errorf("conditional else: %w", err)
		}
		return NewConditional(pred, then, otherwise), nil

	case KindGiveItem:
		if spec.Item == "" {
			return NewGiveItem(""), nil
		}
		item, err := gamedata.ParseItem(spec.Item)
		if err != nil {
			return nil, fmt.Errorf("giveItem: %w", err)
		}
		return NewGiveItem(item), nil

	case KindSetFloor:
		if spec.Floor == nil {
			return nil, fmt.Errorf("setFloor: missing floor")
		}
		return NewSetFloor(*spec.Floor), nil

	case KindSetMessage:
		if spec.Key == "" {
			return NewSetMessage(spec.Text), nil
		}
		text, err := texts.Resolve(gamedata.NamespaceMessages, spec.Key)
		if err != nil {
			return nil, fmt.Errorf("setMessage: %w", err)
		}
		return NewSetMessage(text), nil

	case KindRemoveTime, "addPenalty":
		severity, err := gamedata.ParseSeverity(spec.Severity)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Type, err)
		}
		return NewRemoveTime(severity), nil

	case KindCompletePuzzle:
		if spec.Puzzle == "" {
			return nil, fmt.Errorf("completePuzzle: missing puzzle")
		}
		return NewCompletePuzzle(spec.Puzzle), nil

	case KindSwapEntities:
		if spec.Entity == "" || spec.State == "" {
			return nil, fmt.Errorf("swapEntities: entity and state are required")
		}
		return NewSwapEntities(spec.Entity, spec.State), nil

	case KindTakeInput:
		cases := make([]Case, 0, len(spec.Cases))
		for i, cs := range spec.Cases {
			a, err := Build(&spec.Cases[i].Action, texts)
			if err != nil {
				return nil, fmt.Errorf("takeInput case %q: %w", cs.Pattern, err)
			}
			switch MatchMode(cs.Match) {
			case "", MatchExact:
				cases = append(cases, ExactCase(cs.Pattern, a))
			case MatchRegex:
				c, err := RegexCase(cs.Pattern, a)
				if err != nil {
					return nil, fmt.Errorf("takeInput: %w", err)
				}
				cases = append(cases, c)
			default:
				return nil, fmt.Errorf("takeInput case %q: unknown match mode %q", cs.Pattern, cs.Match)
			}
		}
		fallback, err := Build(spec.Default, texts)
		if err != nil {
			return nil, fmt.Errorf("takeInput default: %w", err)
		}
		return NewTakeInput(cases, fallback), nil

	case KindDefault:
		return NewDefault(), nil

	default:
		return nil, fmt.Errorf("unknown action type %q", spec.Type)
	}
}

// BuildPredicate compiles a predicate spec.
func BuildPredicate(spec *PredicateSpec) (Predicate, error) {
	switch {
	case spec.HasItem != "":
		item, err := gamedata.ParseItem(spec.HasItem)
		if err != nil {
			return nil, fmt.Errorf("hasItem: %w", err)
		}
		return HasItem(item), nil
	case spec.PuzzleCompleted != "":
		return PuzzleCompleted(spec.PuzzleCompleted), nil
	case spec.AtLeast != "":
		d, err := gamedata.ParseDifficulty(spec.AtLeast)
		if err != nil {
			return nil, fmt.Errorf("atLeast: %w", err)
		}
		return AtLeast(d), nil
	case spec.Not != nil:
		inner, err := BuildPredicate(spec.Not)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return Not(inner), nil
	case spec.All != nil:
		ps, err := buildPredicates(spec.All)
		if err != nil {
			return nil, fmt.Errorf("all: %w", err)
		}
		return All(ps...), nil
	case spec.Any != nil:
		ps, err := buildPredicates(spec.Any)
		if err != nil {
			return nil, fmt.Errorf("any: %w", err)
		}
		return Any(ps...), nil
	default:
		return nil, fmt.Errorf("empty predicate")
	}
}

func buildPredicates(specs []PredicateSpec) ([]Predicate, error) {
	ps := make([]Predicate, 0, len(specs))
	for i := range specs {
		p, err := BuildPredicate(&specs[i])
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

package action

import "github.com/samdwyer/escaperoom/internal/gamedata"

// Predicate is a side-effect free test over session state.
type Predicate func(r Reader) bool

// HasItem holds when the item is in the inventory.
func HasItem(item gamedata.Item) Predicate {
	return func(r Reader) bool { return r.HasItem(item) }
}

// PuzzleCompleted holds when the named puzzle is solved.
func PuzzleCompleted(name string) Predicate {
	return func(r Reader) bool { return r.IsPuzzleCompleted(name) }
}

// AtLeast holds when the session is played at or above the given difficulty.
func AtLeast(d gamedata.Difficulty) Predicate {
	return func(r Reader) bool { return r.Difficulty() >= d }
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(r Reader) bool { return !p(r) }
}

// All holds when every predicate holds. All() is true.
func All(ps ...Predicate) Predicate {
	return func(r Reader) bool {
		for _, p := range ps {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one predicate holds. Any() is false.
func Any(ps ...Predicate) Predicate {
	return func(r Reader) bool {
		for _, p := range ps {
			if p(r) {
				return true
			}
		}
		return false
	}
}

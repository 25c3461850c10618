// Package score computes run scores and ranks the leaderboard.
package score

import (
	"sort"
	"time"

	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// LeaderboardSize is how many entries the leaderboard shows.
const LeaderboardSize = 5

// timeBonus keeps a run that finished with no time left worth more than zero.
const timeBonus = 100

// Total scores a finished run. It increases with both the time remaining and
// the difficulty. Negative time counts as zero.
func Total(timeRemaining time.Duration, difficulty gamedata.Difficulty) int {
	seconds := int(timeRemaining / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return (seconds + timeBonus) * difficulty.Multiplier()
}

// Entry is one account's best run.
type Entry struct {
	Username      string
	Difficulty    gamedata.Difficulty
	TimeRemaining *int // seconds; nil when the account never finished a run
	TotalScore    *int
}

// Rank orders the entries that have a time remaining: ascending by time
// remaining, then harder difficulty first, then by username. At most limit
// entries are returned; limit <= 0 returns all of them.
func Rank(entries []Entry, limit int) []Entry {
	ranked := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.TimeRemaining != nil {
			ranked = append(ranked, e)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if *a.TimeRemaining != *b.TimeRemaining {
			return *a.TimeRemaining < *b.TimeRemaining
		}
		if a.Difficulty != b.Difficulty {
			return a.Difficulty > b.Difficulty
		}
		return a.Username < b.Username
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Better reports whether a run scoring total beats the stored best.
// Anything beats an empty score.
func Better(total int, best *int) bool {
	return best == nil || total > *best
}

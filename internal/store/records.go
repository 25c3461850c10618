// Package store persists accounts and saved games.
//
// Two documents are kept: an accounts map and a game-states map, both keyed
// by account UUID. Every save rewrites the whole document. Loading is
// tolerant: a missing or corrupt document reads as empty, and entries that do
// not have the expected shape are skipped.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// Document names.
const (
	DocAccounts   = "accounts"
	DocGameStates = "gamestates"
)

// HighScore is an account's best recorded run. A zero-value score has no
// time remaining and no total.
type HighScore struct {
	Difficulty    gamedata.Difficulty `json:"difficulty"`
	TimeRemaining *int                `json:"timeRemaining"` // seconds
	TotalScore    *int                `json:"totalScore"`
}

// AccountRecord is one entry of the accounts document.
type AccountRecord struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashedPassword"`
	HighScore      HighScore `json:"highScore"`
	TTSOn          bool      `json:"ttsOn"`
}

// GameStateRecord is one entry of the game-states document.
type GameStateRecord struct {
	CurrentFloor        int                 `json:"currentFloor"`
	CurrentRoom         int                 `json:"currentRoom"`
	CurrentEntity       *int                `json:"currentEntity"`
	CurrentItems        []gamedata.Item     `json:"currentItems"`
	CompletedPuzzles    []string            `json:"completedPuzzles"`
	Time                int                 `json:"time"` // seconds
	Difficulty          gamedata.Difficulty `json:"difficulty"`
	CurrentEntityStates map[string]string   `json:"currentEntityStates"`
	HintsUsed           map[string]int      `json:"hintsUsed"`
}

// Accounts maps account id to account.
type Accounts map[uuid.UUID]AccountRecord

// GameStates maps account id to that account's saved game.
type GameStates map[uuid.UUID]GameStateRecord

// FindUsername returns the id of the account with the given username.
func (a Accounts) FindUsername(username string) (uuid.UUID, bool) {
	for id, rec := range a {
		if rec.Username == username {
			return id, true
		}
	}
	return uuid.Nil, false
}

// Store loads and saves the two documents.
type Store interface {
	LoadAccounts(ctx context.Context) Accounts
	SaveAccounts(ctx context.Context, accounts Accounts) error
	LoadGameStates(ctx context.Context) GameStates
	SaveGameStates(ctx context.Context, states GameStates) error
	Close() error
}

// DecodeAccounts parses an accounts document. It never fails; anything it
// cannot use is logged and dropped.
func DecodeAccounts(data []byte, log *zap.Logger) Accounts {
	out := Accounts{}
	decodeEntries(data, log, DocAccounts, func(id uuid.UUID, raw json.RawMessage) bool {
		var rec AccountRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.Username == "" || rec.HashedPassword == "" {
			return false
		}
		out[id] = rec
		return true
	})
	return out
}

// DecodeGameStates parses a game-states document with the same tolerance as
// DecodeAccounts.
func DecodeGameStates(data []byte, log *zap.Logger) GameStates {
	out := GameStates{}
	decodeEntries(data, log, DocGameStates, func(id uuid.UUID, raw json.RawMessage) bool {
		var rec GameStateRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return false
		}
		if rec.CurrentFloor < 0 || rec.CurrentRoom < 0 || (rec.CurrentEntity != nil && *rec.CurrentEntity < 0) {
			return false
		}
		out[id] = rec.normalize()
		return true
	})
	return out
}

func decodeEntries(data []byte, log *zap.Logger, doc string, accept func(uuid.UUID, json.RawMessage) bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn("unreadable document, starting empty", zap.String("document", doc), zap.Error(err))
		return
	}

	for key, raw := range entries {
		id, err := uuid.Parse(key)
		if err != nil {
			log.Warn("skipping entry with invalid id", zap.String("document", doc), zap.String("key", key))
			continue
		}
		if !isObject(raw) || !accept(id, raw) {
			log.Warn("skipping malformed entry", zap.String("document", doc), zap.String("key", key))
		}
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// EncodeAccounts renders the accounts document.
func EncodeAccounts(accounts Accounts) ([]byte, error) {
	return json.MarshalIndent(accounts, "", "  ")
}

// EncodeGameStates renders the game-states document. Set-like fields are
// sorted so the output is stable.
func EncodeGameStates(states GameStates) ([]byte, error) {
	out := make(GameStates, len(states))
	for id, rec := range states {
		out[id] = rec.normalize()
	}
	return json.MarshalIndent(out, "", "  ")
}

// normalize replaces nil collections with empty ones and sorts the sets.
func (r GameStateRecord) normalize() GameStateRecord {
	items := make([]gamedata.Item, len(r.CurrentItems))
	copy(items, r.CurrentItems)
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	r.CurrentItems = items

	puzzles := make([]string, len(r.CompletedPuzzles))
	copy(puzzles, r.CompletedPuzzles)
	sort.Strings(puzzles)
	r.CompletedPuzzles = puzzles

	if r.CurrentEntityStates == nil {
		r.CurrentEntityStates = map[string]string{}
	}
	if r.HintsUsed == nil {
		r.HintsUsed = map[string]int{}
	}
	return r
}

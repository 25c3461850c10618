package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samdwyer/escaperoom/internal/gamedata"
)

func intPtr(v int) *int { return &v }

func sampleAccounts() (uuid.UUID, Accounts) {
	id := uuid.MustParse("7f1d3a52-0c1e-4f3b-9c8e-1f2a3b4c5d6e")
	return id, Accounts{
		id: {
			Username:       "alice",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
			HighScore: HighScore{
				Difficulty:    gamedata.DifficultySubstantial,
				TimeRemaining: intPtr(312),
				TotalScore:    intPtr(824),
			},
			TTSOn: true,
		},
		uuid.MustParse("00000000-0000-0000-0000-000000000002"): {
			Username:       "bob",
			HashedPassword: "hash",
		},
	}
}

func sampleGameStates(id uuid.UUID) GameStates {
	return GameStates{
		id: {
			CurrentFloor:        1,
			CurrentRoom:         0,
			CurrentEntity:       intPtr(2),
			CurrentItems:        []gamedata.Item{gamedata.ItemCD, gamedata.ItemKeycard},
			CompletedPuzzles:    []string{"bed", "hatch"},
			Time:                900,
			Difficulty:          gamedata.DifficultyVirtuosic,
			CurrentEntityStates: map[string]string{"terminal": "terminal_done"},
			HintsUsed:           map[string]int{"hatch": 2},
		},
	}
}

// stores returns each backend rooted in a fresh temp dir.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	sqlite, err := OpenSQLite(filepath.Join(dir, "game.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"file":   NewFileStore(filepath.Join(dir, "accounts.json"), filepath.Join(dir, "gamestates.json"), zap.NewNop()),
		"sqlite": sqlite,
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, s.LoadAccounts(ctx), "first run starts empty")
			assert.Empty(t, s.LoadGameStates(ctx))

			id, accounts := sampleAccounts()
			states := sampleGameStates(id)
			require.NoError(t, s.SaveAccounts(ctx, accounts))
			require.NoError(t, s.SaveGameStates(ctx, states))

			gotAccounts := s.LoadAccounts(ctx)
			assert.Equal(t, accounts, gotAccounts)
			assert.Nil(t, gotAccounts[uuid.MustParse("00000000-0000-0000-0000-000000000002")].HighScore.TimeRemaining)
			assert.Equal(t, states, s.LoadGameStates(ctx))
		})
	}
}

func TestSaveReplacesWholeDocument(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, accounts := sampleAccounts()
			require.NoError(t, s.SaveAccounts(ctx, accounts))

			only := Accounts{uuid.New(): {Username: "carol", HashedPassword: "h"}}
			require.NoError(t, s.SaveAccounts(ctx, only))
			assert.Equal(t, only, s.LoadAccounts(ctx))
		})
	}
}

func TestAccountsJSONShape(t *testing.T) {
	id, accounts := sampleAccounts()
	data, err := EncodeAccounts(Accounts{id: accounts[id]})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"7f1d3a52-0c1e-4f3b-9c8e-1f2a3b4c5d6e": {
			"username": "alice",
			"hashedPassword": "$2a$10$abcdefghijklmnopqrstuv",
			"highScore": {"difficulty": "SUBSTANTIAL", "timeRemaining": 312, "totalScore": 824},
			"ttsOn": true
		}
	}`, string(data))
}

func TestGameStatesJSONShape(t *testing.T) {
	id := uuid.MustParse("7f1d3a52-0c1e-4f3b-9c8e-1f2a3b4c5d6e")
	data, err := EncodeGameStates(GameStates{id: {
		CurrentItems: []gamedata.Item{gamedata.ItemKey, gamedata.ItemCD},
		Time:         60,
	}})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"7f1d3a52-0c1e-4f3b-9c8e-1f2a3b4c5d6e": {
			"currentFloor": 0,
			"currentRoom": 0,
			"currentEntity": null,
			"currentItems": ["CD", "KEY"],
			"completedPuzzles": [],
			"time": 60,
			"difficulty": "TRIVIAL",
			"currentEntityStates": {},
			"hintsUsed": {}
		}
	}`, string(data))
}

func TestDecodeSkipsMalformedEntries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	doc := []byte(`{
		"7f1d3a52-0c1e-4f3b-9c8e-1f2a3b4c5d6e": {"username": "alice", "hashedPassword": "h", "highScore": {"difficulty": "TRIVIAL", "timeRemaining": null, "totalScore": null}, "ttsOn": false},
		"00000000-0000-0000-0000-000000000002": "not an object",
		"00000000-0000-0000-0000-000000000003": null,
		"00000000-0000-0000-0000-000000000004": {"username": 42},
		"00000000-0000-0000-0000-000000000005": {"username": "dave"},
		"not-a-uuid": {"username": "eve", "hashedPassword": "h"}
	}`)

	got := DecodeAccounts(doc, zap.New(core))
	require.Len(t, got, 1)
	id, ok := got.FindUsername("alice")
	require.True(t, ok)
	assert.Equal(t, "7f1d3a52-0c1e-4f3b-9c8e-1f2a3b4c5d6e", id.String())
	assert.Equal(t, 5, logs.Len())

	_, ok = got.FindUsername("dave")
	assert.False(t, ok)
}

func TestDecodeGameStatesSkipsBadEntries(t *testing.T) {
	doc := []byte(`{
		"00000000-0000-0000-0000-000000000001": {"currentFloor": 0, "currentRoom": 1, "currentEntity": null, "currentItems": ["KEY"], "completedPuzzles": [], "time": 10, "difficulty": "TRIVIAL", "currentEntityStates": {}, "hintsUsed": {}},
		"00000000-0000-0000-0000-000000000002": {"currentItems": ["SWORD"]},
		"00000000-0000-0000-0000-000000000003": {"difficulty": "IMPOSSIBLE"},
		"00000000-0000-0000-0000-000000000004": {"currentFloor": -1},
		"00000000-0000-0000-0000-000000000005": [1, 2, 3]
	}`)

	got := DecodeGameStates(doc, zap.NewNop())
	require.Len(t, got, 1)
	rec := got[uuid.MustParse("00000000-0000-0000-0000-000000000001")]
	assert.Equal(t, 1, rec.CurrentRoom)
	assert.Equal(t, []gamedata.Item{gamedata.ItemKey}, rec.CurrentItems)
}

func TestDecodeCorruptDocument(t *testing.T) {
	for _, doc := range []string{"", "   ", "{", "[]", "null", `"accounts"`} {
		assert.Empty(t, DecodeAccounts([]byte(doc), zap.NewNop()), "doc %q", doc)
		assert.Empty(t, DecodeGameStates([]byte(doc), zap.NewNop()), "doc %q", doc)
	}
}

func TestFileStoreCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	s := NewFileStore(path, filepath.Join(dir, "gamestates.json"), nil)
	assert.Empty(t, s.LoadAccounts(context.Background()))
}

func TestFileStoreWriteErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewFileStore(filepath.Join(blocker, "accounts.json"), filepath.Join(blocker, "gamestates.json"), zap.NewNop())
	_, accounts := sampleAccounts()
	assert.Error(t, s.SaveAccounts(context.Background(), accounts))
	assert.Error(t, s.SaveGameStates(context.Background(), GameStates{}))
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "accounts.json"), filepath.Join(dir, "gamestates.json"), zap.NewNop())
	_, accounts := sampleAccounts()
	require.NoError(t, s.SaveAccounts(context.Background(), accounts))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "accounts.json", entries[0].Name())
}

func TestSQLiteCorruptRowReadsEmpty(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "game.db"), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)`,
		DocGameStates, []byte("garbage"), time.Now().UnixMilli())
	require.NoError(t, err)
	assert.Empty(t, s.LoadGameStates(context.Background()))
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ", nil)
	assert.Error(t, err)
}

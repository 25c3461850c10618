package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/samdwyer/escaperoom/internal/score"
	"github.com/samdwyer/escaperoom/internal/store"
)

// Account field limits, in bytes. bcrypt ignores anything past 72 bytes.
const (
	MaxUsernameLen = 32
	MaxPasswordLen = 72
)

// Reasons returned when an account operation is refused.
const (
	ReasonEmptyUsername    = "username is empty"
	ReasonLongUsername     = "username is longer than 32 bytes"
	ReasonEmptyPassword    = "password is empty"
	ReasonLongPassword     = "password is longer than 72 bytes"
	ReasonUsernameTaken    = "username is already taken"
	ReasonUnknownUsername  = "no account with that username"
	ReasonWrongPassword    = "wrong password"
	ReasonStoreUnavailable = "accounts could not be saved"
)

// Hasher hashes and checks passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher is the default Hasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher. A cost of 0 uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validateCredentials(username, password string) string {
	switch {
	case username == "":
		return ReasonEmptyUsername
	case len(username) > MaxUsernameLen:
		return ReasonLongUsername
	case password == "":
		return ReasonEmptyPassword
	case len(password) > MaxPasswordLen:
		return ReasonLongPassword
	}
	return ""
}

// CreateAccount registers a new account and logs into it. On failure it
// returns false and a reason suitable for showing the player.
func (s *Session) CreateAccount(ctx context.Context, username, password string) (bool, string) {
	if reason := validateCredentials(username, password); reason != "" {
		return false, reason
	}

	accounts := s.store.LoadAccounts(ctx)
	if _, taken := accounts.FindUsername(username); taken {
		return false, ReasonUsernameTaken
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return false, ReasonStoreUnavailable
	}

	id := uuid.New()
	accounts[id] = store.AccountRecord{Username: username, HashedPassword: hashed}
	if err := s.store.SaveAccounts(ctx, accounts); err != nil {
		s.log.Error("save new account", zap.String("username", username), zap.Error(err))
		return false, ReasonStoreUnavailable
	}

	s.log.Info("account created", zap.String("username", username), zap.Stringer("account", id))
	rec := accounts[id]
	s.Begin(ctx, id, rec)
	return true, ""
}

// Login checks the credentials and resumes the account's saved game.
func (s *Session) Login(ctx context.Context, username, password string) (bool, string) {
	if reason := validateCredentials(username, password); reason != "" {
		return false, reason
	}

	accounts := s.store.LoadAccounts(ctx)
	id, ok := accounts.FindUsername(username)
	if !ok {
		return false, ReasonUnknownUsername
	}
	rec := accounts[id]
	if !s.hasher.Compare(rec.HashedPassword, password) {
		s.log.Info("failed login", zap.String("username", username))
		return false, ReasonWrongPassword
	}

	s.Begin(ctx, id, rec)
	return true, ""
}

// Logout saves the game and forgets the account.
func (s *Session) Logout(ctx context.Context) error {
	if s.account == nil {
		return nil
	}
	if err := s.Write(ctx); err != nil {
		return err
	}
	s.log.Info("logged out", zap.String("username", s.account.Username))
	s.accountID, s.account = uuid.Nil, nil
	s.building.ResetStates()
	s.clear()
	return nil
}

// LoggedIn reports whether an account is active.
func (s *Session) LoggedIn() bool { return s.account != nil }

// Username returns the active account's name, or "".
func (s *Session) Username() string {
	if s.account == nil {
		return ""
	}
	return s.account.Username
}

// HighScore returns the active account's best run.
func (s *Session) HighScore() store.HighScore {
	if s.account == nil {
		return store.HighScore{}
	}
	return s.account.HighScore
}

// TTS reports whether the account wants text read aloud.
func (s *Session) TTS() bool {
	return s.account != nil && s.account.TTSOn
}

// SetTTS stores the text-to-speech preference on the account. It is saved
// with the next Write.
func (s *Session) SetTTS(on bool) {
	if s.account != nil {
		s.account.TTSOn = on
	}
}

// RecordSession scores the current run and keeps it as the account's high
// score when it is strictly better. It reports whether the score changed.
func (s *Session) RecordSession(ctx context.Context) (bool, error) {
	if s.account == nil {
		return false, ErrNotLoggedIn
	}

	remaining := s.Time()
	total := score.Total(remaining, s.difficulty)
	if !score.Better(total, s.account.HighScore.TotalScore) {
		return false, nil
	}

	seconds := max(int(remaining.Seconds()), 0)
	s.account.HighScore = store.HighScore{
		Difficulty:    s.difficulty,
		TimeRemaining: &seconds,
		TotalScore:    &total,
	}

	accounts := s.store.LoadAccounts(ctx)
	accounts[s.accountID] = *s.account
	if err := s.store.SaveAccounts(ctx, accounts); err != nil {
		return false, fmt.Errorf("record session: %w", err)
	}
	s.log.Info("new high score",
		zap.String("username", s.account.Username),
		zap.Int("score", total),
		zap.Stringer("difficulty", s.difficulty),
	)
	return true, nil
}

// Leaderboard ranks every stored account's best run.
func (s *Session) Leaderboard(ctx context.Context) []score.Entry {
	accounts := s.store.LoadAccounts(ctx)
	entries := make([]score.Entry, 0, len(accounts))
	for _, rec := range accounts {
		entries = append(entries, score.Entry{
			Username:      rec.Username,
			Difficulty:    rec.HighScore.Difficulty,
			TimeRemaining: rec.HighScore.TimeRemaining,
			TotalScore:    rec.HighScore.TotalScore,
		})
	}
	return score.Rank(entries, score.LeaderboardSize)
}

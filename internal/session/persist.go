package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/gamedata"
	"github.com/samdwyer/escaperoom/internal/store"
)

// Begin starts playing as the given account. Entity states are reset and the
// account's saved game, if any, is loaded; otherwise a new game starts at
// the trivial difficulty. The countdown starts now.
func (s *Session) Begin(ctx context.Context, id uuid.UUID, account store.AccountRecord) {
	ctx, span := s.tracer.Start(ctx, "session.begin")
	defer span.End()

	s.accountID, s.account = id, &account
	s.building.ResetStates()
	s.difficulty = gamedata.DifficultyTrivial
	s.clear()

	saved, ok := s.store.LoadGameStates(ctx)[id]
	if ok {
		s.restore(saved)
	}
	s.start = s.now()

	span.SetAttributes(
		attribute.String("account.id", id.String()),
		attribute.Bool("session.resumed", ok),
		attribute.Int("session.floor", s.floor),
		attribute.Int("session.room", s.room),
	)
	s.log.Info("session started",
		zap.String("username", account.Username),
		zap.Bool("resumed", ok),
		zap.Duration("time", s.budget),
	)
}

// Write freezes the countdown and saves the account and its game. Both
// documents are rewritten in full. An ended game is removed so the next
// login starts over.
func (s *Session) Write(ctx context.Context) (err error) {
	if s.account == nil {
		return ErrNotLoggedIn
	}

	ctx, span := s.tracer.Start(ctx, "session.write")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	s.freeze()

	accounts := s.store.LoadAccounts(ctx)
	accounts[s.accountID] = *s.account

	states := s.store.LoadGameStates(ctx)
	if s.ended {
		delete(states, s.accountID)
	} else {
		states[s.accountID] = s.Snapshot()
	}

	if err := s.store.SaveAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := s.store.SaveGameStates(ctx, states); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	span.SetAttributes(attribute.Int("session.time_seconds", int(s.budget/time.Second)))
	s.log.Debug("session written", zap.String("username", s.account.Username))
	return nil
}

// Snapshot returns the game as it would be saved now.
func (s *Session) Snapshot() store.GameStateRecord {
	var current *int
	if s.CurrentEntity() != nil {
		i := s.entity
		current = &i
	}

	hints := make(map[string]int, len(s.hintsUsed))
	for k, v := range s.hintsUsed {
		hints[k] = v
	}

	return store.GameStateRecord{
		CurrentFloor:        s.floor,
		CurrentRoom:         s.room,
		CurrentEntity:       current,
		CurrentItems:        s.Inventory(),
		CompletedPuzzles:    s.CompletedPuzzles(),
		Time:                int(s.Time() / time.Second),
		Difficulty:          s.difficulty,
		CurrentEntityStates: s.building.EntityStates(),
		HintsUsed:           hints,
	}
}

// restore loads a saved game. Parts that no longer match the content are
// dropped with a warning.
func (s *Session) restore(rec store.GameStateRecord) {
	s.fresh = false
	s.difficulty = rec.Difficulty
	s.budget = time.Duration(rec.Time) * time.Second

	if _, ok := s.building.Room(rec.CurrentFloor, rec.CurrentRoom); ok {
		s.floor, s.room = rec.CurrentFloor, rec.CurrentRoom
		if rec.CurrentEntity != nil {
			s.entity = *rec.CurrentEntity
			if s.CurrentEntity() == nil {
				s.entity = -1
			}
		}
	} else {
		s.log.Warn("saved location not in building",
			zap.Int("floor", rec.CurrentFloor), zap.Int("room", rec.CurrentRoom))
	}

	for _, item := range rec.CurrentItems {
		s.AddItem(item)
	}
	for _, p := range rec.CompletedPuzzles {
		s.CompletePuzzle(p)
	}
	for k, v := range rec.HintsUsed {
		s.hintsUsed[k] = v
	}
	if err := s.building.RestoreStates(rec.CurrentEntityStates); err != nil {
		s.log.Warn("saved entity state not in building", zap.Error(err))
	}
}

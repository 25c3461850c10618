package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/action"
	"github.com/samdwyer/escaperoom/internal/entity"
	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// Interact runs the selected entity's interact verb.
func (s *Session) Interact(ctx context.Context) error {
	return s.dispatch(ctx, entity.VerbInteract, func(e *entity.Entity) error {
		return e.Interact(ctx, s)
	})
}

// Inspect runs the selected entity's inspect verb.
func (s *Session) Inspect(ctx context.Context) error {
	return s.dispatch(ctx, entity.VerbInspect, func(e *entity.Entity) error {
		return e.Inspect(ctx, s)
	})
}

// Attack runs the selected entity's attack verb.
func (s *Session) Attack(ctx context.Context) error {
	return s.dispatch(ctx, entity.VerbAttack, func(e *entity.Entity) error {
		return e.Attack(ctx, s)
	})
}

// Input passes free text to the selected entity.
func (s *Session) Input(ctx context.Context, text string) error {
	return s.dispatch(ctx, entity.VerbInput, func(e *entity.Entity) error {
		return e.TakeInput(ctx, s, text)
	})
}

// dispatch runs one player intent against the selected entity. If the
// entity's action fails, every change it made is undone before the error is
// returned.
func (s *Session) dispatch(ctx context.Context, verb entity.Verb, run func(*entity.Entity) error) error {
	if s.ended {
		return ErrEnded
	}
	e := s.CurrentEntity()
	if e == nil {
		return ErrNoEntity
	}

	ctx, span := s.tracer.Start(ctx, "session."+string(verb))
	defer span.End()
	span.SetAttributes(
		attribute.String("entity.id", e.ID()),
		attribute.String("entity.state", e.State().ID()),
	)

	cp := s.checkpoint()
	if err := run(e); err != nil {
		s.rollback(cp)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error("action failed",
			zap.String("verb", string(verb)),
			zap.String("entity", e.ID()),
			zap.String("state", cp.entityStates[e.ID()]),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", verb, e.ID(), err)
	}

	s.fresh = false
	span.SetAttributes(attribute.String("entity.state_after", e.State().ID()))
	return nil
}

// checkpoint is a copy of everything an action can change.
type checkpoint struct {
	floor, room, entity int
	inventory           map[gamedata.Item]struct{}
	puzzles             map[string]struct{}
	budget, penalties   time.Duration
	message             string
	hasMessage          bool
	entityStates        map[string]string
}

func (s *Session) checkpoint() checkpoint {
	cp := checkpoint{
		floor:        s.floor,
		room:         s.room,
		entity:       s.entity,
		inventory:    make(map[gamedata.Item]struct{}, len(s.inventory)),
		puzzles:      make(map[string]struct{}, len(s.puzzles)),
		budget:       s.budget,
		penalties:    s.penalties,
		message:      s.message,
		hasMessage:   s.hasMessage,
		entityStates: s.building.EntityStates(),
	}
	for k := range s.inventory {
		cp.inventory[k] = struct{}{}
	}
	for k := range s.puzzles {
		cp.puzzles[k] = struct{}{}
	}
	return cp
}

func (s *Session) rollback(cp checkpoint) {
	s.floor, s.room, s.entity = cp.floor, cp.room, cp.entity
	s.inventory = cp.inventory
	s.puzzles = cp.puzzles
	s.budget, s.penalties = cp.budget, cp.penalties
	s.message, s.hasMessage = cp.message, cp.hasMessage
	if err := s.building.RestoreStates(cp.entityStates); err != nil {
		s.log.Error("rollback entity states", zap.Error(err))
	}
}

// Hint returns the next hint for a puzzle and charges a low-severity
// penalty for it. Once the authored hints run out the last one repeats.
// Puzzles without hints cost nothing. A charged hint starts the game.
func (s *Session) Hint(puzzle string) string {
	next := s.hintsUsed[puzzle] + 1
	for n := next; n > 0; n-- {
		text, err := s.texts.Resolve(gamedata.NamespaceHints, puzzle+"."+strconv.Itoa(n))
		if err != nil {
			continue
		}
		s.hintsUsed[puzzle] = next
		s.fresh = false
		s.RemoveTime(action.Penalty(gamedata.SeverityLow, s.difficulty))
		s.log.Debug("hint", zap.String("puzzle", puzzle), zap.Int("count", next))
		return text
	}
	return gamedata.Text(s.texts, gamedata.NamespaceGame, "hint.none")
}

// HintsUsed returns how many hints were taken for a puzzle.
func (s *Session) HintsUsed(puzzle string) int { return s.hintsUsed[puzzle] }

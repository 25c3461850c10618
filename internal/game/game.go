package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/session"
	"github.com/samdwyer/escaperoom/internal/telemetry"
	"github.com/samdwyer/escaperoom/internal/ui"
)

// Game owns the terminal and runs the event loop.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	ctrl     *controller
	cfg      Config
	log      *zap.Logger
}

// New opens the terminal screen for a game over s.
func New(s *session.Session, cfg Config, log *zap.Logger) (*Game, error) {
	theme, err := ui.LoadTheme()
	if err != nil {
		return nil, err
	}
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultConfig().Tick
	}

	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, theme),
		ctrl:     newController(s, log),
		cfg:      cfg,
		log:      log,
	}, nil
}

// Run executes the main game loop until the player quits.
func (g *Game) Run(ctx context.Context) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.run")
	defer span.End()
	defer g.screen.Close()

	stop := g.startTicker()
	defer stop()

	for g.ctrl.running {
		g.render()
		g.handleEvent(ctx)
	}

	span.SetAttributes(
		attribute.String("game.final_state", g.ctrl.state.String()),
		attribute.Bool("game.ended", g.ctrl.session.IsEnded()),
	)
	return nil
}

// startTicker wakes the loop every tick so the countdown keeps moving.
func (g *Game) startTicker() (stop func()) {
	done := make(chan struct{})
	ticker := time.NewTicker(g.cfg.Tick)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = g.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()
	return func() { close(done) }
}

func (g *Game) render() {
	switch g.ctrl.state {
	case StateLogin:
		g.renderer.RenderLogin(g.ctrl.loginView())
	case StateDifficulty:
		g.renderer.RenderMenu(g.ctrl.difficultyView())
	case StatePlay, StateInput:
		g.renderer.RenderPlay(g.ctrl.playView())
	case StateEnded:
		g.renderer.RenderMenu(g.ctrl.endView())
	}
}

// handleEvent processes a single terminal event.
func (g *Game) handleEvent(ctx context.Context) {
	switch ev := g.screen.PollEvent().(type) {
	case nil:
		g.ctrl.running = false
	case *tcell.EventKey:
		g.ctrl.key(ctx, ev.Key(), ev.Rune())
	case *tcell.EventInterrupt:
		g.ctrl.tick(ctx)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

package onboarding

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/onboarding/internal/runtime"
	"github.com/aretw0/onboarding/internal/validator"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/google/uuid"
)

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and hands out stateful Sessions.
type Engine struct {
	runtime      *runtime.Engine
	flow         *domain.Flow
	report       *validator.Report
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	revertOnBack bool
	now          func() time.Time
	newID        func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRevertOnBack makes GoBack restore the answers and modules written by
// the step being revisited. By default only the step pointer moves.
func WithRevertOnBack() Option {
	return func(e *Engine) {
		e.revertOnBack = true
	}
}

// WithClock overrides the time source of session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSessionIDGenerator overrides how Start names sessions started with an empty ID.
func WithSessionIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// New lints flow and builds an engine over it.
// A flow with definition errors (dangling step ids, skip cycles, panicking
// resolvers) is refused here rather than failing mid-session.
func New(flow *domain.Flow, opts ...Option) (*Engine, error) {
	if flow == nil {
		return nil, fmt.Errorf("flow is required")
	}
	eng := &Engine{
		flow:  flow,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("flow_id", flow.ID)

	eng.report = validator.ValidateFlow(flow)
	if err := eng.report.Err(); err != nil {
		return nil, fmt.Errorf("invalid flow %s: %w", flow.ID, err)
	}
	for _, w := range eng.report.Warnings() {
		eng.logger.Warn("flow lint", "finding", w.String())
	}

	eng.runtime = runtime.NewEngine(flow,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithRevertOnBack(eng.revertOnBack),
		runtime.WithClock(eng.now),
	)
	return eng, nil
}

// Flow returns the flow definition driven by the engine.
func (e *Engine) Flow() *domain.Flow {
	return e.flow
}

// Report returns the lint report computed by New.
func (e *Engine) Report() *validator.Report {
	return e.report
}

// Start opens a new session on the flow's initial step.
// An empty sessionID is replaced by a generated one.
func (e *Engine) Start(ctx context.Context, sessionID string, locale domain.Locale) (*Session, error) {
	if sessionID == "" {
		sessionID = e.newID()
	}
	state, err := e.runtime.Start(ctx, sessionID, locale)
	if err != nil {
		return nil, err
	}
	return &Session{runtime: e.runtime, state: state}, nil
}

// Resume wraps a state restored from storage.
// The state is copied; later mutations of the argument do not affect the session.
func (e *Engine) Resume(state *domain.AnswerState) (*Session, error) {
	if err := e.runtime.Check(state); err != nil {
		return nil, fmt.Errorf("cannot resume session: %w", err)
	}
	return &Session{runtime: e.runtime, state: state.Clone()}, nil
}

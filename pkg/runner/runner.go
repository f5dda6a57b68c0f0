package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/onboarding"
	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/validation"
)

// Saver persists a session state. ports.StateStore and session.Manager
// both satisfy it.
type Saver interface {
	Save(ctx context.Context, sessionID string, state *domain.AnswerState) error
}

// Runner handles the render, read, submit loop of a session.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout
	// (or a JSONHandler when Headless) is created on first use.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store receives the state after every accepted move.
	// If nil, sessions are ephemeral.
	Store Saver

	Headless  bool
	Renderer  ContentRenderer
	Formatter StepFormatter
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives sess until it completes, the handler reports io.EOF (the user
// quit) or ctx is cancelled. It returns the last state in every case.
// Validation failures, invalid input and going back past the first step are
// reported through the handler and never end the loop.
func (r *Runner) Run(ctx context.Context, sess *onboarding.Session) (*domain.AnswerState, error) {
	handler := r.resolveHandler()
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	for !sess.IsComplete() {
		step, err := sess.CurrentResolvedStep()
		if err != nil {
			return sess.State(), fmt.Errorf("render error: %w", err)
		}
		if err := handler.Output(ctx, step, sess.Progress()); err != nil {
			return sess.State(), fmt.Errorf("output error: %w", err)
		}

		reply, err := handler.Input(ctx, step)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("runner stopped by user", "session_id", sess.ID(), "step_id", step.ID)
				return sess.State(), nil
			}
			if ctx.Err() != nil {
				return sess.State(), ctx.Err()
			}
			return sess.State(), fmt.Errorf("input error: %w", err)
		}

		if reply.Back {
			err = sess.GoBack(ctx)
		} else {
			err = sess.SubmitRaw(ctx, reply.Value)
		}
		if err != nil {
			if msg, recoverable := feedback(err); recoverable {
				logger.Debug("reply rejected", "session_id", sess.ID(), "step_id", step.ID, "reason", msg)
				if err := handler.SystemOutput(ctx, msg); err != nil {
					return sess.State(), fmt.Errorf("output error: %w", err)
				}
				continue
			}
			return sess.State(), err
		}

		if err := r.save(ctx, sess.State()); err != nil {
			return sess.State(), fmt.Errorf("critical persistence error: %w", err)
		}
	}

	state := sess.State()
	_ = handler.SystemOutput(ctx, fmt.Sprintf("Onboarding complete: %d steps, %d min.",
		len(state.Progress.CompletedStepIDs), state.Progress.SpentMinutes))
	return state, nil
}

// feedback turns a user-recoverable error into a message.
func feedback(err error) (string, bool) {
	if failure, ok := validation.AsFailure(err); ok {
		return failure.Message, true
	}
	switch {
	case errors.Is(err, domain.ErrNoHistory):
		return "Already at the first step.", true
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error(), true
	}
	return "", false
}

func (r *Runner) save(ctx context.Context, state *domain.AnswerState) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Save(context.WithoutCancel(ctx), state.SessionID, state); err != nil {
		return err
	}
	if r.Logger != nil {
		r.Logger.Debug("state saved", "session_id", state.SessionID, "step_id", state.Progress.CurrentStepID)
	}
	return nil
}

// resolveHandler memoizes the default handler so that repeated Run calls
// share one input pump.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	if r.Headless {
		r.Handler = NewJSONHandler(os.Stdin, os.Stdout)
		return r.Handler
	}
	opts := []TextHandlerOption{WithTextHandlerRenderer(r.Renderer)}
	if r.Formatter != nil {
		opts = append(opts, WithTextHandlerFormatter(r.Formatter))
	}
	r.Handler = NewTextHandler(os.Stdin, os.Stdout, opts...)
	return r.Handler
}

package onboarding

import (
	"context"
	"fmt"

	"github.com/aretw0/onboarding/internal/runtime"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/profile"
)

// Session is one user's traversal of a flow.
// It is not safe for concurrent use; callers serialize Submit and GoBack
// (pkg/session does this across processes).
type Session struct {
	runtime *runtime.Engine
	state   *domain.AnswerState
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.state.SessionID
}

// CurrentResolvedStep resolves the current step against the answers so far.
// It returns domain.ErrFlowComplete once the flow has ended.
func (s *Session) CurrentResolvedStep() (domain.ResolvedStep, error) {
	return s.runtime.Render(s.state)
}

// Resolve is shorthand for CurrentResolvedStep.
func (s *Session) Resolve() (domain.ResolvedStep, error) {
	return s.CurrentResolvedStep()
}

// Submit answers the current step.
// A rejected response returns a *validation.Failure and leaves the session unchanged.
func (s *Session) Submit(ctx context.Context, response domain.Value) error {
	next, err := s.runtime.Submit(ctx, s.state, response)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// SubmitRaw coerces a loosely typed response (decoded JSON, terminal input)
// to the current step's input kind, then submits it.
func (s *Session) SubmitRaw(ctx context.Context, raw any) error {
	step, ok := s.runtime.Flow().Step(s.state.Progress.CurrentStepID)
	if !ok || s.state.IsComplete() {
		// Let Submit report the precise error.
		return s.Submit(ctx, domain.None())
	}
	value, err := domain.ParseValue(step.InputKind, raw, step.Fields...)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return s.Submit(ctx, value)
}

// GoBack returns to the last completed step.
// It returns domain.ErrNoHistory on the first step.
func (s *Session) GoBack(ctx context.Context) error {
	next, err := s.runtime.Back(ctx, s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// IsComplete reports whether the flow has ended.
func (s *Session) IsComplete() bool {
	return s.state.IsComplete()
}

// State returns a snapshot of the answer state, safe to persist or mutate.
func (s *Session) State() *domain.AnswerState {
	return s.state.Clone()
}

// Progress returns the traversal bookkeeping.
func (s *Session) Progress() domain.Progress {
	return s.State().Progress
}

// SelectedModules returns the modules selected so far.
func (s *Session) SelectedModules() []string {
	return s.State().SelectedModules
}

// Profile decodes the answers into the typed profile used for personalization.
func (s *Session) Profile() (profile.Profile, error) {
	return profile.Decode(s.state)
}

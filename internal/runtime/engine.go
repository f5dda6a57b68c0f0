package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/validation"
)

// Engine is the core traversal state machine. It is stateless: every
// operation takes an AnswerState and returns a new one, leaving the input
// untouched.
type Engine struct {
	flow         *domain.Flow
	navigator    *Navigator
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	revertOnBack bool
	now          func() time.Time
}

// EngineOption configures the runtime Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRevertOnBack makes Back restore the answers and module set a step
// overwrote, instead of only moving the step pointer.
func WithRevertOnBack(revert bool) EngineOption {
	return func(e *Engine) {
		e.revertOnBack = revert
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine over an indexed flow.
func NewEngine(flow *domain.Flow, opts ...EngineOption) *Engine {
	e := &Engine{
		flow:      flow,
		navigator: NewNavigator(flow),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flow returns the flow definition driven by the engine.
func (e *Engine) Flow() *domain.Flow {
	return e.flow
}

// Start creates the state of a new traversal positioned on the initial step.
func (e *Engine) Start(ctx context.Context, sessionID string, locale domain.Locale) (*domain.AnswerState, error) {
	state := domain.NewAnswerState(sessionID, e.flow, locale, e.now())
	if _, ok := e.flow.Step(state.Progress.CurrentStepID); !ok {
		return nil, &domain.UnknownStepError{StepID: state.Progress.CurrentStepID, ReferencedBy: "initial step"}
	}

	e.logger.Debug("session started", "session_id", sessionID, "step_id", state.Progress.CurrentStepID)
	e.emitStepEnter(ctx, state, state.Progress.CurrentStepID)
	e.emitStateChange(ctx, nil, state)
	return state, nil
}

// Check verifies that a state restored from storage belongs to the flow.
func (e *Engine) Check(state *domain.AnswerState) error {
	if state == nil {
		return errors.New("nil state")
	}
	if state.FlowID != e.flow.ID {
		return fmt.Errorf("state belongs to flow %q, engine drives %q", state.FlowID, e.flow.ID)
	}
	if state.IsComplete() {
		return nil
	}
	if _, ok := e.flow.Step(state.Progress.CurrentStepID); !ok {
		return &domain.UnknownStepError{StepID: state.Progress.CurrentStepID, ReferencedBy: "current step"}
	}
	return nil
}

// Render resolves the current step of state.
func (e *Engine) Render(state *domain.AnswerState) (domain.ResolvedStep, error) {
	step, err := e.current(state)
	if err != nil {
		return domain.ResolvedStep{}, err
	}
	return ResolveStep(step, state), nil
}

// Submit validates response against the current step and, on success,
// returns the advanced state. A *validation.Failure leaves state unchanged.
func (e *Engine) Submit(ctx context.Context, state *domain.AnswerState, response domain.Value) (*domain.AnswerState, error) {
	step, err := e.current(state)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateStep(step, response, state); err != nil {
		var failure *validation.Failure
		if errors.As(err, &failure) {
			e.logger.Debug("response rejected", "session_id", state.SessionID, "step_id", step.ID, "reason", failure.Reason)
			e.emitValidationFailed(ctx, state, failure)
		}
		return nil, err
	}

	next := state.Clone()
	rev := domain.Revision{
		StepID:  step.ID,
		Modules: slices.Clone(state.SelectedModules),
		Minutes: step.EstimatedMinutes,
	}
	e.writeAnswers(step, response, next, &rev)
	e.applyModules(step, response, state, next)

	hop, err := e.navigator.Next(step.ID, response, next)
	if err != nil {
		e.logger.Error("navigation failed", "session_id", state.SessionID, "step_id", step.ID, "error", err)
		return nil, err
	}
	next.AddModules(hop.AddModules...)

	next.Progress.CompletedStepIDs = append(next.Progress.CompletedStepIDs, step.ID)
	next.Progress.CurrentStepID = hop.Next
	next.Progress.SkipCount += len(hop.Skipped)
	next.Progress.SpentMinutes += step.EstimatedMinutes
	e.updateEstimate(next)
	if hop.Next == domain.StepEnd {
		next.Status = domain.StatusComplete
		next.Progress.EstimatedTimeLeftMinutes = 0
	}
	next.Journal = append(next.Journal, rev)
	next.LastUpdated = e.now()

	e.logger.Debug("step completed",
		"session_id", state.SessionID,
		"step_id", step.ID,
		"next", hop.Next,
		"skipped", len(hop.Skipped),
	)

	e.emitStep(ctx, e.hooks.OnStepComplete, domain.EventStepComplete, next, step)
	for _, id := range hop.Skipped {
		if skipped, ok := e.flow.Step(id); ok {
			e.emitStep(ctx, e.hooks.OnStepSkipped, domain.EventStepSkipped, next, skipped)
		}
	}
	if hop.Next != domain.StepEnd {
		e.emitStepEnter(ctx, next, hop.Next)
	}
	e.emitStateChange(ctx, state, next)
	return next, nil
}

// Back pops the last completed step and makes it current again.
func (e *Engine) Back(ctx context.Context, state *domain.AnswerState) (*domain.AnswerState, error) {
	completed := state.Progress.CompletedStepIDs
	if len(completed) == 0 {
		return nil, domain.ErrNoHistory
	}
	prevID := completed[len(completed)-1]

	next := state.Clone()
	next.Progress.CompletedStepIDs = next.Progress.CompletedStepIDs[:len(completed)-1]
	next.Progress.CurrentStepID = prevID
	next.Status = domain.StatusActive

	credit := 0
	if n := len(next.Journal); n > 0 && next.Journal[n-1].StepID == prevID {
		rev := next.Journal[n-1]
		next.Journal = next.Journal[:n-1]
		credit = rev.Minutes
		if e.revertOnBack {
			for key, v := range rev.Previous {
				next.Answers[key] = v
			}
			for _, key := range rev.Absent {
				delete(next.Answers, key)
			}
			next.SelectedModules = slices.Clone(rev.Modules)
			if next.SelectedModules == nil {
				next.SelectedModules = []string{}
			}
		}
	} else if step, ok := e.flow.Step(prevID); ok {
		credit = step.EstimatedMinutes
	}
	next.Progress.SpentMinutes = max(0, next.Progress.SpentMinutes-credit)
	e.updateEstimate(next)
	next.LastUpdated = e.now()

	e.logger.Debug("went back", "session_id", state.SessionID, "step_id", prevID, "revert", e.revertOnBack)
	e.emitStepEnter(ctx, next, prevID)
	e.emitStateChange(ctx, state, next)
	return next, nil
}

func (e *Engine) current(state *domain.AnswerState) (*domain.Step, error) {
	if state.IsComplete() {
		return nil, domain.ErrFlowComplete
	}
	step, ok := e.flow.Step(state.Progress.CurrentStepID)
	if !ok {
		return nil, &domain.UnknownStepError{StepID: state.Progress.CurrentStepID, ReferencedBy: "current step"}
	}
	return step, nil
}

// writeAnswers stores response under the step's owning key(s), recording
// what was overwritten. An absent response clears the key.
func (e *Engine) writeAnswers(step *domain.Step, response domain.Value, next *domain.AnswerState, rev *domain.Revision) {
	if !step.CollectsInput() {
		return
	}
	set := func(key string, v domain.Value) {
		if old, ok := next.Answers[key]; ok {
			if rev.Previous == nil {
				rev.Previous = make(map[string]domain.Value)
			}
			rev.Previous[key] = old
		} else {
			rev.Absent = append(rev.Absent, key)
		}
		if v.Kind() == domain.KindNone {
			delete(next.Answers, key)
			return
		}
		next.Answers[key] = v
	}

	if step.InputKind == domain.InputGroup {
		for _, f := range step.Fields {
			set(f.ID, response.Field(f.ID))
		}
		return
	}
	set(step.AnswerKey(), response)
}

// applyModules replaces the module set on module-selection steps, then
// unions the triggers of the chosen options. Options are resolved against
// the state the user answered, not the updated one.
func (e *Engine) applyModules(step *domain.Step, response domain.Value, answered, next *domain.AnswerState) {
	if step.Effect == domain.EffectSelectModules {
		items, _ := response.AsList()
		if items == nil && response.Kind() == domain.KindText {
			items = []string{response.String()}
		}
		selected := []string{}
		for _, m := range items {
			if e.flow.DeclaresModule(m) && !slices.Contains(selected, m) {
				selected = append(selected, m)
			}
		}
		next.SelectedModules = selected
	}

	if !step.InputKind.ExpectsChoice() {
		return
	}
	for _, o := range chosenOptions(step.Options.Resolve(answered), response) {
		next.AddModules(o.Triggers...)
	}
}

// updateEstimate recomputes the total from the module set and derives the
// time left from the minutes already spent.
func (e *Engine) updateEstimate(s *domain.AnswerState) {
	total := e.flow.EstimateMinutes(s.SelectedModules)
	s.Progress.EstimatedTotalMinutes = total
	s.Progress.EstimatedTimeLeftMinutes = max(0, total-s.Progress.SpentMinutes)
}

func (e *Engine) base(t domain.EventType, s *domain.AnswerState) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: s.SessionID,
		FlowID:    s.FlowID,
	}
}

func (e *Engine) emitStepEnter(ctx context.Context, s *domain.AnswerState, stepID string) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	ev := &domain.StepEvent{EventBase: e.base(domain.EventStepEnter, s), StepID: stepID}
	if step, ok := e.flow.Step(stepID); ok {
		ev.StepKind = step.Kind
	}
	e.hooks.OnStepEnter(ctx, ev)
}

func (e *Engine) emitStep(ctx context.Context, hook func(context.Context, *domain.StepEvent), t domain.EventType, s *domain.AnswerState, step *domain.Step) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{EventBase: e.base(t, s), StepID: step.ID, StepKind: step.Kind})
}

func (e *Engine) emitValidationFailed(ctx context.Context, s *domain.AnswerState, f *validation.Failure) {
	if e.hooks.OnValidationFailed == nil {
		return
	}
	e.hooks.OnValidationFailed(ctx, &domain.ValidationEvent{
		EventBase: e.base(domain.EventValidationFailed, s),
		StepID:    f.StepID,
		Field:     f.Field,
		Reason:    f.Reason,
		Message:   f.Message,
	})
}

func (e *Engine) emitStateChange(ctx context.Context, old, next *domain.AnswerState) {
	if e.hooks.OnStateChange == nil {
		return
	}
	e.hooks.OnStateChange(ctx, &domain.StateChangeEvent{
		EventBase: e.base(domain.EventStateChange, next),
		State:     next.Clone(),
		Diff:      domain.Diff(old, next),
	})
}

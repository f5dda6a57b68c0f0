package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/onboarding/pkg/domain"
)

// LoggingHooks logs every lifecycle event on logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	step := func(msg string) func(context.Context, *domain.StepEvent) {
		return func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, msg,
				"session_id", e.SessionID,
				"flow_id", e.FlowID,
				"step_id", e.StepID,
				"kind", e.StepKind,
			)
		}
	}
	return domain.LifecycleHooks{
		OnStepEnter:    step("step_enter"),
		OnStepComplete: step("step_complete"),
		OnStepSkipped:  step("step_skipped"),
		OnValidationFailed: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.InfoContext(ctx, "validation_failed",
				"session_id", e.SessionID,
				"step_id", e.StepID,
				"field", e.Field,
				"reason", e.Reason,
			)
		},
		OnStateChange: func(ctx context.Context, e *domain.StateChangeEvent) {
			if e.Diff != nil && e.Diff.Status != nil && *e.Diff.Status == domain.StatusComplete {
				logger.InfoContext(ctx, "session_complete",
					"session_id", e.SessionID,
					"flow_id", e.FlowID,
					"modules", e.State.SelectedModules,
				)
			}
		},
	}
}

// MergeHooks fans each event out to every non-nil callback, in order.
func MergeHooks(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var merged domain.LifecycleHooks
	for _, h := range hooks {
		merged.OnStepEnter = chain(merged.OnStepEnter, h.OnStepEnter)
		merged.OnStepComplete = chain(merged.OnStepComplete, h.OnStepComplete)
		merged.OnStepSkipped = chain(merged.OnStepSkipped, h.OnStepSkipped)
		merged.OnValidationFailed = chain(merged.OnValidationFailed, h.OnValidationFailed)
		merged.OnStateChange = chain(merged.OnStateChange, h.OnStateChange)
	}
	return merged
}

func chain[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}

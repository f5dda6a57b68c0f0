package observability

import (
	"context"

	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	StepVisits        *prometheus.CounterVec
	StepCompletions   *prometheus.CounterVec
	StepSkips         *prometheus.CounterVec
	ValidationErrors  *prometheus.CounterVec
	SessionsCompleted *prometheus.CounterVec
	CompletionMinutes *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_step_visits_total",
				Help: "Total number of step visits",
			},
			[]string{"flow_id", "step_id"},
		),
		StepCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_step_completions_total",
				Help: "Total number of accepted responses per step",
			},
			[]string{"flow_id", "step_id"},
		),
		StepSkips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_step_skips_total",
				Help: "Total number of steps skipped because their condition was false",
			},
			[]string{"flow_id", "step_id"},
		),
		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_validation_failures_total",
				Help: "Total number of rejected responses",
			},
			[]string{"flow_id", "step_id", "reason"},
		),
		SessionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_sessions_completed_total",
				Help: "Total number of sessions that reached the end of their flow",
			},
			[]string{"flow_id"},
		),
		CompletionMinutes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "onboarding_completion_estimated_minutes",
				Help:    "Estimated minutes spent by completed sessions",
				Buckets: []float64{2, 5, 10, 15, 20, 30, 45},
			},
			[]string{"flow_id"},
		),
	}
	reg.MustRegister(m.StepVisits, m.StepCompletions, m.StepSkips, m.ValidationErrors, m.SessionsCompleted, m.CompletionMinutes)
	return m
}

// Hooks records engine events on the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(e.FlowID, e.StepID).Inc()
		},
		OnStepComplete: func(ctx context.Context, e *domain.StepEvent) {
			m.StepCompletions.WithLabelValues(e.FlowID, e.StepID).Inc()
		},
		OnStepSkipped: func(ctx context.Context, e *domain.StepEvent) {
			m.StepSkips.WithLabelValues(e.FlowID, e.StepID).Inc()
		},
		OnValidationFailed: func(ctx context.Context, e *domain.ValidationEvent) {
			m.ValidationErrors.WithLabelValues(e.FlowID, e.StepID, string(e.Reason)).Inc()
		},
		OnStateChange: func(ctx context.Context, e *domain.StateChangeEvent) {
			if e.Diff == nil || e.Diff.Status == nil || *e.Diff.Status != domain.StatusComplete {
				return
			}
			m.SessionsCompleted.WithLabelValues(e.FlowID).Inc()
			m.CompletionMinutes.WithLabelValues(e.FlowID).Observe(float64(e.State.Progress.SpentMinutes))
		},
	}
}

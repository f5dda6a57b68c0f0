package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/onboarding"
	"github.com/aretw0/onboarding/internal/config"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/aretw0/onboarding/pkg/observability"
)

// BuildEngine creates the engine for the configured flow. Lifecycle events
// are logged on logger and fanned out to the extra hooks.
func BuildEngine(cfg config.Config, logger *slog.Logger, extra ...domain.LifecycleHooks) (*onboarding.Engine, error) {
	flow, err := flows.ByName(cfg.Flow, catalog.Default())
	if err != nil {
		return nil, fmt.Errorf("error building flow: %w", err)
	}

	hooks := append([]domain.LifecycleHooks{observability.LoggingHooks(logger)}, extra...)
	opts := []onboarding.Option{
		onboarding.WithLogger(logger),
		onboarding.WithLifecycleHooks(observability.MergeHooks(hooks...)),
	}
	if cfg.RevertOnBack {
		opts = append(opts, onboarding.WithRevertOnBack())
	}

	engine, err := onboarding.New(flow, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

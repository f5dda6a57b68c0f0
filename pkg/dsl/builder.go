package dsl

import (
	"fmt"
	"maps"

	"github.com/aretw0/onboarding/pkg/domain"
)

// Builder manages the flow construction.
type Builder struct {
	def   domain.Flow
	steps map[string]*StepBuilder
	order []string
}

// New creates a new flow builder.
func New(id string) *Builder {
	return &Builder{
		def:   domain.Flow{ID: id},
		steps: make(map[string]*StepBuilder),
	}
}

// Name sets the display name of the flow.
func (b *Builder) Name(name string) *Builder {
	b.def.Name = name
	return b
}

// Describe sets the flow description.
func (b *Builder) Describe(desc string) *Builder {
	b.def.Description = desc
	return b
}

// Start sets the initial step. Defaults to the first added step.
func (b *Builder) Start(id string) *Builder {
	b.def.InitialStep = id
	return b
}

// Modules declares the selectable modules and the minutes each one adds to
// the duration estimate.
func (b *Builder) Modules(minutes map[string]int, ids ...string) *Builder {
	b.def.Modules = append(b.def.Modules, ids...)
	if b.def.ModuleMinutes == nil {
		b.def.ModuleMinutes = make(map[string]int)
	}
	maps.Copy(b.def.ModuleMinutes, minutes)
	return b
}

// Baseline sets the static part of the duration estimate.
func (b *Builder) Baseline(minutes int) *Builder {
	b.def.EstimatedDurationMinutes = minutes
	return b
}

// Add creates a new step in the flow, in declaration order.
// If the step already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StepBuilder {
	if sb, ok := b.steps[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		step: domain.Step{
			ID:   id,
			Kind: domain.StepInfo,
		},
		builder: b,
	}
	b.steps[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build compiles the steps into an indexed Flow.
func (b *Builder) Build() (*domain.Flow, error) {
	def := b.def
	def.Steps = make([]domain.Step, 0, len(b.order))
	for _, id := range b.order {
		def.Steps = append(def.Steps, b.steps[id].step)
	}
	if def.InitialStep == "" && len(b.order) > 0 {
		def.InitialStep = b.order[0]
	}

	flow, err := domain.NewFlow(def)
	if err != nil {
		return nil, fmt.Errorf("failed to build flow %s: %w", def.ID, err)
	}
	return flow, nil
}

// MustBuild is like Build but panics on error. Intended for static flow
// definitions checked by tests.
func (b *Builder) MustBuild() *domain.Flow {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}

package runtime

import (
	"slices"

	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/validation"
)

// ResolveStep turns a step definition into render-ready data by evaluating
// every computed attribute against state. It never mutates state.
func ResolveStep(step *domain.Step, state *domain.AnswerState) domain.ResolvedStep {
	resolved := domain.ResolvedStep{
		ID:               step.ID,
		Kind:             step.Kind,
		Title:            step.Title.Resolve(state),
		Subtitle:         step.Subtitle.Resolve(state),
		Question:         step.Question.Resolve(state),
		Description:      step.Description.Resolve(state),
		Illustration:     step.Illustration.Resolve(state),
		Tips:             slices.Clone(step.Tips.Resolve(state)),
		InputKind:        step.InputKind,
		Min:              step.Min,
		Max:              step.Max,
		Increment:        step.Increment,
		Required:         validation.IsRequired(step.Validation),
		EstimatedMinutes: step.EstimatedMinutes,
	}

	// An empty option set is passed through as-is: required rules block
	// progression, not the resolver.
	resolved.Options = resolveOptions(step.Options.Resolve(state), state)

	if len(step.Fields) > 0 {
		resolved.Fields = make([]domain.ResolvedField, 0, len(step.Fields))
		for _, f := range step.Fields {
			resolved.Fields = append(resolved.Fields, domain.ResolvedField{
				ID:        f.ID,
				Label:     f.Label.Resolve(state),
				InputKind: f.InputKind,
				Options:   resolveOptions(f.Options, state),
				Required:  validation.IsRequired(f.Validation),
			})
		}
	}
	return resolved
}

func resolveOptions(opts []domain.Option, state *domain.AnswerState) []domain.ResolvedOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]domain.ResolvedOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, domain.ResolvedOption{
			ID:          o.ID,
			Value:       o.Value,
			Label:       o.Label.Resolve(state),
			Description: o.Description.Resolve(state),
			Icon:        o.Icon.Resolve(state),
			Tooltip:     o.Tooltip.Resolve(state),
			Color:       o.Color,
			Disabled:    o.Disabled,
			Triggers:    slices.Clone(o.Triggers),
		})
	}
	return out
}

// chosenOptions returns the options selected by response: the option whose
// value equals a single answer, or every option listed in a multi answer.
func chosenOptions(opts []domain.Option, response domain.Value) []domain.Option {
	var chosen []domain.Option
	for _, o := range opts {
		if o.Disabled {
			continue
		}
		if response.Equal(o.Value) || (response.Kind() == domain.KindList && response.Contains(o.Value.String())) {
			chosen = append(chosen, o)
		}
	}
	return chosen
}

package runtime

import (
	"slices"

	"github.com/aretw0/onboarding/pkg/domain"
)

// Hop is one navigation decision: the visible destination, the steps
// collapsed on the way, and the modules activated by the edges taken.
type Hop struct {
	Next       string
	Skipped    []string
	AddModules []string
}

// Navigator computes next visible steps over an immutable flow.
type Navigator struct {
	flow *domain.Flow
}

// NewNavigator creates a navigator for flow.
func NewNavigator(flow *domain.Flow) *Navigator {
	return &Navigator{flow: flow}
}

// NextVisibleStep returns the id of the next visible step after from, or
// domain.StepEnd when the flow is complete.
func NextVisibleStep(flow *domain.Flow, from string, response domain.Value, state *domain.AnswerState) (string, error) {
	hop, err := NewNavigator(flow).Next(from, response, state)
	if err != nil {
		return "", err
	}
	return hop.Next, nil
}

// Next follows the outgoing edge of from, then collapses hidden steps by
// following their own edges with the same response, until a visible step or
// the end is reached. Module side-effects of the edges are evaluated on a
// private copy of state, so state is never mutated.
func (n *Navigator) Next(from string, response domain.Value, state *domain.AnswerState) (Hop, error) {
	step, ok := n.flow.Step(from)
	if !ok {
		return Hop{}, &domain.UnknownStepError{StepID: from, ReferencedBy: "navigation origin"}
	}

	working := state
	hop := Hop{}
	apply := func(t domain.Transition) {
		if len(t.AddModules) == 0 {
			return
		}
		if working == state {
			working = state.Clone()
		}
		working.AddModules(t.AddModules...)
		for _, m := range t.AddModules {
			if !slices.Contains(hop.AddModules, m) {
				hop.AddModules = append(hop.AddModules, m)
			}
		}
	}

	t := step.Next.Follow(response, working)
	apply(t)
	candidate, referrer := t.Next, from
	limit := n.flow.Len()

	for candidate != domain.StepEnd {
		next, ok := n.flow.Step(candidate)
		if !ok {
			return Hop{}, &domain.UnknownStepError{StepID: candidate, ReferencedBy: referrer}
		}
		if next.IsVisible(working) {
			break
		}
		if len(hop.Skipped) >= limit {
			return Hop{}, &domain.NavigationCycleError{From: from, Chain: hop.Skipped, Limit: limit}
		}
		hop.Skipped = append(hop.Skipped, candidate)

		t = next.Next.Follow(response, working)
		apply(t)
		candidate, referrer = t.Next, next.ID
	}

	hop.Next = candidate
	return hop, nil
}

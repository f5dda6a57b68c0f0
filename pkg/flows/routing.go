package flows

import (
	"github.com/aretw0/onboarding/pkg/domain"
)

// FinalQuestions is the catch-all step reached once no module setup remains.
const FinalQuestions = "final_questions"

// entryFunc maps a module id to the first step of its setup chain.
type entryFunc func(module string) string

// setupStep is the conventional `<module>_setup` entry step.
func setupStep(module string) string {
	return module + "_setup"
}

// nextSetup returns a branch leading to the setup of the next selected module
// after `after`, in priority order, or to FinalQuestions.
func nextSetup(after string, entry entryFunc) func(domain.Value, *domain.AnswerState) string {
	return func(_ domain.Value, s *domain.AnswerState) string {
		if m, ok := domain.NextModule(s.SelectedModules, after); ok {
			return entry(m)
		}
		return FinalQuestions
	}
}

// NextStepForModules returns the setup step of the first selected module
// after current (from the top when current is empty), or FinalQuestions.
func NextStepForModules(selected []string, current string) string {
	if m, ok := domain.NextModule(selected, current); ok {
		return setupStep(m)
	}
	return FinalQuestions
}

func hasModule(id string) func(*domain.AnswerState) bool {
	return func(s *domain.AnswerState) bool {
		return s.HasModule(id)
	}
}

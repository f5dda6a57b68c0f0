package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/ports"
)

// Mask replaces a personal answer.
const Mask = "***"

// DefaultPIIPatterns match the answer keys of the shipped flows that
// identify a person or describe their health.
var DefaultPIIPatterns = []string{`(?i)name`, `^age$`, `^gender$`, `(?i)allerg`, `(?i)sleep`, `(?i)stress`}

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the answers whose key
// matches one of the patterns, on Save and on Load. The in-memory state is
// never modified. A masked session cannot be resumed: use it for audit copies
// and read-only views.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.AnswerState) error {
	return m.next.Save(ctx, sessionID, m.mask(state))
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.AnswerState, error) {
	state, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.mask(state), nil
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// mask returns a copy of state with matching answers replaced. Journal
// entries keep previous values, so they are masked too.
func (m *piiMiddleware) mask(state *domain.AnswerState) *domain.AnswerState {
	cloned := state.Clone()
	maskAnswers(cloned.Answers, m.patterns)
	for i := range cloned.Journal {
		maskAnswers(cloned.Journal[i].Previous, m.patterns)
	}
	return cloned
}

func maskAnswers(answers map[string]domain.Value, patterns []*regexp.Regexp) {
	for k, v := range answers {
		if v.Kind() == domain.KindNone {
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				answers[k] = domain.TextValue(Mask)
				break
			}
		}
	}
}

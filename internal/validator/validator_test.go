package validator

import (
	"testing"

	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, modules []string, steps ...domain.Step) *domain.Flow {
	t.Helper()
	f, err := domain.NewFlow(domain.Flow{ID: "lint", InitialStep: steps[0].ID, Steps: steps, Modules: modules})
	require.NoError(t, err)
	return f
}

func messages(fs []Finding) []string {
	var out []string
	for _, f := range fs {
		out = append(out, f.String())
	}
	return out
}

func TestValidateFlow_ShippedFlowsAreClean(t *testing.T) {
	cat := catalog.Default()
	for _, name := range flows.Names() {
		t.Run(name, func(t *testing.T) {
			f, err := flows.ByName(name, cat)
			require.NoError(t, err)

			report := ValidateFlow(f)
			assert.NoError(t, report.Err())
			assert.Empty(t, report.Warnings(), "warnings: %v", messages(report.Warnings()))
			assert.Len(t, report.Reachable, f.Len())
		})
	}
}

func TestValidateFlow_WellnessDiscoversRouterEdges(t *testing.T) {
	f, err := flows.Wellness(catalog.Default())
	require.NoError(t, err)

	report := ValidateFlow(f)
	assert.Contains(t, report.Edges, Edge{From: "module_selection", To: "module_upsell", Dynamic: true})
	assert.Contains(t, report.Edges, Edge{From: "module_selection", To: "personal_info", Dynamic: true})
	assert.Contains(t, report.Edges, Edge{From: "sport_equipment", To: "strength_setup", Dynamic: true})
	assert.Contains(t, report.Edges, Edge{From: "sport_equipment", To: flows.FinalQuestions, Dynamic: true})
	assert.Contains(t, report.Edges, Edge{From: "welcome", To: "get_name"})
}

func TestValidateFlow_Defects(t *testing.T) {
	hidden := func(*domain.AnswerState) bool { return false }

	tests := []struct {
		name    string
		modules []string
		steps   []domain.Step
		want    string
	}{
		{
			name:  "Broken literal link",
			steps: []domain.Step{{ID: "start", Next: domain.Goto("ghost_node")}},
			want:  "error: step 'start': transition to unknown step 'ghost_node'",
		},
		{
			name: "Router producing an unknown id",
			steps: []domain.Step{
				{ID: "start", InputKind: domain.InputToggle, Next: domain.Branch(func(r domain.Value, _ *domain.AnswerState) string {
					if b, _ := r.AsBool(); b {
						return "end"
					}
					return "typo"
				})},
				{ID: "end"},
			},
			want: "error: step 'start': transition to unknown step 'typo'",
		},
		{
			name: "Skip cycle",
			steps: []domain.Step{
				{ID: "start", Next: domain.Goto("a")},
				{ID: "a", Condition: hidden, Next: domain.Goto("b")},
				{ID: "b", Condition: hidden, Next: domain.Goto("a")},
			},
			want: "error: step 'start': skip chain does not terminate",
		},
		{
			name: "Panicking router",
			steps: []domain.Step{
				{ID: "start", Next: domain.Branch(func(domain.Value, *domain.AnswerState) string {
					panic("boom")
				})},
			},
			want: "error: step 'start': resolver panicked: boom",
		},
		{
			name:    "Undeclared trigger",
			modules: []string{"sport"},
			steps: []domain.Step{
				{ID: "start", InputKind: domain.InputSingleSelect, Options: domain.Literal([]domain.Option{
					{ID: "x", Value: domain.TextValue("x"), Triggers: []string{"astrology"}},
				})},
			},
			want: "error: step 'start': option 'x' triggers undeclared module 'astrology'",
		},
		{
			name: "Module selection on a single choice",
			steps: []domain.Step{
				{ID: "start", InputKind: domain.InputSingleSelect, Effect: domain.EffectSelectModules, Options: domain.Literal([]domain.Option{})},
			},
			want: "error: step 'start': module selection requires a multi-select input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateFlow(build(t, tt.modules, tt.steps...))
			require.Error(t, report.Err())
			found := false
			for _, m := range messages(report.Errors()) {
				if len(m) >= len(tt.want) && m[:len(tt.want)] == tt.want {
					found = true
				}
			}
			assert.True(t, found, "expected %q in %v", tt.want, messages(report.Errors()))
		})
	}
}

func TestValidateFlow_UnreachableIsAWarning(t *testing.T) {
	report := ValidateFlow(build(t, nil,
		domain.Step{ID: "start", Next: domain.Goto("end")},
		domain.Step{ID: "end"},
		domain.Step{ID: "orphan", Next: domain.Goto("end")},
	))

	assert.NoError(t, report.Err())
	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, "orphan", report.Warnings()[0].StepID)
	assert.Equal(t, []string{"start", "end"}, report.Reachable)
}

func TestModuleSubsets(t *testing.T) {
	assert.Len(t, moduleSubsets([]string{"a", "b", "c"}), 8)
	assert.Len(t, moduleSubsets(nil), 1)
	many := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	assert.Len(t, moduleSubsets(many), 11)
}

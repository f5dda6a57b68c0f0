package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/onboarding/internal/presentation/graph"
	"github.com/aretw0/onboarding/internal/validator"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFlow(t *testing.T, def domain.Flow) *domain.Flow {
	t.Helper()
	f, err := domain.NewFlow(def)
	require.NoError(t, err)
	return f
}

func TestGenerateMermaid(t *testing.T) {
	always := func(*domain.AnswerState) bool { return true }

	tests := []struct {
		name     string
		flow     domain.Flow
		edges    []validator.Edge
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Step Shapes",
			flow: domain.Flow{ID: "f", InitialStep: "hello", Steps: []domain.Step{
				{ID: "hello", Kind: domain.StepInfo},
				{ID: "q1", Kind: domain.StepQuestion, InputKind: domain.InputText},
				{ID: "recap", Kind: domain.StepSummary},
				{ID: "note", Kind: domain.StepInfo},
			}},
			contains: []string{
				`hello(("hello"))`,
				`q1[/"q1"/]`,
				`recap{{"recap"}}`,
				`note["note"]`,
				`flow_end(("end"))`,
			},
		},
		{
			name: "ID Sanitization",
			flow: domain.Flow{ID: "f", InitialStep: "a.b", Steps: []domain.Step{
				{ID: "a.b"},
				{ID: "hyphen-ated", EstimatedMinutes: 2},
			}},
			contains: []string{
				`a_b(("a.b"))`,
				`hyphen_ated["hyphen-ated <br/> ⏱️ 2 min"]`,
			},
		},
		{
			name: "Edges",
			flow: domain.Flow{ID: "f", InitialStep: "a", Steps: []domain.Step{{ID: "a"}, {ID: "b"}}},
			edges: []validator.Edge{
				{From: "a", To: "b"},
				{From: "b", To: domain.StepEnd, Dynamic: true},
			},
			contains: []string{"a --> b", "b -.-> flow_end"},
		},
		{
			name: "Conditional Steps",
			flow: domain.Flow{ID: "f", InitialStep: "a", Steps: []domain.Step{{ID: "a"}, {ID: "b", Condition: always}}},
			contains: []string{"classDef conditional", "class b conditional;"},
			excludes: []string{"class a conditional;"},
		},
		{
			name:    "Overlay",
			flow:    domain.Flow{ID: "f", InitialStep: "a", Steps: []domain.Step{{ID: "a"}, {ID: "b"}}},
			overlay: &graph.Overlay{Visited: []string{"a", "a"}, Current: "b"},
			contains: []string{
				"classDef visited",
				"class a visited;",
				"class b current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(mustFlow(t, tt.flow), tt.edges, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
			assert.LessOrEqual(t, strings.Count(got, "class a visited;"), 1, "visited nodes are deduplicated")
		})
	}
}

func TestGenerateMermaid_WellnessFlow(t *testing.T) {
	f, err := flows.Wellness(catalog.Default())
	require.NoError(t, err)
	report := validator.ValidateFlow(f)

	got := graph.GenerateMermaid(f, report.Edges, nil)
	assert.Contains(t, got, "module_selection -.-> module_upsell")
	assert.Contains(t, got, "welcome --> get_name")
	assert.Contains(t, got, "class sleep_setup conditional;")
	assert.NotContains(t, got, "Overlay Styles")
}

func TestOverlayFor(t *testing.T) {
	assert.Nil(t, graph.OverlayFor(nil))

	s := &domain.AnswerState{Progress: domain.Progress{CurrentStepID: "b", CompletedStepIDs: []string{"a"}}}
	assert.Equal(t, &graph.Overlay{Visited: []string{"a"}, Current: "b"}, graph.OverlayFor(s))
}

package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/onboarding/internal/validator"
	"github.com/aretw0/onboarding/pkg/domain"
)

// endNode is the Mermaid id of the terminal pseudo-step ("end" is reserved).
const endNode = "flow_end"

// Overlay contains session state to highlight on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// OverlayFor builds an Overlay from a session state.
func OverlayFor(state *domain.AnswerState) *Overlay {
	if state == nil {
		return nil
	}
	return &Overlay{
		Visited: state.Progress.CompletedStepIDs,
		Current: state.Progress.CurrentStepID,
	}
}

// GenerateMermaid produces a Mermaid flowchart of flow using the edges
// discovered by the linter. Shapes follow the step kind:
// - Initial step: ((Circle))
// - Question: [/Parallelogram/]
// - Summary and confirmation: {{Hexagon}}
// - Info: [Rectangle]
// Literal transitions are solid, router transitions dotted. Steps guarded by a
// condition get the conditional class.
func GenerateMermaid(flow *domain.Flow, edges []validator.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var conditional []string
	for i := range flow.Steps {
		step := &flow.Steps[i]
		safeID := sanitizeMermaidID(step.ID)

		opener, closer := "[", "]"
		switch {
		case step.ID == flow.InitialStep:
			opener, closer = "((", "))"
		case step.Kind == domain.StepQuestion:
			opener, closer = "[/", "/]"
		case step.Kind == domain.StepSummary || step.Kind == domain.StepConfirmation:
			opener, closer = "{{", "}}"
		}

		label := step.ID
		if step.EstimatedMinutes > 0 {
			label = fmt.Sprintf("%s <br/> ⏱️ %d min", step.ID, step.EstimatedMinutes)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		if step.Condition != nil {
			conditional = append(conditional, safeID)
		}
	}
	fmt.Fprintf(&sb, "    %s((\"end\"))\n", endNode)

	for _, e := range edges {
		arrow := "-->"
		if e.Dynamic {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To))
	}

	if len(conditional) > 0 {
		sb.WriteString("\n    classDef conditional stroke-dasharray:5 5;\n")
		for _, id := range conditional {
			fmt.Fprintf(&sb, "    class %s conditional;\n", id)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on light fills in both themes
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	if id == domain.StepEnd {
		return endNode
	}
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "$", "_")
	return s
}

package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/onboarding/pkg/domain"
)

// FormatPlain lays a step out as plain text: title, question, description,
// numbered options or fields, tips and a progress footer.
func FormatPlain(step domain.ResolvedStep, progress domain.Progress, render ContentRenderer) string {
	var sb strings.Builder

	title := step.Title
	if step.Illustration != "" {
		title = step.Illustration + " " + title
	}
	if strings.TrimSpace(title) != "" {
		fmt.Fprintf(&sb, "%s\n", strings.TrimSpace(title))
	}
	if step.Subtitle != "" {
		fmt.Fprintf(&sb, "%s\n", step.Subtitle)
	}
	if step.Question != "" {
		fmt.Fprintf(&sb, "%s\n", step.Question)
	}
	if step.Description != "" {
		desc := step.Description
		if render != nil {
			if rendered, err := render(desc); err == nil {
				desc = strings.TrimSpace(rendered)
			}
		}
		fmt.Fprintf(&sb, "%s\n", desc)
	}

	writeOptions(&sb, step.Options, "  ")
	for _, f := range step.Fields {
		req := ""
		if f.Required {
			req = " *"
		}
		fmt.Fprintf(&sb, "  %s (%s)%s: %s\n", f.ID, f.InputKind, req, f.Label)
		writeOptions(&sb, f.Options, "    ")
	}
	for _, tip := range step.Tips {
		fmt.Fprintf(&sb, "  - %s\n", tip)
	}
	if hint := inputHint(step); hint != "" {
		fmt.Fprintf(&sb, "(%s)\n", hint)
	}
	fmt.Fprintf(&sb, "[%d done, ~%d min left]\n", len(progress.CompletedStepIDs), progress.EstimatedTimeLeftMinutes)
	return sb.String()
}

func writeOptions(sb *strings.Builder, options []domain.ResolvedOption, indent string) {
	for i, o := range options {
		label := o.Label
		if o.Icon != "" {
			label = o.Icon + " " + label
		}
		fmt.Fprintf(sb, "%s%d) %s", indent, i+1, label)
		if o.Description != "" {
			fmt.Fprintf(sb, " - %s", o.Description)
		}
		sb.WriteString("\n")
	}
}

func inputHint(step domain.ResolvedStep) string {
	switch step.InputKind {
	case domain.InputMultiSelect:
		return "comma separated numbers or values"
	case domain.InputToggle:
		return "y/n"
	case domain.InputSlider:
		return fmt.Sprintf("%g to %g", step.Min, step.Max)
	case domain.InputGroup:
		return "field=value, field=value"
	case "":
		return "press enter to continue"
	}
	return ""
}

package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/runner"
	"github.com/muesli/termenv"
)

// FormatStep is a runner.StepFormatter that colors the plain layout:
// bold title, option colors from the catalog, faint progress footer.
func FormatStep(step domain.ResolvedStep, progress domain.Progress, render runner.ContentRenderer) string {
	p := termenv.ColorProfile()
	var sb strings.Builder

	title := strings.TrimSpace(step.Illustration + " " + step.Title)
	if title != "" {
		fmt.Fprintf(&sb, "\n%s\n", termenv.String(title).Bold())
	}
	if step.Subtitle != "" {
		fmt.Fprintf(&sb, "%s\n", termenv.String(step.Subtitle).Italic())
	}
	if step.Question != "" {
		fmt.Fprintf(&sb, "%s\n", termenv.String(step.Question).Foreground(p.Color("#60a5fa")))
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

	for i, o := range step.Options {
		label := termenv.String(strings.TrimSpace(o.Icon + " " + o.Label))
		if o.Color != "" {
			label = label.Foreground(p.Color(o.Color))
		}
		if o.Disabled {
			label = label.Faint().CrossOut()
		}
		fmt.Fprintf(&sb, "  %d) %s", i+1, label)
		if o.Description != "" {
			fmt.Fprintf(&sb, " %s", termenv.String("- "+o.Description).Faint())
		}
		sb.WriteString("\n")
	}
	for _, f := range step.Fields {
		fmt.Fprintf(&sb, "  %s: %s\n", termenv.String(f.ID).Bold(), f.Label)
		for i, o := range f.Options {
			fmt.Fprintf(&sb, "    %d) %s\n", i+1, o.Label)
		}
	}
	for _, tip := range step.Tips {
		fmt.Fprintf(&sb, "  %s %s\n", termenv.String("•").Foreground(p.Color("#34d399")), tip)
	}

	footer := fmt.Sprintf("step %d · ~%d min left", len(progress.CompletedStepIDs)+1, progress.EstimatedTimeLeftMinutes)
	fmt.Fprintf(&sb, "%s\n", termenv.String(footer).Faint())
	return sb.String()
}

var _ runner.StepFormatter = FormatStep

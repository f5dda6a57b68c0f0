package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/onboarding/internal/runtime"
	"github.com/aretw0/onboarding/pkg/domain"
)

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single defect found in a flow definition.
type Finding struct {
	Severity Severity
	StepID   string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: step '%s': %s", f.Severity, f.StepID, f.Message)
}

// Edge is a transition discovered in the flow, either declared literally or
// observed while probing a router.
type Edge struct {
	From    string
	To      string
	Dynamic bool
}

// Report aggregates the findings of ValidateFlow.
type Report struct {
	FlowID    string
	Findings  []Finding
	Edges     []Edge
	Reachable []string
}

// Errors returns the error findings.
func (r *Report) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning findings.
func (r *Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

// Err joins the error findings, or returns nil when there are none.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Errors() {
		errs = append(errs, errors.New(f.String()))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("flow %s: found %d errors: %w", r.FlowID, len(errs), errors.Join(errs...))
}

func (r *Report) filter(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// maxProbedModules bounds the exhaustive module-subset exploration.
const maxProbedModules = 8

// ValidateFlow checks that every step id a transition can produce exists.
//
// Literal edges are checked statically. Routers and visibility conditions
// are pure functions of the answers, so they are probed: the flow is crawled
// from the initial step for every subset of the declared modules, submitting
// each option of choice steps and boundary values of the other inputs.
func ValidateFlow(flow *domain.Flow) *Report {
	l := &linter{
		flow:    flow,
		nav:     runtime.NewNavigator(flow),
		report:  &Report{FlowID: flow.ID},
		edges:   make(map[Edge]bool),
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		reached: make(map[string]bool),
	}
	l.checkStatic()
	for _, subset := range moduleSubsets(flow.Modules) {
		l.crawl(subset)
	}
	l.checkReachability()
	return l.report
}

type linter struct {
	flow    *domain.Flow
	nav     *runtime.Navigator
	report  *Report
	edges   map[Edge]bool
	visited map[string]bool
	seen    map[string]bool // deduplicates findings
	reached map[string]bool
}

func (l *linter) add(sev Severity, stepID, format string, args ...any) {
	f := Finding{Severity: sev, StepID: stepID, Message: fmt.Sprintf(format, args...)}
	if key := f.String(); !l.seen[key] {
		l.seen[key] = true
		l.report.Findings = append(l.report.Findings, f)
	}
}

func (l *linter) edge(e Edge) {
	if !l.edges[e] {
		l.edges[e] = true
		l.report.Edges = append(l.report.Edges, e)
	}
}

func (l *linter) checkStatic() {
	for i := range l.flow.Steps {
		step := &l.flow.Steps[i]
		if target := step.Next.Target(); target != "" {
			if _, ok := l.flow.Step(target); !ok && target != domain.StepEnd {
				l.add(SeverityError, step.ID, "transition to unknown step '%s'", target)
			} else {
				l.edge(Edge{From: step.ID, To: target})
			}
		}
		if step.InputKind.ExpectsChoice() && !step.Options.IsSet() {
			l.add(SeverityWarning, step.ID, "choice step without options")
		}
		if !step.Options.IsComputed() {
			l.checkTriggers(step.ID, step.Options.Resolve(nil))
		}
		for _, f := range step.Fields {
			l.checkTriggers(step.ID, f.Options)
		}
		if step.Effect == domain.EffectSelectModules && step.InputKind != domain.InputMultiSelect {
			l.add(SeverityError, step.ID, "module selection requires a multi-select input, got %q", step.InputKind)
		}
	}
}

func (l *linter) checkTriggers(stepID string, opts []domain.Option) {
	for _, o := range opts {
		for _, m := range o.Triggers {
			if !l.flow.DeclaresModule(m) {
				l.add(SeverityError, stepID, "option '%s' triggers undeclared module '%s'", o.ID, m)
			}
		}
	}
}

type probe struct {
	stepID string
	state  *domain.AnswerState
}

func (l *linter) crawl(modules []string) {
	start := domain.NewAnswerState("lint", l.flow, domain.LocaleFR, time.Time{})
	start.SelectedModules = slices.Clone(modules)

	queue := []probe{{stepID: l.flow.InitialStep, state: start}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		key := cur.stepID + "|" + moduleKey(cur.state.SelectedModules)
		if l.visited[key] {
			continue
		}
		l.visited[key] = true
		l.reached[cur.stepID] = true

		step, ok := l.flow.Step(cur.stepID)
		if !ok {
			l.add(SeverityError, cur.stepID, "step does not exist")
			continue
		}
		for _, response := range l.candidates(step, cur.state) {
			next, ok := l.follow(step, response, cur.state)
			if ok && next.stepID != domain.StepEnd {
				queue = append(queue, next)
			}
		}
	}
}

// follow applies response the way a submission would and navigates.
// Router panics are reported instead of aborting the lint.
func (l *linter) follow(step *domain.Step, response domain.Value, state *domain.AnswerState) (next probe, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			l.add(SeverityError, step.ID, "resolver panicked: %v", r)
			ok = false
		}
	}()

	s := state.Clone()
	if step.InputKind == domain.InputGroup {
		for _, f := range step.Fields {
			if v := response.Field(f.ID); v.Kind() != domain.KindNone {
				s.Answers[f.ID] = v
			}
		}
	} else if step.CollectsInput() && response.Kind() != domain.KindNone {
		s.Answers[step.AnswerKey()] = response
	}

	hop, err := l.nav.Next(step.ID, response, s)
	if err != nil {
		var unknown *domain.UnknownStepError
		var cycle *domain.NavigationCycleError
		switch {
		case errors.As(err, &unknown):
			l.add(SeverityError, unknown.ReferencedBy, "transition to unknown step '%s'", unknown.StepID)
		case errors.As(err, &cycle):
			l.add(SeverityError, step.ID, "skip chain does not terminate: %s", strings.Join(cycle.Chain, " -> "))
		default:
			l.add(SeverityError, step.ID, "navigation failed: %v", err)
		}
		return probe{}, false
	}
	s.AddModules(hop.AddModules...)

	chain := append([]string{step.ID}, hop.Skipped...)
	targets := append(slices.Clone(hop.Skipped), hop.Next)
	for i, id := range chain {
		if st, ok := l.flow.Step(id); ok && st.Next.IsDynamic() {
			l.edge(Edge{From: id, To: targets[i], Dynamic: true})
		}
	}
	return probe{stepID: hop.Next, state: s}, true
}

// candidates lists the responses worth probing for step.
func (l *linter) candidates(step *domain.Step, state *domain.AnswerState) (out []domain.Value) {
	defer func() {
		if r := recover(); r != nil {
			l.add(SeverityError, step.ID, "content resolver panicked: %v", r)
			out = []domain.Value{domain.None()}
		}
	}()

	switch step.InputKind {
	case domain.InputSingleSelect:
		opts := step.Options.Resolve(state)
		l.checkTriggers(step.ID, opts)
		for _, o := range opts {
			out = append(out, o.Value)
		}
		if len(out) == 0 {
			out = append(out, domain.None())
		}
	case domain.InputMultiSelect:
		if step.Effect == domain.EffectSelectModules {
			return []domain.Value{domain.ListValue(state.SelectedModules...)}
		}
		opts := step.Options.Resolve(state)
		l.checkTriggers(step.ID, opts)
		all := make([]string, 0, len(opts))
		for _, o := range opts {
			out = append(out, domain.ListValue(o.Value.String()))
			all = append(all, o.Value.String())
		}
		out = append(out, domain.ListValue(all...), domain.ListValue())
	case domain.InputToggle:
		out = []domain.Value{domain.BoolValue(true), domain.BoolValue(false)}
	case domain.InputNumber, domain.InputSlider:
		out = []domain.Value{domain.NumberValue(step.Min), domain.NumberValue(step.Max)}
	case domain.InputText:
		out = []domain.Value{domain.TextValue("lint")}
	case domain.InputGroup:
		out = []domain.Value{domain.FieldsValue(nil)}
	default:
		out = []domain.Value{domain.None()}
	}
	return out
}

func (l *linter) checkReachability() {
	for _, s := range l.flow.Steps {
		if l.reached[s.ID] {
			l.report.Reachable = append(l.report.Reachable, s.ID)
			continue
		}
		l.add(SeverityWarning, s.ID, "step is unreachable from '%s'", l.flow.InitialStep)
	}
}

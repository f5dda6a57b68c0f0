package domain

import "regexp"

// StepKind defines how a step behaves in the conversation.
type StepKind string

const (
	// StepInfo displays content and needs no answer.
	StepInfo StepKind = "info"
	// StepQuestion collects a response according to its InputKind.
	StepQuestion StepKind = "question"
	// StepSummary recaps the collected answers.
	StepSummary StepKind = "summary"
	// StepConfirmation closes the flow.
	StepConfirmation StepKind = "confirmation"
)

// InputKind defines the response shape a question step expects.
type InputKind string

const (
	InputText         InputKind = "text"
	InputNumber       InputKind = "number"
	InputSlider       InputKind = "slider"
	InputToggle       InputKind = "toggle"
	InputSingleSelect InputKind = "single-select"
	InputMultiSelect  InputKind = "multi-select"
	InputGroup        InputKind = "group"
)

// ExpectsChoice reports whether responses are picked from options.
func (k InputKind) ExpectsChoice() bool {
	return k == InputSingleSelect || k == InputMultiSelect
}

// StepEffect marks steps whose answer also drives the module set.
type StepEffect string

const (
	EffectNone StepEffect = ""
	// EffectSelectModules replaces SelectedModules with the (list) response.
	EffectSelectModules StepEffect = "select_modules"
)

// Option is a selectable answer of a choice step.
type Option struct {
	ID          string
	Value       Value
	Label       Content[string]
	Description Content[string]
	Icon        Content[string]
	Tooltip     Content[string]
	Color       string
	Disabled    bool
	// Triggers lists module ids activated when this option is chosen.
	Triggers []string
}

// Field is one input of a grouped step. Its answer is stored under ID.
type Field struct {
	ID         string
	Label      Content[string]
	InputKind  InputKind
	Options    []Option
	Validation []ValidationRule
}

// RuleKind identifies a validation rule.
type RuleKind string

const (
	RuleRequired RuleKind = "required"
	RuleMin      RuleKind = "min"
	RuleMax      RuleKind = "max"
	RulePattern  RuleKind = "pattern"
	RuleCustom   RuleKind = "custom"

	// RuleOption is reported for choices outside the offered options.
	// Steps get it implicitly from their input kind.
	RuleOption RuleKind = "option"
)

// ValidationRule is a declarative check against a pending response.
type ValidationRule struct {
	Kind    RuleKind
	Limit   float64        // min / max
	Pattern *regexp.Regexp // pattern
	Message Content[string]
	// Check is the predicate of a custom rule; it sees the raw value only.
	Check func(Value) bool
}

// Required fails on absent values.
func Required(msg Content[string]) ValidationRule {
	return ValidationRule{Kind: RuleRequired, Message: msg}
}

// Min bounds numbers from below, or text (and list) length.
func Min(limit float64, msg Content[string]) ValidationRule {
	return ValidationRule{Kind: RuleMin, Limit: limit, Message: msg}
}

// Max bounds numbers from above, or text (and list) length.
func Max(limit float64, msg Content[string]) ValidationRule {
	return ValidationRule{Kind: RuleMax, Limit: limit, Message: msg}
}

// Pattern requires the text form of the value to match expr.
// It panics if expr does not compile, like regexp.MustCompile.
func Pattern(expr string, msg Content[string]) ValidationRule {
	return ValidationRule{Kind: RulePattern, Pattern: regexp.MustCompile(expr), Message: msg}
}

// Custom fails when check returns false.
func Custom(check func(Value) bool, msg Content[string]) ValidationRule {
	return ValidationRule{Kind: RuleCustom, Check: check, Message: msg}
}

// Transition is the outcome of an outgoing edge: the next step id plus
// module ids to activate as a side-effect of taking the edge.
type Transition struct {
	Next       string
	AddModules []string
}

// Router computes a transition from the response and accumulated answers.
type Router func(response Value, state *AnswerState) Transition

// Edge is the outgoing link of a step: absent, a literal id or a router.
type Edge struct {
	to     string
	router Router
}

// Goto links to a fixed step id.
func Goto(id string) Edge { return Edge{to: id} }

// Branch links to the id computed by fn.
func Branch(fn func(response Value, state *AnswerState) string) Edge {
	return Edge{router: func(r Value, s *AnswerState) Transition {
		return Transition{Next: fn(r, s)}
	}}
}

// Route links through a router that may also carry side-effects.
func Route(fn Router) Edge { return Edge{router: fn} }

// IsSet reports whether the edge leads anywhere.
func (e Edge) IsSet() bool { return e.to != "" || e.router != nil }

// IsDynamic reports whether the target depends on the response or state.
func (e Edge) IsDynamic() bool { return e.router != nil }

// Target returns the literal id (empty for dynamic or absent edges).
func (e Edge) Target() string { return e.to }

// Follow evaluates the edge. Absent edges lead to StepEnd.
func (e Edge) Follow(response Value, state *AnswerState) Transition {
	switch {
	case e.router != nil:
		t := e.router(response, state)
		if t.Next == "" {
			t.Next = StepEnd
		}
		return t
	case e.to != "":
		return Transition{Next: e.to}
	}
	return Transition{Next: StepEnd}
}

// Step is an immutable node of a Flow.
type Step struct {
	ID   string
	Kind StepKind

	Title        Content[string]
	Subtitle     Content[string]
	Question     Content[string]
	Description  Content[string]
	Illustration Content[string]
	Tips         Content[[]string]

	InputKind InputKind
	// Field is the answer key owned by this step. Empty means the step ID.
	Field   string
	Fields  []Field
	Options Content[[]Option]

	// Slider bounds, only used for rendering.
	Min, Max, Increment float64

	Validation []ValidationRule
	// Condition hides the step when it returns false.
	Condition func(*AnswerState) bool
	Next      Edge
	Effect    StepEffect

	EstimatedMinutes int
}

// AnswerKey returns the key under which a non-grouped response is stored.
func (s *Step) AnswerKey() string {
	if s.Field != "" {
		return s.Field
	}
	return s.ID
}

// CollectsInput reports whether submitting the step stores an answer.
func (s *Step) CollectsInput() bool {
	return s.InputKind != ""
}

// IsVisible evaluates the visibility condition (absent means visible).
func (s *Step) IsVisible(state *AnswerState) bool {
	if s.Condition == nil {
		return true
	}
	return s.Condition(state)
}

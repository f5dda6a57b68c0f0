package dsl

import "github.com/aretw0/onboarding/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    domain.Step
	builder *Builder
}

// Info marks the step as display-only.
func (s *StepBuilder) Info() *StepBuilder {
	s.step.Kind = domain.StepInfo
	s.step.InputKind = ""
	return s
}

// Question marks the step as collecting a response of the given kind.
func (s *StepBuilder) Question(kind domain.InputKind) *StepBuilder {
	s.step.Kind = domain.StepQuestion
	s.step.InputKind = kind
	return s
}

// Summary marks the step as a recap of the answers.
func (s *StepBuilder) Summary() *StepBuilder {
	s.step.Kind = domain.StepSummary
	return s
}

// Confirmation marks the step as the closing screen.
func (s *StepBuilder) Confirmation() *StepBuilder {
	s.step.Kind = domain.StepConfirmation
	return s
}

func (s *StepBuilder) Title(c domain.Content[string]) *StepBuilder {
	s.step.Title = c
	return s
}

func (s *StepBuilder) Subtitle(c domain.Content[string]) *StepBuilder {
	s.step.Subtitle = c
	return s
}

// Ask sets the question text.
func (s *StepBuilder) Ask(c domain.Content[string]) *StepBuilder {
	s.step.Question = c
	return s
}

func (s *StepBuilder) Description(c domain.Content[string]) *StepBuilder {
	s.step.Description = c
	return s
}

func (s *StepBuilder) Illustration(c domain.Content[string]) *StepBuilder {
	s.step.Illustration = c
	return s
}

func (s *StepBuilder) Tips(c domain.Content[[]string]) *StepBuilder {
	s.step.Tips = c
	return s
}

// SaveTo stores the response under key instead of the step id.
func (s *StepBuilder) SaveTo(key string) *StepBuilder {
	s.step.Field = key
	return s
}

// Options sets a literal option list.
func (s *StepBuilder) Options(opts ...domain.Option) *StepBuilder {
	s.step.Options = domain.Literal(opts)
	return s
}

// OptionsFrom computes the options from the answers.
func (s *StepBuilder) OptionsFrom(fn func(*domain.AnswerState) []domain.Option) *StepBuilder {
	s.step.Options = domain.Computed(fn)
	return s
}

// Group turns the step into a grouped-fields question.
func (s *StepBuilder) Group(fields ...domain.Field) *StepBuilder {
	s.step.Kind = domain.StepQuestion
	s.step.InputKind = domain.InputGroup
	s.step.Fields = fields
	return s
}

// Slider turns the step into a slider question.
func (s *StepBuilder) Slider(minimum, maximum, increment float64) *StepBuilder {
	s.step.Kind = domain.StepQuestion
	s.step.InputKind = domain.InputSlider
	s.step.Min, s.step.Max, s.step.Increment = minimum, maximum, increment
	return s
}

// Validate appends validation rules, evaluated in order.
func (s *StepBuilder) Validate(rules ...domain.ValidationRule) *StepBuilder {
	s.step.Validation = append(s.step.Validation, rules...)
	return s
}

// When sets the visibility condition.
func (s *StepBuilder) When(cond func(*domain.AnswerState) bool) *StepBuilder {
	s.step.Condition = cond
	return s
}

// Go sets a literal transition.
func (s *StepBuilder) Go(id string) *StepBuilder {
	s.step.Next = domain.Goto(id)
	return s
}

// Branch sets a computed transition.
func (s *StepBuilder) Branch(fn func(domain.Value, *domain.AnswerState) string) *StepBuilder {
	s.step.Next = domain.Branch(fn)
	return s
}

// Route sets a computed transition that may activate modules.
func (s *StepBuilder) Route(fn domain.Router) *StepBuilder {
	s.step.Next = domain.Route(fn)
	return s
}

// SelectsModules makes the (multi-select) response replace the module set.
func (s *StepBuilder) SelectsModules() *StepBuilder {
	s.step.Effect = domain.EffectSelectModules
	return s
}

// Minutes sets the step duration used by the estimate.
func (s *StepBuilder) Minutes(n int) *StepBuilder {
	s.step.EstimatedMinutes = n
	return s
}

// Terminal marks the step as the end of the flow.
func (s *StepBuilder) Terminal() *StepBuilder {
	s.step.Next = domain.Edge{}
	return s
}

package validation

import (
	"slices"
	"unicode/utf8"

	"github.com/aretw0/onboarding/pkg/domain"
)

// Validate evaluates rules in order against value and returns the first
// failure as a *Failure, or nil when every rule passes.
func Validate(rules []domain.ValidationRule, value domain.Value, state *domain.AnswerState) error {
	for _, rule := range rules {
		if passes(rule, value) {
			continue
		}
		return &Failure{
			Reason:  rule.Kind,
			Message: rule.Message.Resolve(state),
		}
	}
	return nil
}

// notOffered is the message of a choice outside the offered options.
var notOffered = domain.Localized("Merci de choisir une des options proposées", "Please pick one of the proposed options")

// ValidateStep runs the step rules, then checks choices against the options
// resolved for state, then validates every grouped field against its own
// sub-value.
func ValidateStep(step *domain.Step, value domain.Value, state *domain.AnswerState) error {
	if err := Validate(step.Validation, value, state); err != nil {
		f := err.(*Failure)
		f.StepID = step.ID
		return f
	}
	if step.InputKind.ExpectsChoice() && !offered(step.InputKind, step.Options.Resolve(state), value) {
		return &Failure{StepID: step.ID, Reason: domain.RuleOption, Message: notOffered.Resolve(state)}
	}
	if step.InputKind != domain.InputGroup {
		return nil
	}
	for _, field := range step.Fields {
		sub := value.Field(field.ID)
		if err := Validate(field.Validation, sub, state); err != nil {
			f := err.(*Failure)
			f.StepID = step.ID
			f.Field = field.ID
			return f
		}
		if field.InputKind.ExpectsChoice() && !offered(field.InputKind, field.Options, sub) {
			return &Failure{StepID: step.ID, Field: field.ID, Reason: domain.RuleOption, Message: notOffered.Resolve(state)}
		}
	}
	return nil
}

// offered reports whether every picked value is an enabled option.
// Empty responses and steps without options are left to the rules.
func offered(kind domain.InputKind, opts []domain.Option, value domain.Value) bool {
	if len(opts) == 0 || value.IsEmpty() {
		return true
	}
	picked := []string{value.String()}
	if kind == domain.InputMultiSelect {
		items, ok := value.AsList()
		if !ok {
			return false
		}
		picked = items
	} else if value.Kind() == domain.KindList || value.Kind() == domain.KindFields {
		return false
	}
	for _, p := range picked {
		if !slices.ContainsFunc(opts, func(o domain.Option) bool {
			return !o.Disabled && o.Value.String() == p
		}) {
			return false
		}
	}
	return true
}

// IsRequired reports whether rules contain a required rule.
func IsRequired(rules []domain.ValidationRule) bool {
	for _, r := range rules {
		if r.Kind == domain.RuleRequired {
			return true
		}
	}
	return false
}

func passes(rule domain.ValidationRule, value domain.Value) bool {
	switch rule.Kind {
	case domain.RuleRequired:
		if b, ok := value.AsBool(); ok {
			// An unchecked toggle is an absent agreement.
			return b
		}
		return !value.IsEmpty()
	case domain.RuleMin:
		n, ok := measure(value)
		return !ok || n >= rule.Limit
	case domain.RuleMax:
		n, ok := measure(value)
		return !ok || n <= rule.Limit
	case domain.RulePattern:
		if rule.Pattern == nil {
			return true
		}
		return rule.Pattern.MatchString(value.String())
	case domain.RuleCustom:
		if rule.Check == nil {
			return true
		}
		return rule.Check(value)
	}
	return true
}

// measure maps a value onto the quantity bounded by min/max: the number
// itself, the text length in runes, or the list length.
func measure(value domain.Value) (float64, bool) {
	switch value.Kind() {
	case domain.KindNumber:
		n, _ := value.AsNumber()
		return n, true
	case domain.KindText:
		s, _ := value.AsText()
		return float64(utf8.RuneCountInString(s)), true
	case domain.KindList:
		items, _ := value.AsList()
		return float64(len(items)), true
	}
	return 0, false
}

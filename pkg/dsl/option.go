package dsl

import "github.com/aretw0/onboarding/pkg/domain"

// T is shorthand for a French/US localized string.
func T(fr, us string) domain.Content[string] {
	return domain.Localized(fr, us)
}

// Lit is shorthand for a literal string.
func Lit(s string) domain.Content[string] {
	return domain.Literal(s)
}

// Choice creates an option whose id and value are the same text.
func Choice(value string, label domain.Content[string]) domain.Option {
	return domain.Option{
		ID:    value,
		Value: domain.TextValue(value),
		Label: label,
	}
}

// WithIcon returns o with a literal icon.
func WithIcon(o domain.Option, icon string) domain.Option {
	o.Icon = domain.Literal(icon)
	return o
}

// WithDescription returns o with a description.
func WithDescription(o domain.Option, desc domain.Content[string]) domain.Option {
	o.Description = desc
	return o
}

// Triggering returns o activating modules when chosen.
func Triggering(o domain.Option, modules ...string) domain.Option {
	o.Triggers = append(o.Triggers, modules...)
	return o
}

// Input creates a grouped field.
func Input(id string, kind domain.InputKind, label domain.Content[string], rules ...domain.ValidationRule) domain.Field {
	return domain.Field{ID: id, InputKind: kind, Label: label, Validation: rules}
}

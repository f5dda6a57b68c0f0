// Package validation evaluates the declarative rules attached to onboarding steps.
//
// Rules run in declaration order and evaluation stops at the first failing rule:
//
//	rules := []domain.ValidationRule{
//	    domain.Required(domain.Literal("Please enter your name")),
//	    domain.Min(2, domain.Literal("Name must be at least 2 characters")),
//	}
//
//	if err := validation.Validate(rules, domain.TextValue(""), state); err != nil {
//	    var failure *validation.Failure
//	    if errors.As(err, &failure) {
//	        // failure.Reason == domain.RuleRequired
//	    }
//	}
//
// The same min/max rule kinds bound numbers by value and text by length.
// Messages that depend on the answers (e.g. locale-aware text) are only
// resolved once their rule actually fails.
package validation

package domain

// Content is a step attribute that is either a literal or a pure function of
// the accumulated answers. Computed functions must not mutate the state.
type Content[T any] struct {
	literal T
	compute func(*AnswerState) T
	set     bool
}

// Literal wraps a fixed value.
func Literal[T any](v T) Content[T] {
	return Content[T]{literal: v, set: true}
}

// Computed wraps a resolver evaluated against the accumulated answers.
func Computed[T any](fn func(*AnswerState) T) Content[T] {
	if fn == nil {
		return Content[T]{}
	}
	return Content[T]{compute: fn, set: true}
}

// Localized is a computed string picking the variant for the state locale.
// The French text is the default, matching LocaleFR.
func Localized(fr, us string) Content[string] {
	return Computed(func(s *AnswerState) string {
		if s != nil && s.Locale == LocaleUS {
			return us
		}
		return fr
	})
}

// Resolve returns the literal, or evaluates the resolver against state.
func (c Content[T]) Resolve(state *AnswerState) T {
	if c.compute != nil {
		return c.compute(state)
	}
	return c.literal
}

// IsSet reports whether the attribute was defined at all.
func (c Content[T]) IsSet() bool { return c.set }

// IsComputed reports whether the attribute depends on state.
func (c Content[T]) IsComputed() bool { return c.compute != nil }

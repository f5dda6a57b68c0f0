/*
Package dsl provides a fluent builder for onboarding flows.

Steps are declared in order; the first one is the initial step unless Start
is called. Content can be literal (Lit), localized (T) or computed from the
answers with domain.Computed.

Example usage:

	b := dsl.New("mini").Baseline(2)

	b.Add("welcome").
		Info().
		Title(dsl.T("Bienvenue", "Welcome")).
		Go("get_name")

	b.Add("get_name").
		Question(domain.InputText).
		Ask(dsl.T("Comment t'appelles-tu ?", "What's your name?")).
		SaveTo("firstName").
		Validate(domain.Required(dsl.T("Requis", "Required"))).
		Go("done")

	b.Add("done").
		Confirmation().
		Title(domain.Computed(func(s *domain.AnswerState) string {
			return "Merci " + s.Answer("firstName").String()
		})).
		Terminal()

	flow, err := b.Build()
*/
package dsl

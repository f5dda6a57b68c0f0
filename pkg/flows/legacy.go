package flows

import (
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/dsl"
)

// LegacyID identifies the simple branching onboarding flow.
const LegacyID = "onboarding_legacy"

// Legacy builds the simple flow: name, module selection, then one
// `<module>_setup` question per selected module in priority order.
// It shares step ids with Wellness but is an independent configuration.
func Legacy(cat *catalog.Catalog) (*domain.Flow, error) {
	b := dsl.New(LegacyID).
		Name("MyFitHero - Quick Onboarding").
		Describe("Module-by-module onboarding").
		Start("welcome").
		Baseline(5).
		Modules(cat.ModuleMinutes(), domain.ModulePriority...)

	b.Add("welcome").
		Info().
		Title(dsl.T("Bienvenue !", "Welcome!")).
		Description(dsl.T("Quelques questions pour configurer tes modules.", "A few questions to set up your modules.")).
		Minutes(1).
		Go("get_name")

	b.Add("get_name").
		Question(domain.InputText).
		SaveTo("firstName").
		Ask(dsl.T("Comment t'appelles-tu ?", "What's your name?")).
		Validate(
			domain.Required(dsl.T("Merci d'entrer ton prénom", "Please enter your name")),
			domain.Min(2, dsl.T("Le prénom doit contenir au moins 2 caractères", "Name must be at least 2 characters")),
		).
		Minutes(1).
		Go("module_selection")

	b.Add("module_selection").
		Question(domain.InputMultiSelect).
		SaveTo("selectedModules").
		SelectsModules().
		Ask(dsl.T("Quels modules veux-tu activer ?", "Which modules do you want to enable?")).
		Options(cat.ModuleOptions(nil)...).
		Validate(domain.Required(dsl.T("Veuillez sélectionner au moins un module", "Please select at least one module"))).
		Minutes(2).
		Branch(nextSetup("", setupStep))

	setup := func(module string) *dsl.StepBuilder {
		return b.Add(setupStep(module)).
			When(hasModule(module)).
			Minutes(1).
			Branch(nextSetup(module, setupStep))
	}

	setup(domain.ModuleSport).
		Question(domain.InputSingleSelect).
		SaveTo("sport").
		Ask(dsl.T("Quel sport pratiques-tu ?", "Which sport do you practice?")).
		Options(cat.SportOptions()...).
		Validate(domain.Required(dsl.T("Merci de choisir ton sport", "Please select your sport")))

	setup(domain.ModuleStrength).
		Question(domain.InputSingleSelect).
		SaveTo("strengthObjective").
		Ask(dsl.T("Quel est ton objectif en musculation ?", "What's your strength objective?")).
		Options(catalog.Options(cat.StrengthObjectives)...)

	setup(domain.ModuleNutrition).
		Question(domain.InputSingleSelect).
		SaveTo("dietaryPreference").
		Ask(dsl.T("Quel type d'alimentation te correspond ?", "What type of diet suits you?")).
		Options(catalog.Options(cat.DietaryPreferences)...)

	setup(domain.ModuleSleep).
		Slider(4, 12, 0.5).
		SaveTo("averageSleepHours").
		Ask(dsl.T("Combien d'heures dors-tu ?", "How many hours do you sleep?")).
		Validate(
			domain.Min(4, dsl.T("Minimum : 4 heures", "Minimum: 4 hours")),
			domain.Max(12, dsl.T("Maximum : 12 heures", "Maximum: 12 hours")),
		)

	setup(domain.ModuleHydration).
		Slider(1, 5, 0.5).
		SaveTo("hydrationGoal").
		Ask(dsl.T("Combien de litres par jour vises-tu ?", "How many liters per day are you aiming for?"))

	setup(domain.ModuleWellness).
		Slider(1, 10, 1).
		SaveTo("stressLevel").
		Ask(dsl.T("Ton niveau de stress (1-10) ?", "Your stress level (1-10)?"))

	b.Add(FinalQuestions).
		Question(domain.InputText).
		SaveTo("motivation").
		Ask(dsl.T("Quelle est ta motivation principale ?", "What's your main motivation?")).
		Minutes(1).
		Go("completion")

	b.Add("completion").
		Confirmation().
		Title(dsl.T("C'est parti !", "You're all set!")).
		Terminal()

	return b.Build()
}

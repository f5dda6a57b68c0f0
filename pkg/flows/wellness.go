package flows

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/dsl"
	"github.com/aretw0/onboarding/pkg/profile"
)

// WellnessID identifies the wellness-pack onboarding flow.
const WellnessID = "myfithero_onboarding_v4"

// Upsell responses of the module_upsell step.
const (
	UpsellAccept  = "accept"
	UpsellDecline = "decline"
)

// upsellModules are the modules pitched by the upsell step.
var upsellModules = []string{domain.ModuleNutrition, domain.ModuleSleep}

// wellnessEntry maps a module to its first step in the wellness flow.
func wellnessEntry(module string) string {
	if module == domain.ModuleSport {
		return "sport_selection"
	}
	return setupStep(module)
}

// Wellness builds the AI wellness-journey flow: objective and module
// selection, an upsell for missing recovery modules, personal info, one
// setup chain per selected module, then consent and summary.
func Wellness(cat *catalog.Catalog) (*domain.Flow, error) {
	b := dsl.New(WellnessID).
		Name("MyFitHero - AI-Powered Wellness Journey").
		Describe("Personalized onboarding powered by AI").
		Start("welcome").
		Baseline(5).
		Modules(cat.ModuleMinutes(), domain.ModulePriority...)

	b.Add("welcome").
		Info().
		Title(dsl.T("Bienvenue sur MyFitHero ! 🎉", "Welcome to MyFitHero! 🎉")).
		Subtitle(dsl.T("Ton coach bien-être propulsé par l'IA", "Your AI-Powered Wellness Coach")).
		Description(dsl.T(
			"Je vais t'aider à construire ton programme personnalisé en quelques minutes.",
			"I'll help you build your personalized program in just a few minutes.")).
		Illustration(dsl.Lit("🏆")).
		Tips(domain.Computed(func(s *domain.AnswerState) []string {
			if s.Locale == domain.LocaleUS {
				return []string{"Answer honestly for best results", "You can change your choices anytime", "Takes about 10-15 minutes"}
			}
			return []string{"Réponds honnêtement pour de meilleurs résultats", "Tu peux modifier tes choix à tout moment", "Environ 10-15 minutes"}
		})).
		Minutes(1).
		Go("get_name")

	b.Add("get_name").
		Question(domain.InputText).
		SaveTo("firstName").
		Title(dsl.T("Faisons connaissance !", "Let's get acquainted!")).
		Ask(dsl.T("Comment dois-je t'appeler ?", "What should I call you?")).
		Description(dsl.T("Ton prénom nous aide à personnaliser ton expérience", "Your name helps us personalize your experience")).
		Illustration(dsl.Lit("👋")).
		Validate(
			domain.Required(dsl.T("Merci d'entrer ton prénom", "Please enter your name")),
			domain.Min(2, dsl.T("Le prénom doit contenir au moins 2 caractères", "Name must be at least 2 characters")),
		).
		Minutes(1).
		Go("main_objective")

	b.Add("main_objective").
		Question(domain.InputSingleSelect).
		SaveTo("mainObjective").
		Title(domain.Computed(func(s *domain.AnswerState) string {
			name := s.Answer("firstName").String()
			if s.Locale == domain.LocaleUS {
				return fmt.Sprintf("Great %s! 🌟", name)
			}
			return fmt.Sprintf("Super %s ! 🌟", name)
		})).
		Ask(dsl.T("Quel est ton objectif principal ?", "What's your primary goal?")).
		Description(dsl.T(
			"Cela m'aide à te recommander les modules parfaits",
			"This helps me recommend the perfect modules for you")).
		Illustration(dsl.Lit("🎯")).
		OptionsFrom(mainObjectives).
		Validate(domain.Required(dsl.T("Veuillez sélectionner votre objectif principal", "Please select your main goal"))).
		Minutes(2).
		Go("module_selection")

	b.Add("module_selection").
		Question(domain.InputMultiSelect).
		SaveTo("selectedModules").
		SelectsModules().
		Title(dsl.T("Construisez votre programme idéal", "Build Your Perfect Program")).
		Ask(dsl.T("Quels domaines souhaitez-vous travailler ?", "Which areas would you like to focus on?")).
		Description(dsl.T(
			"Selon vos objectifs, voici nos recommandations. Chaque module s'adapte à votre progression.",
			"Based on your goals, here are our AI-powered recommendations. Each module adapts to your progress.")).
		Illustration(dsl.Lit("📋")).
		Options(cat.ModuleOptions(nil)...).
		Validate(domain.Required(dsl.T("Veuillez sélectionner au moins un module", "Please select at least one module"))).
		Minutes(3).
		Branch(func(r domain.Value, _ *domain.AnswerState) string {
			if !r.Contains(domain.ModuleNutrition) || !r.Contains(domain.ModuleSleep) {
				return "module_upsell"
			}
			return "personal_info"
		})

	b.Add("module_upsell").
		Question(domain.InputSingleSelect).
		SaveTo("upsellResponse").
		Title(dsl.T("Des résultats 3x plus rapides ! 🚀", "Unlock 3x Faster Results! 🚀")).
		Ask(dsl.T("Nos agents IA travaillent ensemble pour un impact maximal", "Our AI agents work together for maximum impact")).
		Description(dsl.T(
			"Combiner les modules augmente le taux de réussite de 73%",
			"Studies show combining modules increases success rate by 73%")).
		Illustration(dsl.Lit("🎁")).
		OptionsFrom(upsellOptions(cat)).
		Minutes(1).
		Route(acceptUpsell)

	b.Add("personal_info").
		Group(
			dsl.Input("age", domain.InputNumber, dsl.T("Âge", "Age"),
				domain.Required(dsl.T("Merci d'indiquer ton âge", "Please enter your age")),
				domain.Min(13, dsl.T("Âge minimum : 13 ans", "Minimum age: 13")),
				domain.Max(100, dsl.T("Âge maximum : 100 ans", "Maximum age: 100")),
			),
			domain.Field{
				ID: "gender", InputKind: domain.InputSingleSelect, Label: dsl.T("Genre", "Gender"),
				Options: []domain.Option{
					dsl.Choice("male", dsl.T("Homme", "Male")),
					dsl.Choice("female", dsl.T("Femme", "Female")),
				},
			},
			domain.Field{
				ID: "lifestyle", InputKind: domain.InputSingleSelect, Label: dsl.T("Mode de vie", "Lifestyle"),
				Options: catalog.Options(cat.Lifestyles),
			},
			dsl.Input("availableTimePerDay", domain.InputNumber, dsl.T("Temps disponible par jour (min)", "Available time per day (min)"),
				domain.Min(5, dsl.T("Minimum : 5 minutes", "Minimum: 5 minutes")),
				domain.Max(600, dsl.T("Maximum : 600 minutes", "Maximum: 600 minutes")),
			),
		).
		Title(dsl.T("Parle-moi de toi", "Tell me about yourself")).
		Ask(dsl.T("Aide-moi à personnaliser tes programmes", "Help me personalize your programs")).
		Description(dsl.T("Tes informations sont sécurisées et privées", "Your information is secure and private")).
		Illustration(dsl.Lit("📊")).
		Minutes(3).
		Branch(nextSetup("", wellnessEntry))

	addSportChain(b, cat)
	addStrengthChain(b, cat)
	addNutritionChain(b, cat)
	addSleepChain(b)
	addHydrationChain(b)
	addWellnessChain(b, cat)

	b.Add(FinalQuestions).
		Question(domain.InputText).
		SaveTo("motivation").
		Title(dsl.T("Dernières questions", "Last questions")).
		Ask(dsl.T("Partage ta motivation principale", "Share your main motivation")).
		Description(dsl.T("Qu'est-ce qui te pousse le plus dans ce parcours ?", "What drives you most in this journey?")).
		Illustration(dsl.Lit("🔥")).
		Validate(domain.Required(dsl.T("Merci de partager ta motivation", "Please share your motivation"))).
		Minutes(2).
		Go("privacy_consent")

	b.Add("privacy_consent").
		Question(domain.InputToggle).
		SaveTo("privacyConsent").
		Title(dsl.T("Confidentialité & Conditions", "Privacy & Terms")).
		Ask(dsl.T("Acceptes-tu nos conditions d'utilisation ?", "Accept our terms of service?")).
		Description(dsl.T("Tes données sont sécurisées et jamais revendues", "Your data is secure and never sold")).
		Illustration(dsl.Lit("🔒")).
		Validate(domain.Required(dsl.T("Tu dois accepter les conditions pour continuer", "You must accept the terms to continue"))).
		Minutes(1).
		Go("summary")

	b.Add("summary").
		Summary().
		Title(dsl.T("Ton profil est prêt ! 🎉", "Your profile is ready! 🎉")).
		Description(domain.Computed(summarize(cat))).
		Illustration(dsl.Lit("✨")).
		Tips(domain.Computed(func(s *domain.AnswerState) []string {
			p, err := profile.Decode(s)
			if err != nil {
				return nil
			}
			return profile.Tips(p, cat, s.Locale)
		})).
		Minutes(2).
		Go("completion")

	b.Add("completion").
		Confirmation().
		Title(dsl.T("Bienvenue sur MyFitHero !", "Welcome to MyFitHero!")).
		Description(dsl.T("Ton parcours personnalisé t'attend", "Your personalized journey awaits")).
		Illustration(dsl.Lit("🚀")).
		Minutes(1).
		Terminal()

	return b.Build()
}

func mainObjectives(s *domain.AnswerState) []domain.Option {
	objective := func(id, icon string, label, desc domain.Content[string], triggers ...string) domain.Option {
		o := dsl.Triggering(dsl.WithIcon(dsl.Choice(id, label), icon), triggers...)
		return dsl.WithDescription(o, desc)
	}
	return []domain.Option{
		objective("performance", "🏆",
			dsl.T("Performance sportive", "Athletic Performance"),
			dsl.T("Améliorer mes performances sportives", "Improve my performance in sports"),
			domain.ModuleSport, domain.ModuleStrength, domain.ModuleNutrition, domain.ModuleSleep),
		objective("health_wellness", "❤️",
			dsl.T("Santé & Bien-être", "Health & Wellness"),
			dsl.T("Maintenir une bonne santé générale", "Maintain overall good health"),
			domain.ModuleNutrition, domain.ModuleSleep, domain.ModuleHydration, domain.ModuleWellness),
		objective("body_composition", "⚖️",
			dsl.T("Transformation physique", "Body Transformation"),
			dsl.T("Perdre du poids ou prendre du muscle", "Lose weight or build muscle"),
			domain.ModuleStrength, domain.ModuleNutrition, domain.ModuleHydration),
		objective("energy_sleep", "⚡",
			dsl.T("Énergie & Récupération", "Energy & Recovery"),
			dsl.T("Booster mon énergie et ma récupération", "Boost my energy and recovery"),
			domain.ModuleSleep, domain.ModuleNutrition, domain.ModuleHydration, domain.ModuleWellness),
		objective("holistic", "🌟",
			dsl.T("Transformation complète", "Complete Transformation"),
			dsl.T("Optimiser tous les aspects de ma vie", "Optimize every aspect of my life"),
			domain.ModulePriority...),
	}
}

// missingUpsell lists the pitched modules not selected yet.
func missingUpsell(s *domain.AnswerState) []string {
	var missing []string
	for _, m := range upsellModules {
		if !s.HasModule(m) {
			missing = append(missing, m)
		}
	}
	return missing
}

// upsellOptions offers each missing module alone, the trial adding all of
// them, and a decline.
func upsellOptions(cat *catalog.Catalog) func(*domain.AnswerState) []domain.Option {
	return func(s *domain.AnswerState) []domain.Option {
		missing := missingUpsell(s)
		if len(missing) == 0 {
			return nil
		}
		opts := make([]domain.Option, 0, len(missing)+2)
		opts = append(opts, dsl.WithDescription(
			dsl.WithIcon(domain.Option{
				ID:    "accept_trial",
				Value: domain.TextValue(UpsellAccept),
				Label: dsl.T("✅ Oui ! Activer mon essai GRATUIT de 15 jours", "✅ Yes! Activate my 15-day FREE trial"),
			}, "🎯"),
			dsl.T("🔥 Sans carte bancaire • Annulable à tout moment", "🔥 No credit card • Cancel anytime • $0 today"),
		))
		opts = append(opts, cat.ModuleOptions(func(id string) bool {
			return slices.Contains(missing, id)
		})...)
		opts = append(opts, dsl.WithDescription(
			dsl.WithIcon(domain.Option{
				ID:    "decline_trial",
				Value: domain.TextValue(UpsellDecline),
				Label: dsl.T("Non merci, continuer avec mes modules", "No thanks, continue with selected modules"),
			}, "➡️"),
			dsl.T("Tu pourras toujours évoluer plus tard", "You can always upgrade later"),
		))
		return opts
	}
}

// acceptUpsell adds the accepted modules to the selection. It goes through
// the transition side-effect channel; modules already selected are not
// duplicated.
func acceptUpsell(r domain.Value, s *domain.AnswerState) domain.Transition {
	t := domain.Transition{Next: "personal_info"}
	choice := r.String()
	switch {
	case choice == UpsellAccept:
		t.AddModules = missingUpsell(s)
	case slices.Contains(upsellModules, choice):
		t.AddModules = []string{choice}
	}
	return t
}

func summarize(cat *catalog.Catalog) func(*domain.AnswerState) string {
	return func(s *domain.AnswerState) string {
		us := s.Locale == domain.LocaleUS
		var names []string
		for _, id := range s.SelectedModules {
			if m, ok := cat.Module(id); ok {
				names = append(names, m.Icon+" "+m.Label().Resolve(s))
			}
		}
		modules := strings.Join(names, ", ")
		if modules == "" {
			modules = "-"
		}
		name := s.Answer("firstName").String()
		if us {
			return fmt.Sprintf("Here's your configuration summary, %s.\nModules: %s", name, modules)
		}
		return fmt.Sprintf("Voici le récapitulatif de ta configuration, %s.\nModules : %s", name, modules)
	}
}

package flows

import (
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/dsl"
)

func addSportChain(b *dsl.Builder, cat *catalog.Catalog) {
	sport := hasModule(domain.ModuleSport)

	b.Add("sport_selection").
		Question(domain.InputSingleSelect).
		SaveTo("sport").
		When(sport).
		Title(dsl.T("Ton sport principal", "Your main sport")).
		Ask(dsl.T("Quel sport pratiques-tu principalement ?", "What sport do you primarily practice?")).
		Description(dsl.T("Cela m'aide à créer des programmes spécifiques", "This helps me create sport-specific programs")).
		Illustration(dsl.Lit("🏃‍♂️")).
		Options(cat.SportOptions()...).
		Validate(domain.Required(dsl.T("Merci de choisir ton sport", "Please select your sport"))).
		Minutes(2).
		Go("sport_position")

	b.Add("sport_position").
		Question(domain.InputSingleSelect).
		SaveTo("sportPosition").
		When(func(s *domain.AnswerState) bool {
			return s.HasModule(domain.ModuleSport) && s.Answer("sport").String() != "other"
		}).
		Title(dsl.T("Ton poste / ta spécialité", "Your position/specialty")).
		Ask(dsl.T("Quel est ton poste ou ta spécialité ?", "What's your position or specialty?")).
		Description(dsl.T("Pour des programmes encore plus ciblés", "For even more targeted programs")).
		Illustration(dsl.Lit("🎯")).
		OptionsFrom(func(s *domain.AnswerState) []domain.Option {
			return cat.PositionOptions(s.Answer("sport").String())
		}).
		Minutes(1).
		Go("sport_level")

	b.Add("sport_level").
		Question(domain.InputSingleSelect).
		SaveTo("sportLevel").
		When(sport).
		Title(dsl.T("Ton niveau", "Your sport level")).
		Ask(dsl.T("Comment décrirais-tu ton niveau ?", "How would you describe your level?")).
		Description(dsl.T("Sois honnête, cela détermine l'intensité de ton programme", "Be honest, this determines your program intensity")).
		Illustration(dsl.Lit("📊")).
		Options(catalog.Options(cat.SportLevels)...).
		Validate(domain.Required(dsl.T("Merci de choisir ton niveau", "Please select your level"))).
		Minutes(1).
		Go("sport_season")

	b.Add("sport_season").
		Question(domain.InputSingleSelect).
		SaveTo("seasonPeriod").
		When(sport).
		Title(dsl.T("Ta période de saison", "Your season period")).
		Ask(dsl.T("Où en es-tu dans ta saison ?", "Where are you in your season?")).
		Illustration(dsl.Lit("📅")).
		Options(catalog.Options(cat.SeasonPeriods)...).
		Minutes(1).
		Go("sport_equipment")

	b.Add("sport_equipment").
		Question(domain.InputSingleSelect).
		SaveTo("equipmentLevel").
		When(sport).
		Title(dsl.T("Ton équipement", "Your equipment")).
		Ask(dsl.T("À quel équipement as-tu accès ?", "What equipment do you have access to?")).
		Description(dsl.T("J'adapterai les programmes à ton matériel", "I'll adapt programs to your available equipment")).
		Illustration(dsl.Lit("🏋️‍♂️")).
		Options(catalog.Options(cat.EquipmentLevels)...).
		Validate(domain.Required(dsl.T("Merci de choisir ton niveau d'équipement", "Please select your equipment level"))).
		Minutes(1).
		Branch(nextSetup(domain.ModuleSport, wellnessEntry))
}

func addStrengthChain(b *dsl.Builder, cat *catalog.Catalog) {
	strength := hasModule(domain.ModuleStrength)

	b.Add("strength_setup").
		Question(domain.InputSingleSelect).
		SaveTo("strengthObjective").
		When(strength).
		Title(dsl.T("Objectif musculation", "Strength training goal")).
		Ask(dsl.T("Quel est ton objectif principal en musculation ?", "What's your main strength objective?")).
		Description(dsl.T("Cela détermine ton style d'entraînement", "This determines your training style")).
		Illustration(dsl.Lit("💪")).
		Options(catalog.Options(cat.StrengthObjectives)...).
		Validate(domain.Required(dsl.T("Merci de choisir ton objectif", "Please select your objective"))).
		Minutes(2).
		Go("strength_experience")

	b.Add("strength_experience").
		Question(domain.InputSingleSelect).
		SaveTo("strengthExperience").
		When(strength).
		Title(dsl.T("Ton expérience", "Your experience")).
		Ask(dsl.T("Depuis combien de temps fais-tu de la musculation ?", "How long have you been strength training?")).
		Description(dsl.T("Cela ajuste la complexité des exercices", "This helps adjust exercise complexity")).
		Illustration(dsl.Lit("📈")).
		Options(catalog.Options(cat.FitnessLevels)...).
		Validate(domain.Required(dsl.T("Merci de choisir ton niveau d'expérience", "Please select your experience level"))).
		Minutes(1).
		Branch(nextSetup(domain.ModuleStrength, wellnessEntry))
}

func addNutritionChain(b *dsl.Builder, cat *catalog.Catalog) {
	nutrition := hasModule(domain.ModuleNutrition)

	b.Add("nutrition_setup").
		Question(domain.InputSingleSelect).
		SaveTo("dietaryPreference").
		When(nutrition).
		Title(dsl.T("Tes préférences alimentaires", "Your dietary preferences")).
		Ask(dsl.T("Quel type d'alimentation te correspond ?", "What type of diet suits you?")).
		Description(dsl.T("Je personnaliserai tes repas selon tes préférences", "I'll personalize meal plans to your preferences")).
		Illustration(dsl.Lit("🥗")).
		Options(catalog.Options(cat.DietaryPreferences)...).
		Validate(domain.Required(dsl.T("Merci de choisir ta préférence alimentaire", "Please select your dietary preference"))).
		Minutes(2).
		Go("nutrition_objective")

	b.Add("nutrition_objective").
		Question(domain.InputSingleSelect).
		SaveTo("nutritionObjective").
		When(nutrition).
		Title(dsl.T("Objectif nutrition", "Nutrition goal")).
		Ask(dsl.T("Que veux-tu accomplir avec la nutrition ?", "What do you want to achieve with nutrition?")).
		Description(dsl.T("Cela détermine ton approche calorique et tes macros", "This determines your caloric and macro approach")).
		Illustration(dsl.Lit("🎯")).
		Options(catalog.Options(cat.NutritionObjectives)...).
		Validate(domain.Required(dsl.T("Merci de choisir ton objectif nutrition", "Please select your nutrition goal"))).
		Minutes(1).
		Go("nutrition_allergies")

	b.Add("nutrition_allergies").
		Question(domain.InputMultiSelect).
		SaveTo("foodAllergies").
		When(nutrition).
		Title(dsl.T("Allergies alimentaires", "Food allergies")).
		Ask(dsl.T("As-tu des allergies ou intolérances ?", "Do you have any allergies or intolerances?")).
		Description(dsl.T("Laisse vide si aucune", "Leave empty if none")).
		Illustration(dsl.Lit("🚫")).
		Options(cat.AllergyOptions()...).
		Branch(nextSetup(domain.ModuleNutrition, wellnessEntry))
}

func addSleepChain(b *dsl.Builder) {
	sleep := hasModule(domain.ModuleSleep)

	b.Add("sleep_setup").
		Slider(4, 12, 0.5).
		SaveTo("averageSleepHours").
		When(sleep).
		Title(dsl.T("Tes habitudes de sommeil", "Your sleep habits")).
		Ask(dsl.T("Combien d'heures dors-tu en moyenne ?", "How many hours do you sleep on average?")).
		Description(dsl.T("Le sommeil est crucial pour la récupération et la performance", "Sleep is crucial for recovery and performance")).
		Illustration(dsl.Lit("😴")).
		Validate(
			domain.Required(dsl.T("Merci d'indiquer ta durée de sommeil", "Please indicate your sleep duration")),
			domain.Min(4, dsl.T("Minimum : 4 heures", "Minimum: 4 hours")),
			domain.Max(12, dsl.T("Maximum : 12 heures", "Maximum: 12 hours")),
		).
		Minutes(1).
		Go("sleep_difficulties")

	b.Add("sleep_difficulties").
		Question(domain.InputToggle).
		SaveTo("sleepDifficulties").
		When(sleep).
		Title(dsl.T("Qualité du sommeil", "Sleep quality")).
		Ask(dsl.T("As-tu des difficultés à dormir ?", "Do you have trouble sleeping?")).
		Description(dsl.T("Je peux te donner des conseils pour mieux dormir", "I can provide tips to improve your sleep")).
		Illustration(dsl.Lit("🌙")).
		Minutes(1).
		Branch(nextSetup(domain.ModuleSleep, wellnessEntry))
}

func addHydrationChain(b *dsl.Builder) {
	hydration := hasModule(domain.ModuleHydration)

	b.Add("hydration_setup").
		Slider(1, 5, 0.5).
		SaveTo("hydrationGoal").
		When(hydration).
		Title(dsl.T("Ton hydratation", "Your hydration")).
		Ask(dsl.T("Quel est ton objectif d'hydratation quotidien (litres) ?", "What's your daily hydration goal (liters)?")).
		Description(dsl.T("Une bonne hydratation améliore performance et récupération", "Good hydration improves performance and recovery")).
		Illustration(dsl.Lit("💧")).
		Validate(
			domain.Required(dsl.T("Merci de fixer ton objectif d'hydratation", "Please set your hydration goal")),
			domain.Min(1, dsl.T("Minimum : 1 litre par jour", "Minimum: 1 liter per day")),
			domain.Max(5, dsl.T("Maximum : 5 litres par jour", "Maximum: 5 liters per day")),
		).
		Minutes(1).
		Go("hydration_reminders")

	b.Add("hydration_reminders").
		Question(domain.InputToggle).
		SaveTo("hydrationReminders").
		When(hydration).
		Title(dsl.T("Rappels d'hydratation", "Hydration reminders")).
		Ask(dsl.T("Veux-tu des rappels d'hydratation intelligents ?", "Would you like smart hydration reminders?")).
		Description(dsl.T("Je peux t'envoyer des notifications selon ton activité", "I can send notifications based on your activity")).
		Illustration(dsl.Lit("🔔")).
		Minutes(1).
		Branch(nextSetup(domain.ModuleHydration, wellnessEntry))
}

func addWellnessChain(b *dsl.Builder, cat *catalog.Catalog) {
	wellness := hasModule(domain.ModuleWellness)

	b.Add("wellness_setup").
		Slider(1, 10, 1).
		SaveTo("stressLevel").
		When(wellness).
		Title(dsl.T("Ton bien-être", "Your wellbeing")).
		Ask(dsl.T("Comment évalues-tu ton niveau de stress (1-10) ?", "How would you rate your stress level (1-10)?")).
		Description(dsl.T("Cela m'aide à équilibrer effort et récupération", "This helps me balance effort and recovery")).
		Illustration(dsl.Lit("🧘‍♀️")).
		Validate(
			domain.Required(dsl.T("Merci d'indiquer ton niveau de stress", "Please rate your stress level")),
			domain.Min(1, dsl.T("Minimum : 1", "Minimum: 1")),
			domain.Max(10, dsl.T("Maximum : 10", "Maximum: 10")),
		).
		Minutes(1).
		Go("wellness_focus")

	b.Add("wellness_focus").
		Question(domain.InputMultiSelect).
		SaveTo("mentalHealthFocus").
		When(wellness).
		Title(dsl.T("Tes priorités bien-être", "Your wellness priorities")).
		Ask(dsl.T("Sur quoi veux-tu te concentrer ?", "What would you like to focus on?")).
		Illustration(dsl.Lit("🌿")).
		Options(catalog.Options(cat.WellnessFocus)...).
		Minutes(1).
		Branch(nextSetup(domain.ModuleWellness, wellnessEntry))
}

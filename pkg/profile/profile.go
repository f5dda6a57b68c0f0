package profile

import (
	"fmt"

	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Profile is the typed view of a completed (or partial) onboarding, consumed
// by personalization logic downstream of the flow engine.
// Keys match the answer keys used by the flows.
type Profile struct {
	Locale          string   `json:"locale" mapstructure:"locale"`
	FirstName       string   `json:"first_name" mapstructure:"firstName"`
	MainObjective   string   `json:"main_objective" mapstructure:"mainObjective"`
	SelectedModules []string `json:"selected_modules" mapstructure:"selectedModules"`

	Age                 int    `json:"age,omitempty" mapstructure:"age"`
	Gender              string `json:"gender,omitempty" mapstructure:"gender"`
	Lifestyle           string `json:"lifestyle,omitempty" mapstructure:"lifestyle"`
	AvailableTimePerDay int    `json:"available_time_per_day,omitempty" mapstructure:"availableTimePerDay"`

	Sport          string `json:"sport,omitempty" mapstructure:"sport"`
	SportPosition  string `json:"sport_position,omitempty" mapstructure:"sportPosition"`
	SportLevel     string `json:"sport_level,omitempty" mapstructure:"sportLevel"`
	SeasonPeriod   string `json:"season_period,omitempty" mapstructure:"seasonPeriod"`
	EquipmentLevel string `json:"equipment_level,omitempty" mapstructure:"equipmentLevel"`

	StrengthObjective  string `json:"strength_objective,omitempty" mapstructure:"strengthObjective"`
	StrengthExperience string `json:"strength_experience,omitempty" mapstructure:"strengthExperience"`

	DietaryPreference  string   `json:"dietary_preference,omitempty" mapstructure:"dietaryPreference"`
	NutritionObjective string   `json:"nutrition_objective,omitempty" mapstructure:"nutritionObjective"`
	FoodAllergies      []string `json:"food_allergies,omitempty" mapstructure:"foodAllergies"`

	AverageSleepHours float64 `json:"average_sleep_hours,omitempty" mapstructure:"averageSleepHours"`
	SleepDifficulties bool    `json:"sleep_difficulties,omitempty" mapstructure:"sleepDifficulties"`

	HydrationGoal      float64 `json:"hydration_goal,omitempty" mapstructure:"hydrationGoal"`
	HydrationReminders bool    `json:"hydration_reminders,omitempty" mapstructure:"hydrationReminders"`

	StressLevel       int      `json:"stress_level,omitempty" mapstructure:"stressLevel"`
	MentalHealthFocus []string `json:"mental_health_focus,omitempty" mapstructure:"mentalHealthFocus"`

	Motivation     string `json:"motivation,omitempty" mapstructure:"motivation"`
	PrivacyConsent bool   `json:"privacy_consent,omitempty" mapstructure:"privacyConsent"`
}

// Decode maps the answers of state onto a Profile. Decoding is weakly typed
// so that e.g. a text "30" still fills Age. Unknown answer keys are ignored.
func Decode(state *domain.AnswerState) (Profile, error) {
	var p Profile
	if state == nil {
		return p, nil
	}

	raw := make(map[string]any, len(state.Answers)+2)
	for k, v := range state.Answers {
		if v.Kind() == domain.KindNone {
			continue
		}
		raw[k] = v.Interface()
	}
	raw["selectedModules"] = state.SelectedModules
	raw["locale"] = string(state.Locale)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

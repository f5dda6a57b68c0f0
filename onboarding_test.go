package onboarding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/onboarding"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/dsl"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/aretw0/onboarding/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newWellness(t *testing.T, opts ...onboarding.Option) *onboarding.Engine {
	t.Helper()
	f, err := flows.Wellness(catalog.Default())
	require.NoError(t, err)
	opts = append([]onboarding.Option{onboarding.WithClock(func() time.Time { return fixedTime })}, opts...)
	eng, err := onboarding.New(f, opts...)
	require.NoError(t, err)
	return eng
}

// answer submits v and fails the test on any error.
func answer(t *testing.T, s *onboarding.Session, v domain.Value) {
	t.Helper()
	step, _ := s.CurrentResolvedStep()
	require.NoError(t, s.Submit(context.Background(), v), "submitting at %s", step.ID)
}

func currentID(t *testing.T, s *onboarding.Session) string {
	t.Helper()
	return s.Progress().CurrentStepID
}

var personalInfo = domain.FieldsValue(map[string]domain.Value{
	"age":                 domain.NumberValue(29),
	"gender":              domain.TextValue("female"),
	"lifestyle":           domain.TextValue("office_worker"),
	"availableTimePerDay": domain.NumberValue(45),
})

// startAtModuleSelection walks welcome, get_name and main_objective.
func startAtModuleSelection(t *testing.T, eng *onboarding.Engine) *onboarding.Session {
	t.Helper()
	s, err := eng.Start(context.Background(), "s1", domain.LocaleUS)
	require.NoError(t, err)
	answer(t, s, domain.None())
	answer(t, s, domain.TextValue("Alex"))
	answer(t, s, domain.TextValue("health_wellness"))
	require.Equal(t, "module_selection", currentID(t, s))
	return s
}

func TestNew_RejectsBrokenFlow(t *testing.T) {
	b := dsl.New("broken").Start("a")
	b.Add("a").Info().Title(dsl.Lit("A")).Go("missing")
	f := b.MustBuild()

	_, err := onboarding.New(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = onboarding.New(nil)
	assert.Error(t, err)
}

func TestNew_ShippedFlowsLintClean(t *testing.T) {
	cat := catalog.Default()
	for _, name := range flows.Names() {
		t.Run(name, func(t *testing.T) {
			f, err := flows.ByName(name, cat)
			require.NoError(t, err)
			eng, err := onboarding.New(f)
			require.NoError(t, err)
			assert.Empty(t, eng.Report().Findings)
		})
	}
}

func TestEngine_StartGeneratesSessionID(t *testing.T) {
	eng := newWellness(t, onboarding.WithSessionIDGenerator(func() string { return "generated" }))

	s, err := eng.Start(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "generated", s.ID())
	assert.Equal(t, domain.LocaleFR, s.State().Locale, "default locale")
	assert.Equal(t, "welcome", currentID(t, s))
	assert.Equal(t, fixedTime, s.State().StartedAt)
}

// Scenario: name then objective; the objective's triggers select modules.
func TestSession_NameAndObjective(t *testing.T) {
	eng := newWellness(t)
	s, err := eng.Start(context.Background(), "s1", domain.LocaleUS)
	require.NoError(t, err)

	step, err := s.CurrentResolvedStep()
	require.NoError(t, err)
	assert.Equal(t, "welcome", step.ID)

	answer(t, s, domain.None())
	assert.Equal(t, "get_name", currentID(t, s))

	answer(t, s, domain.TextValue("Alex"))
	assert.Equal(t, "main_objective", currentID(t, s))

	step, err = s.CurrentResolvedStep()
	require.NoError(t, err)
	assert.Equal(t, "Great Alex! 🌟", step.Title)

	answer(t, s, domain.TextValue("performance"))
	assert.ElementsMatch(t, []string{"sport", "strength", "nutrition", "sleep"}, s.SelectedModules())
	assert.Equal(t, []string{"welcome", "get_name", "main_objective"}, s.Progress().CompletedStepIDs)
}

func TestSession_ValidationFailureLeavesStateUnchanged(t *testing.T) {
	eng := newWellness(t)
	s, err := eng.Start(context.Background(), "s1", domain.LocaleUS)
	require.NoError(t, err)
	answer(t, s, domain.None())
	before := s.State()

	err = s.Submit(context.Background(), domain.TextValue(""))
	failure, ok := validation.AsFailure(err)
	require.True(t, ok, "expected a validation failure, got %v", err)
	assert.Equal(t, domain.RuleRequired, failure.Reason, "first rule in order wins")
	assert.Equal(t, "Please enter your name", failure.Message)

	assert.Equal(t, before, s.State())
}

// Scenario: only nutrition selected, so sleep is missing and the upsell shows.
func TestSession_UpsellRouting(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     string
	}{
		{"nutrition only", []string{"nutrition"}, "module_upsell"},
		{"sleep only", []string{"sleep"}, "module_upsell"},
		{"both pitched modules", []string{"nutrition", "sleep"}, "personal_info"},
		{"neither", []string{"sport"}, "module_upsell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startAtModuleSelection(t, newWellness(t))
			answer(t, s, domain.ListValue(tt.selected...))

			assert.Equal(t, tt.want, currentID(t, s))
			assert.Equal(t, tt.selected, s.SelectedModules(), "selection replaces objective triggers")
			completed := s.Progress().CompletedStepIDs
			assert.Equal(t, "module_selection", completed[len(completed)-1])
		})
	}
}

func TestSession_UpsellAcceptance(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{"trial adds every missing module", flows.UpsellAccept, []string{"sport", "nutrition", "sleep"}},
		{"single module", "sleep", []string{"sport", "sleep"}},
		{"decline", flows.UpsellDecline, []string{"sport"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startAtModuleSelection(t, newWellness(t))
			answer(t, s, domain.ListValue("sport"))

			answer(t, s, domain.TextValue(tt.response))
			assert.Equal(t, "personal_info", currentID(t, s))
			assert.Equal(t, tt.want, s.SelectedModules())
		})
	}
}

func TestSession_UpsellAcceptanceIsIdempotent(t *testing.T) {
	s := startAtModuleSelection(t, newWellness(t))
	answer(t, s, domain.ListValue("nutrition"))
	answer(t, s, domain.TextValue("sleep"))
	require.Equal(t, []string{"nutrition", "sleep"}, s.SelectedModules())

	// Pointer-only back keeps the accepted module; accepting again must not duplicate it.
	require.NoError(t, s.GoBack(context.Background()))
	require.Equal(t, "module_upsell", currentID(t, s))
	answer(t, s, domain.TextValue("sleep"))

	assert.Equal(t, []string{"nutrition", "sleep"}, s.SelectedModules())
}

// Scenario: after the sport chain, priority order picks the next module setup.
func TestSession_ModuleChainPriority(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     string
	}{
		{"sport only", []string{"sport"}, flows.FinalQuestions},
		{"sport and strength", []string{"sport", "strength"}, "strength_setup"},
		{"sport and nutrition", []string{"nutrition", "sport"}, "nutrition_setup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startAtModuleSelection(t, newWellness(t))
			answer(t, s, domain.ListValue(tt.selected...))
			if currentID(t, s) == "module_upsell" {
				answer(t, s, domain.TextValue(flows.UpsellDecline))
			}
			answer(t, s, personalInfo)
			require.Equal(t, "sport_selection", currentID(t, s))

			answer(t, s, domain.TextValue("football"))
			assert.Equal(t, "sport_position", currentID(t, s))
			answer(t, s, domain.TextValue("Attaquant"))
			answer(t, s, domain.TextValue("amateur_competitive"))
			answer(t, s, domain.TextValue("in_season"))
			require.Equal(t, "sport_equipment", currentID(t, s))

			answer(t, s, domain.TextValue("full_gym"))
			assert.Equal(t, tt.want, currentID(t, s))
		})
	}
}

func TestSession_SkippedStepsAreNotCompleted(t *testing.T) {
	s := startAtModuleSelection(t, newWellness(t))
	answer(t, s, domain.ListValue("sport", "nutrition", "sleep"))
	answer(t, s, personalInfo)

	answer(t, s, domain.TextValue("other"))
	assert.Equal(t, "sport_level", currentID(t, s), "position is hidden for other sports")

	p := s.Progress()
	assert.Equal(t, 1, p.SkipCount)
	assert.NotContains(t, p.CompletedStepIDs, "sport_position")
	assert.Equal(t, "sport_selection", p.CompletedStepIDs[len(p.CompletedStepIDs)-1])
}

func TestSession_FullTraversal(t *testing.T) {
	ctx := context.Background()
	eng := newWellness(t)
	s := startAtModuleSelection(t, eng)

	answer(t, s, domain.ListValue("nutrition", "sleep", "hydration", "wellness"))
	assert.Greater(t, s.Progress().EstimatedTotalMinutes, eng.Flow().EstimateMinutes(nil), "modules add to the estimate")

	answer(t, s, personalInfo)
	steps := []struct {
		at    string
		value domain.Value
	}{
		{"nutrition_setup", domain.TextValue("vegetarian")},
		{"nutrition_objective", domain.TextValue("maintenance")},
		{"nutrition_allergies", domain.ListValue()},
		{"sleep_setup", domain.NumberValue(7.5)},
		{"sleep_difficulties", domain.BoolValue(false)},
		{"hydration_setup", domain.NumberValue(2)},
		{"hydration_reminders", domain.BoolValue(true)},
		{"wellness_setup", domain.NumberValue(6)},
		{"wellness_focus", domain.ListValue("stress", "energy")},
		{flows.FinalQuestions, domain.TextValue("Feel better every day")},
		{"privacy_consent", domain.BoolValue(true)},
		{"summary", domain.None()},
		{"completion", domain.None()},
	}
	for _, st := range steps {
		require.Equal(t, st.at, currentID(t, s))
		answer(t, s, st.value)
	}

	assert.True(t, s.IsComplete())
	assert.Equal(t, domain.StatusComplete, s.State().Status)
	assert.Equal(t, 0, s.Progress().EstimatedTimeLeftMinutes)

	_, err := s.CurrentResolvedStep()
	assert.ErrorIs(t, err, domain.ErrFlowComplete)
	assert.ErrorIs(t, s.Submit(ctx, domain.None()), domain.ErrFlowComplete)

	p, err := s.Profile()
	require.NoError(t, err)
	assert.Equal(t, "Alex", p.FirstName)
	assert.Equal(t, 29, p.Age)
	assert.Equal(t, 7.5, p.AverageSleepHours)
	assert.Equal(t, []string{"stress", "energy"}, p.MentalHealthFocus)
	assert.True(t, p.PrivacyConsent)
}

func TestSession_PrivacyConsentRequired(t *testing.T) {
	s := startAtModuleSelection(t, newWellness(t))
	answer(t, s, domain.ListValue("nutrition", "sleep"))
	answer(t, s, personalInfo)
	for currentID(t, s) != "privacy_consent" {
		step, err := s.CurrentResolvedStep()
		require.NoError(t, err)
		var v domain.Value
		switch step.InputKind {
		case domain.InputSlider:
			v = domain.NumberValue(step.Min)
		case domain.InputToggle:
			v = domain.BoolValue(true)
		case domain.InputMultiSelect:
			v = domain.ListValue()
		default:
			v = domain.TextValue("because")
			if len(step.Options) > 0 {
				v = step.Options[0].Value
			}
		}
		answer(t, s, v)
	}

	err := s.Submit(context.Background(), domain.BoolValue(false))
	failure, ok := validation.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "privacy_consent", failure.StepID)
	assert.Equal(t, "privacy_consent", currentID(t, s))
}

func TestSession_GoBack(t *testing.T) {
	ctx := context.Background()

	t.Run("no history", func(t *testing.T) {
		s, err := newWellness(t).Start(ctx, "s1", domain.LocaleUS)
		require.NoError(t, err)
		assert.ErrorIs(t, s.GoBack(ctx), domain.ErrNoHistory)
	})

	t.Run("pointer only by default", func(t *testing.T) {
		s := startAtModuleSelection(t, newWellness(t))
		before := s.Progress().EstimatedTimeLeftMinutes

		require.NoError(t, s.GoBack(ctx))
		assert.Equal(t, "main_objective", currentID(t, s))
		assert.Equal(t, []string{"welcome", "get_name"}, s.Progress().CompletedStepIDs)
		assert.Equal(t, "health_wellness", s.State().Answer("mainObjective").String(), "answer is kept")
		assert.NotEmpty(t, s.SelectedModules(), "modules are kept")
		assert.Greater(t, s.Progress().EstimatedTimeLeftMinutes, before, "minutes are re-credited")
	})

	t.Run("revert restores answers and modules", func(t *testing.T) {
		s := startAtModuleSelection(t, newWellness(t, onboarding.WithRevertOnBack()))

		require.NoError(t, s.GoBack(ctx))
		assert.Equal(t, "main_objective", currentID(t, s))
		assert.Equal(t, domain.KindNone, s.State().Answer("mainObjective").Kind())
		assert.Empty(t, s.SelectedModules())
	})
}

func TestEngine_Resume(t *testing.T) {
	eng := newWellness(t)
	s := startAtModuleSelection(t, eng)
	snapshot := s.State()

	resumed, err := eng.Resume(snapshot)
	require.NoError(t, err)
	snapshot.Progress.CurrentStepID = "tampered"
	assert.Equal(t, "module_selection", currentID(t, resumed))

	answer(t, resumed, domain.ListValue("nutrition", "sleep"))
	assert.Equal(t, "personal_info", currentID(t, resumed))
	assert.Equal(t, "module_selection", currentID(t, s), "sessions are independent")

	legacy, err := flows.Legacy(catalog.Default())
	require.NoError(t, err)
	other, err := onboarding.New(legacy)
	require.NoError(t, err)
	_, err = other.Resume(s.State())
	assert.Error(t, err, "state of another flow")

	bad := s.State()
	bad.Progress.CurrentStepID = "ghost"
	_, err = eng.Resume(bad)
	var unknown *domain.UnknownStepError
	assert.True(t, errors.As(err, &unknown))
}

func TestSession_SubmitRaw(t *testing.T) {
	ctx := context.Background()
	s := startAtModuleSelection(t, newWellness(t))

	require.NoError(t, s.SubmitRaw(ctx, []any{"nutrition", "sleep"}))
	require.Equal(t, "personal_info", currentID(t, s))

	require.NoError(t, s.SubmitRaw(ctx, map[string]any{
		"age":                 float64(31),
		"gender":              "male",
		"lifestyle":           "student",
		"availableTimePerDay": float64(30),
	}))
	assert.Equal(t, "nutrition_setup", currentID(t, s))
	assert.Equal(t, 31.0, s.State().Answer("age").Interface())

	err := s.SubmitRaw(ctx, "NaN")
	f, ok := validation.AsFailure(err)
	require.True(t, ok, "expected a validation failure, got %v", err)
	assert.Equal(t, domain.RuleOption, f.Reason)
	assert.Equal(t, "nutrition_setup", currentID(t, s))
	assert.Equal(t, domain.KindNone, s.State().Answer("dietaryPreference").Kind())

	require.NoError(t, s.SubmitRaw(ctx, "vegan"))
	assert.Equal(t, "nutrition_objective", currentID(t, s))
}

func TestSession_LifecycleHooks(t *testing.T) {
	var entered, changes int
	hooks := domain.LifecycleHooks{
		OnStepEnter:   func(context.Context, *domain.StepEvent) { entered++ },
		OnStateChange: func(context.Context, *domain.StateChangeEvent) { changes++ },
	}
	s := startAtModuleSelection(t, newWellness(t, onboarding.WithLifecycleHooks(hooks)))

	assert.Equal(t, 4, entered, "welcome, get_name, main_objective, module_selection")
	assert.Equal(t, 4, changes, "start plus three submissions")
	_ = s
}

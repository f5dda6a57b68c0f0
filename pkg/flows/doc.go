// Package flows defines the onboarding flow configurations served by the
// engine: the wellness-pack journey and the legacy module-by-module flow.
//
// Both share step ids (welcome, get_name, module_selection, ...) but are
// independent definitions; they are never merged.
//
// Module-specific steps are gated by their module and chained in the fixed
// priority order sport, strength, nutrition, sleep, hydration, wellness.
// When no selected module remains the flow falls back to final_questions.
package flows

package domain

import "slices"

// Module ids shared by the onboarding flows.
const (
	ModuleSport     = "sport"
	ModuleStrength  = "strength"
	ModuleNutrition = "nutrition"
	ModuleSleep     = "sleep"
	ModuleHydration = "hydration"
	ModuleWellness  = "wellness"
)

// ModulePriority is the fixed order in which module setups are visited.
var ModulePriority = []string{
	ModuleSport,
	ModuleStrength,
	ModuleNutrition,
	ModuleSleep,
	ModuleHydration,
	ModuleWellness,
}

// NextModule returns the first selected module that comes after `after` in
// ModulePriority. An empty `after` starts from the top of the order.
func NextModule(selected []string, after string) (string, bool) {
	start := 0
	if after != "" {
		i := slices.Index(ModulePriority, after)
		if i < 0 {
			return "", false
		}
		start = i + 1
	}
	for _, m := range ModulePriority[start:] {
		if slices.Contains(selected, m) {
			return m, true
		}
	}
	return "", false
}

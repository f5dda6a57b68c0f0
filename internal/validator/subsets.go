package validator

import (
	"slices"
	"strings"
)

// moduleSubsets enumerates the module sets to probe: every subset when the
// flow declares few modules, otherwise none, each single module and all.
func moduleSubsets(modules []string) [][]string {
	if len(modules) > maxProbedModules {
		out := [][]string{{}, slices.Clone(modules)}
		for _, m := range modules {
			out = append(out, []string{m})
		}
		return out
	}
	n := len(modules)
	out := make([][]string, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		var subset []string
		for i, m := range modules {
			if mask&(1<<i) != 0 {
				subset = append(subset, m)
			}
		}
		out = append(out, subset)
	}
	return out
}

func moduleKey(modules []string) string {
	sorted := slices.Clone(modules)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

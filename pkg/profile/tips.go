package profile

import (
	"slices"

	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
)

// Tips derives personalized advice from the traits of the practiced sport.
// It returns nil when no known sport was chosen.
func Tips(p Profile, cat *catalog.Catalog, locale domain.Locale) []string {
	if p.Sport == "" {
		return nil
	}
	sport, ok := cat.Sport(p.Sport)
	if !ok {
		return nil
	}
	us := locale == domain.LocaleUS
	pick := func(fr, en string) string {
		if us {
			return en
		}
		return fr
	}

	var tips []string
	if sport.Environment == "outdoor" {
		tips = append(tips, pick(
			"💧 Hydratation : +20% recommandée (sport outdoor)",
			"💧 Hydration: +20% recommended (outdoor sport)"))
	}
	if sport.ContactLevel == "high" {
		tips = append(tips, pick(
			"😴 Sommeil : +1h de sommeil recommandée (sport à contact élevé)",
			"😴 Sleep: +1h of sleep recommended (high-contact sport)"))
	}
	switch sport.Category {
	case "team":
		tips = append(tips, pick(
			"📅 Fréquence : 3-5 séances/semaine recommandées pour les sports collectifs",
			"📅 Frequency: 3-5 sessions/week recommended for team sports"))
	case "individual":
		tips = append(tips, pick(
			"📅 Fréquence : 2-4 séances/semaine recommandées pour les sports individuels",
			"📅 Frequency: 2-4 sessions/week recommended for individual sports"))
	}
	return tips
}

// RecommendPack returns the pack covering the most selected modules with the
// fewest unselected extras. The catch-all pack without modules is returned
// when nothing overlaps.
func RecommendPack(modules []string, cat *catalog.Catalog) (catalog.Pack, bool) {
	var (
		best      catalog.Pack
		bestScore = -1
		found     bool
		fallback  catalog.Pack
		hasCustom bool
	)
	for _, p := range cat.Packs {
		if len(p.Modules) == 0 {
			if !hasCustom {
				fallback, hasCustom = p, true
			}
			continue
		}
		covered, extra := 0, 0
		for _, m := range p.Modules {
			if slices.Contains(modules, m) {
				covered++
			} else {
				extra++
			}
		}
		if covered == 0 {
			continue
		}
		score := covered*10 - extra
		if score > bestScore {
			best, bestScore, found = p, score, true
		}
	}
	if found {
		return best, true
	}
	return fallback, hasCustom
}

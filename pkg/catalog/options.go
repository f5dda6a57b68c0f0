package catalog

import "github.com/aretw0/onboarding/pkg/domain"

// Options turns reference entries into choice options valued by entry id.
func Options(entries []Entry) []domain.Option {
	opts := make([]domain.Option, 0, len(entries))
	for _, e := range entries {
		opts = append(opts, domain.Option{
			ID:          e.ID,
			Value:       domain.TextValue(e.ID),
			Label:       e.Label(),
			Description: e.Detail(),
		})
	}
	return opts
}

// ModuleOptions lists modules as options, optionally keeping only ids.
func (c *Catalog) ModuleOptions(keep func(id string) bool) []domain.Option {
	opts := make([]domain.Option, 0, len(c.Modules))
	for _, m := range c.Modules {
		if keep != nil && !keep(m.ID) {
			continue
		}
		opts = append(opts, domain.Option{
			ID:          m.ID,
			Value:       domain.TextValue(m.ID),
			Label:       m.Label(),
			Description: m.Detail(),
			Icon:        domain.Literal(m.Icon),
			Color:       m.Color,
		})
	}
	return opts
}

// SportOptions lists sports as options.
func (c *Catalog) SportOptions() []domain.Option {
	opts := make([]domain.Option, 0, len(c.Sports))
	for _, s := range c.Sports {
		opts = append(opts, domain.Option{
			ID:    s.ID,
			Value: domain.TextValue(s.ID),
			Label: s.Label(),
			Icon:  domain.Literal(s.Emoji),
		})
	}
	return opts
}

// PositionOptions lists the positions of a sport (none for unknown sports).
func (c *Catalog) PositionOptions(sportID string) []domain.Option {
	s, ok := c.Sport(sportID)
	if !ok {
		return nil
	}
	opts := make([]domain.Option, 0, len(s.Positions))
	for _, p := range s.Positions {
		opts = append(opts, domain.Option{
			ID:    p,
			Value: domain.TextValue(p),
			Label: domain.Literal(p),
		})
	}
	return opts
}

// AllergyOptions lists the common allergies.
func (c *Catalog) AllergyOptions() []domain.Option {
	opts := make([]domain.Option, 0, len(c.Allergies))
	for _, a := range c.Allergies {
		opts = append(opts, domain.Option{ID: a, Value: domain.TextValue(a), Label: domain.Literal(a)})
	}
	return opts
}

package domain

// ResolvedOption is an Option with every attribute resolved to literals.
type ResolvedOption struct {
	ID          string   `json:"id"`
	Value       Value    `json:"value"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Tooltip     string   `json:"tooltip,omitempty"`
	Color       string   `json:"color,omitempty"`
	Disabled    bool     `json:"disabled,omitempty"`
	Triggers    []string `json:"triggers,omitempty"`
}

// ResolvedField is a grouped input ready to render.
type ResolvedField struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	InputKind InputKind        `json:"input_kind"`
	Options   []ResolvedOption `json:"options,omitempty"`
	Required  bool             `json:"required,omitempty"`
}

// ResolvedStep is render-ready data: it never holds functions.
type ResolvedStep struct {
	ID               string           `json:"id"`
	Kind             StepKind         `json:"kind"`
	Title            string           `json:"title"`
	Subtitle         string           `json:"subtitle,omitempty"`
	Question         string           `json:"question,omitempty"`
	Description      string           `json:"description,omitempty"`
	Illustration     string           `json:"illustration,omitempty"`
	Tips             []string         `json:"tips,omitempty"`
	InputKind        InputKind        `json:"input_kind,omitempty"`
	Options          []ResolvedOption `json:"options,omitempty"`
	Fields           []ResolvedField  `json:"fields,omitempty"`
	Min              float64          `json:"min,omitempty"`
	Max              float64          `json:"max,omitempty"`
	Increment        float64          `json:"increment,omitempty"`
	Required         bool             `json:"required,omitempty"`
	EstimatedMinutes int              `json:"estimated_minutes,omitempty"`
}

// Option finds the option whose value equals v.
func (r *ResolvedStep) Option(v Value) (ResolvedOption, bool) {
	for _, o := range r.Options {
		if o.Value.Equal(v) {
			return o, true
		}
	}
	return ResolvedOption{}, false
}

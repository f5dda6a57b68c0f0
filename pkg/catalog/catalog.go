package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/aretw0/onboarding/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// Entry is a generic labelled reference record (diet, level, objective...).
type Entry struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	NameUS        string `yaml:"name_us"`
	Description   string `yaml:"description"`
	DescriptionUS string `yaml:"description_us"`
}

// Label is the localized display name.
func (e Entry) Label() domain.Content[string] {
	return localized(e.Name, e.NameUS)
}

// Detail is the localized description.
func (e Entry) Detail() domain.Content[string] {
	if e.Description == "" && e.DescriptionUS == "" {
		return domain.Content[string]{}
	}
	return localized(e.Description, e.DescriptionUS)
}

// Module describes a selectable thematic track.
type Module struct {
	Entry    `yaml:",inline"`
	Icon     string   `yaml:"icon"`
	Color    string   `yaml:"color"`
	Minutes  int      `yaml:"minutes"`
	Benefits []string `yaml:"benefits"`
}

// Pack is a bundle of modules sold together.
type Pack struct {
	Entry     `yaml:",inline"`
	Modules   []string `yaml:"modules"`
	PriceTier string   `yaml:"price_tier"`
	Savings   string   `yaml:"savings"`
	Popular   bool     `yaml:"popular"`
}

// Sport is a practiced sport with its positions and traits.
type Sport struct {
	Entry        `yaml:",inline"`
	Emoji        string   `yaml:"emoji"`
	Positions    []string `yaml:"positions"`
	Category     string   `yaml:"category"`      // team | individual
	ContactLevel string   `yaml:"contact_level"` // none | low | medium | high
	Environment  string   `yaml:"environment"`   // indoor | outdoor | both
}

// Catalog holds every static lookup table consumed by the flows.
// It is read-only once loaded.
type Catalog struct {
	Modules             []Module `yaml:"modules"`
	Packs               []Pack   `yaml:"packs"`
	Sports              []Sport  `yaml:"sports"`
	DietaryPreferences  []Entry  `yaml:"dietary_preferences"`
	Allergies           []string `yaml:"allergies"`
	StrengthObjectives  []Entry  `yaml:"strength_objectives"`
	NutritionObjectives []Entry  `yaml:"nutrition_objectives"`
	Lifestyles          []Entry  `yaml:"lifestyles"`
	EquipmentLevels     []Entry  `yaml:"equipment_levels"`
	SportLevels         []Entry  `yaml:"sport_levels"`
	FitnessLevels       []Entry  `yaml:"fitness_experience_levels"`
	SeasonPeriods       []Entry  `yaml:"season_periods"`
	WellnessFocus       []Entry  `yaml:"wellness_focus"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It panics if the embedded document
// is malformed, which tests guard against.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(bytes.NewReader(defaultDocument))
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultCat
}

// Load decodes a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) check() error {
	seen := make(map[string]bool)
	for _, m := range c.Modules {
		if m.ID == "" {
			return fmt.Errorf("catalog: module without id")
		}
		if seen[m.ID] {
			return fmt.Errorf("catalog: duplicate module %q", m.ID)
		}
		seen[m.ID] = true
	}
	for _, p := range c.Packs {
		for _, m := range p.Modules {
			if !seen[m] {
				return fmt.Errorf("catalog: pack %q references unknown module %q", p.ID, m)
			}
		}
	}
	return nil
}

// Module looks up a module by id.
func (c *Catalog) Module(id string) (Module, bool) {
	i := slices.IndexFunc(c.Modules, func(m Module) bool { return m.ID == id })
	if i < 0 {
		return Module{}, false
	}
	return c.Modules[i], true
}

// Sport looks up a sport by id.
func (c *Catalog) Sport(id string) (Sport, bool) {
	i := slices.IndexFunc(c.Sports, func(s Sport) bool { return s.ID == id })
	if i < 0 {
		return Sport{}, false
	}
	return c.Sports[i], true
}

// Pack looks up a pack by id.
func (c *Catalog) Pack(id string) (Pack, bool) {
	i := slices.IndexFunc(c.Packs, func(p Pack) bool { return p.ID == id })
	if i < 0 {
		return Pack{}, false
	}
	return c.Packs[i], true
}

// ModuleIDs lists the module ids in catalog order.
func (c *Catalog) ModuleIDs() []string {
	ids := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		ids = append(ids, m.ID)
	}
	return ids
}

// ModuleMinutes maps each module to the minutes it adds to the estimate.
func (c *Catalog) ModuleMinutes() map[string]int {
	out := make(map[string]int, len(c.Modules))
	for _, m := range c.Modules {
		out[m.ID] = m.Minutes
	}
	return out
}

func localized(fr, us string) domain.Content[string] {
	if us == "" || us == fr {
		return domain.Literal(fr)
	}
	return domain.Localized(fr, us)
}

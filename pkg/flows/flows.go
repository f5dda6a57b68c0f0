package flows

import (
	"fmt"
	"strings"

	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
)

// Flow names accepted by ByName.
const (
	NameWellness = "wellness"
	NameLegacy   = "legacy"
)

// Names lists the available flow configurations.
func Names() []string {
	return []string{NameWellness, NameLegacy}
}

// ByName builds the named flow from cat.
func ByName(name string, cat *catalog.Catalog) (*domain.Flow, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameWellness, "":
		return Wellness(cat)
	case NameLegacy:
		return Legacy(cat)
	}
	return nil, fmt.Errorf("unknown flow %q (available: %s)", name, strings.Join(Names(), ", "))
}

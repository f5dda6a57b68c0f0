// Package catalog provides the static reference data (modules, packs, sports,
// diets, levels, objectives) that the onboarding flows render as options.
//
// The default catalog is embedded as a YAML document; Load accepts an
// alternative document with the same shape.
package catalog

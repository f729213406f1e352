// Package catalog lists the selectable provinces, universities and faculties.
package catalog

import "strings"

// Catalog holds the option lists offered by the form, in display order.
type Catalog struct {
	Provinces    []string
	Universities []string
	Faculties    []string
}

// Default returns the built-in lists.
func Default() Catalog {
	return Catalog{
		Provinces: []string{
			"Koshi",
			"Madhesh",
			"Bagmati",
			"Gandaki",
			"Lumbini",
			"Karnali",
			"Sudurpashchim",
		},
		Universities: []string{
			"Tribhuvan University",
			"Kathmandu University",
			"Pokhara University",
			"Purbanchal University",
			"Far Western University",
			"Mid-Western University",
			"Lumbini Buddhist University",
			"Nepal Sanskrit University",
			"Agriculture and Forestry University",
			"Nepal Open University",
			"Rajarshi Janak University",
			"Gandaki University",
			"Madan Bhandari University of Science and Technology",
			"Manmohan Technical University",
		},
		Faculties: []string{
			"Engineering",
			"Management",
			"Science and Technology",
			"Humanities and Social Sciences",
			"Education",
			"Medicine",
			"Nursing",
			"Law",
			"Agriculture",
			"Forestry",
			"Information Technology",
			"Hotel Management",
		},
	}
}

// WithOverrides replaces each list that is non-empty in o.
func (c Catalog) WithOverrides(o Catalog) Catalog {
	if len(o.Provinces) > 0 {
		c.Provinces = o.Provinces
	}
	if len(o.Universities) > 0 {
		c.Universities = o.Universities
	}
	if len(o.Faculties) > 0 {
		c.Faculties = o.Faculties
	}
	return c
}

// Contains reports whether value is in options, ignoring case and
// surrounding whitespace.
func Contains(options []string, value string) bool {
	v := strings.TrimSpace(value)
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return true
		}
	}
	return false
}

// Canonical returns the catalog spelling of value, or value unchanged when it
// is not listed.
func Canonical(options []string, value string) string {
	v := strings.TrimSpace(value)
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o
		}
	}
	return v
}

package model

import (
	"context"
	"strings"
)

// SearchCriteria holds the user's filter selections.
type SearchCriteria struct {
	Province   string
	University string
	Faculty    string // optional
}

// Validate reports a ValidationError when province or university is blank.
func (c SearchCriteria) Validate() error {
	if strings.TrimSpace(c.Province) == "" || strings.TrimSpace(c.University) == "" {
		return &HarvestError{Kind: ErrValidation, Message: MsgMissingCriteria}
	}
	return nil
}

// College is one sanitized result row.
type College struct {
	Name   string   `json:"name"`   // never empty
	Emails []string `json:"emails"` // 0..2 entries, trimmed and deduplicated
}

// Source is a citation the model used while grounding its answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// HarvestResult is the output of a single harvest call.
type HarvestResult struct {
	Colleges []College `json:"colleges"`
	Sources  []Source  `json:"sources"`
}

// Harvester looks up colleges matching criteria using the given API key.
type Harvester interface {
	Harvest(ctx context.Context, criteria SearchCriteria, apiKey string) (HarvestResult, error)
}

// PreferenceStore persists small string preferences between sessions.
// Get returns "" for keys that were never set.
type PreferenceStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}

// Preference keys.
const (
	KeyProvince   = "province"
	KeyUniversity = "university"
	KeyFaculty    = "faculty"
	KeyTheme      = "theme"
)

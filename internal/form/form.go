// Package form holds the search form as a value-typed state machine. State
// changes only through Apply, which returns the side effects the caller must
// run (persisting a field, starting a harvest, scheduling a status tick).
package form

import (
	"strings"
	"time"

	"github.com/amishk599/nepcollege/internal/model"
)

// StatusInterval is how often the loading status message advances.
const StatusInterval = 2 * time.Second

// StatusMessages are shown in order, cycling, while a harvest is in flight.
var StatusMessages = []string{
	"Starting the model...",
	"Writing the search query...",
	"Turning on web search grounding...",
	"Reading official college websites...",
	"Checking university affiliation lists...",
	"Looking up contact details on map listings...",
	"Formatting the results...",
	"Almost done, tidying up the list.",
}

// Phase is the lifecycle stage of the form.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// State is the whole form. The zero value is an empty idle form.
type State struct {
	Criteria model.SearchCriteria
	APIKey   string // user-entered, never persisted
	// FallbackKey is used when APIKey is blank (config or environment).
	FallbackKey string

	Phase           Phase
	Colleges        []model.College
	Sources         []model.Source
	Err             string // user-facing
	SearchPerformed bool

	statusIdx  int
	generation int
}

// Restore builds the initial state from persisted preferences. Missing keys
// and read errors leave the field empty.
func Restore(store model.PreferenceStore, fallbackKey string) State {
	get := func(key string) string {
		v, err := store.Get(key)
		if err != nil {
			return ""
		}
		return v
	}
	return State{
		Criteria: model.SearchCriteria{
			Province:   get(model.KeyProvince),
			University: get(model.KeyUniversity),
			Faculty:    get(model.KeyFaculty),
		},
		FallbackKey: fallbackKey,
	}
}

// Loading reports whether a harvest is in flight.
func (s State) Loading() bool { return s.Phase == PhaseLoading }

// StatusMessage is the current perceived-progress message.
func (s State) StatusMessage() string {
	return StatusMessages[s.statusIdx%len(StatusMessages)]
}

// Generation identifies the most recent submission.
func (s State) Generation() int { return s.generation }

// ResolvedKey is the key a submission will use.
func (s State) ResolvedKey() string {
	if k := strings.TrimSpace(s.APIKey); k != "" {
		return k
	}
	return strings.TrimSpace(s.FallbackKey)
}

// Apply performs one transition.
func (s State) Apply(ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case SetProvince:
		s.Criteria.Province = ev.Value
		return s, []Effect{Persist{Key: model.KeyProvince, Value: ev.Value}}

	case SetUniversity:
		s.Criteria.University = ev.Value
		return s, []Effect{Persist{Key: model.KeyUniversity, Value: ev.Value}}

	case SetFaculty:
		s.Criteria.Faculty = ev.Value
		return s, []Effect{Persist{Key: model.KeyFaculty, Value: ev.Value}}

	case SetAPIKey:
		s.APIKey = ev.Value
		return s, nil

	case Submit:
		return s.submit()

	case Tick:
		if !s.Loading() || ev.Gen != s.generation {
			return s, nil
		}
		s.statusIdx = (s.statusIdx + 1) % len(StatusMessages)
		return s, []Effect{ScheduleTick{Gen: s.generation, After: StatusInterval}}

	case HarvestDone:
		if !s.Loading() || ev.Gen != s.generation {
			return s, nil
		}
		if ev.Err != nil {
			s.Phase = PhaseFailure
			s.Err = model.UserMessage(ev.Err)
			return s, nil
		}
		s.Phase = PhaseSuccess
		s.Colleges = ev.Result.Colleges
		s.Sources = ev.Result.Sources
		return s, nil
	}
	return s, nil
}

func (s State) submit() (State, []Effect) {
	if s.Loading() {
		return s, nil
	}
	if err := s.Criteria.Validate(); err != nil {
		s.Phase = PhaseIdle
		s.Err = model.UserMessage(err)
		return s, nil
	}

	s.generation++
	s.Phase = PhaseLoading
	s.Err = ""
	s.SearchPerformed = true
	s.Colleges = nil
	s.Sources = nil
	s.statusIdx = 0

	return s, []Effect{
		StartHarvest{Gen: s.generation, Criteria: s.Criteria, APIKey: s.ResolvedKey()},
		ScheduleTick{Gen: s.generation, After: StatusInterval},
	}
}

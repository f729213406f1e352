package form

import (
	"time"

	"github.com/amishk599/nepcollege/internal/model"
)

// Event is an input to State.Apply.
type Event interface{ event() }

type (
	SetProvince   struct{ Value string }
	SetUniversity struct{ Value string }
	SetFaculty    struct{ Value string }
	SetAPIKey     struct{ Value string }
	Submit        struct{}

	// Tick advances the loading status message for submission Gen.
	Tick struct{ Gen int }

	// HarvestDone delivers the outcome of submission Gen.
	HarvestDone struct {
		Gen    int
		Result model.HarvestResult
		Err    error
	}
)

func (SetProvince) event()   {}
func (SetUniversity) event() {}
func (SetFaculty) event()    {}
func (SetAPIKey) event()     {}
func (Submit) event()        {}
func (Tick) event()          {}
func (HarvestDone) event()   {}

// Effect is a side effect requested by a transition.
type Effect interface{ effect() }

type (
	// Persist writes one criteria field to durable storage.
	Persist struct {
		Key   string
		Value string
	}

	// StartHarvest runs the harvest and reports back with HarvestDone{Gen}.
	StartHarvest struct {
		Gen      int
		Criteria model.SearchCriteria
		APIKey   string
	}

	// ScheduleTick delivers Tick{Gen} after the delay.
	ScheduleTick struct {
		Gen   int
		After time.Duration
	}
)

func (Persist) effect()      {}
func (StartHarvest) effect() {}
func (ScheduleTick) effect() {}

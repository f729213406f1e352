package form

import (
	"errors"
	"testing"

	"github.com/amishk599/nepcollege/internal/model"
)

// mapStore is an in-memory PreferenceStore.
type mapStore struct {
	values map[string]string
	err    error
}

func (m *mapStore) Get(key string) (string, error) { return m.values[key], m.err }
func (m *mapStore) Set(key, value string) error {
	m.values[key] = value
	return nil
}
func (m *mapStore) Close() error { return nil }

func filled() State {
	return State{Criteria: model.SearchCriteria{Province: "Bagmati", University: "Tribhuvan University"}}
}

func TestSubmit_MissingCriteriaStaysIdle(t *testing.T) {
	cases := []model.SearchCriteria{
		{},
		{Province: "Bagmati"},
		{University: "Kathmandu University"},
	}
	for _, c := range cases {
		s := State{Criteria: c, APIKey: "k"}
		next, effects := s.Apply(Submit{})
		if next.Phase != PhaseIdle {
			t.Errorf("%+v: Phase = %v, want idle", c, next.Phase)
		}
		if next.Err != model.MsgMissingCriteria {
			t.Errorf("%+v: Err = %q", c, next.Err)
		}
		if len(effects) != 0 {
			t.Errorf("%+v: effects = %v, want none (no remote call)", c, effects)
		}
		if next.SearchPerformed {
			t.Errorf("%+v: SearchPerformed set on rejected submit", c)
		}
	}
}

func TestSubmit_StartsHarvestAndTimer(t *testing.T) {
	s := filled()
	s.APIKey = "  user-key "
	s.Err = "old error"

	next, effects := s.Apply(Submit{})
	if next.Phase != PhaseLoading {
		t.Fatalf("Phase = %v, want loading", next.Phase)
	}
	if next.Err != "" {
		t.Errorf("Err = %q, want cleared", next.Err)
	}
	if len(effects) != 2 {
		t.Fatalf("effects = %v", effects)
	}
	start, ok := effects[0].(StartHarvest)
	if !ok {
		t.Fatalf("effects[0] = %T, want StartHarvest", effects[0])
	}
	if start.APIKey != "user-key" || start.Gen != next.Generation() || start.Criteria != s.Criteria {
		t.Errorf("StartHarvest = %+v", start)
	}
	tick, ok := effects[1].(ScheduleTick)
	if !ok || tick.After != StatusInterval || tick.Gen != next.Generation() {
		t.Errorf("effects[1] = %+v", effects[1])
	}
	if next.StatusMessage() != StatusMessages[0] {
		t.Errorf("StatusMessage = %q", next.StatusMessage())
	}
}

func TestSubmit_FallbackKey(t *testing.T) {
	s := filled()
	s.FallbackKey = "env-key"

	_, effects := s.Apply(Submit{})
	if got := effects[0].(StartHarvest).APIKey; got != "env-key" {
		t.Errorf("APIKey = %q, want fallback", got)
	}

	s.APIKey = "user"
	_, effects = s.Apply(Submit{})
	if got := effects[0].(StartHarvest).APIKey; got != "user" {
		t.Errorf("APIKey = %q, want user key to win", got)
	}
}

func TestSubmit_IgnoredWhileLoading(t *testing.T) {
	s, _ := filled().Apply(Submit{})
	next, effects := s.Apply(Submit{})
	if len(effects) != 0 {
		t.Errorf("effects = %v, want none while loading", effects)
	}
	if next.Generation() != s.Generation() {
		t.Error("generation advanced on ignored submit")
	}
}

func TestTick_CyclesOnlyWhileLoading(t *testing.T) {
	s, _ := filled().Apply(Submit{})
	gen := s.Generation()

	for i := 1; i <= len(StatusMessages); i++ {
		var effects []Effect
		s, effects = s.Apply(Tick{Gen: gen})
		if len(effects) != 1 {
			t.Fatalf("tick %d: effects = %v", i, effects)
		}
		want := StatusMessages[i%len(StatusMessages)]
		if s.StatusMessage() != want {
			t.Errorf("tick %d: StatusMessage = %q, want %q", i, s.StatusMessage(), want)
		}
	}

	s, _ = s.Apply(HarvestDone{Gen: gen})
	if _, effects := s.Apply(Tick{Gen: gen}); len(effects) != 0 {
		t.Error("tick after completion must not reschedule")
	}
}

func TestTick_StaleGenerationDropped(t *testing.T) {
	s, _ := filled().Apply(Submit{})
	next, effects := s.Apply(Tick{Gen: s.Generation() - 1})
	if len(effects) != 0 || next.StatusMessage() != StatusMessages[0] {
		t.Error("stale tick should be ignored")
	}
}

func TestHarvestDone_Success(t *testing.T) {
	s, _ := filled().Apply(Submit{})
	result := model.HarvestResult{
		Colleges: []model.College{{Name: "A", Emails: []string{"a@a.np"}}},
		Sources:  []model.Source{{URI: "https://a.np"}},
	}
	next, _ := s.Apply(HarvestDone{Gen: s.Generation(), Result: result})
	if next.Phase != PhaseSuccess {
		t.Fatalf("Phase = %v", next.Phase)
	}
	if len(next.Colleges) != 1 || len(next.Sources) != 1 {
		t.Errorf("results not stored: %+v", next)
	}
	if !next.SearchPerformed {
		t.Error("SearchPerformed = false")
	}
}

func TestHarvestDone_FailureShowsUserMessage(t *testing.T) {
	s, _ := filled().Apply(Submit{})
	err := model.UpstreamFailure(errors.New("API key not valid"))
	next, _ := s.Apply(HarvestDone{Gen: s.Generation(), Err: err})
	if next.Phase != PhaseFailure {
		t.Fatalf("Phase = %v", next.Phase)
	}
	if next.Err != model.MsgInvalidAPIKey {
		t.Errorf("Err = %q", next.Err)
	}

	again, effects := next.Apply(Submit{})
	if again.Phase != PhaseLoading || len(effects) == 0 {
		t.Error("failure state should allow a new submission")
	}
}

func TestHarvestDone_StaleResultIgnored(t *testing.T) {
	s, _ := filled().Apply(Submit{})
	s, _ = s.Apply(HarvestDone{Gen: s.Generation(), Err: errors.New("x")})
	s, _ = s.Apply(Submit{})

	late := model.HarvestResult{Colleges: []model.College{{Name: "Late"}}}
	next, _ := s.Apply(HarvestDone{Gen: s.Generation() - 1, Result: late})
	if next.Phase != PhaseLoading || len(next.Colleges) != 0 {
		t.Errorf("stale result applied: %+v", next)
	}
}

func TestSetters_PersistCriteriaButNotKey(t *testing.T) {
	var s State
	var effects []Effect

	s, effects = s.Apply(SetProvince{Value: "Koshi"})
	if p, ok := effects[0].(Persist); !ok || p.Key != model.KeyProvince || p.Value != "Koshi" {
		t.Errorf("province effect = %+v", effects)
	}
	s, effects = s.Apply(SetUniversity{Value: "Purbanchal University"})
	if p := effects[0].(Persist); p.Key != model.KeyUniversity {
		t.Errorf("university effect = %+v", p)
	}
	s, effects = s.Apply(SetFaculty{Value: ""})
	if p := effects[0].(Persist); p.Key != model.KeyFaculty || p.Value != "" {
		t.Errorf("faculty effect = %+v", p)
	}
	s, effects = s.Apply(SetAPIKey{Value: "secret"})
	if len(effects) != 0 {
		t.Errorf("API key must not be persisted, got %v", effects)
	}
	if s.APIKey != "secret" || s.Criteria.Province != "Koshi" {
		t.Errorf("state = %+v", s)
	}
}

func TestRestore(t *testing.T) {
	store := &mapStore{values: map[string]string{
		model.KeyProvince:   "Lumbini",
		model.KeyUniversity: "Lumbini Buddhist University",
	}}
	s := Restore(store, "fallback")
	if s.Criteria.Province != "Lumbini" || s.Criteria.University != "Lumbini Buddhist University" || s.Criteria.Faculty != "" {
		t.Errorf("Criteria = %+v", s.Criteria)
	}
	if s.APIKey != "" || s.ResolvedKey() != "fallback" {
		t.Errorf("key handling wrong: %+v", s)
	}
	if s.Phase != PhaseIdle {
		t.Errorf("Phase = %v", s.Phase)
	}

	broken := Restore(&mapStore{values: map[string]string{model.KeyProvince: "x"}, err: errors.New("disk")}, "")
	if broken.Criteria.Province != "" {
		t.Error("read errors should leave fields empty")
	}
}

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/nepcollege/internal/catalog"
	"github.com/amishk599/nepcollege/internal/export"
	"github.com/amishk599/nepcollege/internal/model"
)

var testCatalog = catalog.Catalog{
	Provinces:    []string{"Koshi", "Bagmati", "Gandaki"},
	Universities: []string{"Tribhuvan University", "Pokhara University"},
	Faculties:    []string{"Engineering"},
}

func TestBatchCriteria(t *testing.T) {
	byProvince, err := batchCriteria(testCatalog, "bagmati", "", "engineering")
	if err != nil {
		t.Fatalf("batchCriteria: %v", err)
	}
	if len(byProvince) != 2 {
		t.Fatalf("got %d items, want 2", len(byProvince))
	}
	if byProvince[0].Province != "Bagmati" || byProvince[1].University != "Pokhara University" || byProvince[1].Faculty != "Engineering" {
		t.Errorf("items = %+v", byProvince)
	}

	byUniversity, err := batchCriteria(testCatalog, "", "Tribhuvan University", "")
	if err != nil {
		t.Fatalf("batchCriteria: %v", err)
	}
	if len(byUniversity) != 3 || byUniversity[2].Province != "Gandaki" {
		t.Errorf("items = %+v", byUniversity)
	}

	single, _ := batchCriteria(testCatalog, "Koshi", "Pokhara University", "")
	if len(single) != 1 {
		t.Errorf("items = %+v", single)
	}

	if _, err := batchCriteria(testCatalog, "", "", ""); err == nil {
		t.Error("expected error without province or university")
	}
}

type scriptedHarvester struct {
	fail  map[string]bool // by university
	calls int
}

func (h *scriptedHarvester) Harvest(_ context.Context, c model.SearchCriteria, _ string) (model.HarvestResult, error) {
	h.calls++
	if h.fail[c.University] {
		return model.HarvestResult{}, errors.New("boom")
	}
	return model.HarvestResult{Colleges: []model.College{{Name: c.University + " College"}}}, nil
}

type recordingExporter struct {
	names []string
}

func (e *recordingExporter) Export(_ context.Context, c model.SearchCriteria, _ []model.College) (export.Result, error) {
	name := export.FileName(c)
	e.names = append(e.names, name)
	return export.Result{Path: name}, nil
}

func TestRunBatch_ContinuesPastFailures(t *testing.T) {
	items, _ := batchCriteria(testCatalog, "Koshi", "", "")
	h := &scriptedHarvester{fail: map[string]bool{"Tribhuvan University": true}}
	exp := &recordingExporter{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	report := runBatch(context.Background(), h, exp, items, "key", time.Second, logger)

	if h.calls != 2 {
		t.Errorf("calls = %d, want 2", h.calls)
	}
	if report.Succeeded() != 1 || report.Failed() != 1 || report.Colleges() != 1 {
		t.Errorf("report = %+v", report)
	}
	if report.Outcomes[0].Err == nil || report.Outcomes[1].Path == "" {
		t.Errorf("outcomes = %+v", report.Outcomes)
	}
	if len(exp.names) != 1 || exp.names[0] != "nepal-colleges-koshi-pokhara-university.csv" {
		t.Errorf("exports = %v", exp.names)
	}
}

func TestRunBatch_StopsWhenCancelled(t *testing.T) {
	items, _ := batchCriteria(testCatalog, "", "Tribhuvan University", "")
	h := &scriptedHarvester{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := runBatch(ctx, h, &recordingExporter{}, items, "key", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if h.calls != 0 || len(report.Outcomes) != 0 {
		t.Errorf("calls = %d, report = %+v", h.calls, report)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Tribhuvan", 20); got != "Tribhuvan" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Madan Bhandari University", 10); got != "Madan B..." {
		t.Errorf("truncate = %q", got)
	}
}

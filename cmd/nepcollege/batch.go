package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/nepcollege/internal/catalog"
	"github.com/amishk599/nepcollege/internal/export"
	"github.com/amishk599/nepcollege/internal/model"
	"github.com/amishk599/nepcollege/internal/notifier"
	"github.com/amishk599/nepcollege/internal/ratelimit"
)

var (
	batchProvince   string
	batchUniversity string
	batchFaculty    string
	batchAPIKey     string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Harvest many combinations and export one CSV each",
	Long: "With --province, harvests every catalog university in that province. With --university,\n" +
		"harvests that university in every province. Calls are spaced by rate_limit.min_delay and a\n" +
		"failed combination is logged and skipped.",
	RunE: runBatchCmd,
}

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchProvince, "province", "p", "", "harvest every university in this province")
	f.StringVarP(&batchUniversity, "university", "u", "", "harvest this university in every province")
	f.StringVarP(&batchFaculty, "faculty", "f", "", "faculty or stream applied to every combination")
	f.StringVar(&batchAPIKey, "api-key", "", "model API key (default: config api_key or environment)")
	rootCmd.AddCommand(batchCmd)
}

type batchExporter interface {
	Export(ctx context.Context, criteria model.SearchCriteria, colleges []model.College) (export.Result, error)
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, os.Stderr)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	items, err := batchCriteria(buildCatalog(cfg), batchProvince, batchUniversity, batchFaculty)
	if err != nil {
		return err
	}

	client, err := setupHarvester(cfg, logger)
	if err != nil {
		return err
	}
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MinDelay)
	harvester := ratelimit.NewRateLimitedHarvester(client, limiter, cfg.Provider)
	logger.Info("rate limiter configured", "min_delay", cfg.RateLimit.MinDelay.String())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporter, err := setupExporter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	apiKey := batchAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}

	report := runBatch(ctx, harvester, exporter, items, apiKey, cfg.Timeout, logger)

	n := setupNotifier(cfg, logger)
	// The batch context may already be cancelled; the report should still go out.
	nctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := n.Notify(nctx, report); err != nil {
		logger.Error("sending batch report failed", "error", err)
	}

	if report.Succeeded() == 0 && report.Failed() > 0 {
		return errors.New("every combination failed, see the log above")
	}
	return nil
}

// batchCriteria expands the flags into the combinations to harvest.
func batchCriteria(cat catalog.Catalog, province, university, faculty string) ([]model.SearchCriteria, error) {
	province = catalog.Canonical(cat.Provinces, province)
	university = catalog.Canonical(cat.Universities, university)
	faculty = catalog.Canonical(cat.Faculties, faculty)

	var items []model.SearchCriteria
	switch {
	case province != "" && university != "":
		items = append(items, model.SearchCriteria{Province: province, University: university, Faculty: faculty})
	case province != "":
		for _, u := range cat.Universities {
			items = append(items, model.SearchCriteria{Province: province, University: u, Faculty: faculty})
		}
	case university != "":
		for _, p := range cat.Provinces {
			items = append(items, model.SearchCriteria{Province: p, University: university, Faculty: faculty})
		}
	default:
		return nil, fmt.Errorf("batch needs --province or --university")
	}
	return items, nil
}

// runBatch harvests items in order. A failed item is logged and skipped.
// It stops early when ctx is cancelled.
func runBatch(ctx context.Context, h model.Harvester, exp batchExporter, items []model.SearchCriteria, apiKey string, timeout time.Duration, logger *slog.Logger) (report notifier.Report) {
	report.Started = time.Now()
	defer func() { report.Duration = time.Since(report.Started) }()

	for i, c := range items {
		if ctx.Err() != nil {
			logger.Warn("batch interrupted", "remaining", len(items)-i)
			break
		}
		log := logger.With("province", c.Province, "university", c.University, "faculty", c.Faculty)

		hctx, cancel := context.WithTimeout(ctx, timeout)
		res, err := h.Harvest(hctx, c, apiKey)
		cancel()
		if err != nil {
			log.Error("harvest failed", "error", err)
			report.Outcomes = append(report.Outcomes, notifier.Outcome{Criteria: c, Err: err})
			continue
		}

		out, err := exp.Export(ctx, c, res.Colleges)
		if err != nil {
			log.Error("export failed", "error", err)
			report.Outcomes = append(report.Outcomes, notifier.Outcome{Criteria: c, Err: err})
			continue
		}
		log.Info("combination done", "colleges", len(res.Colleges), "path", out.Path)
		report.Outcomes = append(report.Outcomes, notifier.Outcome{Criteria: c, Colleges: len(res.Colleges), Path: out.Path})
	}
	return report
}

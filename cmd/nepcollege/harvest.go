package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/nepcollege/internal/catalog"
	"github.com/amishk599/nepcollege/internal/export"
	"github.com/amishk599/nepcollege/internal/model"
	"github.com/amishk599/nepcollege/internal/tui"
)

// csvAuto is the --csv value used when the flag is given without a path.
const csvAuto = "auto"

var (
	harvestProvince   string
	harvestUniversity string
	harvestFaculty    string
	harvestAPIKey     string
	harvestCSV        string
	harvestJSON       bool
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Run one harvest and print the colleges",
	Long: "One-shot harvest: asks the model once for the given province and university, prints the\n" +
		"colleges as a table (or JSON with --json), and optionally writes a CSV export.\n" +
		"Missing province or university is asked for interactively when attached to a terminal.",
	RunE: runHarvest,
}

func init() {
	f := harvestCmd.Flags()
	f.StringVarP(&harvestProvince, "province", "p", "", "province to search")
	f.StringVarP(&harvestUniversity, "university", "u", "", "affiliating university")
	f.StringVarP(&harvestFaculty, "faculty", "f", "", "faculty or stream (optional)")
	f.StringVar(&harvestAPIKey, "api-key", "", "model API key (default: config api_key or GEMINI_API_KEY/OPENAI_API_KEY)")
	f.StringVar(&harvestCSV, "csv", "", "write a CSV export; without a value the name is derived from the criteria")
	f.Lookup("csv").NoOptDefVal = csvAuto
	f.BoolVar(&harvestJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, os.Stderr)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cat := buildCatalog(cfg)

	criteria, ok, err := resolveCriteria(cat)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := criteria.Validate(); err != nil {
		return errors.New(model.UserMessage(err))
	}
	warnUnlisted(cat, criteria, logger.Warn)

	harvester, err := setupHarvester(cfg, logger)
	if err != nil {
		return err
	}

	apiKey := harvestAPIKey
	if strings.TrimSpace(apiKey) == "" {
		apiKey = cfg.APIKey
	}

	harvestFn := func(ctx context.Context) (model.HarvestResult, error) {
		return harvester.Harvest(ctx, criteria, apiKey)
	}

	var result model.HarvestResult
	if isatty.IsTerminal(os.Stderr.Fd()) && !debug {
		result, err = tui.RunLoader(criteria.University, cfg.Timeout, harvestFn)
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
		defer cancel()
		result, err = harvestFn(ctx)
	}
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			return err
		}
		return errors.New(model.UserMessage(err))
	}

	if harvestJSON {
		if err := writeJSON(os.Stdout, result); err != nil {
			return err
		}
	} else {
		printResult(os.Stdout, result)
	}

	if harvestCSV != "" {
		exporter, err := setupExporter(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		var res export.Result
		if harvestCSV == csvAuto {
			res, err = exporter.Export(cmd.Context(), criteria, result.Colleges)
		} else {
			res, err = exporter.ExportAs(cmd.Context(), harvestCSV, result.Colleges)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "CSV written to %s\n", res.Path)
		if res.RemoteURI != "" {
			fmt.Fprintf(os.Stderr, "CSV uploaded to %s\n", res.RemoteURI)
		}
	}
	return nil
}

// resolveCriteria takes criteria from flags and, on a terminal, prompts for
// a missing province or university. ok is false when the user quit a prompt.
func resolveCriteria(cat catalog.Catalog) (model.SearchCriteria, bool, error) {
	c := model.SearchCriteria{
		Province:   catalog.Canonical(cat.Provinces, harvestProvince),
		University: catalog.Canonical(cat.Universities, harvestUniversity),
		Faculty:    catalog.Canonical(cat.Faculties, harvestFaculty),
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return c, true, nil
	}

	if c.Province == "" {
		v, ok, err := tui.RunPicker("Select a province", cat.Provinces)
		if err != nil || !ok {
			return c, false, err
		}
		c.Province = v
	}
	if c.University == "" {
		v, ok, err := tui.RunPicker("Select a university", cat.Universities)
		if err != nil || !ok {
			return c, false, err
		}
		c.University = v
	}
	return c, true, nil
}

// warnUnlisted reports criteria values that are not in the catalog. They are
// still sent to the model as typed.
func warnUnlisted(cat catalog.Catalog, c model.SearchCriteria, warn func(string, ...any)) {
	if !catalog.Contains(cat.Provinces, c.Province) {
		warn("province is not in the catalog", "province", c.Province)
	}
	if !catalog.Contains(cat.Universities, c.University) {
		warn("university is not in the catalog", "university", c.University)
	}
	if c.Faculty != "" && !catalog.Contains(cat.Faculties, c.Faculty) {
		warn("faculty is not in the catalog", "faculty", c.Faculty)
	}
}

func writeJSON(w io.Writer, result model.HarvestResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printResult(w io.Writer, result model.HarvestResult) {
	if len(result.Colleges) == 0 {
		fmt.Fprintln(w, "No colleges found for these criteria.")
		return
	}

	fmt.Fprintf(w, "%-50s %-32s %s\n", "College", "Email 1", "Email 2")
	fmt.Fprintln(w, strings.Repeat("─", 116))
	for _, c := range result.Colleges {
		e1, e2 := "-", "-"
		if len(c.Emails) > 0 {
			e1 = c.Emails[0]
		}
		if len(c.Emails) > 1 {
			e2 = c.Emails[1]
		}
		fmt.Fprintf(w, "%-50s %-32s %s\n", truncate(c.Name, 50), e1, e2)
	}
	fmt.Fprintf(w, "\nTotal: %d colleges\n", len(result.Colleges))

	if len(result.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, s := range result.Sources {
			if s.Title != "" {
				fmt.Fprintf(w, "  %s  %s\n", s.Title, s.URI)
			} else {
				fmt.Fprintf(w, "  %s\n", s.URI)
			}
		}
	}
}

// truncate shortens s to n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

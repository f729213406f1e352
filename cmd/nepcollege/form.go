package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/nepcollege/internal/tui"
)

func runForm(cmd *cobra.Command, args []string) error {
	// stdout belongs to the TUI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := setupLogger(debug, logOut)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	harvester, err := setupHarvester(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up harvester: %v\n", err)
		os.Exit(1)
	}

	exporter, err := setupExporter(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up exporter: %v\n", err)
		os.Exit(1)
	}

	prefs := setupStore(cfg, logger)
	defer prefs.Close()

	logger.Info("starting interactive form", "provider", cfg.Provider, "model", cfg.Model)
	return tui.RunForm(tui.Options{
		Catalog:     buildCatalog(cfg),
		Harvester:   harvester,
		Store:       prefs,
		Exporter:    exporter,
		FallbackKey: cfg.APIKey,
		Timeout:     cfg.Timeout,
		Logger:      logger,
	})
}

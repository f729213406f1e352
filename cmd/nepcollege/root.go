package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/nepcollege/internal/catalog"
	"github.com/amishk599/nepcollege/internal/config"
	"github.com/amishk599/nepcollege/internal/export"
	"github.com/amishk599/nepcollege/internal/harvest"
	"github.com/amishk599/nepcollege/internal/model"
	"github.com/amishk599/nepcollege/internal/notifier"
	"github.com/amishk599/nepcollege/internal/store"
)

var (
	cfgPath   string
	debug     bool
	noPersist bool
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "nepcollege",
	Short: "Find Nepali colleges and their contact emails",
	Long: "nepcollege asks a web-grounded language model for colleges affiliated with a university in a\n" +
		"Nepali province and lists their contact emails. Run without a subcommand for the interactive form.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
	RunE: runForm,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: NEPCOLLEGE_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noPersist, "no-persist", false, "do not read or save form preferences")
	rootCmd.Flags().StringVar(&logFile, "log-file", "nepcollege.log", "log file for the interactive form (empty discards logs)")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > NEPCOLLEGE_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("NEPCOLLEGE_CONFIG")
	}
	return config.Resolve(path)
}

func setupLogger(dbg bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func newProvider(cfg *config.Config, httpClient *http.Client) (harvest.LLMProvider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return harvest.NewGeminiProvider(cfg.BaseURL, httpClient), nil
	case config.ProviderGeminiREST:
		return harvest.NewGeminiRESTProvider(cfg.BaseURL, httpClient), nil
	case config.ProviderOpenAI:
		return harvest.NewOpenAIProvider(cfg.BaseURL, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func setupHarvester(cfg *config.Config, logger *slog.Logger) (*harvest.Client, error) {
	// No client timeout: each harvest carries its own context deadline.
	provider, err := newProvider(cfg, &http.Client{})
	if err != nil {
		return nil, err
	}
	logger.Debug("harvester configured",
		"provider", provider.Name(),
		"model", cfg.Model,
		"structured_output", cfg.StructuredOutput,
	)
	return harvest.NewClient(provider, harvest.Options{
		Model:            cfg.Model,
		Temperature:      cfg.Temperature,
		StructuredOutput: cfg.StructuredOutput,
	}, logger), nil
}

func setupStore(cfg *config.Config, logger *slog.Logger) model.PreferenceStore {
	if noPersist {
		return store.NewNopStore()
	}
	s, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Warn("preferences unavailable, continuing without them", "path", cfg.StorePath, "error", err)
		return store.NewNopStore()
	}
	return s
}

func setupExporter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*export.Exporter, error) {
	var uploader export.Uploader
	if cfg.Export.S3.Enabled() {
		s3 := cfg.Export.S3
		u, err := export.NewS3Uploader(ctx, export.S3Options{
			Bucket:    s3.Bucket,
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			Prefix:    s3.Prefix,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		uploader = u
		logger.Debug("export uploads enabled", "bucket", s3.Bucket, "prefix", s3.Prefix)
	}
	return export.NewExporter(cfg.Export.Dir, uploader, logger), nil
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) notifier.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, &http.Client{Timeout: 30 * time.Second}, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func buildCatalog(cfg *config.Config) catalog.Catalog {
	return catalog.Default().WithOverrides(catalog.Catalog{
		Provinces:    cfg.Catalog.Provinces,
		Universities: cfg.Catalog.Universities,
		Faculties:    cfg.Catalog.Faculties,
	})
}

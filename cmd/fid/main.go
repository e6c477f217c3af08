package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/fidata/internal/config"
	"github.com/alfredjeanlab/fidata/internal/events"
	"github.com/alfredjeanlab/fidata/internal/metrics"
	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/snapshot"
	"github.com/alfredjeanlab/fidata/internal/store"
	"github.com/alfredjeanlab/fidata/internal/ui"
)

// app holds the flag values and the per-run components every subcommand
// shares.
type app struct {
	configPath    string
	dataPath      string
	referencePath string
	jsonOutput    bool
	yamlOutput    bool
	verbose       bool
	strict        bool

	// Set by add: the enriched output path, and whether an existing output
	// file replaces the raw data as the load source.
	outputPath string
	appending  bool

	cfg       *config.Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
	store     *store.Store
	report    model.Report
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "fid",
		Short:         "Financial inclusion unified dataset toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", os.Getenv("FID_CONFIG"), "TOML config file")
	pf.StringVar(&a.dataPath, "data", "", "unified data CSV (overrides config)")
	pf.StringVar(&a.referencePath, "reference", "", "reference codes CSV (overrides config)")
	pf.BoolVar(&a.jsonOutput, "json", false, "output as JSON")
	pf.BoolVar(&a.yamlOutput, "yaml", false, "output as YAML")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.strict, "strict", false, "reject invalid records and fail on findings")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddGroup(
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "data", Title: "Data:"},
	)
	rootCmd.AddCommand(
		newValidateCmd(a),
		newStatsCmd(a),
		newCoverageCmd(a),
		newTimelineCmd(a),
		newObservationsCmd(a),
		newTrendCmd(a),
		newImpactsCmd(a),
		newAddCmd(a),
		newSaveCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
	)
	rootCmd.SetHelpFunc(colorizedHelpFunc())
	return rootCmd
}

// setup resolves configuration, builds the logger, metrics, publisher and
// store, and loads the input files.
func (a *app) setup(ctx context.Context, stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.DataPath = a.dataPath
	}
	if a.referencePath != "" {
		cfg.ReferencePath = a.referencePath
	}
	if a.outputPath != "" {
		cfg.OutputPath = a.outputPath
	}
	if a.strict {
		cfg.Strict = true
	}
	a.strict = cfg.Strict
	a.cfg = cfg

	level, _ := cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	a.metrics = metrics.New()

	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return err
		}
		a.publisher = pub
		a.logger.Debug("events enabled", "nats_url", cfg.NATSURL)
	} else {
		a.publisher = &events.NoopPublisher{}
	}

	opts := []store.Option{
		store.WithLogger(a.logger),
		store.WithPublisher(a.publisher),
		store.WithMetrics(a.metrics),
	}
	if cfg.Strict {
		opts = append(opts, store.WithStrict())
	}
	a.store = store.New(opts...)
	if a.appending {
		if _, err := os.Stat(cfg.OutputPath); err == nil {
			a.logger.Debug("appending to enriched dataset", "path", cfg.OutputPath)
			cfg.DataPath = cfg.OutputPath
		}
	}
	a.report = snapshot.NewLoader(cfg.DataPath, cfg.ReferencePath, a.logger).Load(ctx, a.store)
	return nil
}

func (a *app) teardown() error {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close publisher", "error", err)
		}
	}
	if a.cfg != nil && a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderWarning("Error:"), err)
		os.Exit(1)
	}
}

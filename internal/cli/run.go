package cli

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

	"github.com/roach88/bitfuzz/internal/config"
	"github.com/roach88/bitfuzz/internal/fuzz"
	"github.com/roach88/bitfuzz/internal/generate"
	"github.com/roach88/bitfuzz/internal/report"
	"github.com/roach88/bitfuzz/internal/store"
	"github.com/roach88/bitfuzz/internal/suite"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath   string
	Trials       int
	Workers      int
	ArtifactsDir string
	Database     string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [check...]",
		Short: "Run the invariant catalogue against random bitmaps",
		Long: `Run catalogue checks against randomly generated bitmaps.

With no arguments every check runs; otherwise only the named checks run
(see "bitfuzz checks" for the catalogue). Failing trials are logged and,
when configured, persisted to an artifact directory and/or SQLite store.

Example:
  bitfuzz run
  bitfuzz run --trials 200 rankSelect xorCardinality
  bitfuzz run --db ./artifacts.db --artifacts ./artifacts`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML run configuration")
	cmd.Flags().IntVar(&opts.Trials, "trials", 0, "default trial count per check (overrides config)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "worker pool size (0: one per CPU)")
	cmd.Flags().StringVar(&opts.ArtifactsDir, "artifacts", "", "directory for failure artifact files")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite artifact store")

	return cmd
}

func runChecks(opts *RunOptions, names []string, cmd *cobra.Command) error {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	// Flags win over config.
	if opts.Trials > 0 {
		cfg.Trials = opts.Trials
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.ArtifactsDir != "" {
		cfg.Artifacts.Dir = opts.ArtifactsDir
	}
	if opts.Database != "" {
		cfg.Artifacts.Database = opts.Database
	}
	if len(names) == 0 {
		names = cfg.Checks
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	checks, err := suite.Lookup(names)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown check", err)
	}

	reporter, cleanup, err := buildReporter(cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up artifact sinks", err)
	}
	defer cleanup()

	harness := fuzz.New(generate.New().Provider(),
		fuzz.WithReporter(reporter),
		fuzz.WithLogger(logger),
		fuzz.WithWorkers(cfg.Workers),
		fuzz.WithTrials(cfg.Trials),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := 0
	for _, check := range checks {
		start := time.Now()
		err := check.Run(ctx, harness)
		switch {
		case err == nil:
			logger.Info("check passed", "check", check.Name, "duration", time.Since(start))
		case errors.Is(err, context.Canceled):
			logger.Warn("run interrupted", "check", check.Name)
			return NewExitError(ExitFailure, "interrupted")
		default:
			failed++
			logger.Error("check failed", "check", check.Name, "error", err)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d checks failed", failed, len(checks)))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "all %d checks passed\n", len(checks))
	return nil
}

// buildReporter assembles the configured failure sinks. Failures always go
// to the log; the directory and store sinks are added when configured.
func buildReporter(cfg config.Config, logger *slog.Logger) (report.Reporter, func(), error) {
	sinks := []report.Reporter{report.NewLogReporter(logger)}
	cleanup := func() {}

	if cfg.Artifacts.Dir != "" {
		dir, err := report.NewDirReporter(cfg.Artifacts.Dir)
		if err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, dir)
	}

	if cfg.Artifacts.Database != "" {
		st, err := store.Open(cfg.Artifacts.Database)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() {
			if err := st.Close(); err != nil {
				logger.Error("error closing artifact store", "error", err)
			}
		}
		sinks = append(sinks, st.Reporter())
	}

	if len(sinks) == 1 {
		return sinks[0], cleanup, nil
	}
	return report.NewMultiReporter(sinks...), cleanup, nil
}

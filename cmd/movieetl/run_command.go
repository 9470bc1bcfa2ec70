package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"movieetl/internal/catalog"
	"movieetl/internal/config"
	"movieetl/internal/enrichment"
	"movieetl/internal/logging"
	"movieetl/internal/pipeline"
	"movieetl/internal/services"
	"movieetl/internal/source"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var moviesPath string
	var ratingsPath string
	var dbPath string
	var noEnrichment bool

	ctx.addOverride(func(cfg *config.Config) {
		if v := strings.TrimSpace(moviesPath); v != "" {
			cfg.Paths.MoviesCSV = v
		}
		if v := strings.TrimSpace(ratingsPath); v != "" {
			cfg.Paths.RatingsCSV = v
		}
		if v := strings.TrimSpace(dbPath); v != "" {
			cfg.Paths.Database = v
		}
		if noEnrichment {
			cfg.OMDb.Enabled = false
		}
	})

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load movies then ratings into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runPipeline(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&moviesPath, "movies", "", "Movies CSV (overrides paths.movies_csv)")
	cmd.Flags().StringVar(&ratingsPath, "ratings", "", "Ratings CSV (overrides paths.ratings_csv)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (overrides paths.database)")
	cmd.Flags().BoolVar(&noEnrichment, "no-enrichment", false, "Skip OMDb lookups")
	return cmd
}

func runPipeline(cmd *cobra.Command, cfg *config.Config) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	started := time.Now()
	runID := uuid.NewString()
	logPath := logging.RunLogPath(cfg.Paths.LogDir, started)
	runLog, err := logging.OpenRunLog(logPath)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer runLog.Close()
	logger, err := logging.NewFromConfig(cfg, runID, runLog)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warn: unable to update movieetl.log link: %v\n", err)
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)

	logger.Info("movieetl run starting",
		logging.String(logging.FieldEventType, "run_started"),
		logging.String("movies_csv", cfg.Paths.MoviesCSV),
		logging.String("ratings_csv", cfg.Paths.RatingsCSV),
		logging.String("database", cfg.Paths.Database),
		logging.Bool("enrichment", cfg.EnrichmentEnabled()),
		logging.String("log_file", logPath),
	)

	store, err := catalog.Open(signalCtx, cfg.Paths.Database)
	if err != nil {
		logFatal(logger, "open catalog store", err)
		return err
	}
	defer store.Close()

	enricher, err := enrichment.NewFromConfig(cfg, logger)
	if err != nil {
		logFatal(logger, "init enrichment", err)
		return err
	}

	movies, err := source.OpenMovies(cfg.Paths.MoviesCSV)
	if err != nil {
		logFatal(logger, "open movies", err)
		return err
	}
	defer movies.Close()
	ratings, err := source.OpenRatings(cfg.Paths.RatingsCSV)
	if err != nil {
		logFatal(logger, "open ratings", err)
		return err
	}
	defer ratings.Close()
	if !ratings.HasTimestamps() {
		logger.Info("ratings file has no timestamp column; rated_at left empty",
			logging.String(logging.FieldEventType, "ratings_without_timestamps"),
		)
	}

	p := pipeline.New(store, enricher, logger, pipeline.Options{RunID: runID})
	summary, runErr := p.Run(signalCtx, movies.Rows(), ratings.Rows())

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderSummary(summary, shouldColorize(out)))

	if runErr != nil {
		if signalCtx.Err() != nil {
			logger.Warn("run interrupted; summary is partial",
				logging.String(logging.FieldEventType, "run_interrupted"),
				logging.String(logging.FieldErrorHint, "rerun to finish; upserts make the rerun safe"),
				logging.String(logging.FieldImpact, "remaining rows not loaded"),
			)
			return context.Canceled
		}
		return runErr
	}
	logger.Info("movieetl run completed",
		logging.String(logging.FieldEventType, "run_completed"),
		logging.Duration("duration", summary.Duration),
	)
	return nil
}

func logFatal(logger *slog.Logger, operation string, err error) {
	logger.Error(operation+" failed",
		logging.String(logging.FieldEventType, "run_failed"),
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.Error(err),
	)
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "movieetl.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

package pipeline

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"movieetl/internal/catalog"
	"movieetl/internal/enrichment"
	"movieetl/internal/identity"
	"movieetl/internal/logging"
	"movieetl/internal/services"
	"movieetl/internal/source"
)

const (
	PhaseMovies  = "movies"
	PhaseRatings = "ratings"
)

// Store is the catalog surface the pipeline writes through.
type Store interface {
	WithTx(ctx context.Context, fn func(tx catalog.Executor) error) error
	UpsertMovie(ctx context.Context, exec catalog.Executor, m catalog.Movie) error
	EnsureGenres(ctx context.Context, exec catalog.Executor, names []string) (map[string]int64, error)
	LinkMovieGenres(ctx context.Context, exec catalog.Executor, movieID int64, genreIDs []int64) error
	UpsertUser(ctx context.Context, exec catalog.Executor, userID int64) error
	UpsertRating(ctx context.Context, exec catalog.Executor, r catalog.Rating) error
}

// Enricher fetches best-effort movie metadata.
type Enricher interface {
	Fetch(ctx context.Context, title string, year int, hasYear bool) enrichment.Result
}

var _ Store = (*catalog.Store)(nil)
var _ Enricher = (*enrichment.Enricher)(nil)

// Options tunes a run.
type Options struct {
	RunID string
	// ProgressInterval is the row count between progress lines.
	ProgressInterval int
}

// Pipeline loads one run's worth of rows. It is not safe for concurrent use
// and must not be reused across runs.
type Pipeline struct {
	store    Store
	enricher Enricher
	logger   *slog.Logger
	opts     Options
	resolver *identity.Resolver
	progress *logging.ProgressSampler
}

// New builds a pipeline. A nil enricher disables enrichment.
func New(store Store, enricher Enricher, logger *slog.Logger, opts Options) *Pipeline {
	if enricher == nil {
		enricher = enrichment.Disabled()
	}
	return &Pipeline{
		store:    store,
		enricher: enricher,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		opts:     opts,
		resolver: identity.NewResolver(),
		progress: logging.NewProgressSampler(opts.ProgressInterval),
	}
}

// Resolver exposes the identity state built by Run.
func (p *Pipeline) Resolver() *identity.Resolver {
	return p.resolver
}

// Run loads all movies, then all ratings. The returned error is non-nil only
// for fatal source errors and cancellation; the summary is valid either way.
func (p *Pipeline) Run(ctx context.Context, movies iter.Seq2[source.MovieRow, error], ratings iter.Seq2[source.RatingRow, error]) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: p.opts.RunID, StartedAt: started.UTC()}

	if p.opts.RunID != "" {
		ctx = services.WithRunID(ctx, p.opts.RunID)
	}

	if err := p.loadMovies(services.WithPhase(ctx, PhaseMovies), movies, &summary); err != nil {
		summary.Duration = time.Since(started)
		return summary, err
	}
	if err := p.loadRatings(services.WithPhase(ctx, PhaseRatings), ratings, &summary); err != nil {
		summary.Duration = time.Since(started)
		return summary, err
	}
	summary.Duration = time.Since(started)

	for _, line := range summary.Lines() {
		p.logger.Info(line, logging.String(logging.FieldEventType, "run_summary"))
	}
	if !summary.Balanced() {
		logging.ErrorWithContext(p.logger, "run summary does not balance", "summary_unbalanced",
			logging.Alert("accounting"),
			logging.String(logging.FieldErrorHint, "report this run log; a row outcome was not counted"),
		)
	}
	return summary, nil
}

func (p *Pipeline) logProgress(ctx context.Context, phase string, count int) {
	if !p.progress.ShouldLog(phase, count) {
		return
	}
	logging.WithContext(ctx, p.logger).Info("progress",
		logging.String(logging.FieldEventType, "progress"),
		logging.Int("rows", count),
	)
}

func (p *Pipeline) fatal(ctx context.Context, err error, phase string) error {
	logging.ErrorWithContext(logging.WithContext(ctx, p.logger), "row source failed; run aborted", "source_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.String(logging.FieldErrorHint, "check the "+phase+" file exists and is valid CSV"),
	)
	return err
}

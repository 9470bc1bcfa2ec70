package enrichment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"movieetl/internal/config"
	"movieetl/internal/logging"
	"movieetl/internal/normalize"
	"movieetl/internal/omdb"
	"movieetl/internal/services"
)

// Status classifies a fetch outcome.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusNotFound    Status = "not_found"
	StatusDisabled    Status = "disabled"
)

// Data carries normalized enrichment fields. Nil means absent.
type Data struct {
	IMDbID         *string
	Director       *string
	Plot           *string
	BoxOffice      *int64
	RuntimeMinutes *int
}

// Result is the outcome of a single Fetch.
type Result struct {
	Status   Status
	Data     Data
	Attempts int
	Err      error
}

// Options tunes request behaviour.
type Options struct {
	// Timeout bounds each attempt, not the whole fetch.
	Timeout           time.Duration
	MaxRetries        int
	Backoff           time.Duration
	RequestsPerSecond float64
}

// Enricher fetches movie metadata. A nil Enricher or one without a looker is
// disabled.
type Enricher struct {
	looker  omdb.Looker
	logger  *slog.Logger
	opts    Options
	limiter *rate.Limiter
}

// New builds an enricher around looker. Passing a nil looker yields a
// disabled enricher.
func New(looker omdb.Looker, logger *slog.Logger, opts Options) *Enricher {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		// go-retry rejects a non-positive constant interval.
		opts.Backoff = time.Millisecond
	}
	e := &Enricher{
		looker: looker,
		logger: logging.NewComponentLogger(logger, "enrichment"),
		opts:   opts,
	}
	if opts.RequestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return e
}

// Disabled returns an enricher that never performs network calls.
func Disabled() *Enricher {
	return New(nil, nil, Options{})
}

// NewFromConfig wires an OMDb client from configuration. When enrichment is
// switched off or no key is configured the enricher is disabled.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, clientOpts ...omdb.Option) (*Enricher, error) {
	if cfg == nil || !cfg.EnrichmentEnabled() {
		return New(nil, logger, Options{}), nil
	}
	opts := append([]omdb.Option{omdb.WithTimeout(cfg.RequestTimeout())}, clientOpts...)
	client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "init", "build omdb client", err)
	}
	return New(client, logger, Options{
		Timeout:           cfg.RequestTimeout(),
		MaxRetries:        cfg.OMDb.MaxRetries,
		Backoff:           cfg.Backoff(),
		RequestsPerSecond: cfg.OMDb.RequestsPerSecond,
	}), nil
}

// Enabled reports whether Fetch may perform network calls.
func (e *Enricher) Enabled() bool {
	return e != nil && e.looker != nil
}

// Fetch looks up title (with its year when known). The query strips trailing
// parenthetical suffixes. Failures degrade to an empty Result and are logged.
func (e *Enricher) Fetch(ctx context.Context, title string, year int, hasYear bool) Result {
	if !e.Enabled() {
		return Result{Status: StatusDisabled}
	}
	query := normalize.QueryTitle(title)
	queryYear := 0
	if hasYear {
		queryYear = year
	}

	var (
		movie    *omdb.Movie
		attempts int
	)
	backoff := retry.WithMaxRetries(uint64(e.opts.MaxRetries), retry.NewConstant(e.opts.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		attempts++
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return services.Wrap(services.ErrEnrichmentUnavailable, "enrichment", "rate limit", "", err)
			}
		}
		attemptCtx := ctx
		if e.opts.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
			defer cancel()
		}
		found, err := e.looker.Lookup(attemptCtx, query, queryYear)
		if err != nil {
			if errors.Is(err, services.ErrEnrichmentUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		movie = found
		return nil
	})

	attrs := []logging.Attr{
		logging.String(logging.FieldTitle, title),
		logging.String("query", query),
		logging.Int("attempts", attempts),
	}
	if hasYear {
		attrs = append(attrs, logging.Int(logging.FieldYear, year))
	}
	logger := logging.WithContext(ctx, e.logger)

	switch {
	case err == nil:
		logger.Debug("enrichment fetched", logging.Args(attrs...)...)
		return Result{Status: StatusOK, Data: fromMovie(movie), Attempts: attempts}
	case errors.Is(err, services.ErrNotFound):
		logging.WarnWithContext(logger, "enrichment not found; loading without metadata", "enrichment_not_found",
			append(attrs,
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.KindNotFound),
				logging.String(logging.FieldErrorHint, "check the title spelling or year in the movies file"),
				logging.String(logging.FieldImpact, "movie stored without enrichment fields"),
			)...)
		return Result{Status: StatusNotFound, Attempts: attempts, Err: err}
	case errors.Is(err, services.ErrEnrichmentUnavailable), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logging.WarnWithContext(logger, "enrichment unavailable; loading without metadata", "enrichment_unavailable",
			append(attrs,
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.KindEnrichmentUnavailable),
				logging.String(logging.FieldErrorHint, "check network access, omdb.base_url and the api key quota"),
				logging.String(logging.FieldImpact, "movie stored without enrichment fields"),
			)...)
		return Result{Status: StatusUnavailable, Attempts: attempts, Err: err}
	default:
		logging.ErrorWithContext(logger, "enrichment failed unexpectedly; loading without metadata", "enrichment_failed",
			append(attrs,
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldImpact, "movie stored without enrichment fields"),
			)...)
		return Result{Status: StatusUnavailable, Attempts: attempts, Err: err}
	}
}

func fromMovie(m *omdb.Movie) Data {
	var data Data
	if m == nil {
		return data
	}
	if v, ok := normalize.NAToAbsent(m.IMDbID); ok {
		data.IMDbID = &v
	}
	if v, ok := normalize.NAToAbsent(m.Director); ok {
		data.Director = &v
	}
	if v, ok := normalize.NAToAbsent(m.Plot); ok {
		data.Plot = &v
	}
	if v, ok := normalize.CleanBoxOffice(m.BoxOffice); ok {
		data.BoxOffice = &v
	}
	if v, ok := normalize.CleanRuntime(m.Runtime); ok {
		data.RuntimeMinutes = &v
	}
	return data
}

package pipeline

import (
	"context"
	"iter"

	"movieetl/internal/catalog"
	"movieetl/internal/enrichment"
	"movieetl/internal/identity"
	"movieetl/internal/logging"
	"movieetl/internal/normalize"
	"movieetl/internal/services"
	"movieetl/internal/source"
)

func (p *Pipeline) loadMovies(ctx context.Context, rows iter.Seq2[source.MovieRow, error], summary *Summary) error {
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("movie phase started", logging.String(logging.FieldEventType, "phase_started"))

	for row, err := range rows {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if !source.IsRowError(err) {
				return p.fatal(ctx, err, PhaseMovies)
			}
			summary.Movies.Processed++
			summary.Movies.Errors++
			logging.WarnWithContext(logger, "malformed movie row skipped", "movie_row_invalid",
				logging.Error(err),
				logging.Int("line", row.Line),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldErrorHint, "fix the row in the movies file"),
				logging.String(logging.FieldImpact, "movie not loaded; its ratings will be rejected"),
			)
			continue
		}
		p.loadMovie(services.WithMovieID(ctx, row.SourceID), row, summary)
		p.logProgress(ctx, PhaseMovies, summary.Movies.Processed)
	}

	logger.Info("movie phase completed",
		logging.String(logging.FieldEventType, "phase_completed"),
		logging.Int("processed", summary.Movies.Processed),
		logging.Int("ok", summary.Movies.OK),
		logging.Int("errors", summary.Movies.Errors),
		logging.Int("duplicates", summary.Movies.Duplicates),
	)
	return nil
}

func (p *Pipeline) loadMovie(ctx context.Context, row source.MovieRow, summary *Summary) {
	logger := logging.WithContext(ctx, p.logger).With(logging.String(logging.FieldTitle, row.Title))
	summary.Movies.Processed++

	decision := p.resolver.Resolve(row.SourceID, row.Title)
	switch decision.Kind {
	case identity.Duplicate:
		summary.Movies.Duplicates++
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "movie_duplicate"),
			logging.Int64("canonical", decision.CanonicalID),
			logging.Bool("remapped", decision.Remapped),
		}
		if decision.Key.HasYear {
			attrs = append(attrs, logging.Int(logging.FieldYear, decision.Key.Year))
		}
		logger.Info("duplicate title and year skipped", logging.Args(attrs...)...)
		return
	case identity.Conflict:
		summary.Movies.Errors++
		logging.ErrorWithContext(logger, "movie id already used by another title; row skipped", "movie_id_conflict",
			logging.String("canonical_title", decision.Key.Title),
			logging.String(logging.FieldErrorKind, services.KindIdentityConflict),
			logging.String(logging.FieldErrorHint, "source movie ids must be unique per title"),
		)
		return
	}

	result := p.enricher.Fetch(ctx, row.Title, decision.Key.Year, decision.Key.HasYear)
	summary.Enrichment.record(result.Status)

	movie := buildMovie(row, decision.Key, result.Data)
	err := p.store.WithTx(ctx, func(tx catalog.Executor) error {
		return p.store.UpsertMovie(ctx, tx, movie)
	})
	if err != nil {
		summary.Movies.Errors++
		logging.ErrorWithContext(logger, "movie upsert failed; row skipped", "movie_skipped",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check database permissions and disk space"),
		)
		return
	}
	p.resolver.Claim(decision.Key, row.SourceID)
	summary.Movies.OK++
	logger.Debug("movie loaded",
		logging.String(logging.FieldEventType, "movie_loaded"),
		logging.String("enrichment", string(result.Status)),
	)

	p.linkGenres(ctx, row, summary)
}

// linkGenres runs in its own unit so a failure never rolls back the movie.
func (p *Pipeline) linkGenres(ctx context.Context, row source.MovieRow, summary *Summary) {
	names := normalize.ParseGenres(row.Genres)
	if len(names) == 0 {
		return
	}
	linked := 0
	err := p.store.WithTx(ctx, func(tx catalog.Executor) error {
		ids, err := p.store.EnsureGenres(ctx, tx, names)
		if err != nil {
			return err
		}
		genreIDs := make([]int64, 0, len(names))
		seen := make(map[int64]struct{}, len(names))
		for _, name := range names {
			id, ok := ids[name]
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			genreIDs = append(genreIDs, id)
		}
		if err := p.store.LinkMovieGenres(ctx, tx, row.SourceID, genreIDs); err != nil {
			return err
		}
		linked = len(genreIDs)
		return nil
	})
	if err != nil {
		summary.GenreLinks.Errors++
		logging.ErrorWithContext(logging.WithContext(ctx, p.logger), "genre linking failed; movie kept without genres", "genres_skipped",
			logging.String(logging.FieldTitle, row.Title),
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check database permissions and disk space"),
		)
		return
	}
	summary.GenreLinks.OK += linked
}

func buildMovie(row source.MovieRow, key identity.Key, data enrichment.Data) catalog.Movie {
	movie := catalog.Movie{
		ID:             row.SourceID,
		Title:          row.Title,
		IMDbID:         data.IMDbID,
		Director:       data.Director,
		Plot:           data.Plot,
		BoxOffice:      data.BoxOffice,
		RuntimeMinutes: data.RuntimeMinutes,
	}
	if key.HasYear {
		year := key.Year
		movie.ReleaseYear = &year
	}
	if decade, ok := normalize.Decade(key.Year, key.HasYear); ok {
		movie.Decade = &decade
	}
	return movie
}

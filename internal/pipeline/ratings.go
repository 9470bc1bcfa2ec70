package pipeline

import (
	"context"
	"errors"
	"iter"
	"math"

	"movieetl/internal/catalog"
	"movieetl/internal/logging"
	"movieetl/internal/normalize"
	"movieetl/internal/services"
	"movieetl/internal/source"
)

func (p *Pipeline) loadRatings(ctx context.Context, rows iter.Seq2[source.RatingRow, error], summary *Summary) error {
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("rating phase started",
		logging.String(logging.FieldEventType, "phase_started"),
		logging.Int("canonical_movies", len(p.resolver.CanonicalIDs())),
		logging.Int("duplicate_ids", len(p.resolver.DuplicateMap())),
	)

	for row, err := range rows {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if !source.IsRowError(err) {
				return p.fatal(ctx, err, PhaseRatings)
			}
			summary.Ratings.Processed++
			summary.Ratings.Errors++
			logging.WarnWithContext(logger, "malformed rating row skipped", "rating_row_invalid",
				logging.Error(err),
				logging.Int("line", row.Line),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldErrorHint, "fix the row in the ratings file"),
				logging.String(logging.FieldImpact, "rating not loaded"),
			)
			continue
		}
		p.loadRating(ctx, row, summary)
		p.logProgress(ctx, PhaseRatings, summary.Ratings.Processed)
	}

	logger.Info("rating phase completed",
		logging.String(logging.FieldEventType, "phase_completed"),
		logging.Int("processed", summary.Ratings.Processed),
		logging.Int("ok", summary.Ratings.OK),
		logging.Int("errors", summary.Ratings.Errors),
	)
	return nil
}

func (p *Pipeline) loadRating(ctx context.Context, row source.RatingRow, summary *Summary) {
	logger := logging.WithContext(ctx, p.logger).With(
		logging.UserID(row.UserID),
		logging.MovieID(row.MovieID),
	)
	summary.Ratings.Processed++

	movieID, err := p.resolver.RemapRating(row.MovieID)
	if err != nil {
		summary.Ratings.Errors++
		logging.WarnWithContext(logger, "rating references a movie that was not loaded; skipped", "rating_missing_movie",
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check the movie exists in the movies file and loaded without error"),
			logging.String(logging.FieldImpact, "rating not loaded"),
		)
		return
	}
	if err := validateRating(row); err != nil {
		summary.Ratings.Errors++
		logging.WarnWithContext(logger, "rating value rejected; skipped", "rating_row_invalid",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "fix the rating value in the ratings file"),
			logging.String(logging.FieldImpact, "rating not loaded"),
		)
		return
	}

	rating := catalog.Rating{UserID: row.UserID, MovieID: movieID, Value: row.Value}
	if ratedAt, ok := normalize.RatedAt(row.Timestamp, row.HasTimestamp); ok {
		rating.RatedAt = &ratedAt
	}

	userFailed := false
	err = p.store.WithTx(ctx, func(tx catalog.Executor) error {
		if err := p.store.UpsertUser(ctx, tx, row.UserID); err != nil {
			userFailed = true
			return err
		}
		return p.store.UpsertRating(ctx, tx, rating)
	})
	if err != nil {
		summary.Ratings.Errors++
		if userFailed {
			summary.Users.Errors++
		}
		logging.ErrorWithContext(logger, "rating upsert failed; row skipped", "rating_skipped",
			logging.Int64("canonical", movieID),
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check database permissions and disk space"),
		)
		return
	}
	summary.Ratings.OK++
	summary.Users.OK++
	if movieID != row.MovieID {
		summary.Ratings.Remapped++
		logger.Debug("rating remapped to canonical movie",
			logging.String(logging.FieldEventType, "rating_remapped"),
			logging.Int64("canonical", movieID),
		)
	}
}

func validateRating(row source.RatingRow) error {
	if math.IsNaN(row.Value) || math.IsInf(row.Value, 0) {
		return services.Wrap(services.ErrInvalidRow, "pipeline", "validate rating", "", errors.New("rating must be a finite number"))
	}
	return nil
}

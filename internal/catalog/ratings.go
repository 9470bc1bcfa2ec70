package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"movieetl/internal/services"
)

// UpsertUser inserts userID if it is not already present.
func (s *Store) UpsertUser(ctx context.Context, exec Executor, userID int64) error {
	if _, err := s.exec(exec).ExecContext(ctx,
		`INSERT INTO users (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`, userID); err != nil {
		return services.Wrap(services.ErrStoreWrite, "catalog", "upsert user", fmt.Sprintf("user_id=%d", userID), err)
	}
	return nil
}

// UpsertRating inserts r or updates the value and timestamp of an existing
// (user_id, movie_id) rating.
func (s *Store) UpsertRating(ctx context.Context, exec Executor, r Rating) error {
	if _, err := s.exec(exec).ExecContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, rated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(user_id, movie_id) DO UPDATE SET
            rating = excluded.rating,
            rated_at = excluded.rated_at`,
		r.UserID, r.MovieID, r.Value, nullableString(r.RatedAt)); err != nil {
		return services.Wrap(services.ErrStoreWrite, "catalog", "upsert rating",
			fmt.Sprintf("user_id=%d movie_id=%d", r.UserID, r.MovieID), err)
	}
	return nil
}

// Ratings lists every stored rating ordered by user then movie.
func (s *Store) Ratings(ctx context.Context) ([]Rating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, movie_id, rating, rated_at FROM ratings ORDER BY user_id, movie_id`)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()
	var ratings []Rating
	for rows.Next() {
		var (
			r       Rating
			ratedAt sql.NullString
		)
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value, &ratedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		r.RatedAt = stringPtr(ratedAt)
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// CountMovies returns the number of stored movies.
func (s *Store) CountMovies(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// Counts returns the row count of every catalog table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `SELECT
            (SELECT COUNT(1) FROM movies),
            (SELECT COUNT(1) FROM genres),
            (SELECT COUNT(1) FROM movie_genres),
            (SELECT COUNT(1) FROM users),
            (SELECT COUNT(1) FROM ratings)`,
	).Scan(&c.Movies, &c.Genres, &c.MovieGenres, &c.Users, &c.Ratings)
	if err != nil {
		return Counts{}, fmt.Errorf("count tables: %w", err)
	}
	return c, nil
}

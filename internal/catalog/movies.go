package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"movieetl/internal/services"
)

const movieColumns = "movie_id, title, release_year, decade, omdb_imdb_id, omdb_director, omdb_plot, omdb_box_office, omdb_runtime_minutes"

// UpsertMovie inserts m or updates every column of an existing row with the
// same movie_id.
func (s *Store) UpsertMovie(ctx context.Context, exec Executor, m Movie) error {
	_, err := s.exec(exec).ExecContext(ctx,
		`INSERT INTO movies (`+movieColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(movie_id) DO UPDATE SET
            title = excluded.title,
            release_year = excluded.release_year,
            decade = excluded.decade,
            omdb_imdb_id = excluded.omdb_imdb_id,
            omdb_director = excluded.omdb_director,
            omdb_plot = excluded.omdb_plot,
            omdb_box_office = excluded.omdb_box_office,
            omdb_runtime_minutes = excluded.omdb_runtime_minutes`,
		m.ID,
		m.Title,
		nullableInt(m.ReleaseYear),
		nullableString(m.Decade),
		nullableString(m.IMDbID),
		nullableString(m.Director),
		nullableString(m.Plot),
		nullableInt64(m.BoxOffice),
		nullableInt(m.RuntimeMinutes),
	)
	if err != nil {
		return services.Wrap(services.ErrStoreWrite, "catalog", "upsert movie", fmt.Sprintf("movie_id=%d", m.ID), err)
	}
	return nil
}

// EnsureGenres inserts any missing names and returns the ids of every
// requested name that exists afterwards.
func (s *Store) EnsureGenres(ctx context.Context, exec Executor, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	if len(unique) == 0 {
		return ids, nil
	}

	exec = s.exec(exec)
	for _, name := range unique {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO genres (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return nil, services.Wrap(services.ErrStoreWrite, "catalog", "insert genre", name, err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(unique)), ", ")
	args := make([]any, len(unique))
	for i, name := range unique {
		args[i] = name
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT genre_id, name FROM genres WHERE name IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreWrite, "catalog", "lookup genres", "", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, services.Wrap(services.ErrStoreWrite, "catalog", "lookup genres", "scan", err)
		}
		ids[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStoreWrite, "catalog", "lookup genres", "", err)
	}
	return ids, nil
}

// LinkMovieGenres links movieID to each genre id, ignoring existing links.
func (s *Store) LinkMovieGenres(ctx context.Context, exec Executor, movieID int64, genreIDs []int64) error {
	exec = s.exec(exec)
	for _, genreID := range genreIDs {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?)
            ON CONFLICT(movie_id, genre_id) DO NOTHING`, movieID, genreID); err != nil {
			return services.Wrap(services.ErrStoreWrite, "catalog", "link genre",
				fmt.Sprintf("movie_id=%d genre_id=%d", movieID, genreID), err)
		}
	}
	return nil
}

// Movie fetches a movie by id. It returns nil when the movie does not exist.
func (s *Store) Movie(ctx context.Context, id int64) (*Movie, error) {
	var (
		m         Movie
		year      sql.NullInt64
		decade    sql.NullString
		imdbID    sql.NullString
		director  sql.NullString
		plot      sql.NullString
		boxOffice sql.NullInt64
		runtime   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE movie_id = ?`, id).Scan(
		&m.ID, &m.Title, &year, &decade, &imdbID, &director, &plot, &boxOffice, &runtime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	m.ReleaseYear = intPtr(year)
	m.Decade = stringPtr(decade)
	m.IMDbID = stringPtr(imdbID)
	m.Director = stringPtr(director)
	m.Plot = stringPtr(plot)
	m.BoxOffice = int64Ptr(boxOffice)
	m.RuntimeMinutes = intPtr(runtime)
	return &m, nil
}

// MovieIDs lists stored movie ids in ascending order.
func (s *Store) MovieIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT movie_id FROM movies ORDER BY movie_id`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MovieGenres lists the genre names linked to movieID in name order.
func (s *Store) MovieGenres(ctx context.Context, movieID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.name FROM movie_genres mg JOIN genres g ON g.genre_id = mg.genre_id
        WHERE mg.movie_id = ? ORDER BY g.name`, movieID)
	if err != nil {
		return nil, fmt.Errorf("list movie genres: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

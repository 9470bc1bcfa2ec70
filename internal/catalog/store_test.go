package catalog_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"movieetl/internal/catalog"
	"movieetl/internal/services"
	"movieetl/internal/testsupport"
)

func ptr[T any](v T) *T { return &v }

func TestOpenProvisionsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	counts, err := store.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts != (catalog.Counts{}) {
		t.Fatalf("expected empty tables, got %+v", counts)
	}
	if !strings.Contains(catalog.SchemaSQL(), "CREATE TABLE IF NOT EXISTS movie_genres") {
		t.Fatal("embedded schema missing movie_genres")
	}
}

func TestOpenHoldsExclusiveLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := catalog.Open(context.Background(), cfg.Paths.Database)
	if !errors.Is(err, catalog.ErrLocked) || !services.IsFatal(err) {
		t.Fatalf("expected fatal ErrLocked, got %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened, err := catalog.Open(context.Background(), cfg.Paths.Database)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = reopened.Close()
}

func TestOpenRejectsSchemaVersionMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(context.Background(), cfg.Paths.Database)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.DB().Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	_, err = catalog.Open(context.Background(), cfg.Paths.Database)
	if !errors.Is(err, services.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestUpsertMovieUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	movie := catalog.Movie{ID: 1, Title: "Toy Story (1995)", ReleaseYear: ptr(1995), Decade: ptr("1990s")}
	if err := store.UpsertMovie(ctx, nil, movie); err != nil {
		t.Fatalf("UpsertMovie: %v", err)
	}
	movie.Director = ptr("John Lasseter")
	movie.BoxOffice = ptr(int64(12345))
	movie.RuntimeMinutes = ptr(81)
	if err := store.UpsertMovie(ctx, nil, movie); err != nil {
		t.Fatalf("UpsertMovie again: %v", err)
	}

	got, err := store.Movie(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("Movie: %v %v", got, err)
	}
	if *got.ReleaseYear != 1995 || *got.Decade != "1990s" || *got.Director != "John Lasseter" || *got.BoxOffice != 12345 || *got.RuntimeMinutes != 81 {
		t.Fatalf("unexpected movie: %+v", got)
	}
	if got.IMDbID != nil || got.Plot != nil {
		t.Fatalf("absent fields should be NULL: %+v", got)
	}
	if n, _ := store.CountMovies(ctx); n != 1 {
		t.Fatalf("CountMovies = %d", n)
	}
	if missing, err := store.Movie(ctx, 42); err != nil || missing != nil {
		t.Fatalf("missing movie = %v, %v", missing, err)
	}
}

func TestEnsureGenresAndLinksAreIdempotent(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if err := store.UpsertMovie(ctx, nil, catalog.Movie{ID: 7, Title: "Heat (1995)"}); err != nil {
		t.Fatalf("UpsertMovie: %v", err)
	}

	for pass := 0; pass < 2; pass++ {
		ids, err := store.EnsureGenres(ctx, nil, []string{"Action", "Crime", "Action"})
		if err != nil {
			t.Fatalf("EnsureGenres: %v", err)
		}
		if len(ids) != 2 || ids["Action"] == 0 || ids["Crime"] == 0 {
			t.Fatalf("unexpected ids: %v", ids)
		}
		if err := store.LinkMovieGenres(ctx, nil, 7, []int64{ids["Action"], ids["Crime"]}); err != nil {
			t.Fatalf("LinkMovieGenres: %v", err)
		}
	}

	genres, err := store.MovieGenres(ctx, 7)
	if err != nil {
		t.Fatalf("MovieGenres: %v", err)
	}
	if strings.Join(genres, ",") != "Action,Crime" {
		t.Fatalf("genres = %v", genres)
	}
	counts, _ := store.Counts(ctx)
	if counts.Genres != 2 || counts.MovieGenres != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if ids, err := store.EnsureGenres(ctx, nil, nil); err != nil || len(ids) != 0 {
		t.Fatalf("empty names should be a no-op: %v %v", ids, err)
	}
}

func TestLinkToMissingMovieFails(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ids, err := store.EnsureGenres(ctx, nil, []string{"Drama"})
	if err != nil {
		t.Fatalf("EnsureGenres: %v", err)
	}
	err = store.LinkMovieGenres(ctx, nil, 999, []int64{ids["Drama"]})
	if !errors.Is(err, services.ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite from foreign key, got %v", err)
	}
}

func TestRatingUnitRollsBackTogether(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if err := store.UpsertMovie(ctx, nil, catalog.Movie{ID: 1, Title: "Toy Story (1995)"}); err != nil {
		t.Fatalf("UpsertMovie: %v", err)
	}

	err := store.WithTx(ctx, func(tx catalog.Executor) error {
		if err := store.UpsertUser(ctx, tx, 5); err != nil {
			return err
		}
		return store.UpsertRating(ctx, tx, catalog.Rating{UserID: 5, MovieID: 404, Value: 3})
	})
	if !errors.Is(err, services.ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}
	counts, _ := store.Counts(ctx)
	if counts.Users != 0 || counts.Ratings != 0 {
		t.Fatalf("failed unit should leave no rows: %+v", counts)
	}

	for _, value := range []float64{3.5, 4.5} {
		err = store.WithTx(ctx, func(tx catalog.Executor) error {
			if err := store.UpsertUser(ctx, tx, 5); err != nil {
				return err
			}
			return store.UpsertRating(ctx, tx, catalog.Rating{UserID: 5, MovieID: 1, Value: value, RatedAt: ptr("2000-07-30T18:45:03")})
		})
		if err != nil {
			t.Fatalf("WithTx: %v", err)
		}
	}
	ratings, err := store.Ratings(ctx)
	if err != nil {
		t.Fatalf("Ratings: %v", err)
	}
	if len(ratings) != 1 || ratings[0].Value != 4.5 || *ratings[0].RatedAt != "2000-07-30T18:45:03" {
		t.Fatalf("unexpected ratings: %+v", ratings)
	}
}

func TestWithTxCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk I/O error"))

	store := catalog.New(db)
	err = store.WithTx(context.Background(), func(tx catalog.Executor) error {
		return store.UpsertUser(context.Background(), tx, 1)
	})
	if !errors.Is(err, services.ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureGenresBatchesLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO genres")).WithArgs("Animation").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO genres")).WithArgs("Comedy").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT genre_id, name FROM genres WHERE name IN (?, ?)")).
		WithArgs("Animation", "Comedy").
		WillReturnRows(sqlmock.NewRows([]string{"genre_id", "name"}).AddRow(int64(1), "Animation").AddRow(int64(2), "Comedy"))

	ids, err := catalog.New(db).EnsureGenres(context.Background(), nil, []string{"Animation", "Comedy"})
	if err != nil {
		t.Fatalf("EnsureGenres: %v", err)
	}
	if ids["Animation"] != 1 || ids["Comedy"] != 2 {
		t.Fatalf("ids = %v", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

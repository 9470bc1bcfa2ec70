package catalog

// Movie is a stored canonical movie. Nil pointers are stored as NULL.
type Movie struct {
	ID             int64
	Title          string
	ReleaseYear    *int
	Decade         *string
	IMDbID         *string
	Director       *string
	Plot           *string
	BoxOffice      *int64
	RuntimeMinutes *int
}

// Rating is a stored rating keyed by (UserID, MovieID). MovieID is always a
// canonical movie id.
type Rating struct {
	UserID  int64
	MovieID int64
	Value   float64
	RatedAt *string
}

// Counts summarises table sizes.
type Counts struct {
	Movies      int64
	Genres      int64
	MovieGenres int64
	Users       int64
	Ratings     int64
}

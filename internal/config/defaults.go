package config

const (
	defaultConfigPath         = "~/.config/movieetl/config.toml"
	defaultDatabasePath       = "~/.local/share/movieetl/movies.db"
	defaultMoviesCSV          = "movies.csv"
	defaultRatingsCSV         = "ratings.csv"
	defaultLogDir             = "~/.local/share/movieetl/logs"
	defaultLogRetentionDays   = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultOMDbBaseURL        = "http://www.omdbapi.com/"
	defaultOMDbRequestTimeout = 15
	defaultOMDbBackoffSeconds = 1.5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database:   defaultDatabasePath,
			MoviesCSV:  defaultMoviesCSV,
			RatingsCSV: defaultRatingsCSV,
			LogDir:     defaultLogDir,
		},
		OMDb: OMDb{
			Enabled:        true,
			BaseURL:        defaultOMDbBaseURL,
			RequestTimeout: defaultOMDbRequestTimeout,
			MaxRetries:     0,
			BackoffSeconds: defaultOMDbBackoffSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

// Package pipeline folds the movie and rating row sequences into the catalog.
//
// Run processes every movie row before any rating row, because rating
// validity depends on the finished set of canonical movies. Each movie, its
// genre links, and each rating commit as separate units of work, so a failure
// is counted against that row alone and the run continues. Only a fatal
// source error or context cancellation stops a run early.
package pipeline

// Package catalog persists movies, genres, users and ratings in SQLite.
//
// Open provisions the embedded schema, applies connection pragmas and holds an
// exclusive file lock beside the database for the lifetime of the Store, so
// two runs never interleave writes. Every write helper accepts an Executor so
// callers decide the transaction scope: WithTx wraps one unit of work and
// rolls it back on error without touching units committed earlier.
//
// All writes are upserts or ignore-on-conflict inserts, which makes loading
// the same inputs twice leave the database unchanged.
package catalog

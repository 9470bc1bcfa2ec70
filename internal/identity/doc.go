// Package identity decides which movie row is canonical for each
// (title, year) key and remaps duplicate and rating references onto it.
//
// A Resolver lives for exactly one run and is driven in input order. It only
// records a canonical id once the caller confirms the movie was persisted
// (Claim), so a row whose insert failed never shadows a later row with the same
// key. The duplicate map is append-only: the first remap recorded for a source
// id stays in force for the rest of the run.
package identity

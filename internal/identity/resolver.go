package identity

import (
	"fmt"
	"maps"
	"slices"

	"movieetl/internal/services"
)

// Kind classifies a resolve outcome.
type Kind int

const (
	// Canonical rows should be loaded and then claimed.
	Canonical Kind = iota
	// Duplicate rows share a claimed key and contribute nothing further.
	Duplicate
	// Conflict rows reuse a source id already claimed by, or remapped to, a
	// different key.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Canonical:
		return "canonical"
	case Duplicate:
		return "duplicate"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Resolve for one movie row.
type Decision struct {
	Kind Kind
	Key  Key
	// CanonicalID is the claimed id for Duplicate and Conflict decisions.
	CanonicalID int64
	// Remapped reports whether a Duplicate added a duplicate map entry.
	Remapped bool
}

// Stats counts resolver activity.
type Stats struct {
	Claimed    int
	Duplicates int
	Remapped   int
	Conflicts  int
}

// Resolver owns the per-run identity state.
type Resolver struct {
	seen       map[Key]int64
	canonical  map[int64]Key
	duplicates map[int64]int64
	stats      Stats
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		seen:       make(map[Key]int64),
		canonical:  make(map[int64]Key),
		duplicates: make(map[int64]int64),
	}
}

// Resolve classifies one movie row. It must be called in input order.
func (r *Resolver) Resolve(sourceID int64, rawTitle string) Decision {
	key := KeyFor(rawTitle)
	if canonicalID, ok := r.seen[key]; ok {
		r.stats.Duplicates++
		decision := Decision{Kind: Duplicate, Key: key, CanonicalID: canonicalID}
		if r.recordDuplicate(sourceID, canonicalID) {
			decision.Remapped = true
			r.stats.Remapped++
		}
		return decision
	}
	if owner, ok := r.canonical[sourceID]; ok {
		r.stats.Conflicts++
		return Decision{Kind: Conflict, Key: owner, CanonicalID: sourceID}
	}
	// An id already remapped as a duplicate stays bound to that movie.
	if mapped, ok := r.duplicates[sourceID]; ok {
		r.stats.Conflicts++
		return Decision{Kind: Conflict, Key: r.canonical[mapped], CanonicalID: mapped}
	}
	return Decision{Kind: Canonical, Key: key}
}

// recordDuplicate adds sourceID -> canonicalID unless sourceID is itself a
// canonical id or already mapped.
func (r *Resolver) recordDuplicate(sourceID, canonicalID int64) bool {
	if sourceID == canonicalID {
		return false
	}
	if _, ok := r.canonical[sourceID]; ok {
		return false
	}
	if _, ok := r.duplicates[sourceID]; ok {
		return false
	}
	r.duplicates[sourceID] = canonicalID
	return true
}

// Claim registers id as the canonical movie for key after it was persisted.
// Claiming a key twice keeps the first id.
func (r *Resolver) Claim(key Key, id int64) {
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = id
	r.canonical[id] = key
	r.stats.Claimed++
}

// RemapRating resolves a rating's raw movie id to a persisted canonical id.
func (r *Resolver) RemapRating(rawID int64) (int64, error) {
	id := rawID
	if canonicalID, ok := r.duplicates[rawID]; ok {
		id = canonicalID
	}
	if !r.IsCanonical(id) {
		return 0, services.Wrap(services.ErrMissingMovieReference, "identity", "remap rating",
			fmt.Sprintf("movie_id=%d", rawID), nil)
	}
	return id, nil
}

// IsCanonical reports whether id was claimed.
func (r *Resolver) IsCanonical(id int64) bool {
	_, ok := r.canonical[id]
	return ok
}

// DuplicateMap returns a copy of the duplicate remap table.
func (r *Resolver) DuplicateMap() map[int64]int64 {
	return maps.Clone(r.duplicates)
}

// CanonicalIDs returns the claimed ids in ascending order.
func (r *Resolver) CanonicalIDs() []int64 {
	return slices.Sorted(maps.Keys(r.canonical))
}

// Stats returns a snapshot of resolver counters.
func (r *Resolver) Stats() Stats {
	return r.stats
}

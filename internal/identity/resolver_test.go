package identity

import (
	"errors"
	"reflect"
	"testing"

	"movieetl/internal/services"
)

func TestKeyFor(t *testing.T) {
	k := KeyFor("  Toy Story (1995) ")
	if k.Title != "Toy Story (1995)" || !k.HasYear || k.Year != 1995 {
		t.Fatalf("unexpected key: %+v", k)
	}
	if k := KeyFor("Untitled"); k.HasYear {
		t.Fatalf("expected no year: %+v", k)
	}
	// Decomposed "é" folds to the composed form.
	if KeyFor("Cite\u0301 (1995)") != KeyFor("Cit\u00e9 (1995)") {
		t.Fatal("NFC variants should share a key")
	}
	if KeyFor("Heat (1995)").String() != "Heat (1995)|1995" || KeyFor("Heat").String() != "Heat|-" {
		t.Fatal("unexpected key strings")
	}
}

func TestFirstOccurrenceWins(t *testing.T) {
	r := NewResolver()

	d := r.Resolve(1, "Toy Story (1995)")
	if d.Kind != Canonical {
		t.Fatalf("first row should be canonical, got %v", d.Kind)
	}
	r.Claim(d.Key, 1)

	d = r.Resolve(2, "Toy Story (1995)")
	if d.Kind != Duplicate || d.CanonicalID != 1 || !d.Remapped {
		t.Fatalf("second row should be a remapped duplicate of 1: %+v", d)
	}
	d = r.Resolve(3, " Toy Story (1995)")
	if d.Kind != Duplicate || d.CanonicalID != 1 {
		t.Fatalf("whitespace variant should be duplicate: %+v", d)
	}
	if d := r.Resolve(4, "Toy Story (1996)"); d.Kind != Canonical {
		t.Fatalf("different year is a different movie: %+v", d)
	}

	want := map[int64]int64{2: 1, 3: 1}
	if got := r.DuplicateMap(); !reflect.DeepEqual(got, want) {
		t.Fatalf("duplicate map = %v, want %v", got, want)
	}
	if got := r.CanonicalIDs(); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("canonical ids = %v", got)
	}
}

func TestFailedInsertDoesNotClaim(t *testing.T) {
	r := NewResolver()
	first := r.Resolve(10, "Heat (1995)")
	if first.Kind != Canonical {
		t.Fatalf("expected canonical: %+v", first)
	}
	// Insert failed; no Claim.
	second := r.Resolve(11, "Heat (1995)")
	if second.Kind != Canonical {
		t.Fatalf("unclaimed key should let the next row become canonical: %+v", second)
	}
	r.Claim(second.Key, 11)
	if d := r.Resolve(12, "Heat (1995)"); d.Kind != Duplicate || d.CanonicalID != 11 {
		t.Fatalf("expected duplicate of 11: %+v", d)
	}
	if _, err := r.RemapRating(10); !errors.Is(err, services.ErrMissingMovieReference) {
		t.Fatalf("ratings for the failed row should be rejected, got %v", err)
	}
}

func TestDuplicateMapIsAppendOnly(t *testing.T) {
	r := NewResolver()
	a := r.Resolve(1, "A (2000)")
	r.Claim(a.Key, 1)
	b := r.Resolve(2, "B (2000)")
	r.Claim(b.Key, 2)

	if d := r.Resolve(5, "A (2000)"); !d.Remapped {
		t.Fatalf("expected remap: %+v", d)
	}
	if d := r.Resolve(5, "B (2000)"); d.Remapped {
		t.Fatalf("second remap for the same id must be ignored: %+v", d)
	}
	if got, _ := r.RemapRating(5); got != 1 {
		t.Fatalf("RemapRating(5) = %d, want 1", got)
	}
	// A canonical id is never remapped.
	if d := r.Resolve(2, "A (2000)"); d.Kind != Duplicate || d.Remapped {
		t.Fatalf("canonical id must not be remapped: %+v", d)
	}
	if got, _ := r.RemapRating(2); got != 2 {
		t.Fatalf("RemapRating(2) = %d, want 2", got)
	}
	if s := r.Stats(); s.Claimed != 2 || s.Duplicates != 3 || s.Remapped != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestConflictOnReusedSourceID(t *testing.T) {
	r := NewResolver()
	d := r.Resolve(1, "A (2000)")
	r.Claim(d.Key, 1)

	c := r.Resolve(1, "Completely Different (2001)")
	if c.Kind != Conflict || c.CanonicalID != 1 || c.Key.Title != "A (2000)" {
		t.Fatalf("expected conflict owned by A: %+v", c)
	}
	if r.Stats().Conflicts != 1 {
		t.Fatalf("conflict not counted: %+v", r.Stats())
	}
}

func TestDuplicateIDCannotBecomeCanonical(t *testing.T) {
	r := NewResolver()
	d := r.Resolve(1, "Heat (1995)")
	r.Claim(d.Key, 1)
	if d := r.Resolve(2, "Heat (1995)"); d.Kind != Duplicate {
		t.Fatalf("expected duplicate: %+v", d)
	}

	c := r.Resolve(2, "Casino (1995)")
	if c.Kind != Conflict || c.CanonicalID != 1 || c.Key.Title != "Heat (1995)" {
		t.Fatalf("reused duplicate id should conflict with Heat: %+v", c)
	}
	if got := r.CanonicalIDs(); !reflect.DeepEqual(got, []int64{1}) {
		t.Fatalf("canonical ids = %v, want [1]", got)
	}
	if r.IsCanonical(2) {
		t.Fatal("duplicate id must not be canonical")
	}
	if id, err := r.RemapRating(2); err != nil || id != 1 {
		t.Fatalf("RemapRating(2) = (%d, %v), want 1", id, err)
	}
}

func TestRemapRating(t *testing.T) {
	r := NewResolver()
	d := r.Resolve(1, "Toy Story (1995)")
	r.Claim(d.Key, 1)
	r.Resolve(2, "Toy Story (1995)")

	tests := []struct {
		raw     int64
		want    int64
		wantErr bool
	}{
		{1, 1, false},
		{2, 1, false},
		{3, 0, true},
	}
	for _, tt := range tests {
		got, err := r.RemapRating(tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("RemapRating(%d) = (%d, %v)", tt.raw, got, err)
		}
		if tt.wantErr && services.Kind(err) != services.KindMissingMovieReference {
			t.Errorf("RemapRating(%d) kind = %q", tt.raw, services.Kind(err))
		}
	}
}

func TestKindString(t *testing.T) {
	if Canonical.String() != "canonical" || Duplicate.String() != "duplicate" || Conflict.String() != "conflict" || Kind(9).String() != "unknown" {
		t.Fatal("unexpected kind labels")
	}
}

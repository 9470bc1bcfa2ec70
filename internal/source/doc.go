// Package source reads the movies and ratings CSV files as lazy, single-pass
// row sequences.
//
// Columns are located by header name so extra or reordered columns are
// tolerated. A row that cannot be parsed is yielded as a *RowError and the
// sequence continues; an unreadable file, a missing required column or an I/O
// failure mid-file is wrapped in services.ErrSource and ends the sequence.
package source

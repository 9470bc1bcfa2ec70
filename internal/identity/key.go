package identity

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"movieetl/internal/normalize"
)

// Key identifies a logical movie. The title keeps any year suffix; only
// surrounding whitespace and Unicode composition are normalized.
type Key struct {
	Title   string
	Year    int
	HasYear bool
}

// KeyFor derives the identity key for a raw catalog title.
func KeyFor(rawTitle string) Key {
	title := norm.NFC.String(strings.TrimSpace(rawTitle))
	year, ok := normalize.ExtractYear(title)
	return Key{Title: title, Year: year, HasYear: ok}
}

func (k Key) String() string {
	if !k.HasYear {
		return k.Title + "|-"
	}
	return k.Title + "|" + strconv.Itoa(k.Year)
}

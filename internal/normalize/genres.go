package normalize

import "strings"

// NoGenres is the placeholder the source catalog uses for movies without genres.
const NoGenres = "(no genres listed)"

// ParseGenres splits a pipe-delimited genre list, trimming entries and
// dropping empties and the NoGenres placeholder. Order is preserved; duplicates
// are left for the link step to collapse.
func ParseGenres(raw string) []string {
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" || strings.EqualFold(name, NoGenres) {
			continue
		}
		genres = append(genres, name)
	}
	return genres
}

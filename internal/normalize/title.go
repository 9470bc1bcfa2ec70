package normalize

import (
	"strconv"
	"strings"
)

// ExtractYear returns the integer inside a trailing " (YYYY)" suffix. The
// last " (" occurrence wins, so "Heat (Remake) (1995)" yields 1995.
func ExtractYear(title string) (int, bool) {
	trimmed := strings.TrimSpace(title)
	if !strings.HasSuffix(trimmed, ")") || !strings.Contains(trimmed, "(") {
		return 0, false
	}
	idx := strings.LastIndex(trimmed, " (")
	if idx < 0 {
		return 0, false
	}
	inner := trimmed[idx+2 : len(trimmed)-1]
	year, err := strconv.Atoi(strings.TrimSpace(inner))
	if err != nil {
		return 0, false
	}
	return year, true
}

// Decade labels the decade containing year, e.g. 1995 -> "1990s".
func Decade(year int, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	start := year / 10 * 10
	if year < 0 && year%10 != 0 {
		start -= 10
	}
	return strconv.Itoa(start) + "s", true
}

// QueryTitle strips every trailing " (...)" parenthetical so alias and year
// suffixes do not reach the lookup service.
func QueryTitle(title string) string {
	cleaned := strings.TrimSpace(title)
	for strings.HasSuffix(cleaned, ")") {
		idx := strings.LastIndex(cleaned, " (")
		if idx < 0 {
			break
		}
		cleaned = strings.TrimSpace(cleaned[:idx])
	}
	return cleaned
}

package normalize

import (
	"strconv"
	"strings"
	"time"
)

// NotAvailable is the sentinel OMDb uses for missing string fields.
const NotAvailable = "N/A"

// ratedAtLayout matches the naive UTC ISO-8601 form stored in ratings.rated_at.
const ratedAtLayout = "2006-01-02T15:04:05"

func isNotAvailable(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || strings.EqualFold(trimmed, NotAvailable)
}

// NAToAbsent maps the not-available sentinel, including the empty string, to
// absent and passes everything else through unchanged.
func NAToAbsent(raw string) (string, bool) {
	if isNotAvailable(raw) {
		return "", false
	}
	return raw, true
}

// CleanBoxOffice parses a currency string such as "$12,345" into whole dollars.
func CleanBoxOffice(raw string) (int64, bool) {
	if isNotAvailable(raw) {
		return 0, false
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(raw))
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// CleanRuntime parses a runtime such as "114 min" into minutes.
func CleanRuntime(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	if len(trimmed) >= 4 && strings.EqualFold(trimmed[len(trimmed)-4:], " min") {
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-4])
	}
	minutes, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return minutes, true
}

// RatedAt converts epoch seconds into the stored timestamp form. Timestamps
// outside years 1..9999 are treated as absent.
func RatedAt(ts int64, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	t := time.Unix(ts, 0).UTC()
	if t.Year() < 1 || t.Year() > 9999 {
		return "", false
	}
	return t.Format(ratedAtLayout), true
}

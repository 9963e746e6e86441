package employee

import (
	"strings"
	"time"
)

// DateLayout is the canonical text form of a date in exports, JSON and search.
const DateLayout = "2006-01-02"

type dateFormat struct {
	pattern string
	layout  string
}

// Order matters: 01/02/2025 is read day-first before the month-first fallback.
var acceptedDateFormats = []dateFormat{
	{pattern: "dd/MM/yyyy", layout: "02/01/2006"},
	{pattern: "d/M/yyyy", layout: "2/1/2006"},
	{pattern: "yyyy-MM-dd", layout: "2006-01-02"},
	{pattern: "MM/dd/yyyy", layout: "01/02/2006"},
}

// DatePatterns lists the accepted date patterns in the order they are tried.
func DatePatterns() []string {
	out := make([]string, len(acceptedDateFormats))
	for i, f := range acceptedDateFormats {
		out[i] = f.pattern
	}
	return out
}

// ParseDate converts free-form date text to a date. Blank text yields the zero
// date without error; text matching no accepted pattern yields a *FormatError.
func ParseDate(text string) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, nil
	}
	for _, f := range acceptedDateFormats {
		if parsed, err := time.Parse(f.layout, text); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, &FormatError{Text: text, Patterns: DatePatterns()}
}

// FormatDate renders a date as YYYY-MM-DD, or "" for the zero date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// searchableDate is the rendering matched by free-text search; the zero date
// renders as 0001-01-01 in Go and in PostgreSQL alike.
func searchableDate(t time.Time) string {
	return t.Format(DateLayout)
}

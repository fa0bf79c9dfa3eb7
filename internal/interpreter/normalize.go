package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"groundwater-backend/internal/catalog"
)

var yearPattern = regexp.MustCompile(`20\d\d`)

// Query is the per-call context derived from the raw message.
type Query struct {
	Raw          string
	Text         string
	Year         int
	YearExplicit bool
}

// Normalize lowercases the message and extracts the first 20xx year token.
// Without one the year defaults to catalog.AssessmentYear.
func Normalize(raw string) Query {
	q := Query{
		Raw:  raw,
		Text: strings.ToLower(raw),
		Year: catalog.AssessmentYear,
	}
	if m := yearPattern.FindString(q.Text); m != "" {
		if year, err := strconv.Atoi(m); err == nil {
			q.Year = year
			q.YearExplicit = true
		}
	}
	return q
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

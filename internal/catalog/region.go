package catalog

import "strings"

// AssessmentYear is the year every series lookup falls back to.
const AssessmentYear = 2023

// Category is the CGWB stage-of-extraction classification.
type Category string

const (
	CategorySafe          Category = "Safe"
	CategorySemiCritical  Category = "Semi-Critical"
	CategoryCritical      Category = "Critical"
	CategoryOverExploited Category = "Over-Exploited"
)

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySafe, CategorySemiCritical, CategoryCritical, CategoryOverExploited:
		return true
	default:
		return false
	}
}

// Categories lists every category from most to least severe.
var Categories = []Category{CategoryOverExploited, CategoryCritical, CategorySemiCritical, CategorySafe}

// ParseCategory accepts a category name or its slug, ignoring case.
func ParseCategory(raw string) (Category, bool) {
	want := Category(strings.TrimSpace(raw)).Slug()
	for _, c := range Categories {
		if c.Slug() == want {
			return c, true
		}
	}
	return "", false
}

// Slug returns the lowercase hyphenated form used as a display tag.
func (c Category) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(string(c))), "-")
}

// Emoji returns the severity marker rendered next to a region name.
func (c Category) Emoji() string {
	switch c {
	case CategoryOverExploited:
		return "🔴"
	case CategoryCritical:
		return "🟠"
	case CategorySemiCritical:
		return "🟡"
	default:
		return "🟢"
	}
}

// YearRecord is one entry of a region's assessment history.
type YearRecord struct {
	Year          int      `json:"year" yaml:"year"`
	ExtractionPct float64  `json:"extractionPct" yaml:"extraction_pct"`
	Category      Category `json:"category" yaml:"category"`
}

// Region is a state or union territory with its current snapshot and history.
// Regions returned by a Catalog are shared and must be treated as read-only.
type Region struct {
	Key             string       `json:"key"`
	Name            string       `json:"name"`
	Category        Category     `json:"category"`
	ExtractionPct   float64      `json:"extractionPct"`
	Status          string       `json:"status"`
	Issues          []string     `json:"issues"`
	Recommendations []string     `json:"recommendations"`
	History         []YearRecord `json:"history"`

	aliases []string
	byYear  map[int]int
}

// Year returns the history entry for year, if present.
func (r *Region) Year(year int) (YearRecord, bool) {
	if r == nil {
		return YearRecord{}, false
	}
	idx, ok := r.byYear[year]
	if !ok {
		return YearRecord{}, false
	}
	return r.History[idx], true
}

// Resolve applies the year fallback: the requested year if present, else AssessmentYear.
// Catalog validation guarantees the AssessmentYear entry exists.
func (r *Region) Resolve(year int) YearRecord {
	if rec, ok := r.Year(year); ok {
		return rec
	}
	rec, _ := r.Year(AssessmentYear)
	return rec
}

// Aliases returns the lowercase strings that identify this region in free text.
func (r *Region) Aliases() []string {
	return append([]string(nil), r.aliases...)
}

// MentionedIn reports whether any alias occurs in the already-lowercased text.
func (r *Region) MentionedIn(text string) bool {
	for _, alias := range r.aliases {
		if strings.Contains(text, alias) {
			return true
		}
	}
	return false
}

func (r *Region) index() {
	r.byYear = make(map[int]int, len(r.History))
	for i, rec := range r.History {
		r.byYear[rec.Year] = i
	}
}

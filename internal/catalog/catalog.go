package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("invalid region catalog")

// Catalog is the immutable, ordered set of regions. Declaration order is the
// tie-break for alias matching and the listing order everywhere else.
type Catalog struct {
	regions []*Region
	byKey   map[string]*Region
}

// New validates the regions, builds their alias sets and returns a Catalog.
func New(regions []Region, explicitAliases map[string][]string) (*Catalog, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no regions", ErrInvalidCatalog)
	}
	c := &Catalog{
		regions: make([]*Region, 0, len(regions)),
		byKey:   make(map[string]*Region, len(regions)),
	}
	for i := range regions {
		r := regions[i]
		if err := validateRegion(&r); err != nil {
			return nil, err
		}
		if _, dup := c.byKey[r.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidCatalog, r.Key)
		}
		r.index()
		r.aliases = buildAliases(r.Key, r.Name, explicitAliases[r.Key])
		c.regions = append(c.regions, &r)
		c.byKey[r.Key] = &r
	}
	return c, nil
}

func validateRegion(r *Region) error {
	r.Key = normalizeKey(r.Key)
	r.Name = strings.TrimSpace(r.Name)
	if r.Key == "" {
		return fmt.Errorf("%w: region with empty key", ErrInvalidCatalog)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: region %q has no name", ErrInvalidCatalog, r.Key)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: region %q has unknown category %q", ErrInvalidCatalog, r.Key, r.Category)
	}
	if len(r.History) == 0 {
		return fmt.Errorf("%w: region %q has no history", ErrInvalidCatalog, r.Key)
	}
	seen := make(map[int]struct{}, len(r.History))
	for _, rec := range r.History {
		if !rec.Category.Valid() {
			return fmt.Errorf("%w: region %q year %d has unknown category %q", ErrInvalidCatalog, r.Key, rec.Year, rec.Category)
		}
		if _, dup := seen[rec.Year]; dup {
			return fmt.Errorf("%w: region %q repeats year %d", ErrInvalidCatalog, r.Key, rec.Year)
		}
		seen[rec.Year] = struct{}{}
	}
	if _, ok := seen[AssessmentYear]; !ok {
		return fmt.Errorf("%w: region %q has no %d entry", ErrInvalidCatalog, r.Key, AssessmentYear)
	}
	return nil
}

// buildAliases derives the match strings for a region. Names such as
// "Jammu and Kashmir" are reachable both with and without the "and".
func buildAliases(key, name string, explicit []string) []string {
	lowerKey := strings.ToLower(key)
	lowerName := strings.ToLower(name)
	candidates := []string{
		lowerKey,
		stripAnd(lowerKey),
		collapseSpaces(lowerName),
		collapseSpaces(stripAnd(lowerName)),
		strings.ReplaceAll(collapseSpaces(stripAnd(lowerName)), " ", ""),
	}
	for _, a := range explicit {
		candidates = append(candidates, collapseSpaces(strings.ToLower(a)))
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, a := range candidates {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func stripAnd(s string) string {
	return strings.ReplaceAll(s, "and", "")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Len returns the number of regions.
func (c *Catalog) Len() int {
	return len(c.regions)
}

// Regions returns all regions in declaration order.
func (c *Catalog) Regions() []*Region {
	return append([]*Region(nil), c.regions...)
}

// Lookup finds a region by key.
func (c *Catalog) Lookup(key string) (*Region, bool) {
	r, ok := c.byKey[normalizeKey(key)]
	return r, ok
}

// Names returns every display name in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.regions))
	for i, r := range c.regions {
		names[i] = r.Name
	}
	return names
}

// ByCategory returns regions whose snapshot category is cat, in declaration order.
func (c *Catalog) ByCategory(cat Category) []*Region {
	var out []*Region
	for _, r := range c.regions {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

// FirstMentioned returns the first declared region mentioned in text.
func (c *Catalog) FirstMentioned(text string) (*Region, bool) {
	for _, r := range c.regions {
		if r.MentionedIn(text) {
			return r, true
		}
	}
	return nil, false
}

// AllMentioned returns every region mentioned in text, in declaration order.
func (c *Catalog) AllMentioned(text string) []*Region {
	var out []*Region
	for _, r := range c.regions {
		if r.MentionedIn(text) {
			out = append(out, r)
		}
	}
	return out
}

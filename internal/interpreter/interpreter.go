// Package interpreter turns a free-text groundwater question into a structured
// answer drawn from the region catalog. It performs no I/O and is safe for
// concurrent use.
package interpreter

import (
	"errors"

	"github.com/jonboulle/clockwork"

	"groundwater-backend/internal/catalog"
)

// Interpreter answers queries against a fixed catalog.
type Interpreter struct {
	catalog *catalog.Catalog
	clock   clockwork.Clock
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithClock sets the clock used to measure processing time.
func WithClock(clock clockwork.Clock) Option {
	return func(in *Interpreter) {
		if clock != nil {
			in.clock = clock
		}
	}
}

// New builds an Interpreter over cat.
func New(cat *catalog.Catalog, opts ...Option) (*Interpreter, error) {
	if cat == nil {
		return nil, errors.New("interpreter: catalog is required")
	}
	in := &Interpreter{catalog: cat, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// Catalog returns the catalog the interpreter reads from.
func (in *Interpreter) Catalog() *catalog.Catalog {
	return in.catalog
}

// Answer classifies text and synthesizes the response. It never fails.
func (in *Interpreter) Answer(text string) Result {
	return in.Explain(text).Result
}

// Explanation exposes how the cascade reached a result.
type Explanation struct {
	Year              int      `json:"year"`
	YearExplicit      bool     `json:"year_explicit"`
	ComparisonMatched bool     `json:"comparison_matched"`
	ComparisonRegions []string `json:"comparison_regions,omitempty"`
	CascadeBranch     Intent   `json:"cascade_branch,omitempty"`
	Overwritten       bool     `json:"overwritten"`
	Fallback          bool     `json:"fallback"`
	Result            Result   `json:"result"`
}

// Explain answers text and reports which branches fired.
func (in *Interpreter) Explain(text string) Explanation {
	start := in.clock.Now()
	q := Normalize(text)
	d := decide(in.catalog, q)
	r, fellBack := d.final()

	exp := Explanation{
		Year:              q.Year,
		YearExplicit:      q.YearExplicit,
		ComparisonMatched: d.comparison != nil,
		Overwritten:       d.overwritten(),
		Fallback:          fellBack,
	}
	for _, region := range d.comparisonRegions {
		exp.ComparisonRegions = append(exp.ComparisonRegions, region.Key)
	}
	if d.cascade != nil {
		exp.CascadeBranch = d.cascade.intent
	}
	exp.Result = assemble(r, q, in.clock.Since(start))
	return exp
}

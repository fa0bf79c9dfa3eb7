package interpreter

import (
	"strings"

	"groundwater-backend/internal/catalog"
)

// Intent is the classification assigned to a query.
type Intent string

const (
	IntentLocation   Intent = "location_query"
	IntentComparison Intent = "comparison"
	IntentHistorical Intent = "historical_analysis"
	IntentCritical   Intent = "critical_areas"
	IntentHelp       Intent = "help"
	IntentUnknown    Intent = "unknown"
)

// Intents lists every intent in cascade order.
var Intents = []Intent{IntentComparison, IntentLocation, IntentHistorical, IntentCritical, IntentHelp, IntentUnknown}

var (
	comparisonKeywords = []string{"compare", "vs", "versus", "difference", "between"}
	historicalKeywords = []string{"historical", "trend", "history"}
	criticalKeywords   = []string{"critical", "crisis", "emergency", "over-exploited", "worst"}
	helpKeywords       = []string{"help", "commands", "what can you do", "guide", "how to"}
)

const (
	confidenceComparisonPartial = 0.85
	confidenceComparison        = 0.95
	confidenceLocation          = 0.95
	confidenceHistorical        = 0.9
	confidenceCritical          = 0.95
	confidenceHelp              = 0.9
	confidenceUnknown           = 0.3
)

// reply is what a single synthesizer produces.
type reply struct {
	intent                Intent
	message               string
	confidence            float64
	hasData               bool
	requiresClarification bool
	suggestions           []string

	// region drives groundwater_status; set only when one region was resolved.
	region *catalog.Region
}

// decision records which branches of the cascade produced a reply.
type decision struct {
	query             Query
	comparison        *reply
	comparisonRegions []*catalog.Region
	cascade           *reply
}

// decide runs the comparison check and then the location/historical/critical/help
// cascade. The cascade is evaluated even when the comparison check matched.
func decide(cat *catalog.Catalog, q Query) decision {
	d := decision{query: q}

	if containsAny(q.Text, comparisonKeywords) {
		d.comparisonRegions = resolveAll(cat, q)
		r := synthesizeComparison(cat, q, d.comparisonRegions)
		d.comparison = &r
	}

	var found *catalog.Region
	if d.comparison == nil {
		found = resolveFirst(cat, q)
	}

	var r reply
	switch {
	case found != nil:
		r = synthesizeLocation(q, found)
	case containsAny(q.Text, historicalKeywords):
		r = synthesizeHistorical(q, resolveFirst(cat, q))
	case containsAny(q.Text, criticalKeywords):
		r = synthesizeCritical(cat)
	case containsAny(q.Text, helpKeywords):
		r = synthesizeHelp(cat)
	default:
		return d
	}
	d.cascade = &r
	return d
}

// overwritten reports whether a cascade reply displaced a comparison reply.
func (d decision) overwritten() bool {
	return d.comparison != nil && d.cascade != nil
}

// final collapses the decision into the reply that is returned. When both a
// comparison and a cascade branch fired, cascadeOverwritesComparison decides the
// outcome. An empty message falls through to the clarification reply.
func (d decision) final() (reply, bool) {
	var r reply
	switch {
	case d.overwritten():
		r = cascadeOverwritesComparison(*d.comparison, *d.cascade)
	case d.cascade != nil:
		r = *d.cascade
	case d.comparison != nil:
		r = *d.comparison
	}
	if strings.TrimSpace(r.message) == "" {
		return fallbackReply(), true
	}
	return r, false
}

// cascadeOverwritesComparison is the precedence rule between the comparison check
// and a later cascade branch: the cascade branch replaces the message, intent,
// confidence, suggestions and resolved region. hasData and requiresClarification
// are only ever raised, so a flag set by the comparison survives the overwrite.
func cascadeOverwritesComparison(comparison, cascade reply) reply {
	out := cascade
	out.hasData = comparison.hasData || cascade.hasData
	out.requiresClarification = comparison.requiresClarification || cascade.requiresClarification
	return out
}

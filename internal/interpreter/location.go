package interpreter

import (
	"fmt"
	"strings"

	"groundwater-backend/internal/catalog"
)

func synthesizeLocation(q Query, r *catalog.Region) reply {
	rec := r.Resolve(q.Year)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s **Groundwater Analysis for %s**\n\n", rec.Category.Emoji(), r.Name)
	fmt.Fprintf(&sb, "📊 **Assessment Year**: %d\n", q.Year)
	fmt.Fprintf(&sb, "🏷️ **Category**: %s\n", rec.Category)
	fmt.Fprintf(&sb, "💧 **Annual Extraction**: %s%% of recharge\n", pct(rec.ExtractionPct))
	fmt.Fprintf(&sb, "⚠️ **Status**: %s\n\n", r.Status)

	if len(r.Issues) > 0 {
		sb.WriteString("**Key Issues:**\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&sb, "• %s\n", issue)
		}
		sb.WriteString("\n")
	}
	if len(r.Recommendations) > 0 {
		sb.WriteString("**Recommended Actions:**\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&sb, "• %s\n", rec)
		}
	}

	return reply{
		intent:     IntentLocation,
		message:    sb.String(),
		confidence: confidenceLocation,
		hasData:    true,
		suggestions: []string{
			"Show historical trends for " + r.Name,
			"Compare " + r.Name + " with neighboring states",
			"What conservation methods work in " + r.Name + "?",
			fmt.Sprintf("Show %s data for %d", r.Name, toggleYear(q.Year)),
		},
		region: r,
	}
}

// toggleYear flips between the assessment year and the first year of the series.
func toggleYear(year int) int {
	if year == catalog.AssessmentYear {
		return 2021
	}
	return catalog.AssessmentYear
}

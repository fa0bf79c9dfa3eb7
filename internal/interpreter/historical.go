package interpreter

import (
	"fmt"
	"math"
	"strings"

	"groundwater-backend/internal/catalog"
)

func synthesizeHistorical(q Query, r *catalog.Region) reply {
	if r == nil {
		var sb strings.Builder
		sb.WriteString("📈 **Historical Groundwater Trends Across India**\n\n")
		sb.WriteString("I can provide historical data for any specific state. Try asking:\n")
		sb.WriteString("• \"Show historical trends for Punjab\"\n")
		sb.WriteString("• \"What was Rajasthan's status in 2021?\"\n")
		sb.WriteString("• \"Compare Maharashtra trends over years\"\n")
		return reply{
			intent:                IntentHistorical,
			message:               sb.String(),
			confidence:            confidenceHistorical,
			requiresClarification: true,
			suggestions: []string{
				"Show Punjab historical data",
				"Compare Rajasthan trends",
				"Show national overview",
			},
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 **Historical Groundwater Trends for %s**\n\n", r.Name)
	sb.WriteString("| Year | Extraction (%) | Category |\n")
	sb.WriteString("|------|---------------|----------|\n")
	for _, rec := range r.History {
		fmt.Fprintf(&sb, "| %d | %s%% | %s |\n", rec.Year, pct(rec.ExtractionPct), rec.Category)
	}

	first := r.History[0]
	last := r.History[len(r.History)-1]
	change := last.ExtractionPct - first.ExtractionPct
	sb.WriteString("\n**Trend Analysis:**\n")
	switch {
	case change > 0:
		fmt.Fprintf(&sb, "• Extraction rate increased by %s%% from %d to %d\n", pct(change), first.Year, last.Year)
	case change < 0:
		fmt.Fprintf(&sb, "• Extraction rate decreased by %s%% from %d to %d\n", pct(math.Abs(change)), first.Year, last.Year)
	default:
		fmt.Fprintf(&sb, "• Extraction rate unchanged from %d to %d\n", first.Year, last.Year)
	}

	return reply{
		intent:     IntentHistorical,
		message:    sb.String(),
		confidence: confidenceHistorical,
		hasData:    true,
		suggestions: []string{
			"Show current status of " + r.Name,
			"Compare with other states",
			"What caused these changes?",
		},
		region: r,
	}
}

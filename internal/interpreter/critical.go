package interpreter

import (
	"fmt"
	"strings"

	"groundwater-backend/internal/catalog"
)

// criticalActions is appended to every critical-area listing.
var criticalActions = []string{
	"Ban new bore wells in over-exploited areas",
	"Implement water conservation policies",
	"Promote sustainable agriculture practices",
	"Invest in artificial recharge structures",
}

func synthesizeCritical(cat *catalog.Catalog) reply {
	var sb strings.Builder
	sb.WriteString("🚨 **CRITICAL GROUNDWATER AREAS - IMMEDIATE ATTENTION NEEDED**\n\n")
	sb.WriteString("🔴 **OVER-EXPLOITED AREAS (>100% extraction):**\n")
	for _, r := range cat.ByCategory(catalog.CategoryOverExploited) {
		fmt.Fprintf(&sb, "• %s: %s%% extraction\n", r.Name, pct(r.ExtractionPct))
	}
	sb.WriteString("\n🟠 **CRITICAL AREAS (90-100% extraction):**\n")
	for _, r := range cat.ByCategory(catalog.CategoryCritical) {
		fmt.Fprintf(&sb, "• %s: %s%% extraction\n", r.Name, pct(r.ExtractionPct))
	}
	sb.WriteString("\n**Immediate Actions Required:**\n")
	for _, action := range criticalActions {
		fmt.Fprintf(&sb, "• %s\n", action)
	}

	return reply{
		intent:     IntentCritical,
		message:    sb.String(),
		confidence: confidenceCritical,
		hasData:    true,
		suggestions: []string{
			"Show policy recommendations",
			"Compare with safe areas",
			"What are the economic impacts?",
			"Show state-wise details",
		},
	}
}

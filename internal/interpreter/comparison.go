package interpreter

import (
	"fmt"
	"math"
	"strings"

	"groundwater-backend/internal/catalog"
)

const comparisonPreviewNames = 10

func synthesizeComparison(cat *catalog.Catalog, q Query, regions []*catalog.Region) reply {
	switch len(regions) {
	case 0:
		return comparisonWithoutRegions(cat)
	case 1:
		return comparisonWithOneRegion(regions[0])
	default:
		return compareRegions(q, regions[0], regions[1])
	}
}

func compareRegions(q Query, a, b *catalog.Region) reply {
	recA := a.Resolve(q.Year)
	recB := b.Resolve(q.Year)

	var sb strings.Builder
	sb.WriteString("📊 **GROUNDWATER COMPARISON ANALYSIS**\n\n")
	fmt.Fprintf(&sb, "🏆 **%s vs %s (%d Data)**\n\n", a.Name, b.Name, q.Year)
	writeComparedRegion(&sb, a, recA)
	writeComparedRegion(&sb, b, recB)

	sb.WriteString("**📈 Comparison Analysis:**\n")
	diff := recA.ExtractionPct - recB.ExtractionPct
	switch {
	case diff > 0:
		fmt.Fprintf(&sb, "• %s has %s%% higher extraction than %s\n", a.Name, pct(diff), b.Name)
		fmt.Fprintf(&sb, "• %s faces more severe groundwater stress\n", a.Name)
	case diff < 0:
		fmt.Fprintf(&sb, "• %s has %s%% higher extraction than %s\n", b.Name, pct(math.Abs(diff)), a.Name)
		fmt.Fprintf(&sb, "• %s faces more severe groundwater stress\n", b.Name)
	default:
		sb.WriteString("• Both states have similar extraction rates\n")
	}
	if recA.Category != recB.Category {
		fmt.Fprintf(&sb, "• %s is %s while %s is %s\n",
			a.Name, strings.ToLower(string(recA.Category)),
			b.Name, strings.ToLower(string(recB.Category)))
	}

	sb.WriteString("\n**💡 Recommendations:**\n")
	if recA.Category == catalog.CategoryOverExploited || recB.Category == catalog.CategoryOverExploited {
		sb.WriteString("• Immediate conservation measures needed\n")
		sb.WriteString("• Implement artificial recharge projects\n")
		sb.WriteString("• Promote efficient irrigation techniques\n")
	} else {
		sb.WriteString("• Continue monitoring and sustainable practices\n")
		sb.WriteString("• Regular groundwater assessments\n")
	}

	return reply{
		intent:     IntentComparison,
		message:    sb.String(),
		confidence: confidenceComparison,
		hasData:    true,
		suggestions: []string{
			"Show historical trends for " + a.Name,
			"Show historical trends for " + b.Name,
			"What policies work in " + a.Name + "?",
			"Compare " + a.Name + " with another state",
		},
	}
}

func writeComparedRegion(sb *strings.Builder, r *catalog.Region, rec catalog.YearRecord) {
	fmt.Fprintf(sb, "%s **%s:**\n", rec.Category.Emoji(), r.Name)
	fmt.Fprintf(sb, "• Extraction Rate: %s%% of recharge\n", pct(rec.ExtractionPct))
	fmt.Fprintf(sb, "• Category: %s\n", rec.Category)
	fmt.Fprintf(sb, "• Status: %s\n\n", r.Status)
}

func comparisonWithOneRegion(r *catalog.Region) reply {
	var sb strings.Builder
	sb.WriteString("📊 **State Comparison**\n\n")
	fmt.Fprintf(&sb, "I found %q in your query. To compare states, please specify two states.\n\n", r.Name)
	sb.WriteString("Try these examples:\n")
	fmt.Fprintf(&sb, "• \"Compare %s vs Punjab\"\n", r.Name)
	fmt.Fprintf(&sb, "• \"Compare %s with Maharashtra\"\n", r.Name)
	fmt.Fprintf(&sb, "• \"What's the difference between %s and Gujarat?\"\n", r.Name)

	return reply{
		intent:                IntentComparison,
		message:               sb.String(),
		confidence:            confidenceComparisonPartial,
		requiresClarification: true,
		suggestions: []string{
			"Compare " + r.Name + " vs Punjab",
			"Compare " + r.Name + " vs Haryana",
			"Show " + r.Name + " data only",
		},
	}
}

func comparisonWithoutRegions(cat *catalog.Catalog) reply {
	names := cat.Names()
	preview := names
	if len(preview) > comparisonPreviewNames {
		preview = preview[:comparisonPreviewNames]
	}

	var sb strings.Builder
	sb.WriteString("📊 **State Comparison Feature**\n\n")
	sb.WriteString("I can compare groundwater status between any two Indian states or union territories.\n\n")
	sb.WriteString("**Available States & Territories:**\n")
	sb.WriteString(strings.Join(preview, ", "))
	if rest := len(names) - len(preview); rest > 0 {
		fmt.Fprintf(&sb, "... and %d more", rest)
	}
	sb.WriteString("\n\n")
	sb.WriteString("**Examples:**\n")
	sb.WriteString("• \"Compare Punjab vs Haryana\"\n")
	sb.WriteString("• \"What's the difference between Gujarat and Rajasthan?\"\n")
	sb.WriteString("• \"Compare Maharashtra with Karnataka\"\n")
	sb.WriteString("• \"Punjab vs Delhi groundwater status\"\n")

	return reply{
		intent:                IntentComparison,
		message:               sb.String(),
		confidence:            confidenceComparisonPartial,
		requiresClarification: true,
		suggestions: []string{
			"Compare Punjab vs Haryana",
			"Compare Gujarat vs Rajasthan",
			"Compare Maharashtra vs Karnataka",
			"Show state ranking",
		},
	}
}

package interpreter

import (
	"fmt"
	"strings"

	"groundwater-backend/internal/catalog"
)

// SupportedLanguages is advertised in help text and by the capabilities endpoint.
var SupportedLanguages = []string{"English", "Hindi", "Gujarati", "Marathi", "Tamil", "Telugu", "Bengali", "Kannada"}

func synthesizeHelp(cat *catalog.Catalog) reply {
	var sb strings.Builder
	sb.WriteString("🤖 **INGRES ChatBot Help & Commands**\n\n")
	fmt.Fprintf(&sb, "I'm your AI assistant for India's groundwater resources with data for all %d states and union territories.\n\n", cat.Len())

	sb.WriteString("📊 **Data Queries:**\n")
	sb.WriteString("• \"Show me [state] groundwater data\"\n")
	sb.WriteString("• \"What's the status of [state]?\"\n")
	sb.WriteString("• \"Groundwater in [state] for [year]\"\n\n")

	sb.WriteString("📈 **Historical Analysis:**\n")
	sb.WriteString("• \"Show historical trends for [state]\"\n")
	sb.WriteString("• \"What was [state] status in [year]?\"\n")
	sb.WriteString("• \"Compare [state1] vs [state2]\"\n\n")

	sb.WriteString("⚠️ **Critical Areas:**\n")
	sb.WriteString("• \"Which areas are over-exploited?\"\n")
	sb.WriteString("• \"Show critical regions\"\n")
	sb.WriteString("• \"Water crisis areas\"\n\n")

	sb.WriteString("📊 **Available States & Territories:**\n")
	sb.WriteString(strings.Join(cat.Names(), ", "))
	sb.WriteString("\n\n")

	sb.WriteString("🌍 **Multi-language Support:**\n")
	fmt.Fprintf(&sb, "• %s\n\n", strings.Join(SupportedLanguages, ", "))

	sb.WriteString("Try asking: \"Show Punjab data\" or \"Compare states\" or \"Show critical areas\"")

	return reply{
		intent:     IntentHelp,
		message:    sb.String(),
		confidence: confidenceHelp,
		suggestions: []string{
			"Show Punjab data",
			"Compare two states",
			"What are critical areas?",
			"Show historical trends",
		},
	}
}

package interpreter

import "strings"

func fallbackReply() reply {
	var sb strings.Builder
	sb.WriteString("I'm not sure I understood your query correctly. I have comprehensive groundwater data for all Indian states and can help with:\n\n")
	sb.WriteString("• \"Show me [state] groundwater data\" (e.g., Punjab, Maharashtra, Gujarat)\n")
	sb.WriteString("• \"Compare [state1] and [state2]\" (e.g., Punjab vs Haryana)\n")
	sb.WriteString("• \"Which areas are critical?\" or \"Show over-exploited areas\"\n")
	sb.WriteString("• \"Show historical trends for [state]\" (data from 2021-2025)\n")
	sb.WriteString("• \"What was [state] status in [year]?\"\n")
	sb.WriteString("• \"Help\" for detailed guidance\n\n")
	sb.WriteString("Try rephrasing your question or type \"help\" for more options.")

	return reply{
		intent:                IntentUnknown,
		message:               sb.String(),
		confidence:            confidenceUnknown,
		requiresClarification: true,
		suggestions: []string{
			"Show Punjab data",
			"Which areas are critical?",
			"Help me understand",
			"Compare states",
		},
	}
}

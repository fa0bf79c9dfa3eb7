package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"groundwater-backend/internal/interpreter"
)

func newAskCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := root.interpreter()
			if err != nil {
				return err
			}
			res := in.Answer(strings.Join(args, " "))
			if asJSON {
				return writeJSON(cmd, res)
			}
			printResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full JSON result")
	return cmd
}

func printResult(cmd *cobra.Command, res interpreter.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Message)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "intent: %s  confidence: %.2f  status: %s\n", res.Intent, res.Confidence, res.GroundwaterStatus)
	if res.RequiresClarification {
		fmt.Fprintln(out, "clarification requested")
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintln(out, "try:")
		for _, s := range res.Suggestions {
			fmt.Fprintf(out, "  - %s\n", s)
		}
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExplainCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "explain <question...>",
		Short: "Show which cascade branches fired for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := root.interpreter()
			if err != nil {
				return err
			}
			exp := in.Explain(strings.Join(args, " "))
			if asJSON {
				return writeJSON(cmd, exp)
			}

			out := cmd.OutOrStdout()
			yearSource := "default"
			if exp.YearExplicit {
				yearSource = "explicit"
			}
			fmt.Fprintf(out, "year:        %d (%s)\n", exp.Year, yearSource)
			fmt.Fprintf(out, "comparison:  %t", exp.ComparisonMatched)
			if len(exp.ComparisonRegions) > 0 {
				fmt.Fprintf(out, " [%s]", strings.Join(exp.ComparisonRegions, ", "))
			}
			fmt.Fprintln(out)
			branch := string(exp.CascadeBranch)
			if branch == "" {
				branch = "none"
			}
			fmt.Fprintf(out, "cascade:     %s\n", branch)
			fmt.Fprintf(out, "overwritten: %t\n", exp.Overwritten)
			fmt.Fprintf(out, "fallback:    %t\n", exp.Fallback)
			fmt.Fprintf(out, "intent:      %s (%.2f)\n", exp.Result.Intent, exp.Result.Confidence)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the explanation as JSON")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"groundwater-backend/internal/catalog"
)

func newRegionsCmd(root *rootOptions) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List catalog regions in declaration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}
			regions := cat.Regions()
			if category != "" {
				c, ok := catalog.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				regions = cat.ByCategory(c)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tCATEGORY\tEXTRACTION\tYEARS")
			for _, r := range regions {
				first, last := r.History[0].Year, r.History[len(r.History)-1].Year
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%.0f%%\t%d-%d\n", r.Key, r.Name, r.Category.Emoji(), r.Category, r.ExtractionPct, first, last)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list regions in this category (e.g. over-exploited)")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"groundwater-backend/internal/bootstrap"
	"groundwater-backend/internal/catalog"
	"groundwater-backend/internal/interpreter"
)

type rootOptions struct {
	catalogFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "gwq",
		Short: "Ask groundwater questions against the region catalog",
		Long: "gwq runs the query interpreter locally: answer a question, show how the\n" +
			"intent cascade reached its answer, list regions, or validate and publish a catalog.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: bootstrap.Version,
	}
	cmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "Catalog YAML file (defaults to the built-in catalog)")

	cmd.AddCommand(
		newAskCmd(opts),
		newExplainCmd(opts),
		newRegionsCmd(opts),
		newCatalogCmd(),
	)
	return cmd
}

func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogFile == "" {
		return catalog.Default()
	}
	return loadCatalogFile(o.catalogFile)
}

func (o *rootOptions) interpreter() (*interpreter.Interpreter, error) {
	cat, err := o.loadCatalog()
	if err != nil {
		return nil, err
	}
	return interpreter.New(cat)
}

func loadCatalogFile(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return catalog.Load(f)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

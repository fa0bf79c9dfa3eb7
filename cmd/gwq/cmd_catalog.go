package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"groundwater-backend/internal/bootstrap"
	"groundwater-backend/internal/catalog"
	"groundwater-backend/internal/shared/config"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate or publish a catalog file",
	}
	cmd.AddCommand(newCatalogValidateCmd(), newCatalogPushCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file without publishing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalogFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d regions\n", cat.Len())
			return nil
		},
	}
}

func newCatalogPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file>",
		Short: "Validate a catalog file and upload it to CATALOG_SOURCE at CATALOG_KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			cat, err := catalog.Load(bytes.NewReader(raw))
			if err != nil {
				return err
			}

			cfg := config.Load()
			store, err := bootstrap.BuildStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("CATALOG_SOURCE=%s has no store; set it to local or s3", cfg.CatalogSource)
			}
			n, err := store.Put(cmd.Context(), cfg.CatalogKey, "application/yaml", bytes.NewReader(raw))
			if err != nil {
				return fmt.Errorf("upload catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %d regions (%d bytes) to %s:%s\n", cat.Len(), n, cfg.CatalogSource, cfg.CatalogKey)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ludex/internal/catalog"
	"ludex/internal/config"
	"ludex/internal/reconcile"
	"ludex/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one catalog reconciliation cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				engine := reconcile.NewEngine(cfg, store, scanner.NewFromConfig(cfg), nil)
				report, err := engine.Scan(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, report)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scan %s complete: %s\n", report.ScanID, report.Summary())
				for _, failure := range report.Failures {
					fmt.Fprintf(out, "  skipped %s: %s\n", failure.Path, failure.Reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the scan report as JSON")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ludex/internal/catalog"
	"ludex/internal/config"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show catalog and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				health, healthErr := store.CheckHealth(cmd.Context())

				if jsonOut {
					payload := map[string]any{
						"catalog":  stats,
						"database": health,
					}
					if healthErr != nil {
						payload["database_error"] = healthErr.Error()
					}
					return writeJSON(cmd, payload)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				fmt.Fprintln(out, "Catalog")
				fmt.Fprintln(out, renderStatusLine("Library", statusInfo, cfg.Paths.LibraryDir, colorize))
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, store.Path(), colorize))
				fmt.Fprintln(out, renderStatusLine("Active entries", statusInfo, fmt.Sprintf("%d", stats.Active), colorize))
				fmt.Fprintln(out, renderStatusLine("Deleted entries", statusInfo, fmt.Sprintf("%d", stats.Deleted), colorize))
				fmt.Fprintln(out, renderStatusLine("Early access", statusInfo, fmt.Sprintf("%d", stats.EarlyAccess), colorize))

				fmt.Fprintln(out, "Database health")
				fmt.Fprintln(out, renderStatusLine("Reachable", okWarn(healthErr == nil && health.DatabaseReadable), "", colorize))
				fmt.Fprintln(out, renderStatusLine("Schema", okWarn(health.TableExists), "", colorize))
				fmt.Fprintln(out, renderStatusLine("Integrity", okWarn(health.IntegrityCheck), "", colorize))
				if healthErr != nil {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, healthErr.Error(), colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit status as JSON")
	return cmd
}

func okWarn(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusWarn
}

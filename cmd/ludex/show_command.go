package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ludex/internal/catalog"
	"ludex/internal/config"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog entry in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid entry id %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				entry, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("catalog entry %d not found", id)
				}

				if jsonOut {
					return writeJSON(cmd, entry)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Title:        %s\n", entry.Title)
				if entry.Version != "" {
					fmt.Fprintf(out, "Version:      %s\n", entry.Version)
				}
				fmt.Fprintf(out, "Released:     %s\n", entry.ReleaseDate.Format("2006"))
				fmt.Fprintf(out, "Early access: %s\n", yesNo(entry.EarlyAccess))
				fmt.Fprintf(out, "Size:         %s (%d bytes)\n", humanize.IBytes(uint64(entry.Size)), entry.Size)
				fmt.Fprintf(out, "Path:         %s\n", entry.FilePath)
				fmt.Fprintf(out, "Cataloged:    %s\n", entry.CreatedAt.Format(time.RFC3339))
				fmt.Fprintf(out, "Updated:      %s\n", entry.UpdatedAt.Format(time.RFC3339))
				if entry.Deleted() {
					fmt.Fprintf(out, "Deleted:      %s\n", entry.DeletedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the entry as JSON")
	return cmd
}

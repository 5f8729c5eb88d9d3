package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"ludex/internal/catalog"
	"ludex/internal/config"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var includeDeleted bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged game archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				entries, err := store.List(cmd.Context(), includeDeleted)
				if err != nil {
					return err
				}
				sortByTitle(entries)

				if jsonOut {
					return writeJSON(cmd, map[string]any{"entries": entries})
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Catalog is empty. Run `ludex scan` to index the library.")
					return nil
				}

				rows := make([]table.Row, 0, len(entries))
				for _, entry := range entries {
					state := "active"
					if entry.Deleted() {
						state = "deleted"
					}
					rows = append(rows, table.Row{
						entry.ID,
						entry.DisplayName(),
						entry.ReleaseDate.Format("2006"),
						yesNo(entry.EarlyAccess),
						humanize.IBytes(uint64(entry.Size)),
						state,
						entry.FilePath,
					})
				}
				fmt.Fprintln(out, renderTable(
					table.Row{"ID", "Title", "Year", "EA", "Size", "State", "Path"},
					rows, 1, 5,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&includeDeleted, "deleted", false, "Include soft-deleted entries")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit entries as JSON")
	return cmd
}

// sortByTitle orders entries with locale-aware, case-insensitive collation so
// titles group the way a person expects, with path as the tie-breaker.
func sortByTitle(entries []*catalog.Entry) {
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := c.CompareString(entries[i].Title, entries[j].Title); cmp != 0 {
			return cmp < 0
		}
		return entries[i].FilePath < entries[j].FilePath
	})
}

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"questlog/internal/enrichment"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search the catalog for a game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			enricher, err := ctx.newEnricher(nil)
			if err != nil {
				return err
			}
			results, err := enricher.Search(cmd.Context(), title)
			if err != nil {
				var searchErr *enrichment.SearchError
				if errors.As(err, &searchErr) {
					return errors.New(searchErr.Failure.Message())
				}
				return err
			}
			if asJSON {
				return writeJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No catalog results for %q\n", title)
				return nil
			}
			styled := shouldColorize(out)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				name := r.Record.Name
				if r.BestMatch {
					name += " *"
				}
				year := "-"
				if r.Record.ReleaseDate != nil {
					year = strconv.Itoa(r.Record.ReleaseDate.Year())
				}
				role := displayRole(string(r.Resolution.Role))
				if r.Resolution.Variant && !strings.Contains(role, "Variant") {
					role += " (variant)"
				}
				rows = append(rows, []string{
					strconv.FormatInt(r.Record.ID, 10),
					name,
					year,
					role,
					colorScore(r.Record.PressScore, styled),
					strings.Join(r.Record.Platforms, ", "),
				})
			}
			fmt.Fprint(out, renderTable(searchColumns, rows, styled))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"questlog/internal/enrichment"
	"questlog/internal/library"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "enrich [id...]",
		Short: "Fill games with catalog metadata and review scores",
		Long: "Enrich the given games, every game never enriched before, or the whole\n" +
			"library with --all. Sources that fail leave their fields unchanged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store) error {
				games, err := selectGames(cmd, store, args, all)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(games) == 0 {
					fmt.Fprintln(out, "Nothing to enrich")
					return nil
				}
				enricher, err := ctx.newEnricher(store)
				if err != nil {
					return err
				}
				summary, err := enricher.EnrichAll(cmd.Context(), games)
				if errors.Is(err, enrichment.ErrRunInProgress) {
					return fmt.Errorf("%w; wait for it to finish", err)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Enriched %d of %d games in %s (%d failed, run %s)\n",
					summary.Enriched, summary.Total, summary.Elapsed.Round(time.Millisecond), summary.Failed, summary.RunID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Re-enrich every game in the library")
	return cmd
}

func selectGames(cmd *cobra.Command, store *library.Store, args []string, all bool) ([]library.Game, error) {
	if len(args) == 0 {
		if all {
			return store.List(cmd.Context())
		}
		return store.ListUnenriched(cmd.Context())
	}
	games := make([]library.Game, 0, len(args))
	for _, raw := range args {
		id, err := parseGameID(raw)
		if err != nil {
			return nil, err
		}
		game, err := store.Get(cmd.Context(), id)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return nil, fmt.Errorf("game #%d not found", id)
		}
		games = append(games, *game)
	}
	return games, nil
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"questlog/internal/library"
	"questlog/internal/textutil"
)

func newDLCCommand(ctx *commandContext) *cobra.Command {
	dlcCmd := &cobra.Command{
		Use:   "dlc",
		Short: "Track owned DLC",
	}
	dlcCmd.AddCommand(newDLCOwnCommand(ctx))
	dlcCmd.AddCommand(newDLCListCommand(ctx))
	return dlcCmd
}

func newDLCOwnCommand(ctx *commandContext) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "own <game-id> <dlc name>",
		Short: "Mark a DLC of a library game as owned",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			return ctx.withStore(func(store *library.Store) error {
				game, err := requireCatalogGame(cmd, store, id)
				if err != nil {
					return err
				}
				if err := store.SetDLCOwned(cmd.Context(), game.ExternalID, name, !remove); err != nil {
					return err
				}
				verb := "Marked"
				if remove {
					verb = "Cleared"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %q for %s\n", verb, name, game.Title)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Clear ownership instead")
	return cmd
}

func newDLCListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "Show known DLC of a library game and which are owned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *library.Store) error {
				game, err := requireCatalogGame(cmd, store, id)
				if err != nil {
					return err
				}
				owned, err := store.OwnedDLCs(cmd.Context(), game.ExternalID)
				if err != nil {
					return err
				}
				ownedKeys := make(map[string]string, len(owned))
				for _, dlc := range owned {
					ownedKeys[dlc.NameKey] = dlc.Name
				}

				var rows [][]string
				for _, name := range game.DLCNames {
					key := textutil.Key(name)
					_, has := ownedKeys[key]
					delete(ownedKeys, key)
					rows = append(rows, []string{name, strconv.FormatBool(has)})
				}
				// Owned entries the catalog no longer lists.
				for _, dlc := range owned {
					if _, left := ownedKeys[dlc.NameKey]; left {
						rows = append(rows, []string{dlc.Name, "true"})
					}
				}
				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintf(out, "No DLC known for %s\n", game.Title)
					return nil
				}
				fmt.Fprint(out, renderTable(dlcColumns, rows, shouldColorize(out)))
				return nil
			})
		},
	}
}

func requireCatalogGame(cmd *cobra.Command, store *library.Store, id int64) (*library.Game, error) {
	game, err := store.Get(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game #%d not found", id)
	}
	if game.ExternalID == 0 {
		return nil, fmt.Errorf("%s has no catalog id; run enrich or update --external-id first", game.Title)
	}
	return game, nil
}

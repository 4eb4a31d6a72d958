package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"questlog/internal/library"
)

type gameFlags struct {
	platform   string
	status     string
	rating     int
	hours      float64
	externalID int64
	clearRate  bool
}

func (f *gameFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.platform, "platform", "p", "", "Platform the game is owned on")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "Backlog, Playing or Completed")
	cmd.Flags().IntVarP(&f.rating, "rating", "r", 0, "Personal rating from 0 to 10")
	cmd.Flags().Float64Var(&f.hours, "hours", 0, "Hours played")
	cmd.Flags().Int64Var(&f.externalID, "external-id", 0, "Catalog id as shown by the search command")
}

// apply copies every flag the user set onto game.
func (f *gameFlags) apply(cmd *cobra.Command, game *library.Game) error {
	flags := cmd.Flags()
	if flags.Changed("platform") {
		game.Platform = strings.TrimSpace(f.platform)
	}
	if flags.Changed("status") {
		status, ok := library.ParseStatus(f.status)
		if !ok {
			return fmt.Errorf("unknown status %q (want Backlog, Playing or Completed)", f.status)
		}
		game.Status = status
	}
	if flags.Changed("rating") {
		rating := f.rating
		game.Rating = &rating
	}
	if f.clearRate {
		game.Rating = nil
	}
	if flags.Changed("hours") {
		game.HoursPlayed = f.hours
	}
	if flags.Changed("external-id") {
		game.ExternalID = f.externalID
	}
	return nil
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags gameFlags

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a game to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game := library.Game{Title: strings.Join(args, " "), Status: library.StatusBacklog}
			if err := flags.apply(cmd, &game); err != nil {
				return err
			}
			return ctx.withStore(func(store *library.Store) error {
				if game.ExternalID > 0 {
					existing, err := store.FindByExternal(cmd.Context(), game.ExternalID, game.Platform)
					if err != nil {
						return err
					}
					if existing != nil {
						return fmt.Errorf("%s on %s is already in the library as #%d", existing.Title, existing.Platform, existing.ID)
					}
				}
				added, err := store.Add(cmd.Context(), game)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s (%s)\n", added.ID, added.Title, added.Platform)
				return nil
			})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("platform")
	return cmd
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags gameFlags
	var title string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a game's progress, rating or details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *library.Store) error {
				game, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if game == nil {
					return fmt.Errorf("game #%d not found", id)
				}
				if cmd.Flags().Changed("title") {
					game.Title = strings.TrimSpace(title)
				}
				if err := flags.apply(cmd, game); err != nil {
					return err
				}
				if err := store.Update(cmd.Context(), game); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s [%s, %s h, rating %s]\n",
					game.ID, game.Title, game.Status, formatHours(game.HoursPlayed), optionalInt(game.Rating))
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().BoolVar(&flags.clearRate, "clear-rating", false, "Remove the personal rating")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a game from the library",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *library.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("game #%d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d\n", id)
				return nil
			})
		},
	}
}

func parseGameID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("game id must be a positive number")
	}
	return id, nil
}

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"questlog/internal/library"
	"questlog/internal/query"
)

type listFlags struct {
	search      string
	sort        string
	platforms   []string
	genres      []string
	statuses    []string
	developers  []string
	publishers  []string
	ageRatings  []string
	metacritic  []string
	years       []int
	tiers       []string
	hourBuckets []string
	asJSON      bool
}

func (f listFlags) input() (query.Input, error) {
	mode, err := query.ParseSortMode(f.sort)
	if err != nil {
		return query.Input{}, err
	}
	statuses := make([]library.Status, 0, len(f.statuses))
	for _, raw := range f.statuses {
		status, ok := library.ParseStatus(raw)
		if !ok {
			return query.Input{}, fmt.Errorf("unknown status %q", raw)
		}
		statuses = append(statuses, status)
	}
	if err := checkLabels("tier", f.tiers, query.Tiers()); err != nil {
		return query.Input{}, err
	}
	if err := checkLabels("hours", f.hourBuckets, query.HourBuckets()); err != nil {
		return query.Input{}, err
	}
	if err := checkLabels("metacritic", f.metacritic, query.MetacriticBuckets()); err != nil {
		return query.Input{}, err
	}
	return query.Input{
		Search: f.search,
		Sort:   mode,
		Filters: query.Filters{
			Platforms:   f.platforms,
			Genres:      f.genres,
			Statuses:    statuses,
			Developers:  f.developers,
			Publishers:  f.publishers,
			AgeRatings:  f.ageRatings,
			Metacritic:  f.metacritic,
			Years:       f.years,
			Tiers:       f.tiers,
			HourBuckets: f.hourBuckets,
		},
	}, nil
}

func checkLabels(facet string, values, known []string) error {
	for _, v := range values {
		if !slices.Contains(known, v) {
			return fmt.Errorf("unknown %s bucket %q (want one of: %s)", facet, v, strings.Join(known, ", "))
		}
	}
	return nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the library grouped by the sort facet",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *library.Store) error {
				games, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				view := query.Run(games, in)
				if flags.asJSON {
					return writeJSON(cmd, view)
				}
				printView(cmd, view)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.search, "search", "q", "", "Title substring, accent and case insensitive")
	f.StringVar(&flags.sort, "sort", "title", "Sort and group by: title, platform, status, tier or hours")
	f.StringSliceVar(&flags.platforms, "platform", nil, "Platform filter (repeatable)")
	f.StringSliceVar(&flags.genres, "genre", nil, "Genre filter (repeatable)")
	f.StringSliceVar(&flags.statuses, "status", nil, "Status filter (repeatable)")
	f.StringSliceVar(&flags.developers, "developer", nil, "Developer filter (repeatable)")
	f.StringSliceVar(&flags.publishers, "publisher", nil, "Publisher filter (repeatable)")
	f.StringSliceVar(&flags.ageRatings, "age-rating", nil, "Age rating tag filter such as \"PEGI 18\" (repeatable)")
	f.StringSliceVar(&flags.metacritic, "metacritic", nil, "Press score bucket: 90+, 75-89, 50-74 or Otros (repeatable)")
	f.IntSliceVar(&flags.years, "year", nil, "Release year filter (repeatable)")
	f.StringSliceVar(&flags.tiers, "tier", nil, "Tier filter such as S+ or \"Sin Puntuación\" (repeatable)")
	f.StringSliceVar(&flags.hourBuckets, "hours", nil, "Hour bucket such as \"+10 horas\" or \"Sin empezar\" (repeatable)")
	f.BoolVar(&flags.asJSON, "json", false, "Print the grouped view as JSON")
	return cmd
}

func printView(cmd *cobra.Command, view query.View) {
	out := cmd.OutOrStdout()
	if view.Total == 0 {
		fmt.Fprintln(out, "No games match")
		return
	}
	styled := shouldColorize(out)
	for i, group := range view.Groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, renderSectionHeader(group.Label, len(group.Games), styled))
		rows := make([][]string, 0, len(group.Games))
		for _, g := range group.Games {
			rows = append(rows, []string{
				fmt.Sprintf("%d", g.ID),
				g.Title,
				g.Platform,
				string(g.Status),
				query.Tier(g.Rating),
				formatHours(g.HoursPlayed),
				colorScore(g.CriticScore, styled),
				colorScore(g.UserScore, styled),
			})
		}
		fmt.Fprint(out, renderTable(listColumns, rows, styled))
	}
}

package query

import (
	"strings"

	"questlog/internal/library"
	"questlog/internal/textutil"
)

// Input is everything that shapes a view besides the collection itself.
type Input struct {
	Search  string
	Filters Filters
	Sort    SortMode
}

// Group is one labeled section of a view.
type Group struct {
	Label string         `json:"label"`
	Games []library.Game `json:"games"`
}

// View is the grouped result of a query. Groups appear in the order their
// first game appears in the sorted sequence.
type View struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

// Labels returns group labels in display order.
func (v View) Labels() []string {
	labels := make([]string, 0, len(v.Groups))
	for _, g := range v.Groups {
		labels = append(labels, g.Label)
	}
	return labels
}

// Group returns the games under label.
func (v View) Group(label string) ([]library.Game, bool) {
	for _, g := range v.Groups {
		if g.Label == label {
			return g.Games, true
		}
	}
	return nil, false
}

// Games flattens the view back into its sorted sequence.
func (v View) Games() []library.Game {
	out := make([]library.Game, 0, v.Total)
	for _, g := range v.Groups {
		out = append(out, g.Games...)
	}
	return out
}

// Run filters, sorts and groups collection. It never mutates its arguments.
func Run(collection []library.Game, in Input) View {
	needle := textutil.FoldAccents(strings.TrimSpace(in.Search))

	matched := make([]library.Game, 0, len(collection))
	for _, g := range collection {
		if needle != "" && !strings.Contains(textutil.FoldAccents(g.Title), needle) {
			continue
		}
		if !in.Filters.Match(g) {
			continue
		}
		matched = append(matched, g)
	}

	sortGames(matched, in.Sort)

	view := View{Total: len(matched)}
	index := make(map[string]int)
	for _, g := range matched {
		label := groupLabel(g, in.Sort)
		pos, ok := index[label]
		if !ok {
			pos = len(view.Groups)
			index[label] = pos
			view.Groups = append(view.Groups, Group{Label: label})
		}
		view.Groups[pos].Games = append(view.Groups[pos].Games, g)
	}
	return view
}

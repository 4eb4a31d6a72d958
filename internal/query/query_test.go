package query_test

import (
	"reflect"
	"testing"

	"questlog/internal/library"
	"questlog/internal/query"
)

func intp(v int) *int { return &v }

func titles(games []library.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Title)
	}
	return out
}

func TestTier(t *testing.T) {
	cases := []struct {
		rating *int
		want   string
	}{
		{intp(10), "S+"},
		{intp(9), "S"},
		{intp(8), "A"},
		{intp(7), "B"},
		{intp(6), "F"},
		{intp(5), "C"},
		{intp(4), "F"},
		{intp(3), "D"},
		{intp(2), "F"},
		{intp(1), "F"},
		{intp(0), "F"},
		{nil, "Sin Puntuación"},
	}
	for _, tc := range cases {
		if got := query.Tier(tc.rating); got != tc.want {
			t.Fatalf("Tier(%v) = %q, want %q", tc.rating, got, tc.want)
		}
	}
}

func TestHourBucket(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{0, "Sin empezar"},
		{0.5, "Menos de 1 hora"},
		{1, "+1 hora"},
		{12, "+10 horas"},
		{25, "+25 horas"},
		{99.9, "+50 horas"},
		{120, "+100 horas"},
	}
	for _, tc := range cases {
		if got := query.HourBucket(tc.hours); got != tc.want {
			t.Fatalf("HourBucket(%v) = %q, want %q", tc.hours, got, tc.want)
		}
	}
}

func TestHourFilterUsesThresholds(t *testing.T) {
	collection := []library.Game{
		{ID: 1, Title: "Twelve", Platform: "PC", Status: library.StatusPlaying, HoursPlayed: 12},
		{ID: 2, Title: "Zero", Platform: "PC", Status: library.StatusBacklog, HoursPlayed: 0},
	}
	run := func(buckets ...string) []string {
		view := query.Run(collection, query.Input{Filters: query.Filters{HourBuckets: buckets}})
		return titles(view.Games())
	}

	if got := run("+10 horas"); !reflect.DeepEqual(got, []string{"Twelve"}) {
		t.Fatalf("+10 horas = %v", got)
	}
	if got := run("+1 hora"); !reflect.DeepEqual(got, []string{"Twelve"}) {
		t.Fatalf("+1 hora = %v", got)
	}
	if got := run("+25 horas"); len(got) != 0 {
		t.Fatalf("+25 horas = %v", got)
	}
	if got := run("Sin empezar"); !reflect.DeepEqual(got, []string{"Zero"}) {
		t.Fatalf("Sin empezar = %v", got)
	}
	if got := run("Sin empezar", "+25 horas"); !reflect.DeepEqual(got, []string{"Zero"}) {
		t.Fatalf("any-of buckets = %v", got)
	}
}

func TestMetacriticBucket(t *testing.T) {
	cases := []struct {
		score *int
		want  string
	}{
		{intp(97), "90+"},
		{intp(90), "90+"},
		{intp(89), "75-89"},
		{intp(75), "75-89"},
		{intp(74), "50-74"},
		{intp(50), "50-74"},
		{intp(49), "Otros"},
		{nil, "Otros"},
	}
	for _, tc := range cases {
		if got := query.MetacriticBucket(tc.score); got != tc.want {
			t.Fatalf("MetacriticBucket(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestRunTierScenario(t *testing.T) {
	collection := []library.Game{
		{ID: 1, Title: "Zelda", Platform: "Switch", Status: library.StatusCompleted, HoursPlayed: 120, Rating: intp(9)},
		{ID: 2, Title: "Portal", Platform: "PC", Status: library.StatusCompleted, HoursPlayed: 3, Rating: intp(10)},
	}
	view := query.Run(collection, query.Input{Sort: query.SortTier})

	if got := view.Labels(); !reflect.DeepEqual(got, []string{"S+", "S"}) {
		t.Fatalf("labels = %v", got)
	}
	splus, _ := view.Group("S+")
	s, _ := view.Group("S")
	if !reflect.DeepEqual(titles(splus), []string{"Portal"}) || !reflect.DeepEqual(titles(s), []string{"Zelda"}) {
		t.Fatalf("unexpected groups %#v", view.Groups)
	}
}

func sampleCollection() []library.Game {
	return []library.Game{
		{ID: 1, Title: "Ōkami", Platform: "PS2", Status: library.StatusCompleted, HoursPlayed: 40, Rating: intp(10),
			Genre: "Adventure, Action", Developer: "Clover Studio", CriticScore: intp(93)},
		{ID: 2, Title: "celeste", Platform: "Switch", Status: library.StatusPlaying, HoursPlayed: 8, Rating: intp(8),
			Genre: "Platform", Developer: "Maddy Makes Games", CriticScore: intp(92)},
		{ID: 3, Title: "Bastion", Platform: "PC", Status: library.StatusBacklog, HoursPlayed: 0,
			Genre: "Action, RPG", Developer: "Supergiant Games", CriticScore: intp(86)},
		{ID: 4, Title: "Hades", Platform: "PC", Status: library.StatusPlaying, HoursPlayed: 60, Rating: intp(9),
			Genre: "Action, Roguelike", Developer: "Supergiant Games", CriticScore: intp(93)},
		{ID: 5, Title: "1979 Revolution", Platform: "PC", Status: library.StatusCompleted, HoursPlayed: 3, Rating: intp(6),
			Genre: "Adventure"},
	}
}

func TestRunSearchIsAccentInsensitive(t *testing.T) {
	view := query.Run(sampleCollection(), query.Input{Search: "  OKAMI "})
	if got := titles(view.Games()); !reflect.DeepEqual(got, []string{"Ōkami"}) {
		t.Fatalf("search = %v", got)
	}

	view = query.Run(sampleCollection(), query.Input{Search: "as"})
	if got := titles(view.Games()); !reflect.DeepEqual(got, []string{"Bastion"}) {
		t.Fatalf("substring search = %v", got)
	}
}

func TestRunFacetsAreConjunctiveAcrossAndDisjunctiveWithin(t *testing.T) {
	in := query.Input{Filters: query.Filters{
		Genres:    []string{"action"},
		Platforms: []string{"PC", "PS2"},
		Statuses:  []library.Status{library.StatusPlaying, library.StatusCompleted},
	}}
	view := query.Run(sampleCollection(), in)
	if got := titles(view.Games()); !reflect.DeepEqual(got, []string{"Hades", "Ōkami"}) {
		t.Fatalf("facets = %v", got)
	}

	in = query.Input{Filters: query.Filters{
		Developers: []string{"Supergiant Games"},
		Metacritic: []string{"90+"},
	}}
	view = query.Run(sampleCollection(), in)
	if got := titles(view.Games()); !reflect.DeepEqual(got, []string{"Hades"}) {
		t.Fatalf("developer+metacritic = %v", got)
	}

	in = query.Input{Filters: query.Filters{Tiers: []string{"F", "Sin Puntuación"}}}
	view = query.Run(sampleCollection(), in)
	if got := titles(view.Games()); !reflect.DeepEqual(got, []string{"1979 Revolution", "Bastion"}) {
		t.Fatalf("tiers = %v", got)
	}
}

func TestRunSortAndGroup(t *testing.T) {
	cases := []struct {
		name       string
		mode       query.SortMode
		wantOrder  []string
		wantLabels []string
	}{
		{
			name:       "title",
			mode:       query.SortTitle,
			wantOrder:  []string{"1979 Revolution", "Bastion", "celeste", "Hades", "Ōkami"},
			wantLabels: []string{"#", "B", "C", "H", "O"},
		},
		{
			name:       "platform",
			mode:       query.SortPlatform,
			wantOrder:  []string{"1979 Revolution", "Bastion", "Hades", "Ōkami", "celeste"},
			wantLabels: []string{"PC", "PS2", "Switch"},
		},
		{
			name:       "status",
			mode:       query.SortStatus,
			wantOrder:  []string{"celeste", "Hades", "Bastion", "1979 Revolution", "Ōkami"},
			wantLabels: []string{"Playing", "Backlog", "Completed"},
		},
		{
			name:       "tier",
			mode:       query.SortTier,
			wantOrder:  []string{"Ōkami", "Hades", "celeste", "1979 Revolution", "Bastion"},
			wantLabels: []string{"S+", "S", "A", "F", "Sin Puntuación"},
		},
		{
			name:       "hours",
			mode:       query.SortHours,
			wantOrder:  []string{"Hades", "Ōkami", "celeste", "1979 Revolution", "Bastion"},
			wantLabels: []string{"+50 horas", "+25 horas", "+1 hora", "Sin empezar"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := query.Run(sampleCollection(), query.Input{Sort: tc.mode})
			if got := titles(view.Games()); !reflect.DeepEqual(got, tc.wantOrder) {
				t.Fatalf("order = %v, want %v", got, tc.wantOrder)
			}
			if got := view.Labels(); !reflect.DeepEqual(got, tc.wantLabels) {
				t.Fatalf("labels = %v, want %v", got, tc.wantLabels)
			}
			if view.Total != 5 {
				t.Fatalf("total = %d", view.Total)
			}
		})
	}
}

func TestRunIsPure(t *testing.T) {
	collection := sampleCollection()
	snapshot := sampleCollection()
	in := query.Input{Search: "a", Sort: query.SortHours, Filters: query.Filters{Platforms: []string{"PC"}}}

	first := query.Run(collection, in)
	second := query.Run(collection, in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated runs differ:\n%#v\n%#v", first, second)
	}
	if !reflect.DeepEqual(collection, snapshot) {
		t.Fatal("Run mutated its collection")
	}
}

func TestParseSortMode(t *testing.T) {
	mode, err := query.ParseSortMode(" tier ")
	if err != nil || mode != query.SortTier {
		t.Fatalf("ParseSortMode(tier) = %v, %v", mode, err)
	}
	if _, err := query.ParseSortMode("rating"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

package query_test

import (
	"reflect"
	"sync"
	"testing"

	"questlog/internal/library"
	"questlog/internal/query"
)

func TestEngineRecomputesAndNotifies(t *testing.T) {
	engine := query.NewEngine(sampleCollection())

	var views []query.View
	cancel := engine.Subscribe(func(v query.View) { views = append(views, v) })

	if len(views) != 1 || views[0].Total != 5 {
		t.Fatalf("expected initial view on subscribe, got %#v", views)
	}

	engine.SetSearch("hades")
	engine.SetSort(query.SortTier)
	filters := query.Filters{Statuses: []library.Status{library.StatusPlaying}}
	engine.SetFilters(filters)
	filters.Statuses[0] = library.StatusBacklog

	if len(views) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(views))
	}
	last := views[len(views)-1]
	if got := titles(last.Games()); !reflect.DeepEqual(got, []string{"Hades"}) {
		t.Fatalf("last view = %v", got)
	}
	if got := engine.Input().Filters.Statuses; !reflect.DeepEqual(got, []library.Status{library.StatusPlaying}) {
		t.Fatalf("engine kept caller's slice: %v", got)
	}

	cancel()
	engine.SetSearch("")
	if len(views) != 4 {
		t.Fatalf("expected no notification after cancel, got %d", len(views))
	}
	if engine.View().Total != 2 {
		t.Fatalf("expected Playing games only, got %d", engine.View().Total)
	}
}

func TestEngineMatchesRun(t *testing.T) {
	collection := sampleCollection()
	engine := query.NewEngine(collection)
	engine.SetSort(query.SortPlatform)
	engine.SetCollection(collection[:3])

	want := query.Run(collection[:3], query.Input{Sort: query.SortPlatform})
	if !reflect.DeepEqual(engine.View(), want) {
		t.Fatalf("engine view differs from Run:\n%#v\n%#v", engine.View(), want)
	}
}

func TestEngineDeliversViewsInOrder(t *testing.T) {
	engine := query.NewEngine(sampleCollection())

	var (
		mu      sync.Mutex
		last    query.View
		entered = make(chan struct{})
		release = make(chan struct{})
		once    sync.Once
	)
	engine.Subscribe(func(v query.View) {
		if v.Total == 0 {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
		mu.Lock()
		last = v
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		engine.SetSearch("zzz")
	}()
	<-entered

	// Queued behind the blocked delivery; returns without waiting for it.
	engine.SetSearch("")
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if last.Total != engine.View().Total || last.Total != 5 {
		t.Fatalf("subscriber saw total %d, engine has %d", last.Total, engine.View().Total)
	}
}

func TestEngineSubscriberMayChangeInputs(t *testing.T) {
	engine := query.NewEngine(sampleCollection())

	var totals []int
	engine.Subscribe(func(v query.View) {
		totals = append(totals, v.Total)
		if len(totals) == 2 {
			engine.SetSearch("")
		}
	})
	engine.SetSearch("hades")

	if !reflect.DeepEqual(totals, []int{5, 1, 5}) {
		t.Fatalf("notifications = %v", totals)
	}
}

func TestEngineViewIsACopy(t *testing.T) {
	engine := query.NewEngine(sampleCollection())

	view := engine.View()
	view.Groups[0].Games[0].Title = "Mutated"
	view.Groups[0] = query.Group{Label: "X"}

	again := engine.View()
	if again.Groups[0].Label == "X" || again.Groups[0].Games[0].Title == "Mutated" {
		t.Fatalf("engine state changed through a returned view: %#v", again.Groups[0])
	}
}

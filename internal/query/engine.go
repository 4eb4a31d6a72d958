package query

import (
	"slices"
	"sync"

	"questlog/internal/library"
)

// Engine keeps the collection and the query inputs as mutable state and
// recomputes the view synchronously on every change.
//
// Notifications are delivered one at a time in the order the views were
// computed. The goroutine that finds no delivery in progress drains the
// queue; a change made meanwhile, including one made from inside a
// subscriber, is queued and delivered by that goroutine, so setters never
// block on each other's subscribers.
type Engine struct {
	mu         sync.Mutex
	collection []library.Game
	input      Input
	view       View
	seq        uint64
	subs       map[int]*subscription
	nextSub    int
	pending    []notification
	delivering bool
}

type subscription struct {
	fn func(View)
	// since is the sequence of the view handed over on subscribe; older
	// queued views are not delivered to this subscriber.
	since uint64
}

type notification struct {
	view   View
	seq    uint64
	target int // -1 delivers to every subscriber
}

// NewEngine returns an engine over collection sorted by title.
func NewEngine(collection []library.Game) *Engine {
	e := &Engine{
		collection: slices.Clone(collection),
		subs:       make(map[int]*subscription),
	}
	e.view = Run(e.collection, e.input)
	return e
}

// View returns a copy of the current view. Group and game slices are not
// shared with the engine.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.clone()
}

// Input returns a copy of the current inputs.
func (e *Engine) Input() Input {
	e.mu.Lock()
	defer e.mu.Unlock()
	in := e.input
	in.Filters = in.Filters.Clone()
	return in
}

// SetSearch replaces the free-text query.
func (e *Engine) SetSearch(text string) {
	e.update(func() { e.input.Search = text })
}

// SetFilters replaces the active filter set.
func (e *Engine) SetFilters(filters Filters) {
	filters = filters.Clone()
	e.update(func() { e.input.Filters = filters })
}

// SetSort replaces the sort mode.
func (e *Engine) SetSort(mode SortMode) {
	e.update(func() { e.input.Sort = mode })
}

// SetCollection replaces the owned collection.
func (e *Engine) SetCollection(collection []library.Game) {
	collection = slices.Clone(collection)
	e.update(func() { e.collection = collection })
}

// Subscribe registers fn and hands it the current view. Unless another
// goroutine is delivering at that moment, fn has run by the time Subscribe
// returns. The returned function removes the subscription.
func (e *Engine) Subscribe(fn func(View)) (cancel func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = &subscription{fn: fn, since: e.seq}
	e.pending = append(e.pending, notification{view: e.view, seq: e.seq, target: id})
	e.startDelivery()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Engine) update(apply func()) {
	e.mu.Lock()
	apply()
	e.view = Run(e.collection, e.input)
	e.seq++
	e.pending = append(e.pending, notification{view: e.view, seq: e.seq, target: -1})
	e.startDelivery()
}

// startDelivery is called with e.mu held and releases it.
func (e *Engine) startDelivery() {
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true
	e.mu.Unlock()
	e.drain()
}

func (e *Engine) drain() {
	finished := false
	defer func() {
		if !finished {
			// A subscriber panicked; let the next change deliver again.
			e.mu.Lock()
			e.delivering = false
			e.mu.Unlock()
		}
	}()

	for {
		e.mu.Lock()
		if len(e.pending) == 0 {
			e.delivering = false
			e.mu.Unlock()
			finished = true
			return
		}
		next := e.pending[0]
		e.pending = e.pending[1:]
		targets := e.targets(next)
		e.mu.Unlock()

		for _, fn := range targets {
			fn(next.view.clone())
		}
	}
}

// targets lists the subscribers next goes to, in subscription order.
func (e *Engine) targets(next notification) []func(View) {
	if next.target >= 0 {
		if sub, ok := e.subs[next.target]; ok {
			return []func(View){sub.fn}
		}
		return nil
	}
	fns := make([]func(View), 0, len(e.subs))
	for id := 0; id < e.nextSub; id++ {
		if sub, ok := e.subs[id]; ok && next.seq > sub.since {
			fns = append(fns, sub.fn)
		}
	}
	return fns
}

func (v View) clone() View {
	out := View{Total: v.Total, Groups: slices.Clone(v.Groups)}
	for i := range out.Groups {
		out.Groups[i].Games = slices.Clone(out.Groups[i].Games)
	}
	return out
}

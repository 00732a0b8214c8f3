package scheduler

import "time"

// Group tracks every handle it issues so an owner can cancel all of its
// outstanding work in one teardown call.
type Group struct {
	parent Scheduler
	live   map[Handle]struct{}
}

// NewGroup wraps parent.
func NewGroup(parent Scheduler) *Group {
	return &Group{parent: parent, live: make(map[Handle]struct{})}
}

func (g *Group) track(schedule func(func()) Handle, fn func()) Handle {
	var h Handle
	h = schedule(func() {
		delete(g.live, h)
		fn()
	})
	g.live[h] = struct{}{}
	return h
}

// RequestFrame implements Scheduler.
func (g *Group) RequestFrame(fn func()) Handle {
	return g.track(g.parent.RequestFrame, fn)
}

// AfterFunc implements Scheduler.
func (g *Group) AfterFunc(d time.Duration, fn func()) Handle {
	return g.track(func(f func()) Handle {
		return g.parent.AfterFunc(d, f)
	}, fn)
}

// Cancel implements Scheduler.
func (g *Group) Cancel(h Handle) {
	if _, ok := g.live[h]; !ok {
		return
	}
	delete(g.live, h)
	g.parent.Cancel(h)
}

// Outstanding returns the number of callbacks not yet run or cancelled.
func (g *Group) Outstanding() int {
	return len(g.live)
}

// CancelAll cancels every outstanding callback issued through the group.
func (g *Group) CancelAll() {
	for h := range g.live {
		g.parent.Cancel(h)
	}
	g.live = make(map[Handle]struct{})
}

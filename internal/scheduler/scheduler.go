// Package scheduler provides the cooperative frame and timer scheduling used by
// the card view. Nothing here spawns goroutines: callbacks run on whichever
// goroutine drives the Loop, which keeps layout and pagination state
// single-threaded.
package scheduler

import (
	"sort"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler defers work to a future rendering frame or to a point in time.
type Scheduler interface {
	// RequestFrame runs fn on the next frame boundary.
	RequestFrame(fn func()) Handle
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Handle
	// Cancel drops a scheduled callback. Unknown or fired handles are ignored.
	Cancel(h Handle)
}

type task struct {
	id  Handle
	due time.Time
	fn  func()
}

// Loop is a Scheduler advanced explicitly by its host. The bubbletea program
// calls Advance/Frame from Update on every frame tick; tests drive it by hand.
//
// Loop is not safe for concurrent use.
type Loop struct {
	now    time.Time
	nextID Handle
	frames []task
	timers []task
	// running holds the rest of the batch Frame is working through, so a
	// callback can still cancel a later one in the same frame.
	running []task
}

// NewLoop returns a loop whose clock starts at start.
func NewLoop(start time.Time) *Loop {
	return &Loop{now: start}
}

// Now reports the loop clock.
func (l *Loop) Now() time.Time {
	return l.now
}

func (l *Loop) issue() Handle {
	l.nextID++
	return l.nextID
}

// RequestFrame queues fn for the next call to Frame.
func (l *Loop) RequestFrame(fn func()) Handle {
	id := l.issue()
	l.frames = append(l.frames, task{id: id, fn: fn})
	return id
}

// AfterFunc queues fn to run once the clock reaches now+d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	id := l.issue()
	l.timers = append(l.timers, task{id: id, due: l.now.Add(d), fn: fn})
	sort.SliceStable(l.timers, func(i, j int) bool {
		return l.timers[i].due.Before(l.timers[j].due)
	})
	return id
}

// Cancel removes h from the frame and timer queues, including the part of
// the current frame that has not run yet.
func (l *Loop) Cancel(h Handle) {
	if h == 0 {
		return
	}
	for i, t := range l.running {
		if t.id == h {
			l.running = append(l.running[:i:i], l.running[i+1:]...)
			return
		}
	}
	for i, t := range l.frames {
		if t.id == h {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
	for i, t := range l.timers {
		if t.id == h {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
}

// Frame runs the frame callbacks queued before the call. Callbacks requested
// while the frame runs land on the following frame. It returns the number of
// callbacks executed.
func (l *Loop) Frame() int {
	l.running = l.frames
	l.frames = nil
	ran := 0
	for len(l.running) > 0 {
		t := l.running[0]
		l.running = l.running[1:]
		t.fn()
		ran++
	}
	return ran
}

// Advance moves the clock forward by d and runs every timer that falls due,
// including timers scheduled by callbacks within the window.
func (l *Loop) Advance(d time.Duration) int {
	return l.AdvanceTo(l.now.Add(d))
}

// AdvanceTo moves the clock to target. A target in the past is ignored apart
// from running timers that are already due.
func (l *Loop) AdvanceTo(target time.Time) int {
	ran := 0
	for len(l.timers) > 0 && !l.timers[0].due.After(target) {
		t := l.timers[0]
		l.timers = l.timers[1:]
		if t.due.After(l.now) {
			l.now = t.due
		}
		t.fn()
		ran++
	}
	if target.After(l.now) {
		l.now = target
	}
	return ran
}

// Pending reports whether any frame callback or timer is queued.
func (l *Loop) Pending() bool {
	return len(l.frames) > 0 || len(l.timers) > 0
}

// FramesQueued reports whether a frame callback is waiting for the next
// Frame call.
func (l *Loop) FramesQueued() bool {
	return len(l.frames) > 0
}

// NextDue returns the due time of the earliest timer.
func (l *Loop) NextDue() (time.Time, bool) {
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].due, true
}

// Stop drops every queued callback.
func (l *Loop) Stop() {
	l.running = nil
	l.frames = nil
	l.timers = nil
}

package scheduler

import (
	"testing"
	"time"
)

func TestLoopFrameDefersNestedRequests(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	var order []string

	loop.RequestFrame(func() {
		order = append(order, "outer")
		loop.RequestFrame(func() {
			order = append(order, "inner")
		})
	})

	if ran := loop.Frame(); ran != 1 {
		t.Fatalf("expected one callback on first frame, got %d", ran)
	}
	if len(order) != 1 || order[0] != "outer" {
		t.Fatalf("unexpected order after first frame: %v", order)
	}

	if !loop.FramesQueued() {
		t.Fatalf("expected nested request to be queued")
	}
	loop.Frame()
	if len(order) != 2 || order[1] != "inner" {
		t.Fatalf("expected nested request on second frame, got %v", order)
	}
	if loop.Pending() {
		t.Fatalf("expected loop to be drained")
	}
}

func TestLoopAdvanceRunsTimersInDueOrder(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	var order []int

	loop.AfterFunc(30*time.Millisecond, func() { order = append(order, 30) })
	loop.AfterFunc(10*time.Millisecond, func() {
		order = append(order, 10)
		loop.AfterFunc(5*time.Millisecond, func() { order = append(order, 15) })
	})
	loop.AfterFunc(50*time.Millisecond, func() { order = append(order, 50) })

	loop.Advance(40 * time.Millisecond)

	want := []int{10, 15, 30}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}

	if due, ok := loop.NextDue(); !ok || !due.Equal(time.Unix(0, 0).Add(50*time.Millisecond)) {
		t.Fatalf("expected remaining timer at 50ms, got %v (ok=%v)", due, ok)
	}
}

func TestLoopCancel(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	fired := false

	h := loop.AfterFunc(time.Millisecond, func() { fired = true })
	f := loop.RequestFrame(func() { fired = true })
	loop.Cancel(h)
	loop.Cancel(f)
	loop.Cancel(0)

	loop.Frame()
	loop.Advance(time.Second)
	if fired {
		t.Fatalf("cancelled callbacks must not run")
	}
}

func TestLoopCancelWithinFrameSkipsLaterCallback(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	var later Handle
	laterRan := false

	loop.RequestFrame(func() { loop.Cancel(later) })
	later = loop.RequestFrame(func() { laterRan = true })

	if ran := loop.Frame(); ran != 1 {
		t.Fatalf("expected only the cancelling callback to run, got %d", ran)
	}
	if laterRan {
		t.Fatalf("callback cancelled earlier in the same frame still ran")
	}
	if loop.Pending() {
		t.Fatalf("expected loop to be drained")
	}
}

func TestGroupCancelAll(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	group := NewGroup(loop)
	fired := 0

	group.RequestFrame(func() { fired++ })
	group.AfterFunc(time.Millisecond, func() { fired++ })
	other := loop.AfterFunc(time.Millisecond, func() { fired += 10 })
	_ = other

	if got := group.Outstanding(); got != 2 {
		t.Fatalf("expected 2 outstanding, got %d", got)
	}

	group.CancelAll()
	loop.Frame()
	loop.Advance(time.Second)

	if fired != 10 {
		t.Fatalf("expected only the ungrouped timer to fire, got %d", fired)
	}
	if got := group.Outstanding(); got != 0 {
		t.Fatalf("expected nothing outstanding, got %d", got)
	}
}

func TestGroupForgetsFiredHandles(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	group := NewGroup(loop)

	group.RequestFrame(func() {})
	loop.Frame()

	if got := group.Outstanding(); got != 0 {
		t.Fatalf("expected fired handle to be forgotten, got %d outstanding", got)
	}
}

func TestCoalescerLeadingAndTrailing(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	runs := 0
	c := NewCoalescer(loop, Options{Cooldown: 100 * time.Millisecond, Trailing: true}, func() { runs++ })

	c.Trigger()
	if runs != 1 {
		t.Fatalf("expected leading run, got %d", runs)
	}

	c.Trigger()
	c.Trigger()
	loop.Advance(50 * time.Millisecond)
	if runs != 1 {
		t.Fatalf("expected triggers inside cooldown to be merged, got %d", runs)
	}

	loop.Advance(50 * time.Millisecond)
	if runs != 2 {
		t.Fatalf("expected a single trailing run, got %d", runs)
	}

	loop.Advance(time.Second)
	if runs != 2 {
		t.Fatalf("expected no further runs without triggers, got %d", runs)
	}
}

func TestCoalescerWithoutTrailingDropsCooldownTriggers(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	runs := 0
	c := NewCoalescer(loop, Options{Cooldown: 100 * time.Millisecond}, func() { runs++ })

	c.Trigger()
	c.Trigger()
	loop.Advance(time.Second)
	if runs != 1 {
		t.Fatalf("expected one run, got %d", runs)
	}

	c.Trigger()
	if runs != 2 {
		t.Fatalf("expected a new leading run after cooldown, got %d", runs)
	}
}

func TestCoalescerDelayMergesBurst(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	runs := 0
	c := NewCoalescer(loop, Options{Delay: 300 * time.Millisecond}, func() { runs++ })

	for i := 0; i < 5; i++ {
		c.Trigger()
		loop.Advance(20 * time.Millisecond)
	}
	if runs != 0 {
		t.Fatalf("expected delayed run, got %d", runs)
	}
	if !c.Busy() {
		t.Fatalf("expected coalescer to be busy while waiting")
	}

	loop.Advance(300 * time.Millisecond)
	if runs != 1 {
		t.Fatalf("expected burst to collapse into one run, got %d", runs)
	}
}

func TestCoalescerFlushAndCancel(t *testing.T) {
	loop := NewLoop(time.Unix(0, 0))
	runs := 0
	c := NewCoalescer(loop, Options{Delay: time.Second}, func() { runs++ })

	c.Trigger()
	c.Flush()
	if runs != 1 {
		t.Fatalf("expected flush to run immediately, got %d", runs)
	}

	c.Trigger()
	c.Cancel()
	loop.Advance(time.Minute)
	if runs != 1 {
		t.Fatalf("expected cancelled run to be dropped, got %d", runs)
	}
	if c.Busy() {
		t.Fatalf("expected idle coalescer after cancel")
	}
}

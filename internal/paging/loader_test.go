package paging

import (
	"testing"
	"time"

	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/scheduler"
)

type fakeRegion struct {
	geo   Geometry
	reads int
}

func (r *fakeRegion) Geometry() Geometry {
	r.reads++
	return r.geo
}

// nearBottom is a region scrolled close enough to the end to load.
func nearBottom() *fakeRegion {
	return &fakeRegion{geo: Geometry{ScrollTop: 900, ScrollHeight: 1200, ClientHeight: 200}}
}

func newLoader(t *testing.T, opts Options) (*Loader, *scheduler.Loop) {
	t.Helper()
	loop := scheduler.NewLoop(time.Unix(0, 0))
	opts.Logger = logging.Discard()
	return NewLoader(loop, opts), loop
}

func TestMaybeLoadMoreGrowsToTotal(t *testing.T) {
	l, _ := newLoader(t, Options{})
	l.SetRegion(nearBottom())
	l.Reset("query-a", 47)
	l.SetColumns(3)

	if l.Displayed() != 20 {
		t.Fatalf("expected initial batch of 20, got %d", l.Displayed())
	}
	if got := l.BatchSize(); got != 9 {
		t.Fatalf("expected batch min(3*3, 24) = 9, got %d", got)
	}

	if !l.MaybeLoadMore() || l.Displayed() != 29 {
		t.Fatalf("expected displayed 29, got %d", l.Displayed())
	}

	for l.MaybeLoadMore() {
	}
	if l.Displayed() != 47 {
		t.Fatalf("expected displayed to clamp at 47, got %d", l.Displayed())
	}
	if l.MaybeLoadMore() || l.Displayed() != 47 {
		t.Fatalf("expected further triggers to be no-ops")
	}
	if l.Loading() {
		t.Fatalf("expected guard to be released after commit")
	}
}

func TestBatchSizeCapsAndDefaults(t *testing.T) {
	l, _ := newLoader(t, Options{})
	if got := l.BatchSize(); got != DefaultColumns*DefaultRowsPerColumn {
		t.Fatalf("expected default column estimate, got batch %d", got)
	}

	l.SetColumns(12)
	if got := l.BatchSize(); got != DefaultMaxBatch {
		t.Fatalf("expected batch capped at %d, got %d", DefaultMaxBatch, got)
	}

	l.SetColumns(0)
	if got := l.BatchSize(); got != 6 {
		t.Fatalf("expected cleared estimate to fall back to 2 columns, got %d", got)
	}
}

func TestMaybeLoadMoreRespectsLookAhead(t *testing.T) {
	l, _ := newLoader(t, Options{})
	region := &fakeRegion{geo: Geometry{ScrollTop: 0, ScrollHeight: 2000, ClientHeight: 300}}
	l.SetRegion(region)
	l.Reset("q", 100)

	if l.MaybeLoadMore() {
		t.Fatalf("expected no load while far from the bottom")
	}

	// distance = 2000 - (1400 + 300) = 300 <= 600
	region.geo.ScrollTop = 1400
	if !l.MaybeLoadMore() {
		t.Fatalf("expected load within look-ahead distance")
	}
}

func TestMaybeLoadMoreWithoutRegion(t *testing.T) {
	l, _ := newLoader(t, Options{})
	l.Reset("q", 50)
	if l.MaybeLoadMore() {
		t.Fatalf("expected no load without a scrolling region")
	}
}

func TestLoadGuardBlocksReentrantGrowth(t *testing.T) {
	var l *Loader
	nested := 0
	l, _ = newLoader(t, Options{OnGrow: func(int) {
		if l.MaybeLoadMore() {
			nested++
		}
	}})
	l.SetRegion(nearBottom())
	l.Reset("q", 100)

	l.MaybeLoadMore()
	if nested != 0 {
		t.Fatalf("expected reentrant trigger to be blocked, got %d nested loads", nested)
	}
	if l.Displayed() != 26 {
		t.Fatalf("expected a single batch, displayed=%d", l.Displayed())
	}
}

func TestResetOnIdentityChange(t *testing.T) {
	l, _ := newLoader(t, Options{})
	l.SetRegion(nearBottom())
	l.Reset("sort=title", 80)
	l.MaybeLoadMore()
	l.MaybeLoadMore()
	grown := l.Displayed()

	l.Reset("sort=title", 90)
	if l.Displayed() != grown {
		t.Fatalf("same identity must keep displayed count, got %d want %d", l.Displayed(), grown)
	}

	l.Reset("sort=title", 25)
	if l.Displayed() != 25 {
		t.Fatalf("expected displayed clamped to shrunken total, got %d", l.Displayed())
	}

	l.Reset("sort=mtime", 90)
	if l.Displayed() != 20 {
		t.Fatalf("expected new identity to restart at initial batch, got %d", l.Displayed())
	}

	l.Reset("empty", 0)
	if l.Displayed() != 0 || l.Total() != 0 {
		t.Fatalf("expected empty result set, got %d/%d", l.Displayed(), l.Total())
	}
}

func TestOnScrollThrottle(t *testing.T) {
	grows := 0
	l, loop := newLoader(t, Options{OnGrow: func(int) { grows++ }})
	l.SetRegion(nearBottom())
	l.Reset("q", 200)

	l.OnScroll()
	if grows != 1 {
		t.Fatalf("expected leading-edge load, got %d", grows)
	}

	for i := 0; i < 10; i++ {
		l.OnScroll()
		loop.Advance(5 * time.Millisecond)
	}
	if grows != 1 {
		t.Fatalf("expected scrolls inside the cooldown to wait, got %d", grows)
	}

	loop.Advance(DefaultScrollCooldown)
	if grows != 2 {
		t.Fatalf("expected one trailing check, got %d", grows)
	}
}

func TestInitialCheckRunsOnce(t *testing.T) {
	grows := 0
	l, loop := newLoader(t, Options{OnGrow: func(int) { grows++ }})
	l.SetRegion(nearBottom())
	l.Reset("q", 200)

	l.Start()
	l.Start()
	loop.Advance(DefaultInitialDelay - time.Millisecond)
	if grows != 0 {
		t.Fatalf("expected initial check to wait")
	}
	loop.Advance(time.Millisecond)
	if grows != 1 {
		t.Fatalf("expected exactly one initial load, got %d", grows)
	}

	l.Start()
	loop.Advance(time.Second)
	if grows != 1 {
		t.Fatalf("initial check must only run once, got %d", grows)
	}
}

func TestContainerResizeOnlyClearsGuard(t *testing.T) {
	grows := 0
	l, _ := newLoader(t, Options{OnGrow: func(int) { grows++ }})
	l.SetRegion(nearBottom())
	l.Reset("q", 200)

	l.loading = true
	l.OnWindowResize()
	if grows != 0 {
		t.Fatalf("expected guard to block window resize trigger")
	}

	l.OnContainerResize()
	if l.Loading() || grows != 0 {
		t.Fatalf("container resize must clear the guard without loading")
	}

	l.OnWindowResize()
	if grows != 1 {
		t.Fatalf("expected window resize to load once unguarded, got %d", grows)
	}
}

func TestCloseCancelsChecks(t *testing.T) {
	grows := 0
	l, loop := newLoader(t, Options{OnGrow: func(int) { grows++ }})
	l.SetRegion(nearBottom())
	l.Reset("q", 200)

	l.Start()
	l.OnScroll()
	l.OnScroll()
	l.Close()

	loop.Advance(time.Minute)
	if grows != 1 {
		t.Fatalf("expected only the leading scroll load, got %d", grows)
	}
	if loop.Pending() {
		t.Fatalf("expected no scheduled work after close")
	}
}

type fakeNode struct {
	fakeRegion
	scrollable bool
	parent     *fakeNode
}

func (n *fakeNode) Scrollable() bool { return n.scrollable }

func (n *fakeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func TestResolveRegion(t *testing.T) {
	root := &fakeNode{}
	pane := &fakeNode{scrollable: true, parent: root}
	grid := &fakeNode{parent: pane}

	if got := ResolveRegion(nil, grid); got != Region(pane) {
		t.Fatalf("expected nearest scrollable ancestor")
	}

	capped := &fakeRegion{}
	if got := ResolveRegion(capped, grid); got != Region(capped) {
		t.Fatalf("expected explicit region to win")
	}

	if got := ResolveRegion(nil, &fakeNode{parent: root}); got != nil {
		t.Fatalf("expected nil without a scrollable ancestor")
	}
}

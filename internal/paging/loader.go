// Package paging grows the number of materialized results as the user
// scrolls toward the end of the card view.
package paging

import (
	"log/slog"
	"time"

	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/scheduler"
)

const (
	DefaultInitialBatch   = 20
	DefaultRowsPerColumn  = 3
	DefaultMaxBatch       = 24
	DefaultPaneMultiplier = 2.0
	DefaultScrollCooldown = 100 * time.Millisecond
	DefaultInitialDelay   = 300 * time.Millisecond
	// DefaultColumns sizes batches before any layout has reported a column
	// count.
	DefaultColumns = 2
)

// Options configure a Loader. Zero values take the defaults above.
type Options struct {
	InitialBatch   int
	RowsPerColumn  int
	MaxBatch       int
	PaneMultiplier float64
	ScrollCooldown time.Duration
	InitialDelay   time.Duration
	// OnGrow is called after the displayed count increases.
	OnGrow func(displayed int)
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.InitialBatch <= 0 {
		o.InitialBatch = DefaultInitialBatch
	}
	if o.RowsPerColumn <= 0 {
		o.RowsPerColumn = DefaultRowsPerColumn
	}
	if o.MaxBatch <= 0 {
		o.MaxBatch = DefaultMaxBatch
	}
	if o.PaneMultiplier <= 0 {
		o.PaneMultiplier = DefaultPaneMultiplier
	}
	if o.ScrollCooldown <= 0 {
		o.ScrollCooldown = DefaultScrollCooldown
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	if o.Logger == nil {
		o.Logger = logging.New("paging")
	}
	return o
}

// Loader owns the displayed count for one view. All growth goes through
// MaybeLoadMore, so redundant triggers from scroll, window resize and the
// initial check are harmless.
type Loader struct {
	sched  *scheduler.Group
	opts   Options
	log    *slog.Logger
	region Region

	identity  string
	total     int
	displayed int
	columns   int
	loading   bool

	scroll  *scheduler.Coalescer
	initial scheduler.Handle
}

// NewLoader returns a loader with no results.
func NewLoader(sched scheduler.Scheduler, opts Options) *Loader {
	opts = opts.withDefaults()
	l := &Loader{
		sched: scheduler.NewGroup(sched),
		opts:  opts,
		log:   opts.Logger,
	}
	l.scroll = scheduler.NewCoalescer(l.sched, scheduler.Options{
		Cooldown: opts.ScrollCooldown,
		Trailing: true,
	}, func() { l.MaybeLoadMore() })
	return l
}

// SetRegion sets the scrolling region. Callers resolve it with ResolveRegion
// when the configuration changes rather than on every check.
func (l *Loader) SetRegion(r Region) {
	l.region = r
}

// Reset installs a result set. A new identity restarts pagination at the
// initial batch. The same identity keeps the displayed count and only clamps
// it to the new total.
func (l *Loader) Reset(identity string, total int) {
	if total < 0 {
		total = 0
	}
	if identity != l.identity {
		l.identity = identity
		l.total = total
		l.displayed = min(l.opts.InitialBatch, total)
		l.loading = false
		l.log.Debug("pagination reset", "total", total, "displayed", l.displayed)
		return
	}

	l.total = total
	if l.displayed > total {
		l.displayed = total
	}
	if l.displayed < min(l.opts.InitialBatch, total) {
		l.displayed = min(l.opts.InitialBatch, total)
	}
}

// SetColumns records the column estimate reported by the layout. Values
// below one discard the estimate.
func (l *Loader) SetColumns(n int) {
	if n < 1 {
		n = 0
	}
	l.columns = n
}

// BatchSize is the number of results the next load adds.
func (l *Loader) BatchSize() int {
	cols := l.columns
	if cols < 1 {
		cols = DefaultColumns
	}
	return min(cols*l.opts.RowsPerColumn, l.opts.MaxBatch)
}

// MaybeLoadMore grows the displayed count when the viewport is within the
// look-ahead distance of the end. It reports whether anything was added.
func (l *Loader) MaybeLoadMore() bool {
	if l.loading || l.displayed >= l.total {
		return false
	}
	if l.region == nil {
		return false
	}

	g := l.region.Geometry()
	if g.DistanceFromBottom() > g.ClientHeight*l.opts.PaneMultiplier {
		return false
	}

	l.loading = true
	batch := l.BatchSize()
	next := min(l.displayed+batch, l.total)
	l.log.Debug("loading more results", "from", l.displayed, "to", next, "batch", batch)
	l.displayed = next
	if l.opts.OnGrow != nil {
		l.opts.OnGrow(next)
	}
	l.loading = false
	return true
}

// OnScroll throttles scroll events: the first event in a window checks
// immediately and one trailing check follows the cooldown.
func (l *Loader) OnScroll() {
	l.scroll.Trigger()
}

// OnWindowResize checks for newly revealed space below the fold.
func (l *Loader) OnWindowResize() {
	l.MaybeLoadMore()
}

// OnContainerResize clears the in-flight guard once the results container
// has settled. It never loads by itself.
func (l *Loader) OnContainerResize() {
	l.loading = false
}

// Start schedules the one-time initial check that covers a first batch
// shorter than the viewport.
func (l *Loader) Start() {
	if l.initial != 0 {
		return
	}
	l.initial = l.sched.AfterFunc(l.opts.InitialDelay, func() {
		l.MaybeLoadMore()
	})
}

// Close cancels every scheduled check.
func (l *Loader) Close() {
	l.scroll.Cancel()
	l.sched.CancelAll()
	l.initial = 0
}

// Displayed is the number of materialized results.
func (l *Loader) Displayed() int { return l.displayed }

// Total is the size of the current result set.
func (l *Loader) Total() int { return l.total }

// Loading reports whether a load is being committed.
func (l *Loader) Loading() bool { return l.loading }

// Identity is the identity of the current result set.
func (l *Loader) Identity() string { return l.identity }

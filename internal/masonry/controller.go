package masonry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/scheduler"
)

// State is the controller lifecycle state.
type State int

const (
	// Inactive means the view is not in masonry mode and holds no session.
	Inactive State = iota
	// Idle means a session exists and no pass is running.
	Idle
	// Computing means a layout pass is running.
	Computing
	// PendingReentrant means a request arrived mid-pass and one replay is
	// owed once the pass finishes.
	PendingReentrant
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Idle:
		return "idle"
	case Computing:
		return "computing"
	case PendingReentrant:
		return "pending-reentrant"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Strategy is the kind of pass a layout request resolves to.
type Strategy int

const (
	Full Strategy = iota
	Incremental
)

func (s Strategy) String() string {
	if s == Incremental {
		return "incremental"
	}
	return "full"
}

// Decide picks the pass strategy. Incremental reuse needs a prior result that
// is not dirty, strictly more cards than before and an unchanged container
// width.
func Decide(prev *Result, count int, width float64, dirty bool) Strategy {
	if prev == nil || dirty {
		return Full
	}
	if count <= len(prev.Positions) {
		return Full
	}
	if width != prev.ContainerWidth {
		return Full
	}
	return Incremental
}

// DefaultResizeCooldown throttles how often a resize burst can start a new
// deferred pass.
const DefaultResizeCooldown = 150 * time.Millisecond

// Options configure a Controller.
type Options struct {
	ResizeCooldown time.Duration
	// OnLayout observes every completed pass. The view feeds the column count
	// to the pagination loader from here.
	OnLayout func(Result)
	Logger   *slog.Logger
}

type session struct {
	last  *Result
	count int
	width float64
	dirty bool
}

// Controller decides between full and incremental passes, coalesces
// reentrant requests and reflows on resize. It is driven from a single
// goroutine through the scheduler it is given.
type Controller struct {
	sched   *scheduler.Group
	surface Surface
	params  *Provider
	opts    Options
	log     *slog.Logger

	state   State
	session session

	unsubscribe func()
	resize      *scheduler.Coalescer
	resizeFrame scheduler.Handle
	replay      scheduler.Handle
}

// NewController builds an inactive controller for surface.
func NewController(sched scheduler.Scheduler, surface Surface, params *Provider, opts Options) *Controller {
	if opts.ResizeCooldown <= 0 {
		opts.ResizeCooldown = DefaultResizeCooldown
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("masonry")
	}
	if params == nil {
		params = NewProvider(Params{})
	}

	c := &Controller{
		sched:   scheduler.NewGroup(sched),
		surface: surface,
		params:  params,
		opts:    opts,
		log:     opts.Logger,
	}
	c.resize = scheduler.NewCoalescer(c.sched, scheduler.Options{
		Cooldown: opts.ResizeCooldown,
		Trailing: true,
	}, func() { c.deferResize(false) })
	return c
}

// State reports the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Last returns the most recent layout, or nil if the next pass must be full.
func (c *Controller) Last() *Result {
	return c.session.last
}

// Activate starts a fresh session. It is a no-op when already active.
func (c *Controller) Activate() {
	if c.state != Inactive {
		return
	}
	c.session = session{}
	c.state = Idle
	c.unsubscribe = c.params.Subscribe(func(Params) {
		c.Invalidate()
		c.Relayout()
	})
	c.log.Debug("masonry session started")
}

// Deactivate cancels outstanding work, drops the session and strips masonry
// placement from the surface.
func (c *Controller) Deactivate() {
	if c.state == Inactive {
		return
	}
	c.teardown()
	Revert(c.surface)
	c.log.Debug("masonry session ended")
}

// Close tears the controller down without touching a surface that may
// already be gone.
func (c *Controller) Close() {
	if c.state == Inactive {
		return
	}
	c.teardown()
	if c.surface != nil && c.surface.Attached() {
		Revert(c.surface)
	}
}

func (c *Controller) teardown() {
	c.resize.Cancel()
	c.sched.CancelAll()
	c.resizeFrame = 0
	c.replay = 0
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.session = session{}
	c.state = Inactive
}

// Invalidate marks the session dirty so the next pass is a full one.
func (c *Controller) Invalidate() {
	if c.state == Inactive {
		return
	}
	c.session.dirty = true
}

// Relayout requests a pass. A request made while a pass is running is
// coalesced into a single replay on the next frame.
func (c *Controller) Relayout() {
	switch c.state {
	case Inactive, PendingReentrant:
		return
	case Computing:
		c.state = PendingReentrant
		return
	}

	c.state = Computing
	c.pass()

	if c.state == Inactive {
		// Torn down from inside the pass.
		return
	}
	owed := c.state == PendingReentrant
	c.state = Idle
	if owed && c.replay == 0 {
		c.replay = c.sched.RequestFrame(func() {
			c.replay = 0
			c.Relayout()
		})
	}
}

func (c *Controller) pass() {
	if c.surface == nil || !c.surface.Attached() {
		c.log.Debug("layout skipped", "reason", "detached")
		return
	}
	width := c.surface.Width()
	if width < MinUsableWidth {
		c.log.Debug("layout skipped", "reason", "width", "width", width)
		return
	}
	elements := c.surface.Elements()
	if len(elements) == 0 {
		c.log.Debug("layout skipped", "reason", "empty")
		return
	}

	prev := c.session.last
	if prev != nil && !samePrefix(prev.Positions, elements) {
		prev = nil
	}

	strategy := Decide(prev, len(elements), width, c.session.dirty)
	// An Invalidate raised while applying must survive into the next pass.
	c.session.dirty = false

	var result Result
	switch strategy {
	case Incremental:
		added := measure(elements[len(prev.Positions):], prev.CardWidth)
		ext := Extend(added, prev.ColumnHeights, width, prev.CardWidth, prev.Columns, c.params.Params().Gap)
		result = prev.Append(ext)
		Apply(c.surface, elements, result, len(prev.Positions))
		c.log.Debug("layout extended", "added", len(added), "total", len(elements))
	default:
		p := c.params.Params()
		columns, cardWidth := Geometry(width, p.CardSize, p.MinColumns, p.Gap)
		result = Compute(measure(elements, cardWidth), width, p.CardSize, p.MinColumns, p.Gap)
		Apply(c.surface, elements, result, 0)
		c.log.Debug("layout computed", "cards", len(elements), "columns", columns, "width", width)
	}

	c.session.last = &result
	c.session.count = len(elements)
	c.session.width = width

	if c.opts.OnLayout != nil {
		c.opts.OnLayout(result)
	}
}

func measure(elements []Element, width float64) []Box {
	boxes := make([]Box, len(elements))
	for i, el := range elements {
		boxes[i] = Box{Key: el.Key(), Height: el.Measure(width)}
	}
	return boxes
}

func samePrefix(positions []Position, elements []Element) bool {
	if len(elements) < len(positions) {
		return false
	}
	for i, pos := range positions {
		if elements[i].Key() != pos.Key {
			return false
		}
	}
	return true
}

// OnResize is called when the container may have changed size. Bursts are
// throttled by the resize cooldown and every accepted burst is measured two
// frames later, once the host has settled its own layout.
func (c *Controller) OnResize() {
	if c.state == Inactive || c.surface == nil {
		return
	}
	if c.session.last != nil && c.surface.Width() == c.session.width {
		return
	}
	c.resize.Trigger()
}

func (c *Controller) deferResize(corrective bool) {
	if c.state == Inactive || c.resizeFrame != 0 {
		return
	}
	c.resizeFrame = c.sched.RequestFrame(func() {
		c.resizeFrame = 0
		if c.state == Inactive {
			return
		}
		c.resizeFrame = c.sched.RequestFrame(func() {
			c.resizeFrame = 0
			c.resizePass(corrective)
		})
	})
}

func (c *Controller) resizePass(corrective bool) {
	if c.state == Inactive || c.surface == nil || !c.surface.Attached() {
		return
	}
	width := c.surface.Width()
	if c.session.last != nil && width == c.session.width {
		return
	}

	c.Relayout()

	if corrective || c.state == Inactive {
		return
	}
	if c.surface.Width() != width {
		c.log.Debug("width drifted during layout", "from", width, "to", c.surface.Width())
		c.deferResize(true)
	}
}

// Outstanding reports how many scheduled callbacks the controller owns.
func (c *Controller) Outstanding() int {
	return c.sched.Outstanding()
}

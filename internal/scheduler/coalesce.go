package scheduler

import "time"

// Options tune a Coalescer.
type Options struct {
	// Delay postpones the leading run. Zero runs it inside Trigger.
	Delay time.Duration
	// Cooldown is the window after a run during which triggers are merged.
	Cooldown time.Duration
	// Trailing runs once more when the cooldown ends if any trigger arrived
	// during it.
	Trailing bool
}

// Coalescer merges bursts of triggers into a bounded number of runs. It backs
// the scroll throttle, the resize cooldown, settings persistence and index
// refresh debouncing.
type Coalescer struct {
	sched   Scheduler
	opts    Options
	fn      func()
	lead    Handle
	cool    Handle
	pending bool
}

// NewCoalescer returns a coalescer that invokes fn through sched.
func NewCoalescer(sched Scheduler, opts Options, fn func()) *Coalescer {
	return &Coalescer{sched: sched, opts: opts, fn: fn}
}

// Trigger requests a run.
func (c *Coalescer) Trigger() {
	switch {
	case c.lead != 0:
		// The delayed leading run will observe this trigger.
	case c.cool != 0:
		c.pending = true
	case c.opts.Delay > 0:
		c.lead = c.sched.AfterFunc(c.opts.Delay, func() {
			c.lead = 0
			c.run()
		})
	default:
		c.run()
	}
}

func (c *Coalescer) run() {
	c.pending = false
	if c.opts.Cooldown > 0 {
		c.cool = c.sched.AfterFunc(c.opts.Cooldown, c.expire)
	}
	c.fn()
}

func (c *Coalescer) expire() {
	c.cool = 0
	if c.opts.Trailing && c.pending {
		c.run()
		return
	}
	c.pending = false
}

// Busy reports whether a delayed run or a cooldown is outstanding.
func (c *Coalescer) Busy() bool {
	return c.lead != 0 || c.cool != 0
}

// Flush runs a delayed leading run immediately, if one is waiting.
func (c *Coalescer) Flush() {
	if c.lead == 0 {
		return
	}
	c.sched.Cancel(c.lead)
	c.lead = 0
	c.run()
}

// Cancel drops any delayed run, cooldown and pending trailing run.
func (c *Coalescer) Cancel() {
	c.sched.Cancel(c.lead)
	c.sched.Cancel(c.cool)
	c.lead, c.cool = 0, 0
	c.pending = false
}

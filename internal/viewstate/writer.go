package viewstate

import (
	"log/slog"
	"time"

	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/scheduler"
)

// Writer persists one view's state. Discrete changes such as a sort or mode
// switch are committed at once; typing in the search box is staged and
// written after the input goes quiet.
type Writer struct {
	store    *Store
	id       string
	log      *slog.Logger
	saved    Record
	staged   Record
	dirty    bool
	debounce *scheduler.Coalescer
}

// NewWriter returns a writer whose baseline is saved, the record currently
// on disk (or the defaults the view opened with).
func NewWriter(sched scheduler.Scheduler, store *Store, id string, saved Record, delay time.Duration, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = logging.New("viewstate")
	}
	w := &Writer{
		store: store,
		id:    id,
		log:   logger,
		saved: saved.Normalize(),
	}
	w.debounce = scheduler.NewCoalescer(sched, scheduler.Options{Delay: delay}, w.flush)
	return w
}

// Saved is the last record written.
func (w *Writer) Saved() Record { return w.saved }

// Commit writes rec unless it equals the saved record. Any staged write is
// superseded.
func (w *Writer) Commit(rec Record) error {
	w.debounce.Cancel()
	w.dirty = false

	rec = rec.Normalize()
	if rec == w.saved {
		return nil
	}
	if err := w.store.Save(w.id, rec); err != nil {
		return err
	}
	w.saved = rec
	w.log.Debug("view state saved", "view", w.id)
	return nil
}

// Stage schedules rec to be written once no further Stage call arrives
// within the debounce delay.
func (w *Writer) Stage(rec Record) {
	rec = rec.Normalize()
	w.staged = rec
	w.dirty = rec != w.saved

	w.debounce.Cancel()
	if w.dirty {
		w.debounce.Trigger()
	}
}

// Pending reports whether a staged record has not been written yet.
func (w *Writer) Pending() bool { return w.dirty }

func (w *Writer) flush() {
	if !w.dirty {
		return
	}
	if err := w.Commit(w.staged); err != nil {
		w.log.Warn("saving view state failed", "view", w.id, "error", err)
	}
}

// Close writes any staged record immediately.
func (w *Writer) Close() error {
	w.debounce.Cancel()
	if !w.dirty {
		return nil
	}
	return w.Commit(w.staged)
}

package viewstate

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/scheduler"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "views"))

	if _, err := store.Load("inbox"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView before save, got %v", err)
	}

	rec := Record{Query: "tag:work", Sort: "random", Seed: 42, Mode: "grid", Limit: 10, WidthMode: "WIDE"}
	if err := store.Save("inbox", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load("inbox")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := rec
	want.WidthMode = WidthWide
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.WidthScale() != 1.5 {
		t.Fatalf("expected wide scale, got %f", got.WidthScale())
	}

	entries, _ := os.ReadDir(store.Dir())
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestStoreListAndReset(t *testing.T) {
	store := NewStore(t.TempDir())

	if ids, err := store.List(); err != nil || len(ids) != 0 {
		t.Fatalf("expected empty list, got %v %v", ids, err)
	}

	for _, id := range []string{"zettel", "alpha"} {
		if err := store.Save(id, Record{Mode: "list"}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	ids, err := store.List()
	if err != nil || !slices.Equal(ids, []string{"alpha", "zettel"}) {
		t.Fatalf("unexpected ids %v (%v)", ids, err)
	}

	if err := store.Reset("alpha"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := store.Reset("alpha"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected second reset to report unknown view, got %v", err)
	}
}

func TestStoreRejectsPathIDs(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		if err := store.Save(id, Record{}); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID for %q, got %v", id, err)
		}
	}
}

func TestRecordNormalize(t *testing.T) {
	rec := Record{Limit: -5, WidthMode: "huge"}.Normalize()
	if rec.Limit != 0 || rec.WidthMode != WidthNormal || rec.WidthScale() != 1 {
		t.Fatalf("unexpected normalized record %+v", rec)
	}
}

func newWriter(t *testing.T) (*Writer, *Store, *scheduler.Loop) {
	t.Helper()
	store := NewStore(t.TempDir())
	loop := scheduler.NewLoop(time.Unix(0, 0))
	w := NewWriter(loop, store, "main", Record{}, 300*time.Millisecond, logging.Discard())
	return w, store, loop
}

func TestWriterCommitIsConditional(t *testing.T) {
	w, store, _ := newWriter(t)

	if err := w.Commit(Record{}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := store.Load("main"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("unchanged record must not be written, got %v", err)
	}

	if err := w.Commit(Record{Sort: "title-asc"}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, err := store.Load("main")
	if err != nil || got.Sort != "title-asc" {
		t.Fatalf("expected committed sort, got %+v (%v)", got, err)
	}
}

func TestWriterStageDebounces(t *testing.T) {
	w, store, loop := newWriter(t)

	for _, text := range []string{"r", "ro", "rob"} {
		w.Stage(Record{Search: text})
		loop.Advance(100 * time.Millisecond)
	}
	if _, err := store.Load("main"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected no write while typing, got %v", err)
	}
	if !w.Pending() {
		t.Fatalf("expected staged record")
	}

	loop.Advance(300 * time.Millisecond)
	got, err := store.Load("main")
	if err != nil || got.Search != "rob" {
		t.Fatalf("expected final search to be written, got %+v (%v)", got, err)
	}
	if w.Pending() || loop.Pending() {
		t.Fatalf("expected writer to be idle after flush")
	}
}

func TestWriterStageRevertCancels(t *testing.T) {
	w, store, loop := newWriter(t)

	w.Stage(Record{Search: "x"})
	w.Stage(Record{})
	loop.Advance(time.Second)

	if _, err := store.Load("main"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected reverted stage to skip the write, got %v", err)
	}
}

func TestWriterCloseFlushes(t *testing.T) {
	w, store, loop := newWriter(t)

	w.Stage(Record{Search: "draft"})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, err := store.Load("main")
	if err != nil || got.Search != "draft" {
		t.Fatalf("expected staged search written on close, got %+v (%v)", got, err)
	}
	if loop.Pending() {
		t.Fatalf("expected no timers after close")
	}
}

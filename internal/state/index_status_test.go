package state

import (
	"testing"
	"time"

	"github.com/Paintersrp/ancards/internal/search"
	indexsvc "github.com/Paintersrp/ancards/internal/services/index"
)

type stubIndexService struct {
	stats indexsvc.Stats
}

func (s stubIndexService) Query(string) ([]search.Document, error) { return nil, nil }
func (s stubIndexService) Revision() uint64                         { return s.stats.Revision }
func (s stubIndexService) QueueUpdate(string)                       {}
func (s stubIndexService) Stats() indexsvc.Stats                    { return s.stats }
func (s stubIndexService) Close() error                             { return nil }

func TestFormatIndexStatusIncludesRebuild(t *testing.T) {
	t.Parallel()

	svc := stubIndexService{stats: indexsvc.Stats{
		Documents:   12,
		Pending:     3,
		LastRebuild: time.Date(2024, time.March, 5, 17, 42, 0, 0, time.Local),
	}}

	got := formatIndexStatus(svc)
	want := "12 notes · pending 3 · indexed 17:42"
	if got != want {
		t.Fatalf("formatIndexStatus mismatch: got %q, want %q", got, want)
	}
}

func TestFormatIndexStatusOmitsIdleParts(t *testing.T) {
	t.Parallel()

	svc := stubIndexService{stats: indexsvc.Stats{Documents: 4}}
	got := formatIndexStatus(svc)
	want := "4 notes"
	if got != want {
		t.Fatalf("formatIndexStatus mismatch: got %q, want %q", got, want)
	}
}

func TestIndexHeartbeatClearsWhenServiceNil(t *testing.T) {
	t.Parallel()

	st := &State{RootStatus: &RootStatus{}}
	st.RootStatus.Set("stale")

	msg := st.IndexHeartbeatCmd()()
	statsMsg, ok := msg.(IndexStatsMsg)
	if !ok {
		t.Fatalf("expected IndexStatsMsg, got %T", msg)
	}
	if statsMsg.Line != "" {
		t.Fatalf("expected blank line when index unavailable, got %q", statsMsg.Line)
	}
	if got := st.RootStatus.Value(); got != "" {
		t.Fatalf("expected root status to be cleared, got %q", got)
	}
}

func TestIndexHeartbeatUpdatesStatus(t *testing.T) {
	t.Parallel()

	svc := stubIndexService{stats: indexsvc.Stats{Documents: 2, Pending: 7}}
	st := &State{RootStatus: &RootStatus{}, Index: svc}

	msg := st.IndexHeartbeatCmd()()
	statsMsg, ok := msg.(IndexStatsMsg)
	if !ok {
		t.Fatalf("expected IndexStatsMsg, got %T", msg)
	}

	want := "2 notes · pending 7"
	if statsMsg.Line != want {
		t.Fatalf("expected %q, got %q", want, statsMsg.Line)
	}
	if got := st.RootStatus.Value(); got != want {
		t.Fatalf("expected root status %q, got %q", want, got)
	}
}

package find

import (
	"testing"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/results"
	"github.com/Paintersrp/ancards/internal/state"
)

func testState() *state.State {
	return &state.State{Workspace: &config.Workspace{
		Cards: config.DefaultCards(),
		Views: map[string]config.ViewDefinition{
			"reading": {Query: "tag:reading", Sort: "title-asc", Limit: 5},
		},
	}}
}

func TestRequestFromView(t *testing.T) {
	req, err := request(testState(), &findOptions{view: "reading"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Expression != "tag:reading" || req.Sort != results.SortTitleAsc || req.Limit != 5 {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestRequestFlagsOverrideView(t *testing.T) {
	req, err := request(testState(), &findOptions{view: "reading", query: "path:inbox", sort: "random"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Expression != "path:inbox" || req.Sort != results.SortRandom {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestRequestDefaultsAndErrors(t *testing.T) {
	req, err := request(testState(), &findOptions{view: "default"})
	if err != nil {
		t.Fatalf("default view must not need a definition: %v", err)
	}
	if req.Sort != results.SortMtimeDesc {
		t.Fatalf("expected workspace default sort, got %q", req.Sort)
	}

	if _, err := request(testState(), &findOptions{view: "missing"}); err == nil {
		t.Fatalf("expected unknown view error")
	}
	if _, err := request(testState(), &findOptions{view: "default", sort: "sideways"}); err == nil {
		t.Fatalf("expected invalid sort error")
	}
}

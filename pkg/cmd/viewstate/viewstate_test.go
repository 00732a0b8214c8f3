package viewstate

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

func newTestState(t *testing.T) *state.State {
	t.Helper()
	return &state.State{Views: viewstate.NewStore(t.TempDir())}
}

func TestApplyMergesIntoStoredRecord(t *testing.T) {
	s := newTestState(t)
	if err := s.Views.Save("inbox", viewstate.Record{Search: "draft", Sort: "title-asc", Mode: "list"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := apply(s.Views, "inbox", &setOptions{mode: "grid", width: "wide"}, false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if rec.Search != "draft" || rec.Sort != "title-asc" {
		t.Fatalf("expected untouched fields kept, got %+v", rec)
	}
	if rec.Mode != "grid" || rec.WidthMode != viewstate.WidthWide {
		t.Fatalf("expected mode and width applied, got %+v", rec)
	}
}

func TestApplyRejectsInvalidValues(t *testing.T) {
	s := newTestState(t)
	cases := []*setOptions{
		{mode: "carousel"},
		{sort: "sideways"},
		{width: "huge"},
	}
	for _, opts := range cases {
		if _, err := apply(s.Views, "inbox", opts, false); err == nil {
			t.Fatalf("expected %+v to be rejected", opts)
		}
	}
	if _, err := apply(s.Views, "inbox", &setOptions{limit: -1}, true); err == nil {
		t.Fatalf("expected negative limit to be rejected")
	}
	if _, err := s.Views.Load("inbox"); !errors.Is(err, viewstate.ErrUnknownView) {
		t.Fatalf("rejected changes must not be saved, got %v", err)
	}
}

func TestSetPromptsWithoutFlags(t *testing.T) {
	s := newTestState(t)

	var prompts []string
	prev := choose
	choose = func(prompt string, choices []string) (string, error) {
		prompts = append(prompts, prompt)
		return choices[len(choices)-1], nil
	}
	t.Cleanup(func() { choose = prev })

	cmd := NewCmdState(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"set", "inbox"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(prompts) != 2 {
		t.Fatalf("expected mode and sort prompts, got %v", prompts)
	}
	rec, err := s.Views.Load("inbox")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Mode != "list" || rec.Sort != "random" {
		t.Fatalf("expected prompted values saved, got %+v", rec)
	}
	if !strings.Contains(out.String(), `Saved view "inbox"`) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestShowAndReset(t *testing.T) {
	s := newTestState(t)
	if err := s.Views.Save("inbox", viewstate.Record{Sort: "mtime-asc", Mode: "grid"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cmd := NewCmdState(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"show", "inbox"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "sort: mtime-asc") {
		t.Fatalf("expected yaml output, got %q", out.String())
	}

	out.Reset()
	cmd.SetArgs([]string{"reset", "inbox"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := s.Views.Load("inbox"); !errors.Is(err, viewstate.ErrUnknownView) {
		t.Fatalf("expected state removed, got %v", err)
	}

	out.Reset()
	cmd.SetArgs([]string{"show", "inbox"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("show after reset: %v", err)
	}
	if !strings.Contains(out.String(), "no saved state") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

package views

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

func loadState(t *testing.T) *state.State {
	t.Helper()
	home := t.TempDir()
	path := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("vaultdir: "+filepath.Join(home, "vault")+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ws, _ := cfg.ActiveWorkspace()
	return &state.State{Config: cfg, Workspace: ws, Home: home, Views: viewstate.NewStore(filepath.Join(home, "views"))}
}

func execute(s *state.State, args ...string) (string, error) {
	cmd := NewCmdViews(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddListRemove(t *testing.T) {
	s := loadState(t)

	if _, err := execute(s, "add", "--name", "reading", "--query", "tag:reading", "--sort", "title-asc", "--mode", "grid"); err != nil {
		t.Fatalf("add: %v", err)
	}
	def, ok := s.Workspace.View("reading")
	if !ok || def.Query != "tag:reading" || def.Sort != "title-asc" || def.Mode != "grid" {
		t.Fatalf("unexpected view %+v", def)
	}

	out, err := execute(s, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "reading\ttag:reading") {
		t.Fatalf("unexpected list output %q", out)
	}

	if err := s.Views.Save("reading", viewstate.Record{Sort: "random"}); err != nil {
		t.Fatalf("seed state: %v", err)
	}
	if _, err := execute(s, "remove", "--name", "reading", "--state"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.Workspace.View("reading"); ok {
		t.Fatal("expected view removed")
	}
	if ids, _ := s.Views.List(); len(ids) != 0 {
		t.Fatalf("expected saved state removed, got %v", ids)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s := loadState(t)
	cases := [][]string{
		{"add", "--name", "x", "--query", `title:"open`},
		{"add", "--name", "x", "--sort", "sideways"},
		{"add", "--name", "x", "--mode", "carousel"},
		{"add", "--name", "x", "--limit=-3"},
	}
	for _, args := range cases {
		if _, err := execute(s, args...); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
}

package initialize

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/tui/initialize"
)

func TestInitWritesPromptAnswers(t *testing.T) {
	home := t.TempDir()
	vault := filepath.Join(home, "vault")

	prev := prompt
	prompt = func(got string) (initialize.Answers, bool, error) {
		if got != home {
			t.Fatalf("expected home %q, got %q", home, got)
		}
		return initialize.Answers{VaultDir: vault, Editor: "nano", CardSize: 28}, true, nil
	}
	t.Cleanup(func() { prompt = prev })

	cmd := NewCmdInit()
	cmd.Flags().String("home", home, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), vault) {
		t.Fatalf("unexpected output %q", out.String())
	}

	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("expected a usable config, got %v", err)
	}
}

func TestInitCancelled(t *testing.T) {
	home := t.TempDir()
	prev := prompt
	prompt = func(string) (initialize.Answers, bool, error) { return initialize.Answers{}, false, nil }
	t.Cleanup(func() { prompt = prev })

	cmd := NewCmdInit()
	cmd.Flags().String("home", home, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "cancelled") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

package note

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestBuildEditorCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	vault := filepath.Join("/", "home", "me", "My Vault")
	path := filepath.Join(vault, "ideas", "cards.md")
	viper.Set("vaultdir", vault)
	viper.Set("nvimargs", "--clean -R")

	tests := []struct {
		editor string
		goos   string
		cmd    string
		args   []string
		wait   bool
	}{
		{editor: "nvim", goos: "linux", cmd: "nvim", args: []string{"--clean", "-R", path}, wait: true},
		{editor: "vim", goos: "linux", cmd: "vim", args: []string{path}, wait: true},
		{editor: "code", goos: "linux", cmd: "code", args: []string{path}},
		{editor: "vscode", goos: "windows", cmd: "cmd", args: []string{"/c", "code", path}},
		{editor: "obsidian", goos: "linux", cmd: "xdg-open", args: []string{"obsidian://open?vault=My+Vault&file=ideas%2Fcards.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.editor+"/"+tt.goos, func(t *testing.T) {
			got, err := buildEditorCommand(path, tt.editor, tt.goos)
			if err != nil {
				t.Fatalf("buildEditorCommand: %v", err)
			}
			if got.command != tt.cmd || !reflect.DeepEqual(got.args, tt.args) || got.wait != tt.wait {
				t.Fatalf("got %s %v wait=%v, want %s %v wait=%v", got.command, got.args, got.wait, tt.cmd, tt.args, tt.wait)
			}
			if !tt.wait && !got.silence {
				t.Fatalf("detached editors should not write to the terminal")
			}
		})
	}
}

func TestBuildEditorCommandErrors(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("vaultdir", "/vault")

	if _, err := buildEditorCommand("/vault/a.md", "", "linux"); err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected missing editor error, got %v", err)
	}
	if _, err := buildEditorCommand("/vault/a.md", "emacs", "linux"); err == nil {
		t.Fatal("expected unsupported editor error")
	}
	if _, err := buildEditorCommand("/elsewhere/a.md", "obsidian", "linux"); err == nil {
		t.Fatal("expected error for a note outside the vault")
	}
	if _, err := buildEditorCommand("/vault/a.md", "code", "plan9"); err == nil {
		t.Fatal("expected unsupported platform error")
	}
}

func TestEditorLaunchForPathWaitsForTerminalEditors(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("editor", "nano")

	launch, err := EditorLaunchForPath("/vault/a.md")
	if err != nil {
		t.Fatalf("EditorLaunchForPath: %v", err)
	}
	if !launch.Wait || filepath.Base(launch.Cmd.Path) == "" || launch.Cmd.Args[len(launch.Cmd.Args)-1] != "/vault/a.md" {
		t.Fatalf("unexpected launch %+v", launch)
	}
}

// Package note launches the configured editor for a card's note.
package note

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/Paintersrp/ancards/internal/pathutil"
)

// EditorLaunch represents the command necessary to start an editor along with
// whether the caller should wait for the process to finish before resuming the
// UI.
type EditorLaunch struct {
	Cmd  *exec.Cmd
	Wait bool
}

type editorCommand struct {
	command string
	args    []string
	wait    bool
	silence bool
}

func (cmd editorCommand) launch() *EditorLaunch {
	c := exec.Command(cmd.command, cmd.args...)
	if cmd.silence {
		c.Stdout = io.Discard
		c.Stderr = io.Discard
	}
	return &EditorLaunch{Cmd: c, Wait: cmd.wait}
}

// EditorLaunchForPath prepares the workspace editor for path without starting
// it. Terminal editors set Wait; GUI editors detach.
func EditorLaunchForPath(path string) (*EditorLaunch, error) {
	editor := strings.TrimSpace(viper.GetString("editor"))
	cmd, err := buildEditorCommand(path, editor, runtime.GOOS)
	if err != nil {
		return nil, err
	}
	return cmd.launch(), nil
}

func buildEditorCommand(path, editor, goos string) (*editorCommand, error) {
	switch editor {
	case "nvim":
		args := strings.Fields(viper.GetString("nvimargs"))
		return &editorCommand{command: "nvim", args: append(args, path), wait: true}, nil
	case "vim", "nano":
		return &editorCommand{command: editor, args: []string{path}, wait: true}, nil
	case "vscode", "code":
		return detached(goos, "code", path)
	case "obsidian":
		uri, err := obsidianURI(viper.GetString("vaultdir"), path)
		if err != nil {
			return nil, err
		}
		return detached(goos, "", uri)
	case "":
		return nil, fmt.Errorf("editor not configured")
	default:
		return nil, fmt.Errorf("unsupported editor: %s", editor)
	}
}

// detached opens target with program, or with the platform opener when
// program is empty.
func detached(goos, program, target string) (*editorCommand, error) {
	cmd := &editorCommand{silence: true}
	switch goos {
	case "darwin":
		cmd.command = "open"
		if program == "code" {
			cmd.args = []string{"-n", "-b", "com.microsoft.VSCode", "--args", target}
		} else {
			cmd.args = []string{target}
		}
	case "linux":
		cmd.command = program
		if program == "" {
			cmd.command = "xdg-open"
		}
		cmd.args = []string{target}
	case "windows":
		cmd.command = "cmd"
		if program == "" {
			cmd.args = []string{"/c", "start", target}
		} else {
			cmd.args = []string{"/c", program, target}
		}
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
	return cmd, nil
}

func obsidianURI(vault, path string) (string, error) {
	rel, ok := pathutil.Within(vault, path)
	if !ok {
		return "", fmt.Errorf("note %s is outside the vault", path)
	}
	name := filepath.Base(pathutil.NormalizePath(vault))
	return fmt.Sprintf("obsidian://open?vault=%s&file=%s", url.QueryEscape(name), url.QueryEscape(rel)), nil
}

// OpenFromPath opens the note in the configured editor and, for terminal
// editors, waits for it to exit.
func OpenFromPath(path string) error {
	launch, err := EditorLaunchForPath(path)
	if err != nil {
		return err
	}

	if launch.Wait {
		if launch.Cmd.Stdin == nil {
			launch.Cmd.Stdin = os.Stdin
		}
		if launch.Cmd.Stdout == nil {
			launch.Cmd.Stdout = os.Stdout
		}
		if launch.Cmd.Stderr == nil {
			launch.Cmd.Stderr = os.Stderr
		}
	}

	if err := launch.Cmd.Start(); err != nil {
		return fmt.Errorf("start editor: %w", err)
	}
	if !launch.Wait {
		return nil
	}
	if err := launch.Cmd.Wait(); err != nil {
		return fmt.Errorf("wait for editor: %w", err)
	}
	return nil
}

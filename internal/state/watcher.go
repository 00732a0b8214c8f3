package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/ancards/internal/pathutil"
	"github.com/Paintersrp/ancards/internal/search"
)

// VaultNoteChangedMsg reports a created, modified, removed or renamed note.
type VaultNoteChangedMsg struct {
	Path string
}

type VaultWatcherErrMsg struct {
	Err error
}

// VaultWatcher feeds fsnotify events for note files into the bubbletea loop.
// Start returns a command that yields one message; the model re-issues it
// after handling each message.
type VaultWatcher struct {
	watcher   *fsnotify.Watcher
	vault     string
	cfg       search.Config
	ignored   map[string]struct{}
	done      chan struct{}
	once      sync.Once
	mu        sync.Mutex
	pending   []tea.Msg
	heartbeat func() tea.Cmd
	interval  time.Duration
	onChange  func(string)
	onClose   func()
}

func NewVaultWatcher(vault string, cfg search.Config) (*VaultWatcher, error) {
	normalizedVault := pathutil.NormalizePath(vault)
	if normalizedVault == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ignored := make(map[string]struct{}, len(cfg.IgnoredFolders))
	for _, dir := range cfg.IgnoredFolders {
		ignored[strings.ToLower(strings.TrimSpace(dir))] = struct{}{}
	}

	watcher := &VaultWatcher{
		watcher: w,
		vault:   normalizedVault,
		cfg:     cfg,
		ignored: ignored,
		done:    make(chan struct{}),
	}

	if err := watcher.addRecursive(normalizedVault); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

func (w *VaultWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		if msg := w.dequeuePending(); msg != nil {
			return msg
		}

		hb, interval := w.heartbeatConfig()
		var ticks <-chan time.Time
		if hb != nil && interval > 0 {
			ticker := time.NewTicker(interval)
			ticks = ticker.C
			defer ticker.Stop()
		}

		for {
			select {
			case <-w.done:
				return nil
			case <-ticks:
				if msg := w.invokeHeartbeat(hb); msg != nil {
					return msg
				}
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if !w.skipDir(event.Name) {
							_ = w.addRecursive(event.Name)
						}
						continue
					}
				}

				rel, ok := w.relevant(event)
				if !ok {
					continue
				}

				if w.onChange != nil {
					w.onChange(rel)
				}

				if msg := w.invokeHeartbeat(hb); msg != nil {
					w.enqueuePending(VaultNoteChangedMsg{Path: rel})
					return msg
				}

				return VaultNoteChangedMsg{Path: rel}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return VaultWatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *VaultWatcher) heartbeatConfig() (func() tea.Cmd, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.heartbeat, w.interval
}

func (w *VaultWatcher) invokeHeartbeat(fn func() tea.Cmd) tea.Msg {
	if fn == nil {
		return nil
	}
	cmd := fn()
	if cmd == nil {
		return nil
	}
	return cmd()
}

func (w *VaultWatcher) enqueuePending(msg tea.Msg) {
	w.mu.Lock()
	w.pending = append(w.pending, msg)
	w.mu.Unlock()
}

func (w *VaultWatcher) dequeuePending() tea.Msg {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	msg := w.pending[0]
	w.pending = w.pending[1:]
	return msg
}

func (w *VaultWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		if w.onClose != nil {
			w.onClose()
		}
	})

	return closeErr
}

// OnChange registers a callback that receives relative note paths whenever the
// watcher detects a relevant change.
func (w *VaultWatcher) OnChange(fn func(string)) {
	if w == nil {
		return
	}
	w.onChange = fn
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *VaultWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.onClose = fn
}

// SetHeartbeat configures a command that is invoked whenever the watcher
// detects a change event or when the periodic ticker fires.
func (w *VaultWatcher) SetHeartbeat(fn func() tea.Cmd, interval time.Duration) {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.heartbeat = fn
	w.interval = interval
}

func (w *VaultWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if path != w.vault && w.skipDir(path) {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

// skipDir reports whether a directory is hidden or configured as ignored.
func (w *VaultWatcher) skipDir(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, skip := w.ignored[name]
	return skip
}

// relevant returns the vault-relative path of a note touched by event.
func (w *VaultWatcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	rel, ok := pathutil.Within(w.vault, event.Name)
	if !ok || !w.cfg.IsNote(rel) {
		return "", false
	}
	return rel, true
}

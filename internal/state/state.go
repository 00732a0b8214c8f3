package state

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/constants"
	"github.com/Paintersrp/ancards/internal/search"
	indexsvc "github.com/Paintersrp/ancards/internal/services/index"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

type State struct {
	Config        *config.Config
	Workspace     *config.Workspace
	WorkspaceName string
	Home          string
	Vault         string
	Watcher       *VaultWatcher
	Index         IndexService
	Views         *viewstate.Store
	RootStatus    *RootStatus
}

// RootStatus is the status line shared by every screen.
type RootStatus struct {
	mu   sync.RWMutex
	line string
}

func (r *RootStatus) Set(line string) {
	r.mu.Lock()
	r.line = line
	r.mu.Unlock()
}

func (r *RootStatus) Value() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.line
}

// IndexService is the shared vault index as seen by the card view: a query
// source for the result pipeline plus the watcher's update queue.
type IndexService interface {
	Query(expression string) ([]search.Document, error)
	Revision() uint64
	QueueUpdate(string)
	Stats() indexsvc.Stats
	Close() error
}

// NewState loads the configuration under home and wires the index service,
// vault watcher and view state store for the active workspace. An empty home
// means the user's home directory.
func NewState(home, workspaceOverride string) (*State, error) {
	if home == "" {
		var err error
		if home, err = GetHomeDir(); err != nil {
			return nil, err
		}
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if workspaceOverride != "" {
		if err := cfg.ActivateWorkspace(workspaceOverride); err != nil {
			return nil, err
		}
	}

	return FromConfig(home, cfg, true)
}

// FromConfig builds the state for cfg's active workspace. The watcher is
// only started when watch is set.
func FromConfig(home string, cfg *config.Config, watch bool) (*State, error) {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	searchCfg := ws.SearchConfig()
	indexService := indexsvc.NewService(ws.VaultDir, searchCfg)

	st := &State{
		Config:        cfg,
		Workspace:     ws,
		WorkspaceName: cfg.CurrentWorkspace,
		Home:          home,
		Vault:         ws.VaultDir,
		Index:         indexService,
		Views:         viewstate.NewStore(config.ViewsPath(home)),
		RootStatus:    &RootStatus{},
	}

	if !watch {
		return st, nil
	}

	watcher, err := NewVaultWatcher(ws.VaultDir, searchCfg)
	if err != nil {
		_ = indexService.Close()
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}
	watcher.OnChange(indexService.QueueUpdate)
	watcher.OnClose(func() {
		_ = indexService.Close()
	})
	st.Watcher = watcher

	return st, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	_ = viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close releases resources associated with the state, including the vault
// watcher and shared index service.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil && !errors.Is(err, indexsvc.ErrClosed) {
			errs = append(errs, err)
		}
		s.Index = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

package cards

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/constants"
	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

// indexHeartbeat is how often the status line re-reads index statistics.
const indexHeartbeat = 5 * time.Second

// RunOptions select the view and apply one-off overrides from the command
// line.
type RunOptions struct {
	ViewID string
	Mode   string
	Query  string
	Search string
}

// OptionsFor builds the card view options for a workspace view.
func OptionsFor(st *state.State, run RunOptions) (Options, error) {
	id := run.ViewID
	if id == "" {
		id = constants.DefaultView
	}
	if run.Mode != "" && !config.IsValidMode(run.Mode) {
		return Options{}, fmt.Errorf("invalid mode %q: expected one of %s", run.Mode, strings.Join(config.ValidModes, ", "))
	}

	def, ok := st.Workspace.View(id)
	if !ok && run.ViewID != "" {
		return Options{}, fmt.Errorf("view %q is not configured in workspace %q", id, st.WorkspaceName)
	}

	cards := st.Workspace.Cards
	defaults := viewstate.Record{
		Query: def.Query,
		Sort:  def.Sort,
		Mode:  def.Mode,
		Limit: def.Limit,
	}
	if defaults.Sort == "" {
		defaults.Sort = cards.DefaultSort
	}
	if defaults.Mode == "" {
		defaults.Mode = cards.DefaultMode
	}

	return Options{
		ViewID:   id,
		Vault:    st.Vault,
		Source:   st.Index,
		Cards:    cards,
		Store:    st.Views,
		Defaults: defaults,
		Overrides: viewstate.Record{
			Query:  run.Query,
			Search: run.Search,
			Mode:   run.Mode,
		},
		Watcher: st.Watcher,
		Status:  st.RootStatus,
		Logger:  logging.New("cards").With("view", id),
	}, nil
}

// Run opens the card view full screen and blocks until it exits.
func Run(st *state.State, run RunOptions) error {
	opts, err := OptionsFor(st, run)
	if err != nil {
		return err
	}

	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	if st.Watcher != nil {
		st.Watcher.SetHeartbeat(st.IndexHeartbeatCmd, indexHeartbeat)
	}
	if cmd := st.IndexHeartbeatCmd(); cmd != nil {
		// Seed the status line before the first heartbeat.
		cmd()
	}

	if _, err := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		if strings.Contains(err.Error(), "resource temporarily unavailable") {
			return nil
		}
		return fmt.Errorf("running card view: %w", err)
	}
	return nil
}

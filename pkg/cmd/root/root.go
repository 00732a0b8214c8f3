package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/constants"
	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/pkg/cmd/cards"
	"github.com/Paintersrp/ancards/pkg/cmd/find"
	"github.com/Paintersrp/ancards/pkg/cmd/initialize"
	"github.com/Paintersrp/ancards/pkg/cmd/views"
	"github.com/Paintersrp/ancards/pkg/cmd/viewstate"
	"github.com/Paintersrp/ancards/pkg/cmd/workspace"
)

type rootOptions struct {
	home      string
	workspace string
	logLevel  string
}

// NewCmdRoot builds the command tree. Subcommands share s, which is filled
// in once the persistent flags are parsed.
func NewCmdRoot() *cobra.Command {
	opts := &rootOptions{}
	s := &state.State{}

	cmd := &cobra.Command{
		Use:     constants.AppName,
		Version: constants.Version,
		Short:   "Browse your notes vault as a wall of cards.",
		Long: heredoc.Doc(`
			Lay out the notes of your vault as cards in masonry, grid or list form.

			Cards load as you scroll, follow changes made to the vault while open,
			and every view remembers its search, sort and mode between sessions.
		`),
		Example: heredoc.Doc(`
			$ ancards
			$ ancards cards --view reading --mode grid
			$ ancards find "#project"
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(s)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return s.Close()
		},
	}
	// Running without a subcommand opens the default view.
	cmd.RunE = cards.NewCmdCards(s).RunE

	cmd.PersistentFlags().StringVar(&opts.home, "home", "", "Directory holding .ancards/ (default is $HOME)")
	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", "", "Workspace to use for this command")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	_ = viper.BindPFlag("workspace", cmd.PersistentFlags().Lookup("workspace"))

	cmd.AddCommand(
		cards.NewCmdCards(s),
		find.NewCmdFind(s),
		initialize.NewCmdInit(),
		viewstate.NewCmdState(s),
		views.NewCmdViews(s),
		workspace.NewCmdWorkspace(s),
	)

	return cmd
}

func (o *rootOptions) load(s *state.State) error {
	home := o.home
	if home == "" {
		var err error
		if home, err = state.GetHomeDir(); err != nil {
			return err
		}
	}

	// The card view owns the terminal, so logs go to a file.
	if err := logging.ToFile(config.LogPath(home), o.logLevel); err != nil {
		return err
	}

	loaded, err := state.NewState(home, viper.GetString("workspace"))
	if err != nil {
		return err
	}
	*s = *loaded
	return nil
}

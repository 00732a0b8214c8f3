package cards

import (
	"errors"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/ancards/internal/state"
	cardview "github.com/Paintersrp/ancards/internal/tui/cards"
)

var errNoTerminal = errors.New("the card view needs an interactive terminal; try `ancards find` instead")

func NewCmdCards(s *state.State) *cobra.Command {
	var opts cardview.RunOptions

	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"c", "view"},
		Short:   "Open a view of your vault as cards",
		Long: heredoc.Doc(`
			Open a view of your vault as cards. The view's query, sort and mode come from
			the workspace configuration the first time it is opened and from its saved
			state afterwards. Flags apply to this session only.
		`),
		Example: heredoc.Doc(`
			$ ancards cards
			$ ancards cards --view reading
			$ ancards cards --mode list --query "tag:project -path:archive"
			$ ancards cards --search "#idea"
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return errNoTerminal
			}
			return cardview.Run(s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ViewID, "view", "v", "", "View to open (default \"default\")")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "Layout mode: masonry, grid or list")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Query expression that replaces the view's query")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Initial search terms")

	return cmd
}

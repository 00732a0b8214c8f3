package views

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/ancards/internal/state"
	viewsadd "github.com/Paintersrp/ancards/pkg/cmd/views/add"
	viewsremove "github.com/Paintersrp/ancards/pkg/cmd/views/remove"
)

func NewCmdViews(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Manage card views",
		Long: heredoc.Doc(`
			Manage the named card views of the current workspace. A view's query, sort,
			mode and limit seed its saved state the first time it is opened.
		`),
	}

	cmd.AddCommand(
		newCmdViewList(s),
		viewsadd.NewCmdViewAdd(s),
		viewsremove.NewCmdViewRemove(s),
	)

	return cmd
}

func newCmdViewList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(s.Workspace.ViewOrder) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No views configured")
				return nil
			}
			for _, name := range s.Workspace.ViewOrder {
				def, ok := s.Workspace.View(name)
				if !ok {
					continue
				}
				query := def.Query
				if query == "" {
					query = "(all notes)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, query)
			}
			return nil
		},
	}
}

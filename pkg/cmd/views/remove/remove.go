package remove

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

func NewCmdViewRemove(s *state.State) *cobra.Command {
	var (
		name   string
		forget bool
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a card view",
		RunE: func(cmd *cobra.Command, args []string) error {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				return fmt.Errorf("view name is required")
			}

			if err := s.Config.RemoveView(trimmed); err != nil {
				return err
			}
			if forget && s.Views != nil {
				if err := s.Views.Reset(trimmed); err != nil && !errors.Is(err, viewstate.ErrUnknownView) {
					return err
				}
			}

			cmd.Printf("Removed view %q\n", trimmed)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the view to remove")
	cmd.Flags().BoolVar(&forget, "state", false, "Also forget the view's saved state")
	cmd.MarkFlagRequired("name")

	return cmd
}

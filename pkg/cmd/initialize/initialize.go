package initialize

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/internal/tui/initialize"
)

// prompt is replaced in tests.
var prompt = initialize.Run

func NewCmdInit() *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Aliases: []string{"i", "initialize"},
		Short:   "Create the ancards configuration",
		Long: heredoc.Doc(`
			Walk through choosing a vault directory, editor and card width, then write
			them as the default workspace. Blank inputs take the shown defaults.
		`),
		Example: "$ ancards init",
		Args:    cobra.NoArgs,
		// Loading the workspace would fail before there is one.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := ""
			if f := cmd.Flag("home"); f != nil {
				home = f.Value.String()
			}
			if home == "" {
				var err error
				if home, err = state.GetHomeDir(); err != nil {
					return err
				}
			}

			answers, ok, err := prompt(home)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Initialization cancelled")
				return nil
			}

			if _, err := config.Init(home, answers.Workspace()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialization complete! Cards will be read from %s\n", answers.VaultDir)
			return nil
		},
	}
}

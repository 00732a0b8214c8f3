package workspace

import (
	"fmt"
	"maps"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/pathutil"
	"github.com/Paintersrp/ancards/internal/state"
)

func NewCmdWorkspace(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces",
		Long: heredoc.Doc(`
			A workspace pairs a vault with its own card settings and views. The
			current workspace is used unless --workspace picks another one.
		`),
	}

	cmd.AddCommand(
		newCmdWorkspaceList(s),
		newCmdWorkspaceSwitch(s),
		newCmdWorkspaceAdd(s),
		newCmdWorkspaceRemove(s),
	)

	return cmd
}

func newCmdWorkspaceList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := s.Config.WorkspaceNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workspaces configured")
				return nil
			}

			for _, name := range names {
				marker := " "
				if name == s.Config.CurrentWorkspace {
					marker = "*"
				}
				vault := ""
				if ws := s.Config.Workspaces[name]; ws != nil {
					vault = ws.VaultDir
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, name, vault)
			}

			return nil
		},
	}
}

func newCmdWorkspaceSwitch(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "switch [name]",
		Short: "Switch the active workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if target == "" {
				return fmt.Errorf("workspace name cannot be empty")
			}

			if err := s.Config.SwitchWorkspace(target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Switched to workspace %q\n", target)
			return nil
		},
	}
}

func newCmdWorkspaceAdd(s *state.State) *cobra.Command {
	var (
		name        string
		vault       string
		makeCurrent bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new workspace",
		Example: heredoc.Doc(`
			$ ancards workspace add --name work --vault ~/notes/work --current
		`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("workspace name is required")
			}
			vault = strings.TrimSpace(vault)
			if vault == "" {
				return fmt.Errorf("vault path is required")
			}

			ws := cloneWorkspaceSettings(s.Workspace)
			ws.VaultDir = pathutil.NormalizePath(vault)

			if err := s.Config.AddWorkspace(name, ws, makeCurrent); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added workspace %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the new workspace")
	cmd.Flags().StringVar(&vault, "vault", "", "Path to the workspace vault")
	cmd.Flags().BoolVar(&makeCurrent, "current", false, "Switch to the new workspace after creation")

	return cmd
}

func newCmdWorkspaceRemove(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [name]",
		Short: "Remove an existing workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("workspace name cannot be empty")
			}

			if err := s.Config.RemoveWorkspace(name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed workspace %q\n", name)
			return nil
		},
	}
}

// cloneWorkspaceSettings copies everything but the vault so a new workspace
// starts with the same editor, card tuning and views.
func cloneWorkspaceSettings(src *config.Workspace) *config.Workspace {
	if src == nil {
		return &config.Workspace{Cards: config.DefaultCards()}
	}

	clone := &config.Workspace{
		Editor:   src.Editor,
		NvimArgs: src.NvimArgs,
		Search: config.SearchConfig{
			IgnoredFolders: append([]string(nil), src.Search.IgnoredFolders...),
			Extensions:     append([]string(nil), src.Search.Extensions...),
		},
		Cards:     src.Cards,
		Views:     maps.Clone(src.Views),
		ViewOrder: append([]string(nil), src.ViewOrder...),
	}
	if src.Cards.ShowImages != nil {
		show := *src.Cards.ShowImages
		clone.Cards.ShowImages = &show
	}
	return clone
}

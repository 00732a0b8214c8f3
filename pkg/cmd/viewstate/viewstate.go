package viewstate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/results"
	"github.com/Paintersrp/ancards/internal/state"
	"github.com/Paintersrp/ancards/internal/viewstate"
)

// choose asks the user to pick one of choices.
var choose = func(prompt string, choices []string) (string, error) {
	sel := selection.New(prompt, choices)
	sel.Filter = nil
	return sel.RunPrompt()
}

func NewCmdState(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and edit saved view state",
		Long: heredoc.Doc(`
			Every card view remembers its search, sort, shuffle seed, mode, limit and card
			width between sessions. Use these subcommands to inspect or change that state
			without opening the view.
		`),
	}

	cmd.AddCommand(
		newCmdStateList(s),
		newCmdStateShow(s),
		newCmdStateReset(s),
		newCmdStateSet(s),
	)

	return cmd
}

func newCmdStateList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List views with saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := s.Views.List()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved view state")
				return nil
			}
			for _, id := range ids {
				rec, err := s.Views.Load(id)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t(unreadable: %v)\n", id, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", id, rec.Mode, rec.Sort)
			}
			return nil
		},
	}
}

func newCmdStateShow(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "show [view]",
		Short: "Print the saved state of a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := s.Views.Load(args[0])
			if errors.Is(err, viewstate.ErrUnknownView) {
				fmt.Fprintf(cmd.OutOrStdout(), "View %q has no saved state\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode view state: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newCmdStateReset(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [view]",
		Short: "Forget the saved state of a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Views.Reset(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset view %q\n", args[0])
			return nil
		},
	}
}

type setOptions struct {
	mode  string
	sort  string
	width string
	limit int
}

func newCmdStateSet(s *state.State) *cobra.Command {
	opts := &setOptions{}

	cmd := &cobra.Command{
		Use:   "set [view]",
		Short: "Change the saved state of a view",
		Example: heredoc.Doc(`
			$ ancards state set reading --mode grid --sort title-asc
			$ ancards state set inbox --width wide --limit 50
			$ ancards state set inbox
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := !cmd.Flags().Changed("mode") &&
				!cmd.Flags().Changed("sort") &&
				!cmd.Flags().Changed("width") &&
				!cmd.Flags().Changed("limit")
			if interactive {
				if err := opts.prompt(); err != nil {
					return err
				}
			}

			rec, err := apply(s.Views, args[0], opts, cmd.Flags().Changed("limit"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved view %q: %s, %s, %s cards\n", args[0], rec.Mode, rec.Sort, rec.WidthMode)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "Layout mode: "+strings.Join(config.ValidModes, ", "))
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort order")
	cmd.Flags().StringVar(&opts.width, "width", "", "Card width: normal or wide")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Result limit, 0 for unlimited")

	return cmd
}

func (o *setOptions) prompt() error {
	mode, err := choose("Layout mode for this view:", config.ValidModes)
	if err != nil {
		return err
	}

	sorts := make([]string, len(results.Sorts))
	for i, s := range results.Sorts {
		sorts[i] = string(s)
	}
	sort, err := choose("Sort order for this view:", sorts)
	if err != nil {
		return err
	}

	o.mode, o.sort = mode, sort
	return nil
}

// apply merges opts into the stored record for id and saves it.
func apply(store *viewstate.Store, id string, opts *setOptions, setLimit bool) (viewstate.Record, error) {
	rec, err := store.Load(id)
	if err != nil && !errors.Is(err, viewstate.ErrUnknownView) {
		return viewstate.Record{}, err
	}

	if opts.mode != "" {
		if !config.IsValidMode(opts.mode) {
			return viewstate.Record{}, fmt.Errorf("invalid mode %q", opts.mode)
		}
		rec.Mode = opts.mode
	}
	if opts.sort != "" {
		sort, ok := results.ParseSort(opts.sort)
		if !ok {
			return viewstate.Record{}, fmt.Errorf("invalid sort %q", opts.sort)
		}
		rec.Sort = string(sort)
	}
	if opts.width != "" {
		if opts.width != viewstate.WidthNormal && opts.width != viewstate.WidthWide {
			return viewstate.Record{}, fmt.Errorf("invalid width %q: expected normal or wide", opts.width)
		}
		rec.WidthMode = opts.width
	}
	if setLimit {
		if opts.limit < 0 {
			return viewstate.Record{}, fmt.Errorf("limit cannot be negative")
		}
		rec.Limit = opts.limit
	}

	rec = rec.Normalize()
	if err := store.Save(id, rec); err != nil {
		return viewstate.Record{}, err
	}
	return rec, nil
}

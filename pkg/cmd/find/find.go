package find

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/ancards/internal/constants"
	"github.com/Paintersrp/ancards/internal/fzf"
	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/internal/note"
	"github.com/Paintersrp/ancards/internal/results"
	"github.com/Paintersrp/ancards/internal/state"
)

type findOptions struct {
	view  string
	query string
	sort  string
	open  bool
}

func NewCmdFind(s *state.State) *cobra.Command {
	opts := &findOptions{}

	cmd := &cobra.Command{
		Use:     "find [search terms]",
		Aliases: []string{"f"},
		Short:   "Fuzzy find a card and print or open its note",
		Long: heredoc.Doc(`
			Run a view's query through the same pipeline as the card view and pick one
			result with a fuzzy finder. The chosen note's path is printed, or the note is
			opened in your editor with --open.
		`),
		Example: heredoc.Doc(`
			$ ancards find
			$ ancards find --view reading --open
			$ ancards find --query "tag:go" cards
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.view, "view", "v", constants.DefaultView, "View whose query and sort to use")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Query expression that replaces the view's query")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort to apply: "+sortNames())
	cmd.Flags().BoolVarP(&opts.open, "open", "o", false, "Open the chosen note in the configured editor")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, opts *findOptions, terms string) error {
	req, err := request(s, opts)
	if err != nil {
		return err
	}

	out := results.NewPipeline(s.Index, logging.New("find")).Run(req)
	if out.Err != nil {
		return errors.New(out.Message)
	}
	if out.Total() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notes match this view")
		return nil
	}

	doc, err := fzf.NewFuzzyFinder(out.Documents, fmt.Sprintf("%s · %d notes", opts.view, out.Total())).Pick(terms)
	if errors.Is(err, fzf.ErrNoSelection) {
		fmt.Fprintln(cmd.OutOrStdout(), "No file selected")
		return nil
	}
	if err != nil {
		return err
	}

	if opts.open {
		return note.OpenFromPath(doc.Path)
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc.Path)
	return nil
}

// request resolves the view definition and flags into a pipeline request.
func request(s *state.State, opts *findOptions) (results.Request, error) {
	def, ok := s.Workspace.View(opts.view)
	if !ok && opts.view != constants.DefaultView {
		return results.Request{}, fmt.Errorf("view %q is not configured", opts.view)
	}

	req := results.Request{Expression: def.Query, Limit: def.Limit}
	if opts.query != "" {
		req.Expression = opts.query
	}

	sortName := def.Sort
	if opts.sort != "" {
		sortName = opts.sort
	}
	if sortName == "" {
		sortName = s.Workspace.Cards.DefaultSort
	}
	sort, ok := results.ParseSort(sortName)
	if !ok && opts.sort != "" {
		return results.Request{}, fmt.Errorf("invalid sort %q: expected one of %s", opts.sort, sortNames())
	}
	req.Sort = sort
	return req, nil
}

func sortNames() string {
	names := make([]string, len(results.Sorts))
	for i, s := range results.Sorts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

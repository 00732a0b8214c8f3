package add

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/results"
	"github.com/Paintersrp/ancards/internal/search"
	"github.com/Paintersrp/ancards/internal/state"
)

func NewCmdViewAdd(s *state.State) *cobra.Command {
	var (
		name  string
		query string
		sort  string
		mode  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card view",
		Example: heredoc.Doc(`
			$ ancards views add --name reading --query "tag:reading" --sort title-asc --mode grid
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			trimmedName := strings.TrimSpace(name)
			if trimmedName == "" {
				return fmt.Errorf("view name is required")
			}

			query = strings.TrimSpace(query)
			if _, err := search.ParseExpr(query); err != nil {
				return fmt.Errorf("invalid query: %w", err)
			}

			sort = strings.ToLower(strings.TrimSpace(sort))
			if sort != "" {
				if _, ok := results.ParseSort(sort); !ok {
					return fmt.Errorf("invalid sort: %s", sort)
				}
			}
			if limit < 0 {
				return fmt.Errorf("limit cannot be negative")
			}

			def := config.ViewDefinition{
				Query: query,
				Sort:  sort,
				Mode:  strings.ToLower(strings.TrimSpace(mode)),
				Limit: limit,
			}
			if err := s.Config.AddView(trimmedName, def); err != nil {
				return err
			}

			cmd.Printf("Added view %q\n", trimmedName)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the view to add")
	cmd.Flags().StringVar(&query, "query", "", "Query expression selecting the view's notes")
	cmd.Flags().StringVar(&sort, "sort", "", "Initial sort (mtime-desc, title-asc, random, ...)")
	cmd.Flags().StringVar(&mode, "mode", "", "Initial layout mode ("+strings.Join(config.ValidModes, ", ")+")")
	cmd.Flags().IntVar(&limit, "limit", 0, "Initial result limit, 0 for unlimited")

	cmd.MarkFlagRequired("name")

	return cmd
}

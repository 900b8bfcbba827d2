package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/internal/cli/config"
	"github.com/leapstack-labs/sqldeps/internal/state"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved extraction runs",
		Example: `  # Show recent runs
  sqldeps runs

  # Show more history as JSON
  sqldeps runs --limit 50 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to list")

	return cmd
}

func runRuns(cmd *cobra.Command, limit int) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return fmt.Errorf("no state database at %s (run 'sqldeps extract --save' first): %w", cfg.StatePath, err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return err
	}

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	return RenderRuns(cmd.OutOrStdout(), cfg.OutputFormat, runs)
}

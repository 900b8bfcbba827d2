package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/internal/cli/config"
	"github.com/leapstack-labs/sqldeps/internal/state"
	"github.com/leapstack-labs/sqldeps/pkg/depgraph"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract dependency edges from SQL sources",
		Long: `Scan procedural SQL files and extract the dependency edges between
procedures, functions, tables, and views.

Paths may be files or directories; directories are walked recursively for
.sql files. With no paths, the configured sql_dir is scanned.`,
		Example: `  # Extract from the configured sql_dir
  sqldeps extract

  # Extract specific files and directories
  sqldeps extract procs/load.sql ./etl

  # Extract and persist the run for later impact queries
  sqldeps extract --save

  # Machine-readable output
  sqldeps extract --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Persist the run to the state database")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, save bool) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{cfg.SQLDir}
	}

	files, err := ListSQLFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .sql files found under %s", strings.Join(paths, ", "))
	}

	edges, err := ExtractFiles(cmd.Context(), catalog, files, cfg.Jobs, logger)
	if err != nil {
		return err
	}

	if save {
		if err := saveRun(cfg, strings.Join(paths, ","), edges); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run with %d edges to %s\n", len(edges), cfg.StatePath)
	}

	return RenderEdges(cmd.OutOrStdout(), cfg.OutputFormat, edges)
}

// saveRun persists an extraction as a completed run.
func saveRun(cfg *config.Config, source string, edges []depgraph.DependencyEdge) error {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(nil)
	if err := store.Open(cfg.StatePath); err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return err
	}

	run, err := store.CreateRun(source)
	if err != nil {
		return err
	}
	if err := store.SaveEdges(run.ID, edges); err != nil {
		_ = store.CompleteRun(run.ID, state.RunStatusFailed, err.Error())
		return err
	}
	return store.CompleteRun(run.ID, state.RunStatusCompleted, "")
}

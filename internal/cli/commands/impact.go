package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/internal/cli/config"
	"github.com/leapstack-labs/sqldeps/internal/dag"
	"github.com/leapstack-labs/sqldeps/internal/state"
)

// NewImpactCommand creates the impact command.
func NewImpactCommand() *cobra.Command {
	var runID string
	var upstream bool

	cmd := &cobra.Command{
		Use:   "impact <schema.object>",
		Short: "Show objects affected by a change",
		Long: `Query the dependency graph of a saved extraction run for the blast
radius of a change: every object downstream of the given one.

With --upstream the direction flips: the query reports everything the
object transitively depends on instead.

Runs are created with 'sqldeps extract --save'; the latest run is used
unless --run selects a specific one.`,
		Example: `  # What breaks if sales.Orders changes?
  sqldeps impact sales.Orders

  # What does usp_Load depend on?
  sqldeps impact sales.usp_Load --upstream

  # Query a specific run
  sqldeps impact sales.Orders --run 3f2a...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpact(cmd, args[0], runID, upstream)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID to query (default: latest)")
	cmd.Flags().BoolVar(&upstream, "upstream", false, "Report dependencies instead of dependents")

	return cmd
}

func runImpact(cmd *cobra.Command, object, runID string, upstream bool) error {
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

	if runID == "" {
		latest, err := store.GetLatestRun()
		if err != nil {
			return err
		}
		if latest == nil {
			return fmt.Errorf("no saved runs in %s (run 'sqldeps extract --save' first)", cfg.StatePath)
		}
		runID = latest.ID
	}

	edges, err := store.GetEdges(runID)
	if err != nil {
		return err
	}

	graph := dag.FromEdges(edges)

	ids := matchNodes(graph, object)
	if len(ids) == 0 {
		return fmt.Errorf("object %q not found in run %s", object, runID)
	}

	out := cmd.OutOrStdout()
	for _, id := range ids {
		if upstream {
			RenderObjectList(out, fmt.Sprintf("Upstream of %s", id), graph.Upstream(id))
		} else {
			RenderObjectList(out, fmt.Sprintf("Affected by %s", id), graph.Affected([]string{id}))
		}
	}
	return nil
}

// matchNodes finds graph nodes whose object matches the given schema.name
// reference. Kind is not part of the reference, so a name shared by a table
// and a view matches both.
func matchNodes(graph *dag.Graph, ref string) []string {
	var ids []string
	for _, node := range graph.AllNodes() {
		if strings.EqualFold(node.Object.FullName(), ref) || strings.EqualFold(node.Object.Name, ref) {
			ids = append(ids, node.ID)
		}
	}
	return ids
}

package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/internal/cli/config"
	"github.com/leapstack-labs/sqldeps/internal/dag"
)

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag",
		Short: "Show the object dependency graph",
		Long: `Extract the configured SQL sources and display the resulting object
graph in dependency order, with roots (pure sources) and leaves (final
outputs) called out. Cycles are reported rather than rejected; extraction
is tolerant by design and a cyclic graph is still useful to inspect.`,
		Example: `  # Show the graph for the configured sql_dir
  sqldeps dag

  # Output as JSON
  sqldeps dag --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDAG(cmd)
		},
	}

	return cmd
}

// dagOutput is the JSON shape of the dag command.
type dagOutput struct {
	Objects []dagNode `json:"objects"`
	Roots   []string  `json:"roots"`
	Leaves  []string  `json:"leaves"`
	Cycle   []string  `json:"cycle,omitempty"`
	Edges   int       `json:"edges"`
}

type dagNode struct {
	ID        string   `json:"id"`
	DependsOn []string `json:"depends_on,omitempty"`
	UsedBy    []string `json:"used_by,omitempty"`
}

func runDAG(cmd *cobra.Command) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	files, err := ListSQLFiles([]string{cfg.SQLDir})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .sql files found under %s", cfg.SQLDir)
	}

	edges, err := ExtractFiles(cmd.Context(), catalog, files, cfg.Jobs, logger)
	if err != nil {
		return err
	}

	graph := dag.FromEdges(edges)
	out := cmd.OutOrStdout()

	hasCycle, cyclePath := graph.HasCycle()

	if cfg.OutputFormat == "json" {
		result := dagOutput{
			Roots:  graph.Roots(),
			Leaves: graph.Leaves(),
			Edges:  graph.EdgeCount(),
		}
		if hasCycle {
			result.Cycle = cyclePath
		}
		for _, node := range graph.AllNodes() {
			result.Objects = append(result.Objects, dagNode{
				ID:        node.ID,
				DependsOn: graph.Dependencies(node.ID),
				UsedBy:    graph.Dependents(node.ID),
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if hasCycle {
		fmt.Fprintf(out, "Cycle detected: %s\n\n", strings.Join(cyclePath, " -> "))
		for _, node := range graph.AllNodes() {
			printDAGNode(cmd, graph, node.ID)
		}
	} else {
		sorted, err := graph.TopologicalSort()
		if err != nil {
			return err
		}
		for _, node := range sorted {
			printDAGNode(cmd, graph, node.ID)
		}
	}

	fmt.Fprintf(out, "\nRoots:  %s\n", strings.Join(graph.Roots(), ", "))
	fmt.Fprintf(out, "Leaves: %s\n", strings.Join(graph.Leaves(), ", "))
	fmt.Fprintf(out, "Total: %d objects, %d edges\n", graph.NodeCount(), graph.EdgeCount())
	return nil
}

func printDAGNode(cmd *cobra.Command, graph *dag.Graph, id string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", id)
	if deps := graph.Dependencies(id); len(deps) > 0 {
		fmt.Fprintf(out, "  depends on: %s\n", strings.Join(deps, ", "))
	}
	if used := graph.Dependents(id); len(used) > 0 {
		fmt.Fprintf(out, "  used by:    %s\n", strings.Join(used, ", "))
	}
}

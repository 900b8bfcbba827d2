package depgraph

import (
	"log/slog"

	"github.com/leapstack-labs/sqldeps/pkg/sqltree"
)

// ExtractOptions configures an extraction run.
type ExtractOptions struct {
	// Logger receives debug diagnostics during traversal. Nil discards them.
	Logger *slog.Logger
}

// Extract walks an already-parsed syntax tree and returns the discovered
// dependency edges in document order.
//
// The traversal is single-threaded, synchronous, and linear in the node
// count. The catalog is read-only for the duration of the run; callers may
// share one catalog across concurrent Extract calls over different trees,
// since each call owns its own collector state.
func Extract(root *sqltree.Node, catalog *Catalog) []DependencyEdge {
	return ExtractWithOptions(root, catalog, ExtractOptions{})
}

// ExtractWithOptions extracts dependency edges with full configuration.
func ExtractWithOptions(root *sqltree.Node, catalog *Catalog, opts ExtractOptions) []DependencyEdge {
	collector := NewCollector(catalog)
	walker := NewWalker(catalog, collector, opts.Logger)
	walker.Walk(root)
	return collector.Edges()
}

// ExtractScript parses procedural SQL source and extracts its dependency
// edges. Parse tolerance means a run always completes and returns whatever
// edges were discovered; ambiguity is reported per edge, never as a failure.
func ExtractScript(sql string, catalog *Catalog) []DependencyEdge {
	return Extract(sqltree.Parse(sql), catalog)
}

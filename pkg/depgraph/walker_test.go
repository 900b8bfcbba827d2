package depgraph

import (
	"testing"

	"github.com/leapstack-labs/sqldeps/pkg/sqltree"
)

// Hand-built trees exercise the walker's dispatch and the heuristic
// reference classifier independently of the scanner.

func name(text string, line int) *sqltree.Node {
	return &sqltree.Node{Kind: sqltree.NodeName, Text: text, Line: line}
}

func word(text string) *sqltree.Node {
	return &sqltree.Node{Kind: sqltree.NodeToken, Text: text, Line: 1}
}

func walkTree(t *testing.T, root *sqltree.Node) []DependencyEdge {
	t.Helper()
	catalog := mustCatalog(t, []string{"dbo", "sales"}, map[string][]string{
		"Orders": {"sales"},
	})
	return Extract(root, catalog)
}

func TestWalker_HeuristicFallback(t *testing.T) {
	// No typed name children: the walker falls back to token heuristics.
	sel := &sqltree.Node{Kind: sqltree.NodeSelect, Text: "SELECT ...", Line: 4, Children: []*sqltree.Node{
		word("SELECT"),     // stoplist keyword
		word("COUNT("),     // contains paren: function call, excluded
		word("ID"),         // short all-uppercase, excluded
		word("Orders"),     // table-like
		word("sales.Fact"), // table-like, qualified
		word("Orders"),     // duplicate, deduplicated
	}}
	proc := &sqltree.Node{Kind: sqltree.NodeCreateProcedure, Line: 1, Children: []*sqltree.Node{
		name("dbo.usp_Report", 1),
		sel,
	}}
	root := &sqltree.Node{Kind: sqltree.NodeScript, Children: []*sqltree.Node{proc}}

	edges := walkTree(t, root)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d: %+v", len(edges), edges)
	}
	if edges[0].Target.Name != "Orders" || edges[0].Relationship != RelReads {
		t.Errorf("unexpected first edge: %+v", edges[0])
	}
	if edges[1].Target.FullName() != "sales.Fact" {
		t.Errorf("unexpected second edge: %+v", edges[1])
	}
}

func TestWalker_TypedNamesPreferredOverHeuristic(t *testing.T) {
	// When typed name accessors exist, token heuristics are not applied.
	sel := &sqltree.Node{Kind: sqltree.NodeSelect, Line: 2, Children: []*sqltree.Node{
		word("FROM"),
		name("sales.Orders", 2),
		word("LooksLikeATable"),
	}}
	proc := &sqltree.Node{Kind: sqltree.NodeCreateProcedure, Line: 1, Children: []*sqltree.Node{
		name("dbo.usp_X", 1),
		sel,
	}}
	root := &sqltree.Node{Kind: sqltree.NodeScript, Children: []*sqltree.Node{proc}}

	edges := walkTree(t, root)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].Target.FullName() != "sales.Orders" {
		t.Errorf("unexpected target: %+v", edges[0].Target)
	}
}

func TestWalker_UnknownNodeKindsRecurse(t *testing.T) {
	// Statement wrappers the walker does not classify must still be
	// traversed without side effect.
	inner := &sqltree.Node{Kind: sqltree.NodeCall, Line: 3, Children: []*sqltree.Node{
		name("usp_Child", 3),
	}}
	wrapper := &sqltree.Node{Kind: sqltree.NodeStatement, Children: []*sqltree.Node{inner}}
	proc := &sqltree.Node{Kind: sqltree.NodeCreateProcedure, Line: 1, Children: []*sqltree.Node{
		name("dbo.usp_Parent", 1),
		wrapper,
	}}
	root := &sqltree.Node{Kind: sqltree.NodeScript, Children: []*sqltree.Node{proc}}

	edges := walkTree(t, root)
	if len(edges) != 1 || edges[0].Relationship != RelCalls {
		t.Fatalf("expected 1 calls edge through wrapper node, got %+v", edges)
	}
}

func TestWalker_MalformedShapesDegrade(t *testing.T) {
	// Definitions and statements missing expected children record nothing
	// and never panic.
	root := &sqltree.Node{Kind: sqltree.NodeScript, Children: []*sqltree.Node{
		{Kind: sqltree.NodeCreateProcedure, Line: 1}, // no name child
		{Kind: sqltree.NodeCall, Line: 2},            // no callee
		{Kind: sqltree.NodeCreateTable, Line: 3},     // no target
		nil,
	}}

	edges := walkTree(t, root)
	if len(edges) != 0 {
		t.Fatalf("expected no edges from malformed tree, got %+v", edges)
	}
}

func TestWalker_DefinitionAmbiguityNotAttached(t *testing.T) {
	// An unqualified definition name runs through the resolver, but the
	// ambiguity flag is discarded: definitions are not edges.
	proc := &sqltree.Node{Kind: sqltree.NodeCreateProcedure, Line: 1, Children: []*sqltree.Node{
		name("usp_Unqualified", 1),
		{Kind: sqltree.NodeSelect, Line: 2, Children: []*sqltree.Node{
			word("FROM"), name("sales.Orders", 2),
		}},
	}}
	root := &sqltree.Node{Kind: sqltree.NodeScript, Children: []*sqltree.Node{proc}}

	edges := walkTree(t, root)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].Source.Schema != "dbo" {
		t.Errorf("definition schema should fall back to default, got %s", edges[0].Source.Schema)
	}
	if edges[0].Ambiguous {
		t.Error("edge ambiguity must reflect the target, not the source definition")
	}
}

func TestIsTableLike(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Orders", true},
		{"sales.Orders", true},
		{"order_lines", true},
		{"", false},
		{"FROM", false},
		{"from", false},
		{"COUNT(", false},
		{"(SELECT", false},
		{"ID", false},  // short all-uppercase
		{"Id", true},   // mixed case passes the length heuristic
		{"xy", true},   // short lowercase passes
		{"ABC", true},  // length 3: not "short"
		{"t", true},    // single lowercase letter
	}

	for _, tt := range tests {
		if got := isTableLike(tt.text); got != tt.want {
			t.Errorf("isTableLike(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

package depgraph

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqldeps/pkg/sqltree"
)

// referenceStoplist excludes bare SQL keywords from heuristic table-reference
// classification inside statement subtrees.
var referenceStoplist = map[string]struct{}{
	"SELECT": {}, "FROM": {}, "WHERE": {}, "AND": {}, "OR": {}, "AS": {},
	"ON": {}, "JOIN": {}, "INNER": {}, "LEFT": {}, "RIGHT": {}, "FULL": {},
	"OUTER": {}, "CROSS": {}, "GROUP": {}, "BY": {}, "ORDER": {}, "HAVING": {},
	"INTO": {}, "VALUES": {}, "SET": {}, "UNION": {}, "ALL": {}, "DISTINCT": {},
	"TOP": {}, "WITH": {}, "CASE": {}, "WHEN": {}, "THEN": {}, "ELSE": {},
	"END": {}, "NOT": {}, "NULL": {}, "IS": {}, "IN": {}, "EXISTS": {},
	"BETWEEN": {}, "LIKE": {}, "INSERT": {}, "UPDATE": {}, "DELETE": {},
	"MERGE": {}, "USING": {}, "LIMIT": {}, "OFFSET": {}, "ASC": {}, "DESC": {},
}

// Walker traverses the syntax tree depth-first, pre-order, recognizing
// definition boundaries and statement kinds and driving the Collector.
//
// The Walker never fails on malformed or unexpected node shapes: every
// extraction step that cannot find an expected child degrades to "no
// dependency recorded". Partial results always beat a failed run.
type Walker struct {
	collector *Collector
	catalog   *Catalog
	logger    *slog.Logger
}

// NewWalker creates a Walker driving the given collector.
func NewWalker(catalog *Catalog, collector *Collector, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Walker{
		collector: collector,
		catalog:   catalog,
		logger:    logger,
	}
}

// Walk dispatches on the node's category and recurses where appropriate.
// Node kinds the walker does not understand are recursed into without side
// effect.
func (w *Walker) Walk(node *sqltree.Node) {
	if node == nil {
		return
	}

	switch node.Kind {
	case sqltree.NodeCreateProcedure:
		w.enterDefinition(node, KindProcedure)
	case sqltree.NodeCreateFunction:
		w.enterDefinition(node, KindFunction)
	case sqltree.NodeCall:
		w.recordCall(node)
	case sqltree.NodeDynamicSQL:
		w.recordDynamicSQL(node)
	case sqltree.NodeSelect:
		w.recordReferences(node, RelReads)
	case sqltree.NodeInsert, sqltree.NodeUpdate, sqltree.NodeDelete, sqltree.NodeMerge:
		w.recordReferences(node, RelWrites)
	case sqltree.NodeCreateTable:
		w.recordCreateTable(node)
	case sqltree.NodeCreateView:
		w.recordCreateView(node)
	default:
		for _, child := range node.Children {
			w.Walk(child)
		}
	}
}

// enterDefinition sets the enclosing definition and walks the body.
//
// The defining object's own schema still runs through the resolver when
// unqualified, but the ambiguity flag is discarded: definitions are not
// edges, so there is nothing to attach it to.
func (w *Walker) enterDefinition(node *sqltree.Node, kind ObjectKind) {
	name := node.FirstChild(sqltree.NodeName)
	if name == nil || name.Text == "" {
		w.logger.Debug("definition without a name, skipping", "line", node.Line)
		return
	}

	explicitSchema, bare := SplitObjectName(name.Text)
	schema, _ := w.catalog.Resolve(bare, explicitSchema)

	w.collector.EnterDefinition(SchemaObject{
		Name:   bare,
		Schema: schema,
		Kind:   kind,
	})

	for _, child := range node.Children {
		if child != nil && child.Kind != sqltree.NodeName {
			w.Walk(child)
		}
	}
}

// recordCall records a Calls edge for a direct invocation.
func (w *Walker) recordCall(node *sqltree.Node) {
	name := node.FirstChild(sqltree.NodeName)
	if name == nil || name.Text == "" {
		return
	}
	explicitSchema, bare := SplitObjectName(name.Text)
	w.collector.Record(bare, explicitSchema, RelCalls, KindProcedure, node.Line, node.Text)
}

// recordDynamicSQL records a single References edge to the sentinel target.
// The dynamic string's contents are never parsed.
func (w *Walker) recordDynamicSQL(node *sqltree.Node) {
	w.collector.Record(DynamicSQLTarget, "", RelReferences, KindProcedure, node.Line, node.Text)
}

// recordReferences records one edge per distinct table-like reference found
// within the statement subtree.
func (w *Walker) recordReferences(node *sqltree.Node, rel Relationship) {
	for _, text := range w.tableReferences(node) {
		explicitSchema, bare := SplitObjectName(text)
		w.collector.Record(bare, explicitSchema, rel, KindTable, node.Line, node.Text)
	}
}

// recordCreateTable records a Creates edge; names carrying the temp marker
// become temporary tables scoped to the enclosing definition.
func (w *Walker) recordCreateTable(node *sqltree.Node) {
	name := node.FirstChild(sqltree.NodeName)
	if name == nil || name.Text == "" {
		return
	}
	explicitSchema, bare := SplitObjectName(name.Text)
	w.collector.Record(bare, explicitSchema, RelCreates, KindTable, node.Line, node.Text)
}

// recordCreateView records a Creates edge for the view, then walks the
// defining query so its reads are attributed to the enclosing definition.
func (w *Walker) recordCreateView(node *sqltree.Node) {
	if name := node.FirstChild(sqltree.NodeName); name != nil && name.Text != "" {
		explicitSchema, bare := SplitObjectName(name.Text)
		w.collector.Record(bare, explicitSchema, RelCreates, KindView, node.Line, node.Text)
	}
	for _, child := range node.Children {
		if child != nil && child.Kind != sqltree.NodeName {
			w.Walk(child)
		}
	}
}

// tableReferences finds distinct table-like references within a statement
// subtree, in document order.
//
// Typed NodeName children are the grammar-precise accessors and are
// preferred wherever the tree provides them. When a statement exposes none,
// the walker falls back to a conservative textual heuristic over token
// children: a token is table-like if it exposes literal text containing no
// parenthesis (excludes function calls and opaque subqueries), is not a bare
// stoplist keyword, and is not a short all-uppercase token. False positives
// and negatives are an accepted tradeoff of the heuristic.
func (w *Walker) tableReferences(node *sqltree.Node) []string {
	var refs []string
	seen := make(map[string]struct{})

	add := func(text string) {
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		refs = append(refs, text)
	}

	var collectNames func(n *sqltree.Node)
	collectNames = func(n *sqltree.Node) {
		for _, child := range n.Children {
			if child == nil {
				continue
			}
			if child.Kind == sqltree.NodeName && child.Text != "" {
				add(child.Text)
			}
			collectNames(child)
		}
	}
	collectNames(node)

	if len(refs) > 0 {
		return refs
	}

	var collectHeuristic func(n *sqltree.Node)
	collectHeuristic = func(n *sqltree.Node) {
		for _, child := range n.Children {
			if child == nil {
				continue
			}
			if child.Kind == sqltree.NodeToken && isTableLike(child.Text) {
				add(child.Text)
			}
			collectHeuristic(child)
		}
	}
	collectHeuristic(node)

	return refs
}

// isTableLike applies the heuristic reference classifier to a token's text.
func isTableLike(text string) bool {
	if text == "" {
		return false
	}
	if strings.ContainsAny(text, "()") {
		return false
	}
	if _, stopped := referenceStoplist[strings.ToUpper(text)]; stopped {
		return false
	}
	if len(text) < 3 && text == strings.ToUpper(text) && text != strings.ToLower(text) {
		return false
	}
	return true
}

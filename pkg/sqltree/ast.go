// Package sqltree provides lexing and tolerant statement scanning for
// procedural SQL (stored procedures, functions, scripts). It produces a
// generic syntax tree of categorized nodes with per-node source text and
// line numbers. Consumers dispatch on NodeKind; unrecognized constructs
// are preserved as generic statement nodes rather than rejected.
package sqltree

import "fmt"

// NodeKind categorizes a syntax tree node.
type NodeKind int

const (
	// NodeScript is the root node of a parsed script.
	NodeScript NodeKind = iota
	// NodeCreateProcedure is a CREATE [OR ALTER] PROCEDURE definition.
	NodeCreateProcedure
	// NodeCreateFunction is a CREATE [OR ALTER] FUNCTION definition.
	NodeCreateFunction
	// NodeCreateTable is a CREATE TABLE statement (including #temp tables).
	NodeCreateTable
	// NodeCreateView is a CREATE VIEW statement.
	NodeCreateView
	// NodeCall is a direct procedure invocation (EXEC, EXECUTE, CALL).
	NodeCall
	// NodeDynamicSQL is a dynamic SQL execution (EXECUTE IMMEDIATE,
	// sp_executesql, EXEC of a string or variable).
	NodeDynamicSQL
	// NodeSelect is a SELECT statement.
	NodeSelect
	// NodeInsert is an INSERT statement.
	NodeInsert
	// NodeUpdate is an UPDATE statement.
	NodeUpdate
	// NodeDelete is a DELETE statement.
	NodeDelete
	// NodeMerge is a MERGE statement.
	NodeMerge
	// NodeStatement is any statement the scanner does not further classify.
	NodeStatement
	// NodeName is a qualified-or-bare object name within a statement.
	NodeName
	// NodeToken is a raw word-like token within a statement subtree.
	NodeToken
)

// nodeKindNames maps node kinds to their string representations.
var nodeKindNames = map[NodeKind]string{
	NodeScript:          "script",
	NodeCreateProcedure: "create_procedure",
	NodeCreateFunction:  "create_function",
	NodeCreateTable:     "create_table",
	NodeCreateView:      "create_view",
	NodeCall:            "call",
	NodeDynamicSQL:      "dynamic_sql",
	NodeSelect:          "select",
	NodeInsert:          "insert",
	NodeUpdate:          "update",
	NodeDelete:          "delete",
	NodeMerge:           "merge",
	NodeStatement:       "statement",
	NodeName:            "name",
	NodeToken:           "token",
}

// String returns a human-readable representation of the node kind.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("node(%d)", int(k))
}

// Node is a node in the generic syntax tree.
//
// Statement-level nodes carry the statement's source excerpt in Text and the
// 1-based line of the statement's first token in Line. NodeName children are
// typed object-name accessors (schema-qualified text as written); NodeToken
// children are the remaining word-like tokens of the statement, kept for
// heuristic classification by consumers.
type Node struct {
	Kind     NodeKind
	Text     string
	Line     int
	Children []*Node
}

// AddChild appends a child node. Nil children are ignored.
func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// FirstChild returns the first child of the given kind, or nil.
func (n *Node) FirstChild(kind NodeKind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

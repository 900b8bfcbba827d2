// Package dag provides directed graph operations over extracted dependency
// edges. It supports cycle detection, topological ordering, and impact
// queries keyed by object identity.
package dag

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/sqldeps/pkg/depgraph"
)

// Node represents a database object in the graph.
type Node struct {
	// ID is the object's unique key (schema.name.kind)
	ID string
	// Object is the resolved schema object
	Object depgraph.SchemaObject
}

// Graph is a directed graph of database objects. An edge from A to B means
// B depends on A: data or behavior flows from A into B.
type Graph struct {
	nodes      map[string]*Node
	dependents map[string][]string // object -> objects that depend on it
	parents    map[string][]string // object -> objects it depends on
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:      make(map[string]*Node),
		dependents: make(map[string][]string),
		parents:    make(map[string][]string),
	}
}

// FromEdges builds a graph from extracted dependency edges.
//
// Edge direction follows data flow: for reads and calls the routine depends
// on the referenced object; for writes and creates the produced object
// depends on the routine that populates it. References edges (dynamic SQL)
// carry no resolvable flow and are skipped. Self-loops are skipped too: a
// recursive routine is not a dependency cycle worth reporting.
func FromEdges(edges []depgraph.DependencyEdge) *Graph {
	g := NewGraph()
	for _, e := range edges {
		g.AddObject(e.Source)
		if e.Relationship == depgraph.RelReferences {
			continue
		}
		g.AddObject(e.Target)

		switch e.Relationship {
		case depgraph.RelReads, depgraph.RelCalls:
			_ = g.AddEdge(e.Target.UniqueKey(), e.Source.UniqueKey())
		case depgraph.RelWrites, depgraph.RelCreates:
			_ = g.AddEdge(e.Source.UniqueKey(), e.Target.UniqueKey())
		}
	}
	return g
}

// Clear removes all nodes and edges from the graph.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.dependents = make(map[string][]string)
	g.parents = make(map[string][]string)
}

// AddObject adds an object to the graph, keyed by its unique key.
func (g *Graph) AddObject(obj depgraph.SchemaObject) {
	id := obj.UniqueKey()
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = &Node{ID: id, Object: obj}
		g.dependents[id] = []string{}
		g.parents[id] = []string{}
	}
}

// AddEdge adds a directed edge from parent to child (child depends on parent).
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return nil
	}

	if !contains(g.dependents[parentID], childID) {
		g.dependents[parentID] = append(g.dependents[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}

	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// Dependencies returns the objects the given node depends on.
func (g *Graph) Dependencies(id string) []string {
	return g.parents[id]
}

// Dependents returns the objects that depend on the given node.
func (g *Graph) Dependents(id string) []string {
	return g.dependents[id]
}

// AllNodes returns all nodes sorted by ID for deterministic output.
func (g *Graph) AllNodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.dependents {
		count += len(children)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.dependents[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				// Found cycle, reconstruct path
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for id := range g.nodes {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// TopologicalSort returns nodes in dependency order (dependencies before
// dependents). Returns an error if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", cyclePath)
	}

	visited := make(map[string]bool)
	var result []*Node

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		for _, parentID := range g.parents[id] {
			visit(parentID)
		}

		result = append(result, g.nodes[id])
	}

	// Sort node IDs first for deterministic order
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		visit(id)
	}

	return result, nil
}

// Affected returns all objects affected by changes to the given objects:
// the changed objects themselves plus everything downstream of them.
func (g *Graph) Affected(changedIDs []string) []string {
	affected := make(map[string]bool)

	var mark func(id string)
	mark = func(id string) {
		if affected[id] {
			return
		}
		affected[id] = true

		for _, childID := range g.dependents[id] {
			mark(childID)
		}
	}

	for _, id := range changedIDs {
		if _, exists := g.nodes[id]; exists {
			mark(id)
		}
	}

	result := make([]string, 0, len(affected))
	for id := range affected {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Upstream returns everything the given object transitively depends on.
func (g *Graph) Upstream(id string) []string {
	upstream := make(map[string]bool)

	var mark func(nodeID string)
	mark = func(nodeID string) {
		for _, parentID := range g.parents[nodeID] {
			if !upstream[parentID] {
				upstream[parentID] = true
				mark(parentID)
			}
		}
	}

	mark(id)

	result := make([]string, 0, len(upstream))
	for nodeID := range upstream {
		result = append(result, nodeID)
	}
	sort.Strings(result)
	return result
}

// Roots returns objects with no dependencies.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns objects with no dependents.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.dependents[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Subgraph returns a new graph containing only the specified nodes and the
// edges between them.
func (g *Graph) Subgraph(nodeIDs []string) *Graph {
	subgraph := NewGraph()
	nodeSet := make(map[string]bool)

	for _, id := range nodeIDs {
		nodeSet[id] = true
		if node, exists := g.nodes[id]; exists {
			subgraph.AddObject(node.Object)
		}
	}

	for _, id := range nodeIDs {
		for _, childID := range g.dependents[id] {
			if nodeSet[childID] {
				_ = subgraph.AddEdge(id, childID)
			}
		}
	}

	return subgraph
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

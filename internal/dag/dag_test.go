package dag

import (
	"testing"

	"github.com/leapstack-labs/sqldeps/pkg/depgraph"
)

func table(schema, name string) depgraph.SchemaObject {
	return depgraph.SchemaObject{Name: name, Schema: schema, Kind: depgraph.KindTable}
}

func proc(schema, name string) depgraph.SchemaObject {
	return depgraph.SchemaObject{Name: name, Schema: schema, Kind: depgraph.KindProcedure}
}

func addChain(t *testing.T, g *Graph, objs ...depgraph.SchemaObject) {
	t.Helper()
	for _, obj := range objs {
		g.AddObject(obj)
	}
	for i := 1; i < len(objs); i++ {
		if err := g.AddEdge(objs[i-1].UniqueKey(), objs[i].UniqueKey()); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
}

func TestGraph_AddObjectAndEdge(t *testing.T) {
	g := NewGraph()
	addChain(t, g, table("sales", "Orders"), proc("sales", "usp_Load"), table("sales", "Fact"))

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}
}

func TestGraph_AddEdge_InvalidNodes(t *testing.T) {
	g := NewGraph()
	g.AddObject(table("sales", "Orders"))
	id := table("sales", "Orders").UniqueKey()

	if err := g.AddEdge(id, "nonexistent"); err == nil {
		t.Error("expected error for nonexistent child node")
	}
	if err := g.AddEdge("nonexistent", id); err == nil {
		t.Error("expected error for nonexistent parent node")
	}
}

func TestGraph_SelfLoopIgnored(t *testing.T) {
	// A recursive routine depends on itself; that is not an edge worth keeping.
	g := NewGraph()
	g.AddObject(proc("dbo", "usp_Recurse"))
	id := proc("dbo", "usp_Recurse").UniqueKey()

	if err := g.AddEdge(id, id); err != nil {
		t.Errorf("self-loop should be a no-op, got %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected 0 edges, got %d", g.EdgeCount())
	}
}

func TestGraph_DependenciesAndDependents(t *testing.T) {
	g := NewGraph()
	orders := table("sales", "Orders")
	customer := table("sales", "Customer")
	load := proc("sales", "usp_Load")

	g.AddObject(orders)
	g.AddObject(customer)
	g.AddObject(load)
	g.AddEdge(orders.UniqueKey(), load.UniqueKey())
	g.AddEdge(customer.UniqueKey(), load.UniqueKey())

	if deps := g.Dependencies(load.UniqueKey()); len(deps) != 2 {
		t.Errorf("expected 2 dependencies, got %d", len(deps))
	}
	if deps := g.Dependents(orders.UniqueKey()); len(deps) != 1 {
		t.Errorf("expected 1 dependent, got %d", len(deps))
	}
}

func TestFromEdges_FlowDirection(t *testing.T) {
	load := proc("sales", "usp_Load")
	orders := table("sales", "Orders")
	fact := table("sales", "Fact")

	edges := []depgraph.DependencyEdge{
		{Source: load, Target: orders, Relationship: depgraph.RelReads},
		{Source: load, Target: fact, Relationship: depgraph.RelWrites},
	}

	g := FromEdges(edges)
	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
	}

	// Data flows Orders -> usp_Load -> Fact
	upstream := g.Upstream(fact.UniqueKey())
	if len(upstream) != 2 {
		t.Errorf("expected Fact upstream of 2 objects, got %v", upstream)
	}
	affected := g.Affected([]string{orders.UniqueKey()})
	if len(affected) != 3 {
		t.Errorf("expected change to Orders to affect all 3, got %v", affected)
	}
}

func TestFromEdges_ReferencesSkipped(t *testing.T) {
	run := proc("dbo", "usp_Run")
	sentinel := depgraph.SchemaObject{Name: depgraph.DynamicSQLTarget, Kind: depgraph.KindProcedure}

	g := FromEdges([]depgraph.DependencyEdge{
		{Source: run, Target: sentinel, Relationship: depgraph.RelReferences},
	})

	if g.NodeCount() != 1 {
		t.Errorf("expected only the source node, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected no edges for dynamic SQL, got %d", g.EdgeCount())
	}
}

func TestFromEdges_CallEdges(t *testing.T) {
	parent := proc("dbo", "usp_Parent")
	child := proc("dbo", "usp_Child")

	g := FromEdges([]depgraph.DependencyEdge{
		{Source: parent, Target: child, Relationship: depgraph.RelCalls},
	})

	// The caller depends on the callee
	deps := g.Dependencies(parent.UniqueKey())
	if len(deps) != 1 || deps[0] != child.UniqueKey() {
		t.Errorf("expected caller to depend on callee, got %v", deps)
	}
}

func TestGraph_HasCycle(t *testing.T) {
	a := table("dbo", "A")
	b := proc("dbo", "B")
	c := table("dbo", "C")

	g := NewGraph()
	addChain(t, g, a, b, c)
	if hasCycle, path := g.HasCycle(); hasCycle {
		t.Errorf("expected no cycle, found %v", path)
	}

	g.AddEdge(c.UniqueKey(), a.UniqueKey())
	hasCycle, path := g.HasCycle()
	if !hasCycle {
		t.Error("expected cycle to be detected")
	}
	if len(path) == 0 {
		t.Error("expected cycle path to be non-empty")
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	// Diamond: Raw feeds two staging procs, both feed the mart table
	raw := table("raw", "Events")
	stage1 := proc("staging", "usp_Clean")
	stage2 := proc("staging", "usp_Enrich")
	mart := table("mart", "Facts")

	g := NewGraph()
	for _, obj := range []depgraph.SchemaObject{raw, stage1, stage2, mart} {
		g.AddObject(obj)
	}
	g.AddEdge(raw.UniqueKey(), stage1.UniqueKey())
	g.AddEdge(raw.UniqueKey(), stage2.UniqueKey())
	g.AddEdge(stage1.UniqueKey(), mart.UniqueKey())
	g.AddEdge(stage2.UniqueKey(), mart.UniqueKey())

	sorted, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("failed to sort: %v", err)
	}

	positions := make(map[string]int)
	for i, node := range sorted {
		positions[node.ID] = i
	}

	if positions[raw.UniqueKey()] != 0 {
		t.Error("raw table should be first")
	}
	if positions[mart.UniqueKey()] != 3 {
		t.Error("mart table should be last")
	}
}

func TestGraph_TopologicalSort_WithCycle(t *testing.T) {
	a := table("dbo", "A")
	b := table("dbo", "B")

	g := NewGraph()
	g.AddObject(a)
	g.AddObject(b)
	g.AddEdge(a.UniqueKey(), b.UniqueKey())
	g.AddEdge(b.UniqueKey(), a.UniqueKey())

	if _, err := g.TopologicalSort(); err == nil {
		t.Error("expected error for cyclic graph")
	}
}

func TestGraph_Affected_SkipsIndependent(t *testing.T) {
	a := table("dbo", "A")
	b := proc("dbo", "B")
	c := table("dbo", "C")
	other := table("dbo", "Other")

	g := NewGraph()
	addChain(t, g, a, b, c)
	g.AddObject(other)

	affected := g.Affected([]string{a.UniqueKey()})
	if len(affected) != 3 {
		t.Errorf("expected 3 affected nodes, got %v", affected)
	}
	for _, id := range affected {
		if id == other.UniqueKey() {
			t.Error("independent node must not be affected")
		}
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	a := table("raw", "A")
	b := table("raw", "B")
	c := proc("staging", "usp_Merge")

	g := NewGraph()
	g.AddObject(a)
	g.AddObject(b)
	g.AddObject(c)
	g.AddEdge(a.UniqueKey(), c.UniqueKey())
	g.AddEdge(b.UniqueKey(), c.UniqueKey())

	if roots := g.Roots(); len(roots) != 2 {
		t.Errorf("expected 2 roots, got %v", roots)
	}
	if leaves := g.Leaves(); len(leaves) != 1 {
		t.Errorf("expected 1 leaf, got %v", leaves)
	}
}

func TestGraph_Subgraph(t *testing.T) {
	a := table("dbo", "A")
	b := proc("dbo", "B")
	c := table("dbo", "C")
	d := proc("dbo", "D")

	g := NewGraph()
	addChain(t, g, a, b, c, d)

	sub := g.Subgraph([]string{b.UniqueKey(), c.UniqueKey()})
	if sub.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", sub.NodeCount())
	}
	if sub.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", sub.EdgeCount())
	}
}

func TestGraph_DuplicateEdges(t *testing.T) {
	a := table("dbo", "A")
	b := proc("dbo", "B")

	g := NewGraph()
	g.AddObject(a)
	g.AddObject(b)
	g.AddEdge(a.UniqueKey(), b.UniqueKey())
	g.AddEdge(a.UniqueKey(), b.UniqueKey())

	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge (no duplicates), got %d", g.EdgeCount())
	}
}

package depgraph

import "strings"

// maxSnippetLen bounds the diagnostic excerpt attached to each edge.
const maxSnippetLen = 100

// DynamicSQLTarget is the sentinel target name recorded for dynamic SQL
// execution; the engine does not parse the dynamic string's contents.
const DynamicSQLTarget = "DYNAMIC_SQL"

// Collector accumulates dependency edges as the traversal discovers them and
// owns the current enclosing-definition context.
//
// The context is a single mutable slot with last-write-wins semantics:
// entering a new definition replaces the previous one. Nested definitions
// are not modeled; this matches the typical one-routine-per-script layout
// and is a documented limitation, not an oversight.
type Collector struct {
	catalog *Catalog
	current *SchemaObject
	temps   map[string]struct{} // temp objects created by the current definition
	edges   []DependencyEdge
}

// NewCollector creates a Collector bound to a resolution catalog.
func NewCollector(catalog *Catalog) *Collector {
	return &Collector{
		catalog: catalog,
		temps:   make(map[string]struct{}),
	}
}

// EnterDefinition sets the enclosing definition for subsequent edges and
// resets the per-definition temp-object set.
func (c *Collector) EnterDefinition(obj SchemaObject) {
	c.current = &obj
	c.temps = make(map[string]struct{})
}

// Current returns the active enclosing definition, if any.
func (c *Collector) Current() (SchemaObject, bool) {
	if c.current == nil {
		return SchemaObject{}, false
	}
	return *c.current, true
}

// TempObjects returns the names of temporary objects created by the current
// definition, for diagnostics. Resolution does not use this set; the temp
// marker on the name is authoritative.
func (c *Collector) TempObjects() []string {
	out := make([]string, 0, len(c.temps))
	for name := range c.temps {
		out = append(out, name)
	}
	return out
}

// Record resolves the target and appends a dependency edge.
//
// References discovered outside any definition are unattributable and are
// silently dropped: there is no source to hang the edge on, and that is a
// deliberate policy rather than an error condition.
func (c *Collector) Record(name, explicitSchema string, rel Relationship, kind ObjectKind, line int, snippet string) {
	if c.current == nil || name == "" {
		return
	}

	target := c.resolveTarget(name, explicitSchema, kind)

	ambiguous := false
	switch {
	case target.Kind == KindTempTable:
		// Temp-table override already applied; resolution result discarded.
	case rel == RelReferences && name == DynamicSQLTarget:
		// Sentinel target stays unresolved; there is nothing to resolve.
		ambiguous = true
	default:
		target.Schema, ambiguous = c.catalog.Resolve(name, explicitSchema)
	}

	if rel == RelCreates && target.Kind == KindTempTable {
		c.temps[name] = struct{}{}
	}

	c.edges = append(c.edges, DependencyEdge{
		Source:       *c.current,
		Target:       target,
		Relationship: rel,
		Line:         line,
		Snippet:      truncateSnippet(snippet),
		Ambiguous:    ambiguous,
	})
}

// resolveTarget constructs the target object, applying the temp-table
// override: names carrying the temp marker are scoped to the creating
// definition and bypass schema resolution entirely.
func (c *Collector) resolveTarget(name, explicitSchema string, kind ObjectKind) SchemaObject {
	if strings.HasPrefix(name, TempMarker) {
		return SchemaObject{
			Name:   name,
			Schema: TempSchemaPrefix + c.current.Name,
			Kind:   KindTempTable,
		}
	}
	return SchemaObject{Name: name, Schema: explicitSchema, Kind: kind}
}

// Edges returns the recorded edges in discovery order.
func (c *Collector) Edges() []DependencyEdge {
	return c.edges
}

// truncateSnippet bounds a snippet to maxSnippetLen characters.
func truncateSnippet(s string) string {
	if len(s) <= maxSnippetLen {
		return s
	}
	return s[:maxSnippetLen]
}

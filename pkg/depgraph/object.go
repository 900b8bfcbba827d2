// Package depgraph extracts a directed dependency graph between database
// objects from parsed procedural SQL: which procedure calls which procedure,
// which statements read or write which tables, and which statements create
// transient objects.
//
// The package consumes the generic syntax tree produced by pkg/sqltree and a
// read-only Catalog of schema membership; it performs no I/O. Output is an
// ordered sequence of DependencyEdge records in source discovery order.
package depgraph

// ObjectKind identifies the kind of a database object.
type ObjectKind string

const (
	// KindProcedure is a stored procedure.
	KindProcedure ObjectKind = "procedure"
	// KindFunction is a user-defined function.
	KindFunction ObjectKind = "function"
	// KindTable is a permanent table.
	KindTable ObjectKind = "table"
	// KindView is a view.
	KindView ObjectKind = "view"
	// KindTempTable is a temporary table scoped to its creating definition.
	KindTempTable ObjectKind = "temp_table"
)

// TempMarker is the leading character that marks a temporary object name.
const TempMarker = "#"

// TempSchemaPrefix prefixes the synthesized schema of temporary objects.
// A temp table created inside procedure P gets schema "temp_P": temporary
// objects are scoped to their creating definition, never globally addressable.
const TempSchemaPrefix = "temp_"

// UnknownSchema is the schema placeholder used in unique keys for objects
// whose schema could not be resolved at all.
const UnknownSchema = "unknown"

// SchemaObject is the canonical identity of a database object.
// Schema may be empty when unresolved at construction time.
type SchemaObject struct {
	Name   string     `json:"name"`
	Schema string     `json:"schema,omitempty"`
	Kind   ObjectKind `json:"kind"`
}

// FullName returns "schema.name" when the schema is known, otherwise the
// bare name.
func (o SchemaObject) FullName() string {
	if o.Schema == "" {
		return o.Name
	}
	return o.Schema + "." + o.Name
}

// UniqueKey returns the graph node identity: schema, name, and kind joined
// with dots, with "unknown" standing in for a missing schema. Two objects
// with equal keys are the same node regardless of construction order.
func (o SchemaObject) UniqueKey() string {
	schema := o.Schema
	if schema == "" {
		schema = UnknownSchema
	}
	return schema + "." + o.Name + "." + string(o.Kind)
}

// Relationship classifies a dependency edge.
type Relationship string

const (
	// RelCalls is a direct procedure/function invocation.
	RelCalls Relationship = "calls"
	// RelReads is a read of a table-like object.
	RelReads Relationship = "reads"
	// RelWrites is a write to a table-like object.
	RelWrites Relationship = "writes"
	// RelCreates is the creation of a table or temporary table.
	RelCreates Relationship = "creates"
	// RelReferences is an opaque reference, e.g. dynamic SQL execution.
	RelReferences Relationship = "references"
)

// DependencyEdge is one discovered relationship between the enclosing
// definition and a referenced object. Edges are immutable once constructed;
// resolution happens exactly once, at construction.
type DependencyEdge struct {
	// Source is the enclosing definition (always a procedure or function).
	Source SchemaObject `json:"source"`
	// Target is the referenced object.
	Target SchemaObject `json:"target"`
	// Relationship classifies the edge.
	Relationship Relationship `json:"relationship"`
	// Line is the 1-based line number of the triggering construct.
	Line int `json:"line"`
	// Snippet is a bounded excerpt of the triggering construct.
	Snippet string `json:"snippet,omitempty"`
	// Ambiguous is true when the target's schema was inferred and more than
	// one candidate schema existed. The edge still carries a best-effort
	// schema so graph consumers have a node to attach to.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

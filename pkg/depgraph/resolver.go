package depgraph

import "strings"

// Catalog is the schema-resolution knowledge base: the set of known schemas
// and the schemas each bare object name is known to live in. It is assembled
// once before any traversal and immutable afterwards, so a single Catalog may
// be shared read-only across concurrent extraction runs.
type Catalog struct {
	schemas   []string
	locations map[string][]string // lower(name) -> ordered candidate schemas
}

// NewCatalog builds a Catalog from an ordered list of known schemas and a
// mapping from object name to the schemas containing an object of that name.
// The first schema is the resolver's fallback default. An empty schema list
// is a configuration error: a resolver with no fallback has no defined
// behavior, and must fail here rather than deep in traversal.
func NewCatalog(schemas []string, locations map[string][]string) (*Catalog, error) {
	if len(schemas) == 0 {
		return nil, ErrNoSchemas
	}

	c := &Catalog{
		schemas:   make([]string, len(schemas)),
		locations: make(map[string][]string, len(locations)),
	}
	copy(c.schemas, schemas)
	for name, candidates := range locations {
		cp := make([]string, len(candidates))
		copy(cp, candidates)
		c.locations[strings.ToLower(name)] = cp
	}
	return c, nil
}

// DefaultSchema returns the configured fallback schema.
func (c *Catalog) DefaultSchema() string {
	return c.schemas[0]
}

// Schemas returns the ordered known schema names.
func (c *Catalog) Schemas() []string {
	out := make([]string, len(c.schemas))
	copy(out, c.schemas)
	return out
}

// Resolve decides the owning schema for an object name.
//
// Explicit qualification always wins and is never second-guessed against the
// knowledge base. For bare names the catalog is consulted: a unique candidate
// resolves cleanly; multiple candidates resolve to the first one (knowledge
// base order) with ambiguous=true, so downstream consumers get a node to
// attach the edge to but are warned the attribution may be wrong; unknown
// names fall back to the default schema, also flagged ambiguous.
//
// Temporary-object names are not the Resolver's concern: the Collector
// discards this result entirely for names carrying the temp marker.
func (c *Catalog) Resolve(objectName, explicitSchema string) (schema string, ambiguous bool) {
	if explicitSchema != "" {
		return explicitSchema, false
	}

	candidates := c.locations[strings.ToLower(objectName)]
	switch len(candidates) {
	case 0:
		return c.DefaultSchema(), true
	case 1:
		return candidates[0], false
	default:
		return candidates[0], true
	}
}

// SplitObjectName splits a name node's literal text into (schema, name).
// Text with exactly one dot is treated as schema-qualified; anything else
// (zero or multiple dots) is an unqualified bare name. Enclosing quote
// characters are stripped from each part. This is a textual approximation
// that tolerates quoted identifiers containing no dot.
func SplitObjectName(text string) (schema, name string) {
	if strings.Count(text, ".") == 1 {
		idx := strings.Index(text, ".")
		return stripQuotes(text[:idx]), stripQuotes(text[idx+1:])
	}
	return "", stripQuotes(text)
}

// stripQuotes removes enclosing identifier quote characters.
func stripQuotes(s string) string {
	return strings.Trim(s, "\"'`[]")
}

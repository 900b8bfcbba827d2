package depgraph

import "errors"

// ErrNoSchemas reports a Catalog constructed with no known schemas.
var ErrNoSchemas = errors.New("catalog requires at least one known schema")

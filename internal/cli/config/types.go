// Package config provides configuration management for the sqldeps CLI.
package config

import (
	"github.com/leapstack-labs/sqldeps/pkg/depgraph"
)

// Config holds all CLI configuration options.
type Config struct {
	// SQLDir is the directory scanned for .sql files.
	SQLDir string `koanf:"sql_dir"`
	// Schemas lists the known schemas; the first entry is the default used
	// for unqualified names with no catalog entry.
	Schemas []string `koanf:"schemas"`
	// Objects maps object names to their candidate schemas, in priority
	// order. Used to resolve unqualified references.
	Objects map[string][]string `koanf:"objects"`
	// StatePath is the SQLite database used to persist extraction runs.
	StatePath    string `koanf:"state_path"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	// Jobs bounds the number of files extracted in parallel.
	Jobs int `koanf:"jobs"`
}

// Default configuration values.
const (
	DefaultSQLDir    = "./sql"
	DefaultStateFile = ".sqldeps/state.db"
	DefaultOutput    = "table"
	DefaultJobs      = 4
)

// Catalog builds the resolution catalog from the configured schemas and
// object locations.
func (c *Config) Catalog() (*depgraph.Catalog, error) {
	return depgraph.NewCatalog(c.Schemas, c.Objects)
}

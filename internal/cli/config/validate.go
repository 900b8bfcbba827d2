package config

import (
	"fmt"
	"strings"
)

// validOutputs are the supported render formats.
var validOutputs = map[string]struct{}{
	"table":    {},
	"json":     {},
	"yaml":     {},
	"csv":      {},
	"markdown": {},
}

// Validate checks a loaded configuration for values no command could work
// with. Resolution without at least one known schema has no default to fall
// back on, so an empty schema list is rejected up front.
func Validate(cfg *Config) error {
	if len(cfg.Schemas) == 0 {
		return fmt.Errorf("config: at least one schema is required (set schemas in %s or SQLDEPS_SCHEMAS)", "sqldeps.yaml")
	}
	for i, schema := range cfg.Schemas {
		if strings.TrimSpace(schema) == "" {
			return fmt.Errorf("config: schemas[%d] is empty", i)
		}
	}

	if _, ok := validOutputs[cfg.OutputFormat]; !ok {
		return fmt.Errorf("config: invalid output format %q (expected table, json, yaml, csv, or markdown)", cfg.OutputFormat)
	}

	if cfg.Jobs < 1 {
		return fmt.Errorf("config: jobs must be at least 1, got %d", cfg.Jobs)
	}

	return nil
}

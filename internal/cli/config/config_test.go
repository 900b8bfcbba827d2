package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqldeps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfgFile := writeConfigFile(t, "schemas: [dbo]\n")

	cfg, err := Load(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSQLDir, cfg.SQLDir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfgFile := writeConfigFile(t, `
sql_dir: ./procedures
state_path: ./deps.db
output: json
jobs: 8
schemas:
  - dbo
  - sales
objects:
  Customer:
    - sales
    - hr
`)

	cfg, err := Load(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, "./procedures", cfg.SQLDir)
	assert.Equal(t, "./deps.db", cfg.StatePath)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Equal(t, []string{"dbo", "sales"}, cfg.Schemas)
	assert.Equal(t, []string{"sales", "hr"}, cfg.Objects["Customer"])
	assert.Equal(t, cfgFile, GetConfigFileUsed())
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfgFile := writeConfigFile(t, "schemas: [dbo]\nsql_dir: ./from-file\noutput: json\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("sql-dir", "", "")
	flags.String("output", "", "")
	flags.String("state", "", "")
	require.NoError(t, flags.Parse([]string{"--sql-dir", "./from-flag", "--state", "./flag.db"}))

	cfg, err := Load(cfgFile, flags)
	require.NoError(t, err)

	assert.Equal(t, "./from-flag", cfg.SQLDir)
	// --state maps onto state_path
	assert.Equal(t, "./flag.db", cfg.StatePath)
	// Unchanged flags do not clobber file values
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfgFile := writeConfigFile(t, "schemas: [dbo]\nsql_dir: ./from-file\n")
	t.Setenv("SQLDEPS_SQL_DIR", "./from-env")

	cfg, err := Load(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, "./from-env", cfg.SQLDir)
}

func TestLoad_RequiresSchemas(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfgFile := writeConfigFile(t, "sql_dir: ./procedures\n")

	_, err := Load(cfgFile, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Schemas:      []string{"dbo"},
			OutputFormat: "table",
			Jobs:         4,
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(base()))
	})

	t.Run("empty schema entry", func(t *testing.T) {
		cfg := base()
		cfg.Schemas = []string{"dbo", "  "}
		assert.Error(t, Validate(cfg))
	})

	t.Run("bad output format", func(t *testing.T) {
		cfg := base()
		cfg.OutputFormat = "xml"
		assert.Error(t, Validate(cfg))
	})

	t.Run("bad jobs", func(t *testing.T) {
		cfg := base()
		cfg.Jobs = 0
		assert.Error(t, Validate(cfg))
	})
}

func TestConfig_Catalog(t *testing.T) {
	cfg := &Config{
		Schemas: []string{"dbo", "sales"},
		Objects: map[string][]string{"Orders": {"sales"}},
	}

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "dbo", catalog.DefaultSchema())

	schema, ambiguous := catalog.Resolve("Orders", "")
	assert.Equal(t, "sales", schema)
	assert.False(t, ambiguous)
}

func TestFromContext_Fallback(t *testing.T) {
	cfg := FromContext(t.Context())
	assert.Equal(t, DefaultSQLDir, cfg.SQLDir)
}

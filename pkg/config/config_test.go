package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.False(t, cfg.Analysis.Compat)
	assert.Zero(t, cfg.Analysis.MinUsageSimilarity)
	assert.True(t, cfg.Mapper.RenameAware)
	assert.True(t, cfg.Exclude.Gitignore)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 24, cfg.Cache.TTL)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "varscope.toml",
			content: `
[analysis]
compat = true
min_usage_similarity = 0.25
workers = 4

[mapper]
rename_aware = false

[output]
format = "json"

[log]
level = "debug"
`,
		},
		{
			name: "yaml",
			file: "varscope.yaml",
			content: `
analysis:
  compat: true
  min_usage_similarity: 0.25
  workers: 4
mapper:
  rename_aware: false
output:
  format: json
log:
  level: debug
`,
		},
		{
			name: "json",
			file: "varscope.json",
			content: `{
  "analysis": {"compat": true, "min_usage_similarity": 0.25, "workers": 4},
  "mapper": {"rename_aware": false},
  "output": {"format": "json"},
  "log": {"level": "debug"}
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.True(t, cfg.Analysis.Compat)
			assert.Equal(t, 0.25, cfg.Analysis.MinUsageSimilarity)
			assert.Equal(t, 4, cfg.Analysis.Workers)
			assert.False(t, cfg.Mapper.RenameAware)
			assert.Equal(t, "json", cfg.Output.Format)
			assert.Equal(t, "debug", cfg.Log.Level)
			// untouched sections keep their defaults
			assert.Equal(t, ".varscope/cache", cfg.Cache.Dir)
			assert.Equal(t, "text", cfg.Log.Format)
		})
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/varscope.toml")
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "varscope.toml", "[analysis\ninvalid toml")

	_, err := Load(path)
	assert.Error(t, err)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

func TestLoadOrDefault(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := LoadOrDefault()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, Find())
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".varscope"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".varscope", "varscope.yml"), []byte("analysis:\n  workers: 7\n"), 0644))
	chdir(t, dir)

	cfg := LoadOrDefault()

	assert.Equal(t, 7, cfg.Analysis.Workers)
	assert.Equal(t, filepath.Join(".varscope", "varscope.yml"), Find())
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		chdir(t, t.TempDir())

		result, err := LoadConfig()
		require.NoError(t, err)
		assert.Empty(t, result.Source)
		assert.Equal(t, DefaultConfig(), result.Config)
	})

	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, "custom.toml", "[analysis]\ncompat = true\n")

		result, err := LoadConfig(WithPath(path))
		require.NoError(t, err)
		assert.Equal(t, path, result.Source)
		assert.True(t, result.Config.Analysis.Compat)
	})

	t.Run("invalid values are reported", func(t *testing.T) {
		path := writeConfig(t, "bad.toml", "[analysis]\nmin_usage_similarity = 1.5\n")

		_, err := LoadConfig(WithPath(path))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold too high", func(c *Config) { c.Analysis.MinUsageSimilarity = 1 }},
		{"negative threshold", func(c *Config) { c.Analysis.MinUsageSimilarity = -0.5 }},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -1 }},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "logfmt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	content, err := toml.Marshal(DefaultConfig())
	require.NoError(t, err)

	cfg, err := Load(writeConfig(t, "varscope.toml", string(content)))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		// Excluded directories
		{"vendor/pkg/file.go", true},
		{".git/objects/file", true},
		{filepath.Join("src", "target", "App.java"), true},

		// Excluded patterns
		{"main_test.go", true},
		{"CalcTest.java", true},
		{"model_generated.go", true},

		// Not excluded
		{"main.go", false},
		{"src/main/java/App.java", false},
		{filepath.Join("pkg", "vendor_utils.go"), false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ShouldExclude(tt.path))
		})
	}
}

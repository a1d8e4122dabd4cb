package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig is returned by Validate when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration options for varscope.
type Config struct {
	// Variable correspondence settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Baseline statement mapper settings
	Mapper MapperConfig `koanf:"mapper" toml:"mapper"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Logging settings
	Log LogConfig `koanf:"log" toml:"log"`
}

// AnalysisConfig controls variable correspondence.
type AnalysisConfig struct {
	// Compat reproduces the outputs of the legacy detector.
	Compat bool `koanf:"compat" toml:"compat"`
	// MinUsageSimilarity is the usage similarity a residual pair must exceed.
	MinUsageSimilarity float64 `koanf:"min_usage_similarity" toml:"min_usage_similarity"`
	// Workers bounds batch analysis; 0 means one per CPU.
	Workers int `koanf:"workers" toml:"workers"`
}

// MapperConfig controls the baseline statement mapper.
type MapperConfig struct {
	RenameAware bool `koanf:"rename_aware" toml:"rename_aware"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns []string `koanf:"patterns" toml:"patterns"`
	Dirs     []string `koanf:"dirs" toml:"dirs"`
	// Gitignore also skips files matched by the repository's .gitignore
	// files when scanning directories.
	Gitignore bool `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `koanf:"level" toml:"level"`   // debug, info, warn, error
	Format string `koanf:"format" toml:"format"` // text, json
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Compat:             false,
			MinUsageSimilarity: 0,
			Workers:            0,
		},
		Mapper: MapperConfig{
			RenameAware: true,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*_test.go",
				"*Test.java",
				"*_generated.go",
			},
			Dirs: []string{
				"vendor",
				".git",
				".varscope",
				"build",
				"target",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".varscope/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configNames are the file names searched by Find, in order.
var configNames = []string{
	"varscope.toml",
	"varscope.yaml",
	"varscope.yml",
	"varscope.json",
	".varscope.toml",
	".varscope.yaml",
	".varscope.yml",
	".varscope.json",
}

// searchDirs are the directories searched by Find, relative to the
// working directory.
var searchDirs = []string{".", ".varscope"}

// Find returns the first config file in the standard locations, or "".
func Find() string {
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := Find(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// LoadResult is a loaded configuration and the file it came from. Source
// is empty when defaults were used.
type LoadResult struct {
	Config *Config
	Source string
}

type loadOptions struct {
	path string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads the given file instead of searching the standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// LoadConfig loads and validates configuration. Unlike LoadOrDefault it
// reports errors in the file it finds.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = Find()
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Analysis.MinUsageSimilarity < 0 || c.Analysis.MinUsageSimilarity >= 1 {
		errs = append(errs, fmt.Errorf("%w: analysis.min_usage_similarity must be in [0, 1), got %v", ErrInvalidConfig, c.Analysis.MinUsageSimilarity))
	}
	if c.Analysis.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: analysis.workers must not be negative, got %d", ErrInvalidConfig, c.Analysis.Workers))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.ttl must not be negative, got %d", ErrInvalidConfig, c.Cache.TTL))
	}
	switch c.Output.Format {
	case "text", "json", "markdown", "toon":
	default:
		errs = append(errs, fmt.Errorf("%w: output.format %q is not one of text, json, markdown, toon", ErrInvalidConfig, c.Output.Format))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log.level %q is not one of debug, info, warn, error", ErrInvalidConfig, c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format %q is not one of text, json", ErrInvalidConfig, c.Log.Format))
	}
	return errors.Join(errs...)
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	// Check pattern exclusions
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

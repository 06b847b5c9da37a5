package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for swiftcx.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" yaml:"analysis"`

	// Reporting thresholds
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds" yaml:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" yaml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" yaml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output"`
}

// AnalysisConfig controls how files are collected and analyzed.
type AnalysisConfig struct {
	Workers     int   `koanf:"workers" toml:"workers" yaml:"workers"` // 0 = 2x NumCPU
	KeepGoing   bool  `koanf:"keep_going" toml:"keep_going" yaml:"keep_going"`
	Recursive   bool  `koanf:"recursive" toml:"recursive" yaml:"recursive"`
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size" yaml:"max_file_size"` // bytes, 0 = no limit
}

// ThresholdConfig defines metric thresholds.
type ThresholdConfig struct {
	// Threshold filters reports to functions at or above it and makes the
	// CLI exit with status 1 when any remain. 0 disables it.
	Threshold int `koanf:"threshold" toml:"threshold" yaml:"threshold"`

	// Values at or above these are highlighted in text output.
	CyclomaticComplexity int `koanf:"cyclomatic_complexity" toml:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CognitiveComplexity  int `koanf:"cognitive_complexity" toml:"cognitive_complexity" yaml:"cognitive_complexity"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" yaml:"patterns"` // doublestar globs, relative to the scanned root
	Regex     []string `koanf:"regex" toml:"regex" yaml:"regex"`          // matched against the full path
	Dirs      []string `koanf:"dirs" toml:"dirs" yaml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" yaml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" yaml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" yaml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format" yaml:"format"` // text, json, xml, xcode, markdown, toon
	Metric  string `koanf:"metric" toml:"metric" yaml:"metric"` // both, cyclomatic, cognitive
	Color   bool   `koanf:"color" toml:"color" yaml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose" yaml:"verbose"`
}

// Output formats and metric selections accepted in configuration.
var (
	Formats = []string{"text", "json", "xml", "xcode", "markdown", "toon"}
	Metrics = []string{"both", "cyclomatic", "cognitive"}
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Workers:     0,
			KeepGoing:   false,
			Recursive:   false,
			MaxFileSize: 0,
		},
		Thresholds: ThresholdConfig{
			Threshold:            0,
			CyclomaticComplexity: 10,
			CognitiveComplexity:  15,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{},
			Regex:    []string{},
			Dirs: []string{
				".build",
				".git",
				".swiftpm",
				".swiftcx",
				"Pods",
				"Carthage",
				"DerivedData",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".swiftcx/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Metric:  "both",
			Color:   true,
			Verbose: false,
		},
	}
}

// parserFor selects the koanf parser for a config file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// loadRaw reads path into a fresh koanf instance.
func loadRaw(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return k, nil
}

// Load loads configuration from a file. Keys absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	k, err := loadRaw(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// configNames are the file names searched by Find, in priority order.
var configNames = []string{
	"swiftcx.toml",
	"swiftcx.yaml",
	"swiftcx.yml",
	"swiftcx.json",
	".swiftcx.toml",
	".swiftcx.yaml",
	".swiftcx.yml",
	".swiftcx.json",
}

// Find returns the first config file in the standard locations under dir,
// or "" when there is none.
func Find(dir string) string {
	for _, sub := range []string{".", ".swiftcx"} {
		for _, name := range configNames {
			path := filepath.Join(dir, sub, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := Find("."); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// Check validates values the schema cannot express.
func (c *Config) Check() error {
	if !contains(Formats, c.Output.Format) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	if !contains(Metrics, c.Output.Metric) {
		return fmt.Errorf("unknown metric %q (want one of %s)", c.Output.Metric, strings.Join(Metrics, ", "))
	}
	for _, pattern := range c.Exclude.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	for _, expr := range c.Exclude.Regex {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("invalid exclude regex %q: %w", expr, err)
		}
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative")
	}
	return nil
}

// ShouldExclude checks if a path relative to the scanned root should be
// excluded from analysis.
func (c *Config) ShouldExclude(relPath string) bool {
	slashed := filepath.ToSlash(relPath)

	for _, dir := range c.Exclude.Dirs {
		if slashed == dir || strings.HasPrefix(slashed, dir+"/") || strings.Contains(slashed, "/"+dir+"/") {
			return true
		}
	}

	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(slashed)); matched {
			return true
		}
	}

	return false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

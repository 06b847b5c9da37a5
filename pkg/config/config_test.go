package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if cfg.Analysis.Recursive {
		t.Error("Analysis.Recursive should be false by default")
	}
	if cfg.Analysis.KeepGoing {
		t.Error("Analysis.KeepGoing should be false by default")
	}
	if cfg.Thresholds.Threshold != 0 {
		t.Errorf("Thresholds.Threshold = %d, want 0", cfg.Thresholds.Threshold)
	}
	if cfg.Thresholds.CyclomaticComplexity != 10 {
		t.Errorf("Thresholds.CyclomaticComplexity = %d, want 10", cfg.Thresholds.CyclomaticComplexity)
	}
	if cfg.Thresholds.CognitiveComplexity != 15 {
		t.Errorf("Thresholds.CognitiveComplexity = %d, want 15", cfg.Thresholds.CognitiveComplexity)
	}
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
	if cfg.Output.Metric != "both" {
		t.Errorf("Output.Metric = %q, want both", cfg.Output.Metric)
	}
	if err := cfg.Check(); err != nil {
		t.Errorf("DefaultConfig().Check() error: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "swiftcx.toml", `
[analysis]
workers = 4
keep_going = true
recursive = true

[thresholds]
threshold = 12

[exclude]
patterns = ["**/Generated/**"]
regex = ["Tests?\\.swift$"]

[output]
format = "json"
metric = "cognitive"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Analysis.Workers = %d, want 4", cfg.Analysis.Workers)
	}
	if !cfg.Analysis.KeepGoing || !cfg.Analysis.Recursive {
		t.Errorf("Analysis = %+v, want keep_going and recursive", cfg.Analysis)
	}
	if cfg.Thresholds.Threshold != 12 {
		t.Errorf("Thresholds.Threshold = %d, want 12", cfg.Thresholds.Threshold)
	}
	if cfg.Thresholds.CognitiveComplexity != 15 {
		t.Errorf("unset key should keep default, got %d", cfg.Thresholds.CognitiveComplexity)
	}
	if len(cfg.Exclude.Patterns) != 1 || cfg.Exclude.Patterns[0] != "**/Generated/**" {
		t.Errorf("Exclude.Patterns = %v", cfg.Exclude.Patterns)
	}
	if len(cfg.Exclude.Regex) != 1 || cfg.Exclude.Regex[0] != `Tests?\.swift$` {
		t.Errorf("Exclude.Regex = %v", cfg.Exclude.Regex)
	}
	if cfg.Output.Format != "json" || cfg.Output.Metric != "cognitive" {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "swiftcx.yaml", `
analysis:
  recursive: true
output:
  format: xml
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Analysis.Recursive {
		t.Error("Analysis.Recursive should be true")
	}
	if cfg.Output.Format != "xml" {
		t.Errorf("Output.Format = %q, want xml", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "swiftcx.json", `{"cache": {"enabled": true, "ttl": 2}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "swiftcx.toml", "[output]\nformat = \"html\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("Load() error = %v, want unknown output format", err)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if got := Find(dir); got != "" {
		t.Errorf("Find() = %q, want empty", got)
	}

	nested := writeConfig(t, dir, ".swiftcx/swiftcx.yaml", "output:\n  format: json\n")
	if got := Find(dir); got != nested {
		t.Errorf("Find() = %q, want %q", got, nested)
	}

	top := writeConfig(t, dir, "swiftcx.toml", "")
	if got := Find(dir); got != top {
		t.Errorf("Find() = %q, want %q", got, top)
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg := LoadOrDefault()
	if cfg.Output.Format != "text" {
		t.Errorf("LoadOrDefault() without a file should use defaults, got %q", cfg.Output.Format)
	}

	writeConfig(t, dir, "swiftcx.toml", "[output]\nformat = \"markdown\"\n")
	cfg = LoadOrDefault()
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %q, want markdown", cfg.Output.Format)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad metric", func(c *Config) { c.Output.Metric = "halstead" }, "unknown metric"},
		{"bad glob", func(c *Config) { c.Exclude.Patterns = []string{"[abc"} }, "invalid exclude pattern"},
		{"bad regex", func(c *Config) { c.Exclude.Regex = []string{"("} }, "invalid exclude regex"},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Check()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Check() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = []string{"**/Generated/**", "*.pb.swift"}

	tests := []struct {
		path string
		want bool
	}{
		{"Sources/App/View.swift", false},
		{".build/debug/Thing.swift", true},
		{"Sources/Pods/Lib.swift", true},
		{"Pods/Lib.swift", true},
		{"Sources/Generated/Model.swift", true},
		{"Sources/Api/Messages.pb.swift", true},
		{"Sources/GeneratedCode.swift", false},
	}
	for _, tt := range tests {
		if got := cfg.ShouldExclude(tt.path); got != tt.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

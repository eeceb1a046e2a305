package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for cleaner. It is built once at
// startup and passed by value through every component; nothing mutates it
// after loading.
type Config struct {
	// Project settings
	Project ProjectConfig `koanf:"project"`

	// File exclusion rules applied during scanning
	Exclude ExcludeConfig `koanf:"exclude"`

	// Snapshot store settings
	Snapshot SnapshotConfig `koanf:"snapshot"`

	// Scan cache settings
	Cache CacheConfig `koanf:"cache"`

	// Run log settings
	Log LogConfig `koanf:"log"`
}

// ProjectConfig identifies the tree under analysis.
type ProjectConfig struct {
	Root string `koanf:"root"`

	// Languages maps a language name to its recognized file extensions.
	Languages map[string][]string `koanf:"languages"`

	// SafeMode gates confirmation prompts before destructive operations.
	SafeMode bool `koanf:"safe_mode"`
}

// ExcludeConfig defines what the scanner ignores.
type ExcludeConfig struct {
	// Dirs are directory names pruned wholesale during the walk.
	Dirs []string `koanf:"dirs"`

	// Patterns are glob-style filename patterns to skip (test/spec files).
	Patterns []string `koanf:"patterns"`

	// Gitignore enables .gitignore-based exclusion on top of the above.
	Gitignore bool `koanf:"gitignore"`
}

// SnapshotConfig controls the backup store.
type SnapshotConfig struct {
	Dir    string `koanf:"dir"`
	Retain int    `koanf:"retain"`
}

// CacheConfig controls the scan cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// LogConfig controls the run log.
type LogConfig struct {
	Dir string `koanf:"dir"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Root: "src",
			Languages: map[string][]string{
				"javascript": {".js", ".jsx", ".mjs", ".cjs"},
				"typescript": {".ts", ".tsx"},
				"python":     {".py"},
				"java":       {".java"},
				"csharp":     {".cs"},
				"cpp":        {".c", ".cpp", ".cc", ".cxx", ".h", ".hpp"},
				"go":         {".go"},
				"php":        {".php"},
			},
			SafeMode: true,
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				"node_modules",
				".git",
				"dist",
				"build",
				"coverage",
				".next",
			},
			Patterns: []string{
				"*.d.ts",
				"*.spec.*",
				"*.test.*",
			},
			Gitignore: false,
		},
		Snapshot: SnapshotConfig{
			Dir:    "backup_snapshots",
			Retain: 12,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".cleaner/cache",
		},
		Log: LogConfig{
			Dir: "logs",
		},
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
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

// LoadOrDefault tries standard config locations, falling back to defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"cleaner.toml",
		"cleaner.yaml",
		"cleaner.yml",
		"cleaner.json",
		".cleaner.toml",
		".cleaner.yaml",
		".cleaner.yml",
		".cleaner.json",
	}

	searchDirs := []string{".", ".cleaner"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ResolvedRoot returns the configured project root, or "." when the
// configured directory does not exist.
func (c *Config) ResolvedRoot() string {
	if info, err := os.Stat(c.Project.Root); err == nil && info.IsDir() {
		return c.Project.Root
	}
	return "."
}

// ExtensionLanguages flattens the per-language extension lists into an
// extension -> language name lookup.
func (c *Config) ExtensionLanguages() map[string]string {
	m := make(map[string]string)
	for lang, exts := range c.Project.Languages {
		for _, ext := range exts {
			m[ext] = lang
		}
	}
	return m
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Project.Root != "src" {
		t.Errorf("Project.Root = %q, want src", cfg.Project.Root)
	}
	if !cfg.Project.SafeMode {
		t.Error("SafeMode should default to true")
	}
	if len(cfg.Project.Languages) != 8 {
		t.Errorf("expected 8 languages, got %d", len(cfg.Project.Languages))
	}
	if cfg.Snapshot.Retain != 12 {
		t.Errorf("Snapshot.Retain = %d, want 12", cfg.Snapshot.Retain)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should default to true")
	}

	found := false
	for _, d := range cfg.Exclude.Dirs {
		if d == "node_modules" {
			found = true
		}
	}
	if !found {
		t.Error("node_modules should be excluded by default")
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cleaner.toml")
	content := `[project]
root = "app"
safe_mode = false

[snapshot]
retain = 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Project.Root != "app" {
		t.Errorf("Project.Root = %q, want app", cfg.Project.Root)
	}
	if cfg.Project.SafeMode {
		t.Error("safe_mode = false should be honored")
	}
	if cfg.Snapshot.Retain != 3 {
		t.Errorf("Snapshot.Retain = %d, want 3", cfg.Snapshot.Retain)
	}
	// Untouched sections keep their defaults.
	if cfg.Snapshot.Dir != "backup_snapshots" {
		t.Errorf("Snapshot.Dir = %q, want default", cfg.Snapshot.Dir)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cleaner.json")
	content := `{"project": {"root": "web", "languages": {"python": [".py", ".pyi"]}}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Project.Root != "web" {
		t.Errorf("Project.Root = %q, want web", cfg.Project.Root)
	}
	exts := cfg.Project.Languages["python"]
	if len(exts) != 2 || exts[1] != ".pyi" {
		t.Errorf("python extensions = %v, want [.py .pyi]", exts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestResolvedRoot(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(origWd)

	cfg := DefaultConfig()
	// No src directory present: fall back to the working directory.
	if got := cfg.ResolvedRoot(); got != "." {
		t.Errorf("ResolvedRoot() = %q, want .", got)
	}

	if err := os.Mkdir("src", 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if got := cfg.ResolvedRoot(); got != "src" {
		t.Errorf("ResolvedRoot() = %q, want src", got)
	}
}

func TestExtensionLanguages(t *testing.T) {
	cfg := DefaultConfig()
	m := cfg.ExtensionLanguages()

	if m[".py"] != "python" {
		t.Errorf(".py maps to %q, want python", m[".py"])
	}
	if m[".tsx"] != "typescript" {
		t.Errorf(".tsx maps to %q, want typescript", m[".tsx"])
	}
}

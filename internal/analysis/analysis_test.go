package analysis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Saulo520/CleanerMulti/internal/config"
	"github.com/Saulo520/CleanerMulti/internal/graph"
	"github.com/Saulo520/CleanerMulti/internal/language"
	"github.com/Saulo520/CleanerMulti/internal/resolver"
	"github.com/Saulo520/CleanerMulti/internal/scanner"
)

type fixture struct {
	root     string
	files    []string
	graph    *graph.Graph
	registry *language.Registry
	resolv   *resolver.Resolver
}

func newFixture(t *testing.T, tree map[string]string) *fixture {
	t.Helper()
	return newFixtureAt(t, t.TempDir(), tree)
}

func newFixtureAt(t *testing.T, root string, tree map[string]string) *fixture {
	t.Helper()
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create root: %v", err)
	}
	for name, content := range tree {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = false
	// Test-pattern exclusions would hide fixture files named *.test.*.
	cfg.Exclude.Patterns = nil
	registry := language.NewRegistry(cfg.Project.Languages)
	scan := scanner.New(cfg, registry)
	resolv := resolver.New(root, registry)

	g, err := graph.NewBuilder(scan, registry, resolv).Build(root, false)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	return &fixture{root: root, files: g.Files, graph: g, registry: registry, resolv: resolv}
}

func (f *fixture) rel(t *testing.T, paths []string) []string {
	t.Helper()
	var out []string
	for _, p := range paths {
		r, err := filepath.Rel(f.root, p)
		if err != nil {
			t.Fatalf("Rel: %v", err)
		}
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFindDead(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"app.js":        "import o from './orphanable';\n",
		"orphanable.js": "",
		"lonely.js":     "",
	})

	dead := fx.rel(t, FindDead(fx.graph, fx.registry))
	want := []string{"app.js", "lonely.js"}
	if !reflect.DeepEqual(dead, want) {
		t.Errorf("FindDead = %v, want %v", dead, want)
	}
}

func TestFindDeadExemptions(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"index.js":          "",
		"main.py":           "",
		"server.js":         "",
		"pages/profile.js":  "",
		"routes/api.js":     "",
		"plain.js":          "",
		"src/Main.java":     "",
		"orphan/Thing.java": "",
	})

	dead := fx.rel(t, FindDead(fx.graph, fx.registry))
	// Entry names, pages/routes, index files, and classpath Java all stay;
	// only the genuinely unaccounted files surface.
	want := []string{"orphan/Thing.java", "plain.js"}
	if !reflect.DeepEqual(dead, want) {
		t.Errorf("FindDead = %v, want %v", dead, want)
	}
}

func TestFindDeadRootNamedSrc(t *testing.T) {
	// The default project root is literally "src". Only src segments inside
	// the root count as a Java source root; the root's own name must not
	// exempt everything under it.
	fx := newFixtureAt(t, filepath.Join(t.TempDir(), "src"), map[string]string{
		"Lonely.java":       "",
		"src/main/App.java": "",
	})

	dead := fx.rel(t, FindDead(fx.graph, fx.registry))
	want := []string{"Lonely.java"}
	if !reflect.DeepEqual(dead, want) {
		t.Errorf("FindDead = %v, want %v", dead, want)
	}
}

func TestFindBroken(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"app.js": "import g from './gone';\nimport h from './here';\nimport React from 'react';\n",
		"here.js": "",
	})

	broken, errs := FindBroken(fx.files, fx.registry, fx.resolv)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(broken) != 1 {
		t.Fatalf("got %d broken imports, want 1: %v", len(broken), broken)
	}
	if broken[0].Specifier != "./gone" {
		t.Errorf("broken specifier = %q, want ./gone", broken[0].Specifier)
	}
	if filepath.Base(broken[0].File) != "app.js" {
		t.Errorf("broken file = %q, want app.js", broken[0].File)
	}
}

func TestFindBrokenDottedNamespace(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"com/example/Main.java": "package com.example;\nimport com.example.missing.Gone;\nimport java.util.List;\n",
	})

	broken, _ := FindBroken(fx.files, fx.registry, fx.resolv)
	// Both dotted specifiers fail to resolve and both look local for a
	// namespace language, the JDK one included. The check is shape-based.
	specs := make(map[string]bool)
	for _, b := range broken {
		specs[b.Specifier] = true
	}
	if !specs["com.example.missing.Gone"] {
		t.Errorf("expected com.example.missing.Gone in %v", broken)
	}
}

func TestFindUnusedExportsJS(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"lib.js": "export function used() {}\nexport function neverCalled() {}\nexport { also as alias }\n",
		"app.js": "import { used } from './lib';\nused();\n",
		"other.js": "const x = also;\n",
	})

	unused, errs := FindUnusedExports(fx.files, fx.registry)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(unused) != 1 {
		t.Fatalf("got %d files with unused exports, want 1: %v", len(unused), unused)
	}
	if filepath.Base(unused[0].File) != "lib.js" {
		t.Errorf("unused file = %q, want lib.js", unused[0].File)
	}
	if !reflect.DeepEqual(unused[0].Names, []string{"neverCalled"}) {
		t.Errorf("unused names = %v, want [neverCalled]", unused[0].Names)
	}
}

func TestFindUnusedExportsPythonAll(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"helpers.py": "__all__ = ['slugify', 'obscure']\n\ndef slugify(s):\n    return s\n\ndef obscure(s):\n    return s\n\ndef private_helper():\n    pass\n",
		"app.py":     "from helpers import slugify\nslugify('x')\n",
	})

	unused, _ := FindUnusedExports(fx.files, fx.registry)
	if len(unused) != 1 {
		t.Fatalf("got %d files with unused exports, want 1: %v", len(unused), unused)
	}
	// __all__ overrides the def scan: private_helper is never a candidate.
	if !reflect.DeepEqual(unused[0].Names, []string{"obscure"}) {
		t.Errorf("unused names = %v, want [obscure]", unused[0].Names)
	}
}

func TestFindUnusedExportsPythonDefScan(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"util.py": "def visible():\n    pass\n\nclass Widget(object):\n    pass\n",
		"app.py":  "from util import visible\nvisible()\n",
	})

	unused, _ := FindUnusedExports(fx.files, fx.registry)
	if len(unused) != 1 {
		t.Fatalf("got %d files with unused exports, want 1: %v", len(unused), unused)
	}
	if !reflect.DeepEqual(unused[0].Names, []string{"Widget"}) {
		t.Errorf("unused names = %v, want [Widget]", unused[0].Names)
	}
}

func TestFindUnusedExportsNoneWhenAllUsed(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"lib.js": "export const shared = 1;\n",
		"app.js": "import { shared } from './lib';\nconsole.log(shared);\n",
	})

	unused, _ := FindUnusedExports(fx.files, fx.registry)
	if len(unused) != 0 {
		t.Errorf("expected no unused exports, got %v", unused)
	}
}

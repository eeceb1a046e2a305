// Package analysis contains the pure report-producing passes over the
// dependency graph and raw file text: dead files, broken imports, and the
// unused-export heuristic. Nothing here mutates the tree.
package analysis

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Saulo520/CleanerMulti/internal/graph"
	"github.com/Saulo520/CleanerMulti/internal/language"
)

// entryPointNames are conventional entry files that are reachable through
// mechanisms the import patterns cannot see (build tools, runtimes).
var entryPointNames = map[string]bool{
	"app.py":    true,
	"main.py":   true,
	"index.js":  true,
	"index.ts":  true,
	"server.js": true,
}

// FindDead returns the sorted files with zero incoming resolved edges,
// excluding files presumed reachable by convention: pages/routes directories
// (route auto-registration), index.* entry files, conventional entry-point
// names, and Java files under a source root (classpath scanning).
//
// The directory-segment exemptions only consider segments inside the project
// root. Segments above it are the user's filesystem layout, not the
// project's; a root that is itself named src must not exempt every Java
// file it holds.
func FindDead(g *graph.Graph, registry *language.Registry) []string {
	var dead []string

	for _, f := range g.Files {
		if g.InDegree(f) > 0 {
			continue
		}

		rel := f
		if g.Root != "" {
			if r, err := filepath.Rel(g.Root, f); err == nil {
				rel = r
			}
		}
		norm := "/" + strings.ToLower(filepath.ToSlash(rel))
		base := strings.ToLower(filepath.Base(f))

		if strings.Contains(norm, "/pages/") || strings.Contains(norm, "/routes/") {
			continue
		}
		if strings.HasPrefix(base, "index.") {
			continue
		}
		if entryPointNames[base] {
			continue
		}
		if profile, ok := registry.Detect(f); ok && profile.Name == language.Java {
			if strings.Contains(norm, "/src/main/") || strings.Contains(norm, "/src/") {
				continue
			}
		}

		dead = append(dead, f)
	}

	sort.Strings(dead)
	return dead
}

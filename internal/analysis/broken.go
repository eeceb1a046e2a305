package analysis

import (
	"os"

	"github.com/Saulo520/CleanerMulti/internal/graph"
	"github.com/Saulo520/CleanerMulti/internal/language"
	"github.com/Saulo520/CleanerMulti/internal/resolver"
)

// BrokenImport is an intra-project-looking specifier that resolved to no
// known file.
type BrokenImport struct {
	File      string `json:"file"`
	Specifier string `json:"specifier"`
}

// FindBroken re-extracts every file's specifiers and reports the ones that
// look like project-internal references (relative paths, path-like
// specifiers, dotted namespaces in namespace languages) yet resolve to
// nothing. Package-name specifiers are out of scope: the resolver cannot and
// should not attempt external package resolution. Read failures are
// aggregated, not fatal.
func FindBroken(files []string, registry *language.Registry, resolv *resolver.Resolver) ([]BrokenImport, []graph.FileError) {
	known := resolver.NewFileSet(files)

	var broken []BrokenImport
	var errs []graph.FileError

	for _, f := range files {
		profile, ok := registry.Detect(f)
		if !ok {
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			errs = append(errs, graph.FileError{Path: f, Err: err})
			continue
		}

		for _, spec := range profile.ExtractImports(string(data)) {
			if _, resolved := resolv.Resolve(f, spec, known); resolved {
				continue
			}
			if resolver.LooksLocal(profile, spec) {
				broken = append(broken, BrokenImport{File: f, Specifier: spec})
			}
		}
	}

	return broken, errs
}

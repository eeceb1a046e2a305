// Package resolver maps raw import specifiers to concrete project files.
// Resolution only tests membership in a precomputed file set and never
// touches the filesystem, so it is deterministic for a fixed scan.
package resolver

import (
	"path/filepath"
	"strings"

	"github.com/Saulo520/CleanerMulti/internal/language"
)

// FileSet is the set of known project files, keyed by cleaned path.
type FileSet map[string]struct{}

// NewFileSet builds a FileSet from a scanned file list.
func NewFileSet(files []string) FileSet {
	set := make(FileSet, len(files))
	for _, f := range files {
		set[filepath.Clean(f)] = struct{}{}
	}
	return set
}

// Contains reports membership of a path, normalizing it first.
func (s FileSet) Contains(path string) bool {
	_, ok := s[filepath.Clean(path)]
	return ok
}

// Resolver resolves import specifiers against a project root.
type Resolver struct {
	root     string
	registry *language.Registry
}

// New creates a resolver for the given project root.
func New(root string, registry *language.Registry) *Resolver {
	return &Resolver{root: root, registry: registry}
}

// Resolve maps a raw specifier written in fromFile to the project file it
// denotes, or reports false when no strategy produces a known file.
//
// Strategies, tried in order:
//  1. relative/absolute path style (leading "." resolves against fromFile's
//     directory, leading "/" against the project root)
//  2. root-relative path style (contains "/")
//  3. dotted namespace (java/csharp only)
func (r *Resolver) Resolve(fromFile, specifier string, known FileSet) (string, bool) {
	spec := strings.Trim(strings.TrimSpace(specifier), `"'`)
	if spec == "" {
		return "", false
	}

	profile, ok := r.registry.Detect(fromFile)
	if !ok {
		return "", false
	}

	if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		var candidate string
		if strings.HasPrefix(spec, "/") {
			candidate = filepath.Join(r.root, strings.TrimPrefix(spec, "/"))
		} else {
			candidate = filepath.Join(filepath.Dir(fromFile), spec)
		}
		if resolved, ok := probe(candidate, profile.Extensions, known); ok {
			return resolved, true
		}
		// Bare candidate as a last resort (specifier already carried the
		// extension, or points at an extensionless file).
		if known.Contains(candidate) {
			return filepath.Clean(candidate), true
		}
		return "", false
	}

	if strings.Contains(spec, "/") {
		candidate := filepath.Join(r.root, spec)
		if resolved, ok := probe(candidate, profile.Extensions, known); ok {
			return resolved, true
		}
	}

	if profile.DottedNamespaces && strings.Contains(spec, ".") {
		candidate := filepath.Join(r.root, strings.ReplaceAll(spec, ".", string(filepath.Separator)))
		for _, ext := range profile.Extensions {
			if known.Contains(candidate + ext) {
				return filepath.Clean(candidate + ext), true
			}
		}
	}

	return "", false
}

// LooksLocal reports whether a specifier has the shape of an intra-project
// reference for the given profile: a relative path, a path with separators,
// or a dotted namespace in a namespace language. Anything else is presumed a
// third-party package name.
func LooksLocal(profile *language.Profile, specifier string) bool {
	spec := strings.Trim(strings.TrimSpace(specifier), `"'`)
	if spec == "" {
		return false
	}
	if strings.HasPrefix(spec, ".") || strings.Contains(spec, "/") {
		return true
	}
	return profile.DottedNamespaces && strings.Contains(spec, ".")
}

// probe tries each extension appended to the candidate (unless already
// present) and an index.<ext> file inside the candidate-as-directory.
func probe(candidate string, extensions []string, known FileSet) (string, bool) {
	for _, ext := range extensions {
		withExt := candidate
		if !strings.HasSuffix(candidate, ext) {
			withExt = candidate + ext
		}
		if known.Contains(withExt) {
			return filepath.Clean(withExt), true
		}
		index := filepath.Join(candidate, "index"+ext)
		if known.Contains(index) {
			return filepath.Clean(index), true
		}
	}
	return "", false
}

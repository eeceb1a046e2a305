// Package graph builds the project-wide import dependency graph: nodes are
// scanned files, edges are resolved import specifiers.
package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Saulo520/CleanerMulti/internal/language"
	"github.com/Saulo520/CleanerMulti/internal/resolver"
	"github.com/Saulo520/CleanerMulti/internal/scanner"
)

// FileError records a per-file failure during graph construction. Failures
// are aggregated rather than swallowed; the file stays in the graph with no
// outgoing edges.
type FileError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Graph is the import dependency graph. Node identity is the cleaned file
// path; adjacency is kept as roaring bitmaps over dense node indices.
//
// Invariants: every edge endpoint is a node, and referencedBy is the exact
// transpose of importsOf.
type Graph struct {
	// Root is the project root the graph was built from. Consumers that
	// reason about path layout must do so relative to it.
	Root   string
	Files  []string
	Errors []FileError

	index        map[string]uint32
	importsOf    []*roaring.Bitmap
	referencedBy []*roaring.Bitmap
}

func newGraph(files []string) *Graph {
	g := &Graph{
		Files:        files,
		index:        make(map[string]uint32, len(files)),
		importsOf:    make([]*roaring.Bitmap, len(files)),
		referencedBy: make([]*roaring.Bitmap, len(files)),
	}
	for i, f := range files {
		g.index[filepath.Clean(f)] = uint32(i)
		g.importsOf[i] = roaring.New()
		g.referencedBy[i] = roaring.New()
	}
	return g
}

// addEdge records from -> to in both directions. Endpoints outside the node
// set are ignored, which keeps the graph invariants by construction.
func (g *Graph) addEdge(from, to string) {
	fi, ok := g.index[filepath.Clean(from)]
	if !ok {
		return
	}
	ti, ok := g.index[filepath.Clean(to)]
	if !ok {
		return
	}
	g.importsOf[fi].Add(ti)
	g.referencedBy[ti].Add(fi)
}

// Contains reports whether path is a node.
func (g *Graph) Contains(path string) bool {
	_, ok := g.index[filepath.Clean(path)]
	return ok
}

// ImportsOf returns the sorted files that path imports.
func (g *Graph) ImportsOf(path string) []string {
	return g.neighbors(path, g.importsOf)
}

// ReferencedBy returns the sorted files that import path.
func (g *Graph) ReferencedBy(path string) []string {
	return g.neighbors(path, g.referencedBy)
}

// InDegree returns the number of files importing path.
func (g *Graph) InDegree(path string) int {
	i, ok := g.index[filepath.Clean(path)]
	if !ok {
		return 0
	}
	return int(g.referencedBy[i].GetCardinality())
}

// EdgeCount returns the total number of resolved import edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, bm := range g.importsOf {
		total += int(bm.GetCardinality())
	}
	return total
}

func (g *Graph) neighbors(path string, adj []*roaring.Bitmap) []string {
	i, ok := g.index[filepath.Clean(path)]
	if !ok {
		return nil
	}
	out := make([]string, 0, adj[i].GetCardinality())
	it := adj[i].Iterator()
	for it.HasNext() {
		out = append(out, g.Files[it.Next()])
	}
	sort.Strings(out)
	return out
}

// ProgressFunc is called once per file during graph construction.
type ProgressFunc func()

// Builder assembles dependency graphs from a scanned tree.
type Builder struct {
	scan       *scanner.Scanner
	registry   *language.Registry
	resolv     *resolver.Resolver
	onProgress ProgressFunc
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithProgress installs a per-file progress callback.
func WithProgress(fn ProgressFunc) BuilderOption {
	return func(b *Builder) {
		b.onProgress = fn
	}
}

// NewBuilder creates a graph builder. The resolver must be rooted at the
// same project root passed to Build.
func NewBuilder(scan *scanner.Scanner, registry *language.Registry, resolv *resolver.Resolver, opts ...BuilderOption) *Builder {
	b := &Builder{scan: scan, registry: registry, resolv: resolv}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build scans root and constructs the dependency graph. Unreadable files are
// collected in Graph.Errors and contribute no outgoing edges, but remain
// valid resolution targets. All I/O is sequential by design; the corpus
// sizes targeted are workstation source trees.
func (b *Builder) Build(root string, useCache bool) (*Graph, error) {
	files, err := b.scan.Scan(root, useCache)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	g := newGraph(files)
	g.Root = root
	known := resolver.NewFileSet(files)

	for _, f := range files {
		if b.onProgress != nil {
			b.onProgress()
		}

		profile, ok := b.registry.Detect(f)
		if !ok {
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			g.Errors = append(g.Errors, FileError{Path: f, Err: err})
			continue
		}

		for _, spec := range profile.ExtractImports(string(data)) {
			if target, ok := b.resolv.Resolve(f, spec, known); ok {
				g.addEdge(f, target)
			}
		}
	}

	return g, nil
}

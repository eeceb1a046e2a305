package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/Saulo520/CleanerMulti/internal/config"
	"github.com/Saulo520/CleanerMulti/internal/language"
)

// Scanner finds analyzable source files under a project root.
type Scanner struct {
	cfg      *config.Config
	registry *language.Registry
	cache    *Cache
	matchers []gitignore.Matcher
}

// New creates a scanner for the given config and language registry.
func New(cfg *config.Config, registry *language.Registry) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if registry == nil {
		registry = language.NewRegistry(cfg.Project.Languages)
	}
	return &Scanner{
		cfg:      cfg,
		registry: registry,
		cache:    NewCache(cfg.Cache.Dir, cfg.Cache.Enabled),
	}
}

// Cache exposes the scanner's cache, mainly so callers can invalidate it
// after mutating the tree.
func (s *Scanner) Cache() *Cache {
	return s.cache
}

// findGitRoot walks upward looking for a .git directory. Returns empty when
// not inside a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore reads all .gitignore files under the enclosing git root.
func (s *Scanner) loadGitignore(root string) {
	s.matchers = nil
	if !s.cfg.Exclude.Gitignore {
		return
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return
	}
	gitRoot := findGitRoot(absRoot)
	if gitRoot == "" {
		return
	}
	fs := osfs.New(gitRoot)
	if patterns, err := gitignore.ReadPatterns(fs, nil); err == nil && len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// ignored checks a root-relative path against the gitignore matchers.
func (s *Scanner) ignored(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// Scan returns the ordered list of analyzable files under root. When
// useCache is true and the cached list for this root is still valid (every
// entry exists with an unchanged mtime), it is returned without walking the
// tree. Otherwise a full walk runs and the cache is rewritten; cache write
// failures are ignored.
func (s *Scanner) Scan(root string, useCache bool) ([]string, error) {
	if useCache {
		if files, ok := s.cache.Lookup(root); ok {
			return files, nil
		}
	}

	s.loadGitignore(root)

	excludedDirs := make(map[string]bool, len(s.cfg.Exclude.Dirs))
	for _, d := range s.cfg.Exclude.Dirs {
		excludedDirs[d] = true
	}

	excludeDir := func(relPath string) bool {
		return excludedDirs[filepath.Base(relPath)] || s.ignored(relPath, true)
	}
	skipFile := func(relPath string) bool {
		name := filepath.Base(relPath)
		for _, pattern := range s.cfg.Exclude.Patterns {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		}
		if _, known := s.registry.Detect(name); !known {
			return true
		}
		return s.ignored(relPath, false)
	}

	files, err := Walk(root, excludeDir, skipFile)
	if err != nil {
		return nil, err
	}

	s.cache.Store(root, files)
	return files, nil
}

// Walk traverses root iteratively, pruning directories for which excludeDir
// returns true and dropping files for which skipFile returns true. Both
// predicates receive paths relative to root. Entries are visited in lexical
// order, files of a directory before its subdirectories.
func Walk(root string, excludeDir, skipFile func(relPath string) bool) ([]string, error) {
	var files []string

	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return nil, err
			}
			continue // unreadable subdirectory
		}

		var subdirs []string
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = e.Name()
			}
			if e.IsDir() {
				if !excludeDir(rel) {
					subdirs = append(subdirs, path)
				}
				continue
			}
			if !skipFile(rel) {
				files = append(files, filepath.Clean(path))
			}
		}

		// Reverse push keeps the pop order lexical.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return files, nil
}

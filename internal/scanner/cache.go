package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Cache is the on-disk scan cache: one JSON file per scanned root recording
// the file list and each file's mtime. It is an optimization only; any read
// failure or mismatch degrades to a full rescan.
type Cache struct {
	dir     string
	enabled bool
}

// cacheFile is the persisted cache format.
type cacheFile struct {
	Root  string       `json:"root"`
	Files []cacheEntry `json:"files"`
}

type cacheEntry struct {
	Path  string  `json:"path"`
	Mtime float64 `json:"mtime"`
}

// NewCache creates a scan cache rooted at dir.
func NewCache(dir string, enabled bool) *Cache {
	return &Cache{dir: dir, enabled: enabled}
}

// filePath derives the cache file name from the absolute scan root so each
// root gets its own cache file.
func (c *Cache) filePath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%016x.json", xxhash.Sum64String(abs))
	return filepath.Join(c.dir, name), nil
}

// Lookup returns the cached file list for root if every cached entry still
// exists with an identical mtime. Any mismatch, missing file, or read error
// invalidates the whole cache.
func (c *Cache) Lookup(root string) ([]string, bool) {
	if !c.enabled {
		return nil, false
	}

	path, err := c.filePath(root)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, false
	}

	absRoot, err := filepath.Abs(root)
	if err != nil || cf.Root != absRoot {
		return nil, false
	}

	files := make([]string, 0, len(cf.Files))
	for _, e := range cf.Files {
		if e.Path == "" {
			return nil, false
		}
		info, err := os.Stat(e.Path)
		if err != nil {
			return nil, false
		}
		if mtimeSeconds(info.ModTime().UnixNano()) != e.Mtime {
			return nil, false
		}
		files = append(files, e.Path)
	}

	return files, true
}

// Store writes the file list and current mtimes for root. Failures are
// non-fatal: the cache silently stays stale and the next scan walks again.
func (c *Cache) Store(root string, files []string) {
	if !c.enabled {
		return
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return
	}

	cf := cacheFile{Root: absRoot, Files: make([]cacheEntry, 0, len(files))}
	for _, f := range files {
		var mtime float64
		if info, err := os.Stat(f); err == nil {
			mtime = mtimeSeconds(info.ModTime().UnixNano())
		}
		cf.Files = append(cf.Files, cacheEntry{Path: f, Mtime: mtime})
	}

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return
	}

	path, err := c.filePath(root)
	if err != nil {
		return
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0644)
}

// Invalidate drops the cache entry for root, if any.
func (c *Cache) Invalidate(root string) {
	if !c.enabled {
		return
	}
	if path, err := c.filePath(root); err == nil {
		_ = os.Remove(path)
	}
}

// mtimeSeconds converts nanoseconds to fractional seconds, the unit stored
// in the cache file.
func mtimeSeconds(ns int64) float64 {
	return float64(ns) / 1e9
}

// Package snapshot implements the backup store that makes destructive
// operations reversible: full point-in-time copies of the project root,
// retained newest-first up to a configured count.
package snapshot

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

const (
	metaFile     = ".snapshot_meta.json"
	checksumFile = ".snapshot_checksums.json"
	timeLayout   = "20060102_150405"
)

// ErrNoSnapshots is returned by RestoreLatest when the store is empty.
var ErrNoSnapshots = errors.New("no snapshots to restore")

// Snapshot describes one stored backup.
type Snapshot struct {
	Path      string `json:"path"`
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
}

// meta is the persisted .snapshot_meta.json format.
type meta struct {
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
}

// CopyError records a single failed file during a copy or restore pass.
type CopyError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e CopyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// RestoreResult reports what a restore actually did. A partially restored
// tree is reported, never rolled back further; the restore itself has no
// safety net.
type RestoreResult struct {
	Snapshot Snapshot    `json:"snapshot"`
	Restored int         `json:"restored"`
	Errors   []CopyError `json:"errors,omitempty"`
}

// Manager owns the snapshot store for one project root.
type Manager struct {
	root   string
	dir    string
	retain int
}

// NewManager creates a snapshot manager. retain bounds how many snapshots
// survive a Trim; values below 1 keep one.
func NewManager(root, dir string, retain int) *Manager {
	if retain < 1 {
		retain = 1
	}
	return &Manager{root: root, dir: dir, retain: retain}
}

// Create copies the whole project root into a timestamp+label directory,
// writes the metadata and checksum manifest, and eagerly trims old
// snapshots. Callers must treat an error as a hard stop: without the
// snapshot no destructive step may run.
//
// The label is free-form (operation labels embed user arguments) and is
// flattened to one portable path segment for the directory name; the
// metadata keeps the original.
func (m *Manager) Create(label string) (string, error) {
	ts := time.Now().Format(timeLayout)
	name := ts + "_" + sanitizeLabel(label)
	dest := filepath.Join(m.dir, name)

	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}

	sums, err := m.copyTree(m.root, dest)
	if err != nil {
		return "", fmt.Errorf("copying project tree: %w", err)
	}

	md, _ := json.Marshal(meta{Label: label, Timestamp: ts})
	if err := os.WriteFile(filepath.Join(dest, metaFile), md, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot metadata: %w", err)
	}

	cs, _ := json.MarshalIndent(sums, "", "  ")
	if err := os.WriteFile(filepath.Join(dest, checksumFile), cs, 0644); err != nil {
		return "", fmt.Errorf("writing checksum manifest: %w", err)
	}

	m.Trim()
	return dest, nil
}

// sanitizeLabel maps a label onto a single directory name. Path separators
// in particular must never survive: a nested snapshot directory would list
// without metadata and restore at the wrong depth.
func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, label)
}

// List returns snapshots newest-first. The timestamp prefix makes the
// lexical order chronological.
func (m *Manager) List() []Snapshot {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil
	}

	var snaps []Snapshot
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		s := Snapshot{Path: filepath.Join(m.dir, e.Name())}
		if data, err := os.ReadFile(filepath.Join(s.Path, metaFile)); err == nil {
			var md meta
			if json.Unmarshal(data, &md) == nil {
				s.Label = md.Label
				s.Timestamp = md.Timestamp
			}
		}
		snaps = append(snaps, s)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Path > snaps[j].Path })
	return snaps
}

// Trim deletes every snapshot beyond the retention count, oldest first.
func (m *Manager) Trim() {
	snaps := m.List()
	if len(snaps) <= m.retain {
		return
	}
	for _, s := range snaps[m.retain:] {
		_ = os.RemoveAll(s.Path)
	}
}

// RestoreLatest deletes every top-level entry of the project root and copies
// the newest snapshot back, excluding the snapshot's bookkeeping files. The
// restored content is verified against the checksum manifest; mismatches and
// per-file copy failures are collected in the result.
func (m *Manager) RestoreLatest() (*RestoreResult, error) {
	snaps := m.List()
	if len(snaps) == 0 {
		return nil, ErrNoSnapshots
	}
	latest := snaps[0]
	result := &RestoreResult{Snapshot: latest}

	absStore, _ := filepath.Abs(m.dir)

	// Clear the current root. The store itself is left alone in case it
	// lives inside the root.
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil, fmt.Errorf("reading project root: %w", err)
	}
	for _, e := range entries {
		path := filepath.Join(m.root, e.Name())
		if abs, err := filepath.Abs(path); err == nil && abs == absStore {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			result.Errors = append(result.Errors, CopyError{Path: path, Err: err})
		}
	}

	// Copy the snapshot contents back.
	snapEntries, err := os.ReadDir(latest.Path)
	if err != nil {
		return result, fmt.Errorf("reading snapshot: %w", err)
	}
	for _, e := range snapEntries {
		if e.Name() == metaFile || e.Name() == checksumFile {
			continue
		}
		src := filepath.Join(latest.Path, e.Name())
		dst := filepath.Join(m.root, e.Name())
		n, errs := copyEntry(src, dst)
		result.Restored += n
		result.Errors = append(result.Errors, errs...)
	}

	result.Errors = append(result.Errors, m.verify(latest.Path)...)
	return result, nil
}

// verify re-hashes restored files against the snapshot's checksum manifest.
func (m *Manager) verify(snapPath string) []CopyError {
	data, err := os.ReadFile(filepath.Join(snapPath, checksumFile))
	if err != nil {
		return nil // manifest missing; nothing to verify against
	}
	var sums map[string]string
	if err := json.Unmarshal(data, &sums); err != nil {
		return nil
	}

	var errs []CopyError
	for rel, want := range sums {
		path := filepath.Join(m.root, rel)
		got, err := hashFile(path)
		if err != nil {
			errs = append(errs, CopyError{Path: path, Err: err})
			continue
		}
		if got != want {
			errs = append(errs, CopyError{Path: path, Err: fmt.Errorf("checksum mismatch after restore")})
		}
	}
	return errs
}

// copyTree recursively copies src into dest, returning a manifest of BLAKE3
// checksums keyed by src-relative path. The snapshot store is skipped so a
// store nested inside the project root never snapshots itself.
func (m *Manager) copyTree(src, dest string) (map[string]string, error) {
	sums := make(map[string]string)
	absStore, _ := filepath.Abs(m.dir)

	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if abs, aerr := filepath.Abs(path); aerr == nil && abs == absStore {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		sum, err := copyFile(path, target)
		if err != nil {
			return err
		}
		sums[rel] = sum
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sums, nil
}

// copyEntry copies a file or directory tree, counting copied files and
// collecting per-file errors instead of stopping.
func copyEntry(src, dst string) (int, []CopyError) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, []CopyError{{Path: src, Err: err}}
	}

	if !info.IsDir() {
		if _, err := copyFile(src, dst); err != nil {
			return 0, []CopyError{{Path: src, Err: err}}
		}
		return 1, nil
	}

	count := 0
	var errs []CopyError
	walkErr := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, CopyError{Path: path, Err: err})
			return nil
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				errs = append(errs, CopyError{Path: target, Err: err})
				return filepath.SkipDir
			}
			return nil
		}
		if _, err := copyFile(path, target); err != nil {
			errs = append(errs, CopyError{Path: path, Err: err})
			return nil
		}
		count++
		return nil
	})
	if walkErr != nil {
		errs = append(errs, CopyError{Path: src, Err: walkErr})
	}
	return count, errs
}

// copyFile copies one file and returns the BLAKE3 checksum of its content.
func copyFile(src, dst string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// hashFile returns the BLAKE3 checksum of a file's content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

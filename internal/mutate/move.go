package mutate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Saulo520/CleanerMulti/internal/resolver"
)

// MoveAndFix moves src (a file or folder, relative to the project root) to
// dest and rewrites every referrer: files whose imports resolve to src or to
// something inside it get the old root-relative path text replaced with the
// new one. The substitution is literal and specifier-syntax-agnostic, a
// documented heuristic; the resolver-based affected set bounds the blast
// radius to files that provably import the moved path.
func (r *Runner) MoveAndFix(src, dest string, opts Options) error {
	absSrc := filepath.Clean(filepath.Join(r.root, src))
	absDest := filepath.Clean(filepath.Join(r.root, dest))

	// Missing source aborts before any preview or snapshot work.
	if _, err := os.Stat(absSrc); err != nil {
		r.log.Printf("Source does not exist: %s", absSrc)
		return fmt.Errorf("source does not exist: %s", absSrc)
	}

	files, err := r.scan.Scan(r.root, true)
	if err != nil {
		return err
	}
	known := resolver.NewFileSet(files)

	affected := make(map[string]bool)
	for _, f := range files {
		profile, ok := r.registry.Detect(f)
		if !ok {
			continue
		}
		data, err := os.ReadFile(f)
		if err != nil {
			r.log.Printf("Skipping unreadable file %s: %v", f, err)
			continue
		}
		for _, spec := range profile.ExtractImports(string(data)) {
			target, ok := r.resolv.Resolve(f, spec, known)
			if !ok {
				continue
			}
			if target == absSrc || strings.HasPrefix(target, absSrc+string(filepath.Separator)) {
				affected[f] = true
				break
			}
		}
	}

	preview := make([]string, 0, len(affected))
	for f := range affected {
		preview = append(preview, f)
	}
	sort.Strings(preview)
	r.showPreview("files whose imports will be updated", preview)

	prompt := fmt.Sprintf("Move %s -> %s and fix imports?", absSrc, absDest)
	ok, err := r.gate(opts, prompt, "move_"+filepath.Base(src))
	if err != nil || !ok {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(absDest), 0755); err != nil {
		r.log.Printf("Failed to create destination directory: %v", err)
		return err
	}
	if err := os.Rename(absSrc, absDest); err != nil {
		r.log.Printf("Failed to move: %v", err)
		return err
	}

	oldRel := rootRelative(r.root, absSrc)
	newRel := rootRelative(r.root, absDest)

	for _, f := range preview {
		data, err := os.ReadFile(f)
		if err != nil {
			r.log.Printf("Failed to read %s: %v", f, err)
			continue
		}
		info, err := os.Stat(f)
		if err != nil {
			r.log.Printf("Failed to stat %s: %v", f, err)
			continue
		}
		updated := strings.ReplaceAll(string(data), oldRel, newRel)
		if err := os.WriteFile(f, []byte(updated), info.Mode().Perm()); err != nil {
			r.log.Printf("Failed to update %s: %v", f, err)
			continue
		}
		r.log.Printf("Updated: %s", f)
	}

	r.invalidateScanCache()
	r.log.Printf("Move and fix complete.")
	return nil
}

// rootRelative returns path relative to root with forward slashes, the form
// specifiers are written in.
func rootRelative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

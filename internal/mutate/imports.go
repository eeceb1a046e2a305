package mutate

import (
	"fmt"
	"os"
	"strings"

	"github.com/Saulo520/CleanerMulti/internal/language"
)

// markerComment is appended to every line commented out by CommentImports so
// the change is greppable afterwards.
const markerComment = "removed by cleaner"

// importLineMatches reports whether line is an import statement whose
// specifier mentions folder (path separators normalized first).
func importLineMatches(p *language.Profile, line, folder string) bool {
	spec, ok := p.MatchImportLine(line)
	if !ok {
		return false
	}
	return strings.Contains(strings.ReplaceAll(spec, "\\", "/"), folder)
}

// previewImportMatches scans every project file for import lines whose
// specifier mentions folder and returns the files containing at least one.
func (r *Runner) previewImportMatches(folder string) ([]string, error) {
	files, err := r.scan.Scan(r.root, true)
	if err != nil {
		return nil, err
	}

	var matched []string
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
		for _, line := range strings.Split(string(data), "\n") {
			if importLineMatches(profile, line, folder) {
				matched = append(matched, f)
				break
			}
		}
	}
	return matched, nil
}

// CommentImports prefixes every import line whose specifier mentions folder
// with the language's line-comment marker, appending a trailing marker
// comment.
func (r *Runner) CommentImports(folder string, opts Options) error {
	preview, err := r.previewImportMatches(folder)
	if err != nil {
		return err
	}
	r.showPreview(fmt.Sprintf("files whose imports into %q will be commented", folder), preview)

	ok, err := r.gate(opts, "Comment these imports?", "comment_imports_"+folder)
	if err != nil || !ok {
		return err
	}

	for _, f := range preview {
		if err := r.rewriteImportLines(f, folder, commentLine); err != nil {
			r.log.Printf("Failed to update %s: %v", f, err)
			continue
		}
		r.log.Printf("Commented imports in: %s", f)
	}

	r.invalidateScanCache()
	return nil
}

// RemoveImports drops every import line whose specifier mentions folder.
func (r *Runner) RemoveImports(folder string, opts Options) error {
	preview, err := r.previewImportMatches(folder)
	if err != nil {
		return err
	}
	r.showPreview(fmt.Sprintf("files whose imports into %q will be removed", folder), preview)

	ok, err := r.gate(opts, "Remove these imports?", "remove_imports_"+folder)
	if err != nil || !ok {
		return err
	}

	for _, f := range preview {
		if err := r.rewriteImportLines(f, folder, dropLine); err != nil {
			r.log.Printf("Failed to update %s: %v", f, err)
			continue
		}
		r.log.Printf("Removed imports in: %s", f)
	}

	r.invalidateScanCache()
	return nil
}

// lineEdit transforms one matched import line; a false return drops the
// line entirely.
type lineEdit func(marker, line string) (string, bool)

func commentLine(marker, line string) (string, bool) {
	return fmt.Sprintf("%s %s  %s %s", marker, line, marker, markerComment), true
}

func dropLine(string, string) (string, bool) {
	return "", false
}

// rewriteImportLines applies edit to every import line of f whose specifier
// mentions folder, preserving all other lines byte for byte.
func (r *Runner) rewriteImportLines(f, folder string, edit lineEdit) error {
	profile, ok := r.registry.Detect(f)
	if !ok {
		return fmt.Errorf("no language profile for %s", f)
	}

	data, err := os.ReadFile(f)
	if err != nil {
		return err
	}
	info, err := os.Stat(f)
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		if importLineMatches(profile, line, folder) {
			changed = true
			if edited, keep := edit(profile.CommentMarker, line); keep {
				out = append(out, edited)
			}
			continue
		}
		out = append(out, line)
	}

	if !changed {
		return nil
	}
	return os.WriteFile(f, []byte(strings.Join(out, "\n")), info.Mode().Perm())
}

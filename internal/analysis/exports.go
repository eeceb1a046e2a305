package analysis

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/Saulo520/CleanerMulti/internal/graph"
	"github.com/Saulo520/CleanerMulti/internal/language"
)

// UnusedExport lists exported names of one file that no other file mentions.
type UnusedExport struct {
	File  string   `json:"file"`
	Names []string `json:"names"`
}

var (
	jsExportDef   = regexp.MustCompile(`export\s+(?:default\s+)?(?:function|const|let|var|class)\s+([A-Za-z0-9_]+)`)
	jsNamedExport = regexp.MustCompile(`export\s*\{([^}]+)\}`)
	pyDef         = regexp.MustCompile(`(?m)^\s*def\s+([A-Za-z0-9_]+)\s*\(|^\s*class\s+([A-Za-z0-9_]+)\s*\(`)
	pyAll         = regexp.MustCompile(`(?s)__all__\s*=\s*\[(.*?)\]`)
)

// FindUnusedExports collects candidate exported names for JS/TS (export
// declarations and named-export lists) and Python (__all__ when present,
// else top-level def/class), then flags each name that appears in no other
// file as a whole word. This is a textual check, not a semantic one, and the
// report is advisory: names used via reflection or dynamic dispatch will be
// false positives, names shadowed by coincidental tokens false negatives.
func FindUnusedExports(files []string, registry *language.Registry) ([]UnusedExport, []graph.FileError) {
	texts := make(map[string]string, len(files))
	var errs []graph.FileError
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			errs = append(errs, graph.FileError{Path: f, Err: err})
			texts[f] = ""
			continue
		}
		texts[f] = string(data)
	}

	exports := make(map[string][]string)
	for _, f := range files {
		profile, ok := registry.Detect(f)
		if !ok {
			continue
		}
		var names []string
		switch profile.Name {
		case language.JavaScript, language.TypeScript:
			names = jsExportNames(texts[f])
		case language.Python:
			names = pythonExportNames(texts[f])
		}
		if len(names) > 0 {
			exports[f] = names
		}
	}

	var unused []UnusedExport
	for f, names := range exports {
		var dead []string
		for _, name := range names {
			if !usedElsewhere(name, f, files, texts) {
				dead = append(dead, name)
			}
		}
		if len(dead) > 0 {
			unused = append(unused, UnusedExport{File: f, Names: dead})
		}
	}

	sort.Slice(unused, func(i, j int) bool { return unused[i].File < unused[j].File })
	return unused, errs
}

func jsExportNames(text string) []string {
	var names []string
	for _, m := range jsExportDef.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			names = append(names, m[1])
		}
	}
	for _, m := range jsNamedExport.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(strings.SplitN(strings.TrimSpace(part), " as ", 2)[0])
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func pythonExportNames(text string) []string {
	// An explicit __all__ list takes precedence over the def/class scan.
	if m := pyAll.FindStringSubmatch(text); m != nil {
		var names []string
		for _, part := range regexp.MustCompile(`,\s*`).Split(m[1], -1) {
			name := strings.Trim(strings.TrimSpace(part), `"'`)
			if name != "" {
				names = append(names, name)
			}
		}
		return names
	}

	var names []string
	for _, m := range pyDef.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// usedElsewhere reports whether name occurs as a whole word in any file
// other than owner.
func usedElsewhere(name, owner string, files []string, texts map[string]string) bool {
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	for _, other := range files {
		if other == owner {
			continue
		}
		if word.MatchString(texts[other]) {
			return true
		}
	}
	return false
}

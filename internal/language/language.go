package language

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Language identifies one of the supported source languages.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Java       Language = "java"
	CSharp     Language = "csharp"
	CPP        Language = "cpp"
	Go         Language = "go"
	PHP        Language = "php"
	Unknown    Language = ""
)

// Rule is a single import-extraction pattern. The specifier is the first
// non-empty capturing group of a match, or the whole match when the pattern
// has no groups.
type Rule struct {
	Pattern *regexp.Regexp
}

// Profile describes how one language declares imports. Profiles are immutable
// after registry construction.
type Profile struct {
	Name       Language
	Extensions []string
	Rules      []Rule

	// CommentMarker is the line-comment prefix used when commenting imports
	// out ("#" for python, "//" everywhere else).
	CommentMarker string

	// DottedNamespaces marks languages whose import specifiers are dotted
	// namespaces resolved against the project root (java, csharp).
	DottedNamespaces bool

	// BlockImports enables the parenthesized import-block scan (go).
	BlockImports bool
}

var (
	jsRules = []Rule{
		{regexp.MustCompile(`import\s+[^'"]+from\s+['"]([^'"]+)['"]`)},
		{regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)},
		{regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`)},
	}

	pyRules = []Rule{
		{regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import`)},
		{regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`)},
	}

	javaRules = []Rule{
		// The upstream tool shipped a malformed character class here that
		// never matched multi-segment namespaces; this is the intended form.
		{regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.]+)\s*;`)},
	}

	csharpRules = []Rule{
		{regexp.MustCompile(`(?m)^\s*using\s+([\w.]+)\s*;`)},
	}

	cppRules = []Rule{
		{regexp.MustCompile(`(?m)^\s*#include\s+["<]([^">]+)[">]`)},
	}

	goRules = []Rule{
		{regexp.MustCompile(`import\s+\(?\s*['"]([^'"]+)['"]`)},
	}

	phpRules = []Rule{
		{regexp.MustCompile(`(?:require_once|require|include_once|include)\s*\(?\s*['"]([^'"]+)['"]\s*\)?`)},
	}

	goImportBlock = regexp.MustCompile(`(?s)import\s*\((.*?)\)`)
	quotedLine    = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// baseProfiles holds the built-in profile for each language. Extensions act
// as defaults and can be overridden per language at registry construction.
var baseProfiles = []Profile{
	{Name: JavaScript, Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, Rules: jsRules, CommentMarker: "//"},
	{Name: TypeScript, Extensions: []string{".ts", ".tsx"}, Rules: jsRules, CommentMarker: "//"},
	{Name: Python, Extensions: []string{".py"}, Rules: pyRules, CommentMarker: "#"},
	{Name: Java, Extensions: []string{".java"}, Rules: javaRules, CommentMarker: "//", DottedNamespaces: true},
	{Name: CSharp, Extensions: []string{".cs"}, Rules: csharpRules, CommentMarker: "//", DottedNamespaces: true},
	{Name: CPP, Extensions: []string{".c", ".cpp", ".cc", ".cxx", ".h", ".hpp"}, Rules: cppRules, CommentMarker: "//"},
	{Name: Go, Extensions: []string{".go"}, Rules: goRules, CommentMarker: "//", BlockImports: true},
	{Name: PHP, Extensions: []string{".php"}, Rules: phpRules, CommentMarker: "//"},
}

// Registry maps file extensions to language profiles.
type Registry struct {
	profiles map[Language]*Profile
	byExt    map[string]*Profile
}

// NewRegistry builds a registry from a language -> extensions map, typically
// the configured one. Languages absent from the map keep their built-in
// extensions; language names without a built-in profile are ignored.
func NewRegistry(extensions map[string][]string) *Registry {
	r := &Registry{
		profiles: make(map[Language]*Profile),
		byExt:    make(map[string]*Profile),
	}

	for i := range baseProfiles {
		p := baseProfiles[i] // copy so overrides stay local to this registry
		if exts, ok := extensions[string(p.Name)]; ok && len(exts) > 0 {
			p.Extensions = exts
		}
		r.profiles[p.Name] = &p
		for _, ext := range p.Extensions {
			r.byExt[strings.ToLower(ext)] = &p
		}
	}

	return r
}

// DefaultRegistry builds a registry with the built-in extension lists.
func DefaultRegistry() *Registry {
	return NewRegistry(nil)
}

// Detect returns the profile for a file path based on its extension.
func (r *Registry) Detect(path string) (*Profile, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Profile returns the profile registered for a language.
func (r *Registry) Profile(lang Language) (*Profile, bool) {
	p, ok := r.profiles[lang]
	return p, ok
}

// Extensions returns every extension the registry recognizes.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

// ExtractImports applies every extraction rule in order and returns the raw
// specifiers found in text, deduplicated in first-seen order. Matches across
// all rules are collected, so rule order only affects output ordering.
func (p *Profile) ExtractImports(text string) []string {
	var found []string
	seen := make(map[string]bool)
	add := func(spec string) {
		if !seen[spec] {
			seen[spec] = true
			found = append(found, spec)
		}
	}

	if p.BlockImports {
		for _, block := range goImportBlock.FindAllStringSubmatch(text, -1) {
			for _, line := range strings.Split(block[1], "\n") {
				if m := quotedLine.FindStringSubmatch(line); m != nil {
					add(m[1])
				}
			}
		}
	}

	for _, rule := range p.Rules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			add(firstGroup(m))
		}
	}

	return found
}

// MatchImportLine reports whether a single line contains an import statement,
// returning its raw specifier.
func (p *Profile) MatchImportLine(line string) (string, bool) {
	for _, rule := range p.Rules {
		if m := rule.Pattern.FindStringSubmatch(line); m != nil {
			return firstGroup(m), true
		}
	}
	return "", false
}

// firstGroup returns the first non-empty capturing group of a regexp match,
// falling back to the whole match for group-less patterns.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return m[0]
}

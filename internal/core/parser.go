package core

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontmatterRE = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n`)

var phaseDirRE = regexp.MustCompile(`^(\d{1,2})[-_]`)

// skipDirs are excluded from corpus discovery.
var skipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

// readmeNames are documentation files scanned for security only; they
// are skipped for structural and registry validation.
var readmeNames = map[string]bool{
	"readme.md":       true,
	"contributing.md": true,
	"changelog.md":    true,
	"license.md":      true,
	"index.md":        true,
}

// phaseByCategory is the fallback when no directory prefix declares a phase.
var phaseByCategory = map[string]int{
	"setup":         1,
	"bootstrap":     1,
	"analysis":      2,
	"development":   3,
	"refactoring":   3,
	"testing":       4,
	"security":      5,
	"deployment":    6,
	"documentation": 7,
	"collaboration": 8,
	"utilities":     9,
}

// PhaseName returns the display name for a phase number.
func PhaseName(phase int) string {
	names := map[int]string{
		1: "Setup & Bootstrap",
		2: "Analysis",
		3: "Development",
		4: "Testing",
		5: "Security",
		6: "Deployment",
		7: "Documentation",
		8: "Collaboration",
		9: "Utilities",
	}
	if n, ok := names[phase]; ok {
		return n
	}
	return "Uncategorized"
}

// DiscoverDocuments walks root and returns the relative paths of all
// markdown documents in lexical order. A failure to read root itself is
// fatal; unreadable subtrees are skipped.
func DiscoverDocuments(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &FatalError{Op: "read corpus root", Err: err}
	}
	if !info.IsDir() {
		return nil, &FatalError{Op: "read corpus root", Err: os.ErrInvalid}
	}

	var paths []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	sort.Strings(paths)
	return paths, nil
}

// LoadDocument reads and parses one corpus entry. An unreadable file is
// an error scoped to that document only.
func LoadDocument(root, rel string) (*Document, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, &ValidationError{Path: rel, Msg: "unreadable: " + err.Error()}
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, &ValidationError{Path: rel, Msg: "unreadable: " + err.Error()}
	}

	doc := ParseDocument(rel, string(data))
	doc.ModTime = info.ModTime().UTC()
	return doc, nil
}

// ParseDocument derives metadata from raw markdown text. Frontmatter
// values win over extracted ones.
func ParseDocument(rel, raw string) *Document {
	doc := &Document{
		Path:        rel,
		Raw:         raw,
		Type:        DocTypeCommand,
		SafetyLevel: SafetySafe,
	}
	if readmeNames[strings.ToLower(filepath.Base(rel))] {
		doc.Type = DocTypeGeneric
	}

	fm, body := parseFrontmatter(raw)
	doc.Title = fmString(fm, "title")
	doc.Description = fmString(fm, "description")
	doc.Category = fmString(fm, "category")
	doc.Usage = fmString(fm, "usage")

	if doc.Title == "" {
		doc.Title = firstHeading(body)
	}
	if doc.Description == "" {
		doc.Description = firstParagraph(body)
	}
	if doc.Category == "" {
		doc.Category = categoryFromPath(rel)
	}
	if doc.Usage == "" {
		doc.Usage = sectionFirstLine(body, "usage")
	}
	doc.Parameters = sectionBullets(body, "parameters", "arguments", "options")
	doc.Examples = sectionBullets(body, "examples", "example")
	doc.Phase = inferPhase(rel, doc.Category)
	return doc
}

// StructuralIssues reports required-section failures for command
// documents: a missing description and mismatched fence delimiters.
func (d *Document) StructuralIssues() []string {
	if d.Type != DocTypeCommand {
		return nil
	}
	var issues []string
	if strings.TrimSpace(d.Description) == "" {
		issues = append(issues, "missing description")
	}
	fences := 0
	for _, line := range strings.Split(d.Raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			fences++
		}
	}
	if fences%2 != 0 {
		issues = append(issues, "unbalanced code fence delimiters")
	}
	return issues
}

func parseFrontmatter(content string) (map[string]any, string) {
	match := frontmatterRE.FindStringSubmatchIndex(content)
	if match == nil {
		return map[string]any{}, content
	}
	rawYAML := content[match[2]:match[3]]
	body := content[match[1]:]

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(rawYAML), &fm); err != nil || fm == nil {
		return map[string]any{}, content
	}
	return fm, body
}

func fmString(fm map[string]any, key string) string {
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// firstParagraph returns the first prose paragraph after the title,
// skipping headings, fences, and list markers.
func firstParagraph(body string) string {
	inFence := false
	sawHeading := false
	var para []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if sawHeading && len(para) > 0 {
				break
			}
			sawHeading = true
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, ">") {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, trimmed)
	}
	return strings.Join(para, " ")
}

// sectionFirstLine returns the first non-blank line under any of the
// named H2 sections, stripping fence markers.
func sectionFirstLine(body string, names ...string) string {
	lines := sectionLines(body, names...)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "```") {
			continue
		}
		return trimmed
	}
	return ""
}

// sectionBullets collects bullet items and fenced lines under any of
// the named H2 sections.
func sectionBullets(body string, names ...string) []string {
	lines := sectionLines(body, names...)
	var items []string
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			if trimmed != "" {
				items = append(items, trimmed)
			}
			continue
		}
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			items = append(items, strings.TrimSpace(trimmed[2:]))
		}
	}
	return items
}

// sectionLines returns the lines between a matching H2 heading and the
// next heading of the same or higher level.
func sectionLines(body string, names ...string) []string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "## ") {
			continue
		}
		heading := strings.ToLower(strings.TrimSpace(trimmed[3:]))
		for _, name := range names {
			if strings.HasPrefix(heading, name) {
				var section []string
				for _, next := range lines[i+1:] {
					nt := strings.TrimSpace(next)
					if strings.HasPrefix(nt, "# ") || strings.HasPrefix(nt, "## ") {
						return section
					}
					section = append(section, next)
				}
				return section
			}
		}
	}
	return nil
}

func categoryFromPath(rel string) string {
	dir := filepath.Dir(filepath.FromSlash(rel))
	if dir == "." || dir == "/" {
		return "uncategorized"
	}
	base := filepath.Base(dir)
	base = strings.ToLower(phaseDirRE.ReplaceAllString(base, ""))
	if base == "" {
		return "uncategorized"
	}
	return base
}

// inferPhase prefers a numeric directory prefix (e.g. "03-testing"),
// falling back to the category lookup table.
func inferPhase(rel, category string) int {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
		if m := phaseDirRE.FindStringSubmatch(part); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	if p, ok := phaseByCategory[strings.ToLower(category)]; ok {
		return p
	}
	return 0
}

// IsReadmeLike reports whether a path names a documentation file that
// bypasses structural validation.
func IsReadmeLike(rel string) bool {
	return readmeNames[strings.ToLower(filepath.Base(rel))]
}

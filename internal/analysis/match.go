package analysis

import (
	"regexp"
	"strings"

	"github.com/cmdguard/cmdguard/internal/catalog"
	"github.com/cmdguard/cmdguard/internal/core"
)

const (
	maxExampleMatches = 3
	maxSnippetLen     = 120
)

// Matcher applies the pattern catalog to code blocks. The catalog is
// shared read-only configuration; Matcher itself holds no mutable state
// across calls.
type Matcher struct {
	catalog *catalog.Catalog
}

func NewMatcher(c *catalog.Catalog) *Matcher {
	return &Matcher{catalog: c}
}

// Scan runs every catalog rule over the block in fixed tier order,
// then a secondary heuristic pass for compound destructive phrases.
// Exception keywords suppress individual match occurrences, and a
// per-block set of already-recorded substrings keeps later rules and
// the heuristic pass from re-reporting the same text.
func (m *Matcher) Scan(block core.CodeBlock) []core.Finding {
	seen := make(map[string]bool)
	var findings []core.Finding

	for _, rule := range m.catalog.Rules() {
		var kept []string
		for _, occ := range rule.Pattern.FindAllString(block.Content, -1) {
			if matchesException(occ, rule.Exceptions) {
				continue
			}
			if seen[occ] {
				continue
			}
			kept = append(kept, occ)
		}
		if len(kept) == 0 {
			continue
		}
		for _, occ := range kept {
			seen[occ] = true
		}
		if len(kept) > maxExampleMatches {
			kept = kept[:maxExampleMatches]
		}
		findings = append(findings, core.Finding{
			DocPath:    block.DocPath,
			BlockIndex: block.Index,
			RuleID:     rule.ID,
			Message:    rule.Message,
			Category:   rule.Category,
			Severity:   rule.Severity,
			Matches:    kept,
			Snippet:    truncateSnippet(block.Content),
		})
	}

	findings = append(findings, m.heuristicPass(block, seen)...)
	return findings
}

// compoundPhrase pairs a verb pattern with an object pattern; both must
// appear on the same line. These catch destructive intent that a single
// literal rule cannot express.
type compoundPhrase struct {
	id      string
	verb    *regexp.Regexp
	object  *regexp.Regexp
	message string
}

var compoundPhrases = []compoundPhrase{
	{
		id:      "CG-HEUR-001",
		verb:    regexp.MustCompile(`(?i)\bfind\b`),
		object:  regexp.MustCompile(`(?i)-delete\b|-exec\s+rm\b`),
		message: "find invocation that deletes matched files",
	},
	{
		id:      "CG-HEUR-002",
		verb:    regexp.MustCompile(`(?i)\b(?:drop|wipe|purge|destroy|reset)\b`),
		object:  regexp.MustCompile(`(?i)\b(?:database|table|disk|partition|volume|all\s+(?:files|data))\b`),
		message: "Destructive verb applied to a data store or device",
	},
	{
		id:      "CG-HEUR-003",
		verb:    regexp.MustCompile(`(?i)\btruncate\b`),
		object:  regexp.MustCompile(`(?i)-s\s*0\b`),
		message: "File truncation to zero length",
	},
}

// heuristicPass emits medium findings for compound destructive phrases.
// A line containing a substring already recorded by the primary catalog
// is skipped so the same text is not reported twice.
func (m *Matcher) heuristicPass(block core.CodeBlock, seen map[string]bool) []core.Finding {
	var findings []core.Finding
	for _, cp := range compoundPhrases {
		var kept []string
		for _, line := range strings.Split(block.Content, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if !cp.verb.MatchString(trimmed) || !cp.object.MatchString(trimmed) {
				continue
			}
			if alreadyRecorded(trimmed, seen) || seen[trimmed] {
				continue
			}
			kept = append(kept, trimmed)
		}
		if len(kept) == 0 {
			continue
		}
		for _, line := range kept {
			seen[line] = true
		}
		if len(kept) > maxExampleMatches {
			kept = kept[:maxExampleMatches]
		}
		findings = append(findings, core.Finding{
			DocPath:    block.DocPath,
			BlockIndex: block.Index,
			RuleID:     cp.id,
			Message:    cp.message,
			Category:   "heuristic",
			Severity:   core.SeverityMedium,
			Matches:    kept,
			Snippet:    truncateSnippet(block.Content),
		})
	}
	return findings
}

func alreadyRecorded(line string, seen map[string]bool) bool {
	for s := range seen {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func matchesException(occ string, exceptions []string) bool {
	if len(exceptions) == 0 {
		return false
	}
	lower := strings.ToLower(occ)
	for _, ex := range exceptions {
		if strings.Contains(lower, strings.ToLower(ex)) {
			return true
		}
	}
	return false
}

func truncateSnippet(content string) string {
	line := firstNonBlankLine(content)
	if len(line) > maxSnippetLen {
		return line[:maxSnippetLen] + "..."
	}
	return line
}

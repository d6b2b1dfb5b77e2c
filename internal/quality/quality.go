// Package quality scores documents against a weighted checklist for
// their detected type. Scores feed the aggregate report only; they do
// not gate pass/fail.
package quality

import (
	"regexp"
	"strings"

	"github.com/cmdguard/cmdguard/internal/core"
)

// check is one checklist item. The weight is subtracted from 100 when
// the predicate fails; per-type weights sum to at most 100.
type check struct {
	name   string
	weight int
	passes func(text string) bool
}

var (
	headingUsageRE    = regexp.MustCompile(`(?im)^#{1,3}\s*usage\b`)
	headingParamsRE   = regexp.MustCompile(`(?im)^#{1,3}\s*(?:parameters|arguments|options)\b`)
	headingExamplesRE = regexp.MustCompile(`(?im)^#{1,3}\s*examples?\b`)
	headingSecurityRE = regexp.MustCompile(`(?im)^#{1,3}\s*security\b`)
	codeFenceRE       = regexp.MustCompile("(?m)^```")
	todoRE            = regexp.MustCompile(`(?i)\b(?:TODO|FIXME|XXX)\b`)
	instructionRE     = regexp.MustCompile(`(?im)\b(?:must|should|shall)\b|^\s*\d+\.\s`)
)

var commandChecks = []check{
	{"usage section", 25, func(t string) bool { return headingUsageRE.MatchString(t) }},
	{"description", 25, hasDescription},
	{"parameters section", 20, func(t string) bool { return headingParamsRE.MatchString(t) }},
	{"examples", 30, func(t string) bool { return headingExamplesRE.MatchString(t) || codeFenceRE.MatchString(t) }},
}

var genericChecks = []check{
	{"examples", 30, func(t string) bool { return headingExamplesRE.MatchString(t) || codeFenceRE.MatchString(t) }},
	{"explicit instructions", 25, func(t string) bool { return instructionRE.MatchString(t) }},
	{"security considerations", 25, func(t string) bool { return headingSecurityRE.MatchString(t) }},
	{"no TODO markers", 20, func(t string) bool { return !todoRE.MatchString(t) }},
}

// Score evaluates text against the checklist for docType, starting at
// 100 and subtracting each failed item's weight. The result is clamped
// to [0, 100].
func Score(text string, docType core.DocType) int {
	checks := genericChecks
	if docType == core.DocTypeCommand {
		checks = commandChecks
	}
	score := 100
	for _, c := range checks {
		if !c.passes(text) {
			score -= c.weight
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// FailedChecks lists the checklist items text does not satisfy, for
// report detail.
func FailedChecks(text string, docType core.DocType) []string {
	checks := genericChecks
	if docType == core.DocTypeCommand {
		checks = commandChecks
	}
	var failed []string
	for _, c := range checks {
		if !c.passes(text) {
			failed = append(failed, c.name)
		}
	}
	return failed
}

// hasDescription accepts any prose line outside headings and fences.
func hasDescription(text string) bool {
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "---") {
			continue
		}
		return true
	}
	return false
}

// Package analysis implements code block extraction, shell-likeness
// classification, hazard matching, and the local safety ladder.
package analysis

import (
	"regexp"
	"strings"

	"github.com/cmdguard/cmdguard/internal/core"
)

var fencedRE = regexp.MustCompile("(?s)```([a-zA-Z0-9_+.-]*)[ \t]*\r?\n(.*?)```")

// ExtractBlocks pulls fenced and indented code regions out of a
// document. Fenced blocks come first, then indented blocks; indices are
// only comparable within each kind. Unterminated fences simply do not
// match and the rest of the text is still processed. Blocks that are
// empty after trimming are dropped.
func ExtractBlocks(docPath, text string) []core.CodeBlock {
	var blocks []core.CodeBlock
	idx := 0

	for _, m := range fencedRE.FindAllStringSubmatch(text, -1) {
		content := strings.TrimSpace(m[2])
		if content == "" {
			continue
		}
		blocks = append(blocks, core.CodeBlock{
			DocPath: docPath,
			Index:   idx,
			Lang:    strings.ToLower(strings.TrimSpace(m[1])),
			Content: content,
		})
		idx++
	}

	// The indented pass runs over the text with fenced regions removed,
	// so fence content is never reported twice.
	remainder := fencedRE.ReplaceAllString(text, "")
	for _, content := range indentedRegions(remainder) {
		blocks = append(blocks, core.CodeBlock{
			DocPath: docPath,
			Index:   idx,
			Content: content,
		})
		idx++
	}
	return blocks
}

// indentedRegions groups consecutive four-space or tab indented lines
// into single blocks.
func indentedRegions(text string) []string {
	var regions []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(current, "\n"))
		if joined != "" {
			regions = append(regions, joined)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			current = append(current, strings.TrimPrefix(strings.TrimPrefix(line, "    "), "\t"))
			continue
		}
		if strings.TrimSpace(line) == "" && len(current) > 0 {
			// Blank lines inside an indented region keep it open.
			current = append(current, "")
			continue
		}
		flush()
	}
	flush()
	return regions
}

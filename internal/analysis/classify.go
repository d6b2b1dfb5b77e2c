package analysis

import (
	"regexp"
	"strings"

	"github.com/cmdguard/cmdguard/internal/core"
)

// shellLangs are fence language tags that mark a block as shell.
var shellLangs = map[string]bool{
	"bash":  true,
	"sh":    true,
	"shell": true,
	"zsh":   true,
}

var shellShebangRE = regexp.MustCompile(`^#!\s*\S*/(?:env\s+)?(?:ba|da|k|z)?sh\b`)

// shellBinutils are leading tokens that strongly indicate shell text.
var shellBinutils = map[string]bool{
	"cd": true, "ls": true, "cp": true, "mv": true, "mkdir": true,
	"rm": true, "cat": true, "grep": true, "find": true, "echo": true,
	"curl": true, "wget": true, "git": true, "docker": true, "npm": true,
	"make": true, "sudo": true, "chmod": true, "chown": true, "tar": true,
	"ssh": true, "sed": true, "awk": true, "touch": true, "kill": true,
	"export": true, "source": true, "apt": true, "apt-get": true,
	"brew": true, "pip": true, "go": true, "python": true, "node": true,
}

var flagTokenRE = regexp.MustCompile(`(?:^|\s)--?[a-zA-Z][a-zA-Z0-9-]*\b`)

// IsShellLike decides whether a block is plausibly executable shell
// text. It exists purely as a cost-control gate for the sandbox: a
// declared shell language wins, any other declared language loses, and
// untagged blocks fall through to shebang and indicator heuristics.
func IsShellLike(block core.CodeBlock) bool {
	if block.Lang != "" {
		return shellLangs[block.Lang]
	}

	first := firstNonBlankLine(block.Content)
	if first == "" {
		return false
	}
	if strings.HasPrefix(first, "#!") {
		return shellShebangRE.MatchString(first)
	}
	// Application-level pseudo-commands like "/bootstrap-project" are
	// not shell.
	if strings.HasPrefix(first, "/") {
		return false
	}
	return hasShellIndicators(block.Content)
}

func firstNonBlankLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func hasShellIndicators(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}
		if shellBinutils[fields[0]] {
			return true
		}
		if strings.Contains(trimmed, "&&") || strings.Contains(trimmed, "||") {
			return true
		}
		if strings.HasPrefix(trimmed, "set -") {
			return true
		}
		// Flag-style tokens only count on lines that look like an
		// invocation (a bare word followed by arguments).
		if len(fields) > 1 && isBareWord(fields[0]) && flagTokenRE.MatchString(trimmed) {
			return true
		}
	}
	return false
}

func isBareWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.') {
			return false
		}
	}
	return len(s) > 0
}

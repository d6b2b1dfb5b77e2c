// Package catalog holds the tiered dangerous-pattern rules applied to
// extracted code blocks. The catalog is constructed once at process
// start and never mutated afterwards.
package catalog

import (
	"regexp"

	"github.com/cmdguard/cmdguard/internal/core"
)

// Version identifies the built-in rule set.
const Version = "1.2.0"

// Rule is a single hazard pattern. Exceptions are substrings whose
// presence in a matched occurrence suppresses that occurrence,
// case-insensitively.
type Rule struct {
	ID         string
	Pattern    *regexp.Regexp
	Message    string
	Category   string
	Severity   core.Severity
	Exceptions []string
}

// Catalog groups rules by severity tier. Iteration order is always
// critical, then high, then medium, so findings are stable run-to-run.
type Catalog struct {
	Version  string
	Critical []Rule
	High     []Rule
	Medium   []Rule
}

// Rules returns all rules in fixed tier order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, 0, len(c.Critical)+len(c.High)+len(c.Medium))
	out = append(out, c.Critical...)
	out = append(out, c.High...)
	out = append(out, c.Medium...)
	return out
}

// Len returns the total rule count.
func (c *Catalog) Len() int {
	return len(c.Critical) + len(c.High) + len(c.Medium)
}

// docExceptions suppress matches inside clearly-labeled documentation
// samples and placeholders.
var docExceptions = []string{"example", "placeholder", "test", "demo", "sample", "dummy"}

// secretExceptions additionally cover templated values.
var secretExceptions = []string{"example", "placeholder", "your-", "xxx", "test", "demo", "<", "$", "{{"}

// Builtin constructs the built-in catalog. All patterns are bounded
// (no unbounded nested repetition) to stay linear on adversarial input.
func Builtin() *Catalog {
	return &Catalog{
		Version: Version,
		Critical: []Rule{
			{
				ID:       "CG-FS-001",
				Pattern:  regexp.MustCompile(`(?i)\brm\s+(?:-[a-zA-Z]+\s+)*-[a-zA-Z]*[rf][a-zA-Z]*\s+(?:/\S*|~\S*|\$HOME\S*|\*)`),
				Message:  "Recursive deletion anchored at a root-like path",
				Category: "filesystem",
				Severity: core.SeverityCritical,
			},
			{
				ID:       "CG-NET-001",
				Pattern:  regexp.MustCompile(`(?i)\b(?:curl|wget)\b[^|\n]{0,200}\|\s*(?:sudo\s+)?(?:bash|sh|zsh)\b`),
				Message:  "Remote script piped directly into a shell",
				Category: "network",
				Severity: core.SeverityCritical,
			},
			{
				ID:       "CG-CTR-001",
				Pattern:  regexp.MustCompile(`(?i)\bdocker\s+run\b[^\n]{0,200}--privileged\b`),
				Message:  "Privileged container execution",
				Category: "container",
				Severity: core.SeverityCritical,
			},
			{
				ID:       "CG-FS-002",
				Pattern:  regexp.MustCompile(`(?i)\b(?:mkfs\.[a-z0-9]+|mkfs)\s+/dev/\S+`),
				Message:  "Filesystem creation over a block device",
				Category: "filesystem",
				Severity: core.SeverityCritical,
			},
			{
				ID:       "CG-FS-003",
				Pattern:  regexp.MustCompile(`(?i)\bdd\s+[^\n]{0,120}of=/dev/\S+`),
				Message:  "Raw write to a block device",
				Category: "filesystem",
				Severity: core.SeverityCritical,
			},
			{
				ID:       "CG-SYS-001",
				Pattern:  regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`),
				Message:  "Fork bomb",
				Category: "system",
				Severity: core.SeverityCritical,
			},
			{
				ID:       "CG-SEC-001",
				Pattern:  regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |PGP )?PRIVATE KEY`),
				Message:  "Embedded private key material",
				Category: "credentials",
				Severity: core.SeverityCritical,
			},
		},
		High: []Rule{
			{
				ID:         "CG-PRIV-001",
				Pattern:    regexp.MustCompile(`(?i)\bsudo\s+\S+`),
				Message:    "Elevated-privilege execution",
				Category:   "privilege",
				Severity:   core.SeverityHigh,
				Exceptions: []string{"apt", "apt-get", "yum", "dnf", "brew", "snap", "pacman", "zypper"},
			},
			{
				ID:       "CG-EXEC-001",
				Pattern:  regexp.MustCompile(`(?i)\beval\s+["'$(]`),
				Message:  "Dynamic code evaluation",
				Category: "code-execution",
				Severity: core.SeverityHigh,
			},
			{
				ID:       "CG-PERM-001",
				Pattern:  regexp.MustCompile(`(?i)\bchmod\s+(?:-[a-zA-Z]+\s+)*(?:777|666|a\+rwx)\b`),
				Message:  "World-writable permission change",
				Category: "permissions",
				Severity: core.SeverityHigh,
			},
			{
				ID:         "CG-SEC-002",
				Pattern:    regexp.MustCompile(`(?i)(?:password|passwd|secret|api[_-]?key|auth[_-]?token|access[_-]?key)["']?\s*[:=]\s*["'][^"'\n]{6,80}["']`),
				Message:    "Hardcoded secret-like assignment",
				Category:   "credentials",
				Severity:   core.SeverityHigh,
				Exceptions: secretExceptions,
			},
			{
				ID:       "CG-SEC-003",
				Pattern:  regexp.MustCompile(`\b(?:AKIA|ASIA)[A-Z0-9]{16}\b`),
				Message:  "AWS access key identifier",
				Category: "credentials",
				Severity: core.SeverityHigh,
			},
			{
				ID:       "CG-SEC-004",
				Pattern:  regexp.MustCompile(`\b(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9_]{36,}`),
				Message:  "GitHub token",
				Category: "credentials",
				Severity: core.SeverityHigh,
			},
		},
		Medium: []Rule{
			{
				ID:         "CG-FS-101",
				Pattern:    regexp.MustCompile(`(?i)\brm\s+-[a-zA-Z]*r[a-zA-Z]*\s+\S+`),
				Message:    "Recursive deletion",
				Category:   "filesystem",
				Severity:   core.SeverityMedium,
				Exceptions: docExceptions,
			},
			{
				ID:         "CG-NET-101",
				Pattern:    regexp.MustCompile(`(?i)\b(?:curl|wget)\s+(?:-[a-zA-Z-]+\s+)*http://\S+`),
				Message:    "Unencrypted network fetch",
				Category:   "network",
				Severity:   core.SeverityMedium,
				Exceptions: docExceptions,
			},
			{
				ID:         "CG-FS-102",
				Pattern:    regexp.MustCompile(`(?i)>{1,2}\s*/(?:etc|usr|var|boot)/\S+`),
				Message:    "File write into a system path",
				Category:   "filesystem",
				Severity:   core.SeverityMedium,
				Exceptions: docExceptions,
			},
			{
				ID:         "CG-VCS-101",
				Pattern:    regexp.MustCompile(`(?i)\bgit\s+push\b[^\n]{0,120}(?:--force\b|-f\b)`),
				Message:    "Forced git push",
				Category:   "vcs",
				Severity:   core.SeverityMedium,
				Exceptions: docExceptions,
			},
			{
				ID:         "CG-SYS-101",
				Pattern:    regexp.MustCompile(`(?i)\bsystemctl\s+(?:stop|disable|mask)\s+\S+`),
				Message:    "Service control operation",
				Category:   "system",
				Severity:   core.SeverityMedium,
				Exceptions: docExceptions,
			},
		},
	}
}

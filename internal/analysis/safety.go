package analysis

import (
	"regexp"

	"github.com/cmdguard/cmdguard/internal/core"
)

// safetyRule is one rung of the local safety ladder applied to a
// literal command string before (and independently of) any sandbox run.
type safetyRule struct {
	pattern     *regexp.Regexp
	level       core.Severity
	remediation string
}

var safetyLadder = []safetyRule{
	{
		pattern:     regexp.MustCompile(`(?i)\brm\s+(?:-[a-zA-Z]+\s+)*-[a-zA-Z]*[rf][a-zA-Z]*\b`),
		level:       core.SeverityCritical,
		remediation: "prefer explicit paths over wildcards with rm -rf",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\|\s*(?:sudo\s+)?(?:bash|sh|zsh)\b`),
		level:       core.SeverityCritical,
		remediation: "verify script signatures before piping to a shell",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\bsudo\b`),
		level:       core.SeverityCritical,
		remediation: "limit sudo to the single command that needs elevation",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\bchmod\s+(?:-[a-zA-Z]+\s+)*(?:777|666|a\+rwx)\b`),
		level:       core.SeverityHigh,
		remediation: "use least-privilege permissions instead of world-writable modes",
	},
	{
		pattern:     regexp.MustCompile(`(?i)--privileged\b`),
		level:       core.SeverityHigh,
		remediation: "avoid --privileged; use explicit capabilities",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\beval\b`),
		level:       core.SeverityHigh,
		remediation: "avoid eval; invoke the command directly",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:apt|apt-get|yum|dnf|brew|npm|pip|pip3|gem)\s+install\b`),
		level:       core.SeverityMedium,
		remediation: "pin package versions and verify checksums for installs",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:systemctl|service)\s+\S+`),
		level:       core.SeverityMedium,
		remediation: "confirm service state changes are reversible before running",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:curl|wget)\s+\S+`),
		level:       core.SeverityMedium,
		remediation: "download over https and verify the payload before use",
	},
}

// AssessCommand classifies a command string with the fixed keyword
// ladder and collects the remediation suggestions for every rung it
// hits. The returned level is the most severe rung matched, or low.
func AssessCommand(command string) core.SafetyAssessment {
	assessment := core.SafetyAssessment{Level: core.SeverityLow}
	for _, rule := range safetyLadder {
		if !rule.pattern.MatchString(command) {
			continue
		}
		if core.SeverityRank[rule.level] < core.SeverityRank[assessment.Level] {
			assessment.Level = rule.level
		}
		assessment.Recommendations = append(assessment.Recommendations, rule.remediation)
	}
	return assessment
}

// Package core provides the foundational data models and types for cmdguard.
package core

import "time"

// Severity levels for hazard findings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank orders severities for deterministic reporting.
var SeverityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// SafetyLevel is the per-document safety classification derived from findings.
type SafetyLevel string

const (
	SafetySafe      SafetyLevel = "safe"
	SafetyCaution   SafetyLevel = "caution"
	SafetyDangerous SafetyLevel = "dangerous"
)

// DocType selects the quality checklist applied to a document.
type DocType string

const (
	DocTypeCommand DocType = "command-reference"
	DocTypeGeneric DocType = "generic"
)

// Document is a single corpus entry. Identity and raw text are set at
// load time; the remaining fields are computed during validation.
type Document struct {
	Path         string      `json:"path"`
	Raw          string      `json:"-"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Phase        int         `json:"phase"`
	Usage        string      `json:"usage"`
	Parameters   []string    `json:"parameters"`
	Examples     []string    `json:"examples"`
	Type         DocType     `json:"type"`
	SafetyLevel  SafetyLevel `json:"safety_level"`
	QualityScore int         `json:"quality_score"`
	ModTime      time.Time   `json:"last_modified"`
}

// CodeBlock is one extracted code region. Lang is the declared fence
// language, empty for indented blocks and untagged fences.
type CodeBlock struct {
	DocPath string `json:"doc_path"`
	Index   int    `json:"index"`
	Lang    string `json:"lang"`
	Content string `json:"content"`
}

// Finding is a single rule match against a code block. Matches holds at
// most three example substrings; Snippet is truncated for display.
type Finding struct {
	DocPath    string   `json:"doc_path"`
	BlockIndex int      `json:"block_index"`
	RuleID     string   `json:"rule_id"`
	Message    string   `json:"message"`
	Category   string   `json:"category"`
	Severity   Severity `json:"severity"`
	Matches    []string `json:"matches"`
	Snippet    string   `json:"snippet"`
}

// ExecResult is the outcome of one sandboxed command execution.
type ExecResult struct {
	Success            bool          `json:"success"`
	Duration           time.Duration `json:"duration"`
	Stdout             string        `json:"stdout,omitempty"`
	Stderr             string        `json:"stderr,omitempty"`
	Error              string        `json:"error,omitempty"`
	ContainerValidated bool          `json:"container_validated"`
}

// SafetyAssessment classifies a literal command string independently of
// sandbox availability.
type SafetyAssessment struct {
	Level           Severity `json:"level"`
	Recommendations []string `json:"recommendations"`
}

// ValidationReport accumulates run totals. It is built incrementally by
// the single processing loop and finalized once at end of run.
type ValidationReport struct {
	RunID            string        `json:"run_id"`
	TotalDocuments   int           `json:"total_documents"`
	CommandDocuments int           `json:"command_documents"`
	SafeCount        int           `json:"safe_count"`
	CautionCount     int           `json:"caution_count"`
	DangerousCount   int           `json:"dangerous_count"`
	SandboxedBlocks  int           `json:"sandboxed_blocks"`
	ContainerTests   int           `json:"container_tests"`
	Errors           []string      `json:"errors"`
	Warnings         []string      `json:"warnings"`
	QualityScores    []int         `json:"quality_scores"`
	Elapsed          time.Duration `json:"elapsed"`
	SandboxAvailable bool          `json:"sandbox_available"`
}

// SafetyFromFindings derives the document safety level. Any critical or
// high finding makes the document dangerous; only-medium findings make
// it caution; no findings leave it safe.
func SafetyFromFindings(findings []Finding) SafetyLevel {
	level := SafetySafe
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical, SeverityHigh:
			return SafetyDangerous
		case SeverityMedium:
			level = SafetyCaution
		}
	}
	return level
}

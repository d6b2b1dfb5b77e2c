// Package report accumulates per-document outcomes into the run summary
// and renders the human-readable console view.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/cmdguard/cmdguard/internal/core"
)

// Aggregator is mutated only by the single processing loop; it is not
// safe for concurrent use.
type Aggregator struct {
	report core.ValidationReport
	start  time.Time
}

func NewAggregator(runID string) *Aggregator {
	return &Aggregator{
		report: core.ValidationReport{
			RunID:    runID,
			Errors:   []string{},
			Warnings: []string{},
		},
		start: time.Now(),
	}
}

// RecordDocument counts a processed document and its safety bucket.
func (a *Aggregator) RecordDocument(doc *core.Document) {
	a.report.TotalDocuments++
	if doc.Type == core.DocTypeCommand {
		a.report.CommandDocuments++
	}
	switch doc.SafetyLevel {
	case core.SafetyDangerous:
		a.report.DangerousCount++
	case core.SafetyCaution:
		a.report.CautionCount++
	default:
		a.report.SafeCount++
	}
	a.report.QualityScores = append(a.report.QualityScores, doc.QualityScore)
}

func (a *Aggregator) Errorf(format string, args ...any) {
	a.report.Errors = append(a.report.Errors, fmt.Sprintf(format, args...))
}

func (a *Aggregator) Warnf(format string, args ...any) {
	a.report.Warnings = append(a.report.Warnings, fmt.Sprintf(format, args...))
}

func (a *Aggregator) RecordSandboxedBlock() { a.report.SandboxedBlocks++ }
func (a *Aggregator) RecordContainerTest()  { a.report.ContainerTests++ }

func (a *Aggregator) SetSandboxAvailable(ok bool) { a.report.SandboxAvailable = ok }

// HasErrors drives the exit-code contract: any recorded error fails the
// run regardless of warning count.
func (a *Aggregator) HasErrors() bool { return len(a.report.Errors) > 0 }

// Finalize stamps elapsed time and returns the completed report. Call
// once at end of run.
func (a *Aggregator) Finalize() *core.ValidationReport {
	a.report.Elapsed = time.Since(a.start)
	return &a.report
}

// Report exposes the in-progress report for rendering.
func (a *Aggregator) Report() *core.ValidationReport { return &a.report }

// SuccessRate is the share of documents with no errors attributed, in
// percent. With zero documents the rate is 100.
func SuccessRate(r *core.ValidationReport) float64 {
	if r.TotalDocuments == 0 {
		return 100
	}
	rate := 100 - ErrorRate(r)
	if rate < 0 {
		return 0
	}
	return rate
}

// ErrorRate is errors per document, in percent, capped at 100.
func ErrorRate(r *core.ValidationReport) float64 {
	if r.TotalDocuments == 0 {
		return 0
	}
	return math.Min(100, float64(len(r.Errors))/float64(r.TotalDocuments)*100)
}

// DangerRate is the share of dangerous documents, in percent.
func DangerRate(r *core.ValidationReport) float64 {
	if r.TotalDocuments == 0 {
		return 0
	}
	return float64(r.DangerousCount) / float64(r.TotalDocuments) * 100
}

// Grade computes the letter grade from a penalty function: error
// penalty capped at 50 points, warning penalty capped at 30, both
// normalized by document count.
func Grade(r *core.ValidationReport) string {
	docs := r.TotalDocuments
	if docs == 0 {
		docs = 1
	}
	errPenalty := math.Min(50, float64(len(r.Errors))*100/float64(docs))
	warnPenalty := math.Min(30, float64(len(r.Warnings))*50/float64(docs))
	score := 100 - errPenalty - warnPenalty
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// AverageQuality is the mean quality score across documents.
func AverageQuality(r *core.ValidationReport) float64 {
	if len(r.QualityScores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range r.QualityScores {
		sum += s
	}
	return float64(sum) / float64(len(r.QualityScores))
}

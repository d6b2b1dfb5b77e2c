// Package reporting renders machine-readable report documents.
package reporting

import (
	"encoding/json"

	"github.com/cmdguard/cmdguard/internal/core"
	"github.com/cmdguard/cmdguard/internal/report"
)

// JSON renders the full validation report.
func JSON(r *core.ValidationReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Summary renders a compact view with derived rates and the grade,
// without the full error and warning lists.
func Summary(r *core.ValidationReport) (string, error) {
	summary := map[string]any{
		"run_id":          r.RunID,
		"total_documents": r.TotalDocuments,
		"safe":            r.SafeCount,
		"caution":         r.CautionCount,
		"dangerous":       r.DangerousCount,
		"errors":          len(r.Errors),
		"warnings":        len(r.Warnings),
		"success_rate":    report.SuccessRate(r),
		"error_rate":      report.ErrorRate(r),
		"danger_rate":     report.DangerRate(r),
		"grade":           report.Grade(r),
		"sandbox":         r.SandboxAvailable,
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

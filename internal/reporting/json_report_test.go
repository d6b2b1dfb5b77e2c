package reporting

import (
	"encoding/json"
	"testing"

	"github.com/cmdguard/cmdguard/internal/core"
)

func sampleReport() *core.ValidationReport {
	return &core.ValidationReport{
		RunID:          "run-1",
		TotalDocuments: 4,
		SafeCount:      3,
		DangerousCount: 1,
		Errors:         []string{"a.md: missing description"},
		Warnings:       []string{},
		QualityScores:  []int{80, 90, 70, 100},
	}
}

func TestJSONRoundTrips(t *testing.T) {
	out, err := JSON(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	var decoded core.ValidationReport
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.TotalDocuments != 4 {
		t.Errorf("decoded = %+v", decoded)
	}
	if len(decoded.Errors) != 1 {
		t.Errorf("errors = %v", decoded.Errors)
	}
}

func TestSummaryFields(t *testing.T) {
	out, err := Summary(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["grade"] != "C" {
		t.Errorf("grade = %v, want C", decoded["grade"])
	}
	if decoded["errors"] != float64(1) {
		t.Errorf("errors = %v, want 1", decoded["errors"])
	}
	if decoded["danger_rate"] != float64(25) {
		t.Errorf("danger_rate = %v, want 25", decoded["danger_rate"])
	}
	for _, key := range []string{"run_id", "success_rate", "error_rate", "sandbox"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("summary missing %q", key)
		}
	}
}

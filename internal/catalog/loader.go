package catalog

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmdguard/cmdguard/internal/core"
)

// ruleFile is the YAML shape of an overlay rule.
type ruleFile struct {
	ID         string   `yaml:"id"`
	Pattern    string   `yaml:"pattern"`
	Message    string   `yaml:"message"`
	Category   string   `yaml:"category"`
	Severity   string   `yaml:"severity"`
	Exceptions []string `yaml:"exceptions"`
	Enabled    *bool    `yaml:"enabled"`
}

// LoadOverlay reads .yml rule files from dir and appends them to the
// appropriate tier of a copy of base. Files load in sorted path order
// so the catalog stays deterministic. A missing or empty dir returns
// base unchanged; individual malformed files are skipped.
func LoadOverlay(base *Catalog, dir string) (*Catalog, error) {
	if dir == "" {
		return base, nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return base, nil
	}

	var paths []string
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		lower := strings.ToLower(path)
		if strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".yaml") {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)

	out := &Catalog{
		Version:  base.Version,
		Critical: append([]Rule(nil), base.Critical...),
		High:     append([]Rule(nil), base.High...),
		Medium:   append([]Rule(nil), base.Medium...),
	}
	for _, p := range paths {
		rule, ok := loadRuleFile(p)
		if !ok {
			continue
		}
		switch rule.Severity {
		case core.SeverityCritical:
			out.Critical = append(out.Critical, rule)
		case core.SeverityHigh:
			out.High = append(out.High, rule)
		default:
			rule.Severity = core.SeverityMedium
			out.Medium = append(out.Medium, rule)
		}
	}
	return out, nil
}

func loadRuleFile(path string) (Rule, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rule{}, false
	}
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return Rule{}, false
	}
	if rf.ID == "" || rf.Pattern == "" {
		return Rule{}, false
	}
	if rf.Enabled != nil && !*rf.Enabled {
		return Rule{}, false
	}
	compiled, err := regexp.Compile(rf.Pattern)
	if err != nil {
		return Rule{}, false
	}
	msg := rf.Message
	if msg == "" {
		msg = rf.ID
	}
	cat := rf.Category
	if cat == "" {
		cat = "custom"
	}
	return Rule{
		ID:         rf.ID,
		Pattern:    compiled,
		Message:    msg,
		Category:   cat,
		Severity:   core.Severity(strings.ToLower(rf.Severity)),
		Exceptions: rf.Exceptions,
	}, true
}

// Package pipeline drives the end-to-end validation run: discovery,
// extraction, classification, hazard matching, sandbox re-verification,
// quality scoring, and registry projection.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cmdguard/cmdguard/internal/analysis"
	"github.com/cmdguard/cmdguard/internal/catalog"
	"github.com/cmdguard/cmdguard/internal/core"
	"github.com/cmdguard/cmdguard/internal/quality"
	"github.com/cmdguard/cmdguard/internal/registry"
	"github.com/cmdguard/cmdguard/internal/report"
	"github.com/cmdguard/cmdguard/internal/sandbox"
)

// ExpectedCountEnv names the optional document-count contract variable.
const ExpectedCountEnv = "EXPECTED_COMMAND_COUNT"

// Options configure a single run.
type Options struct {
	Root           string
	RegistryPath   string
	RulesDir       string
	CI             bool
	DisableSandbox bool
	SkipRegistry   bool
}

// Result is the outcome of one run.
type Result struct {
	Report   *core.ValidationReport
	Registry *registry.Registry
	// Assessments maps "path#block" to the local safety ladder output
	// for every block submitted (or eligible) for sandboxing.
	Assessments map[string]core.SafetyAssessment
}

// Validator processes documents strictly one at a time in discovery
// order. The catalog is shared read-only configuration; the aggregators
// are mutated only by this loop.
type Validator struct {
	log     *zap.SugaredLogger
	catalog *catalog.Catalog
	sandbox sandbox.Sandbox
	opts    Options
}

func New(log *zap.SugaredLogger, cat *catalog.Catalog, sb sandbox.Sandbox, opts Options) *Validator {
	if opts.DisableSandbox {
		sb = sandbox.Unavailable{}
	}
	return &Validator{log: log, catalog: cat, sandbox: sb, opts: opts}
}

// Run executes the full pipeline. Only unreadable corpus roots and
// registry write failures abort; everything else is scoped to a
// document and recorded in the report.
func (v *Validator) Run(ctx context.Context) (*Result, error) {
	paths, err := core.DiscoverDocuments(v.opts.Root)
	if err != nil {
		return nil, err
	}

	agg := report.NewAggregator(uuid.NewString())
	builder := registry.NewBuilder()
	matcher := analysis.NewMatcher(v.catalog)
	assessments := make(map[string]core.SafetyAssessment)

	available := v.sandbox.Available()
	agg.SetSandboxAvailable(available)
	if !available {
		if v.opts.CI {
			agg.Warnf("Sandbox unavailable in CI environment; pattern-only validation")
		} else {
			agg.Warnf("Sandbox unavailable; container re-verification skipped, falling back to pattern-only validation")
		}
	}
	v.log.Infow("starting validation", "root", v.opts.Root, "documents", len(paths), "rules", v.catalog.Len(), "sandbox", available)

	for _, rel := range paths {
		v.processDocument(ctx, rel, matcher, agg, builder, assessments, available)
	}

	v.checkExpectedCount(len(paths), agg)

	result := agg.Finalize()
	reg := builder.Build(result)
	if !v.opts.SkipRegistry && v.opts.RegistryPath != "" {
		if err := registry.Write(v.opts.RegistryPath, reg); err != nil {
			return nil, err
		}
		v.log.Infow("registry written", "path", v.opts.RegistryPath, "commands", len(reg.Commands))
	}

	return &Result{Report: result, Registry: reg, Assessments: assessments}, nil
}

func (v *Validator) processDocument(ctx context.Context, rel string, matcher *analysis.Matcher, agg *report.Aggregator, builder *registry.Builder, assessments map[string]core.SafetyAssessment, available bool) {
	doc, err := core.LoadDocument(v.opts.Root, rel)
	if err != nil {
		agg.Errorf("%v", err)
		return
	}

	for _, issue := range doc.StructuralIssues() {
		agg.Errorf("%s: %s", rel, issue)
	}

	blocks := analysis.ExtractBlocks(rel, doc.Raw)
	var docFindings []core.Finding
	flagged := make(map[int]bool)

	for _, block := range blocks {
		findings := matcher.Scan(block)
		if len(findings) > 0 {
			flagged[block.Index] = true
		}
		for _, f := range findings {
			msg := fmt.Sprintf("%s block %d: %s [%s/%s] (%s)", f.DocPath, f.BlockIndex, f.Message, f.Category, f.Severity, f.Snippet)
			switch f.Severity {
			case core.SeverityCritical, core.SeverityHigh:
				agg.Errorf("%s", msg)
				builder.AddSecurityIssue(msg)
			default:
				agg.Warnf("%s", msg)
			}
		}
		docFindings = append(docFindings, findings...)
	}

	doc.SafetyLevel = core.SafetyFromFindings(docFindings)

	// Sandbox re-verification is gated twice: the block must be
	// shell-like and must already carry at least one finding.
	for _, block := range blocks {
		if !flagged[block.Index] || !analysis.IsShellLike(block) {
			continue
		}
		key := fmt.Sprintf("%s#%d", block.DocPath, block.Index)
		assessment := analysis.AssessCommand(block.Content)
		assessments[key] = assessment
		for _, rec := range assessment.Recommendations {
			v.log.Debugw("remediation", "block", key, "suggestion", rec)
		}
		if !available {
			continue
		}
		agg.RecordSandboxedBlock()
		res, runErr := v.sandbox.Run(ctx, block.Content)
		if runErr != nil {
			agg.Errorf("Container validation failed for %s block %d: %v", rel, block.Index, runErr)
			continue
		}
		if !res.Success {
			agg.Errorf("Container validation failed for %s block %d: %s", rel, block.Index, res.Error)
			continue
		}
		agg.RecordContainerTest()
	}

	doc.QualityScore = quality.Score(doc.Raw, doc.Type)
	agg.RecordDocument(doc)
	builder.Add(doc)
}

// checkExpectedCount applies the EXPECTED_COMMAND_COUNT contract: a set
// value that mismatches is an error; an unset value downgrades the
// count to an informational warning.
func (v *Validator) checkExpectedCount(found int, agg *report.Aggregator) {
	raw := os.Getenv(ExpectedCountEnv)
	if raw == "" {
		agg.Warnf("Discovered %d command documents (%s not set)", found, ExpectedCountEnv)
		return
	}
	expected, err := strconv.Atoi(raw)
	if err != nil {
		agg.Errorf("Invalid %s value %q", ExpectedCountEnv, raw)
		return
	}
	if expected != found {
		agg.Errorf("Expected %d commands, found %d", expected, found)
	}
}

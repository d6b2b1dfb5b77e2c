// Package registry projects validated documents into the persisted
// command catalog consumed by downstream tooling. The snapshot is fully
// replaced on every run, never merged.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cmdguard/cmdguard/internal/core"
)

// SchemaVersion identifies the registry file format.
const SchemaVersion = "1.0"

// Entry is one command's projected metadata. Dependencies is reserved
// and currently always empty.
type Entry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Phase        int      `json:"phase"`
	Description  string   `json:"description"`
	Usage        string   `json:"usage"`
	Parameters   []string `json:"parameters"`
	Examples     []string `json:"examples"`
	Dependencies []string `json:"dependencies"`
	SafetyLevel  string   `json:"safety_level"`
	SourcePath   string   `json:"source_path"`
	LastModified string   `json:"last_modified"`
}

// Category summarizes one command group.
type Category struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Phase        int    `json:"phase"`
	CommandCount int    `json:"command_count"`
}

// Phase is an ordered rollout stage with its member command ids.
type Phase struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Commands    []string `json:"commands"`
}

// Results captures the validation outcome embedded in the snapshot.
type Results struct {
	LastRun        string   `json:"last_run"`
	TotalFiles     int      `json:"total_files"`
	CommandFiles   int      `json:"command_files"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	SecurityIssues []string `json:"security_issues"`
	QualityScores  []int    `json:"quality_scores"`
}

// Registry is the persisted top-level document.
type Registry struct {
	Version           string              `json:"version"`
	LastUpdated       string              `json:"last_updated"`
	Commands          map[string]Entry    `json:"commands"`
	Categories        map[string]Category `json:"categories"`
	Phases            []Phase             `json:"phases"`
	ValidationResults Results             `json:"validation_results"`
}

// Builder accumulates validated command documents; Build assembles the
// category and phase indices deterministically.
type Builder struct {
	entries        map[string]Entry
	securityIssues []string
}

func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Entry)}
}

// Add projects a validated command document into the registry. Generic
// documents are not registered.
func (b *Builder) Add(doc *core.Document) {
	if doc.Type != core.DocTypeCommand {
		return
	}
	id := EntryID(doc.Path)
	b.entries[id] = Entry{
		ID:           id,
		Name:         doc.Title,
		Category:     doc.Category,
		Phase:        doc.Phase,
		Description:  doc.Description,
		Usage:        doc.Usage,
		Parameters:   emptyIfNil(doc.Parameters),
		Examples:     emptyIfNil(doc.Examples),
		Dependencies: []string{},
		SafetyLevel:  string(doc.SafetyLevel),
		SourcePath:   doc.Path,
		LastModified: doc.ModTime.Format(time.RFC3339),
	}
}

// AddSecurityIssue records an error string for the security-issue
// subset of the snapshot.
func (b *Builder) AddSecurityIssue(issue string) {
	b.securityIssues = append(b.securityIssues, issue)
}

// Build assembles the full snapshot from the accumulated entries and
// the finished run report.
func (b *Builder) Build(r *core.ValidationReport) *Registry {
	categories := make(map[string]Category)
	phaseMembers := make(map[int][]string)

	ids := make([]string, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e := b.entries[id]
		cat := categories[e.Category]
		cat.Name = e.Category
		cat.Phase = e.Phase
		cat.CommandCount++
		categories[e.Category] = cat
		phaseMembers[e.Phase] = append(phaseMembers[e.Phase], id)
	}

	phaseIDs := make([]int, 0, len(phaseMembers))
	for p := range phaseMembers {
		phaseIDs = append(phaseIDs, p)
	}
	sort.Ints(phaseIDs)

	phases := make([]Phase, 0, len(phaseIDs))
	for _, p := range phaseIDs {
		members := phaseMembers[p]
		sort.Strings(members)
		phases = append(phases, Phase{
			ID:       p,
			Name:     core.PhaseName(p),
			Commands: members,
		})
	}

	return &Registry{
		Version:     SchemaVersion,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Commands:    b.entries,
		Categories:  categories,
		Phases:      phases,
		ValidationResults: Results{
			LastRun:        time.Now().UTC().Format(time.RFC3339),
			TotalFiles:     r.TotalDocuments,
			CommandFiles:   r.CommandDocuments,
			Errors:         r.Errors,
			Warnings:       r.Warnings,
			SecurityIssues: emptyIfNil(b.securityIssues),
			QualityScores:  emptyIfNil(r.QualityScores),
		},
	}
}

// Write serializes the snapshot, fully replacing any prior file. The
// data lands in a temp file first and is renamed into place, so a
// partially written snapshot never replaces a valid one. A
// serialization or write failure is fatal to the run.
func Write(path string, reg *Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return &core.FatalError{Op: "serialize registry", Err: err}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &core.FatalError{Op: "write registry", Err: err}
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &core.FatalError{Op: "write registry", Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &core.FatalError{Op: "write registry", Err: err}
	}
	return nil
}

// EntryID derives the registry id from a document path: the base name
// without extension, lowercased.
func EntryID(rel string) string {
	base := filepath.Base(filepath.FromSlash(rel))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDocumentFrontmatter(t *testing.T) {
	raw := `---
title: bootstrap-project
description: Sets up a new project skeleton.
category: setup
usage: /bootstrap-project <name>
---
# Bootstrap

Body text.
`
	doc := ParseDocument("commands/bootstrap.md", raw)
	if doc.Title != "bootstrap-project" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Description != "Sets up a new project skeleton." {
		t.Errorf("Description = %q", doc.Description)
	}
	if doc.Category != "setup" {
		t.Errorf("Category = %q", doc.Category)
	}
	if doc.Usage != "/bootstrap-project <name>" {
		t.Errorf("Usage = %q", doc.Usage)
	}
	if doc.Phase != 1 {
		t.Errorf("Phase = %d, want 1 (setup)", doc.Phase)
	}
}

func TestParseDocumentExtracted(t *testing.T) {
	raw := `# deploy-service

Deploys the service to the target environment.

## Usage

` + "```" + `
/deploy-service <env>
` + "```" + `

## Parameters

- ` + "`env`" + ` target environment
- ` + "`--dry-run`" + ` preview only

## Examples

- /deploy-service staging
`
	doc := ParseDocument("06-deployment/deploy-service.md", raw)
	if doc.Title != "deploy-service" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Description == "" {
		t.Error("Description should be extracted from first paragraph")
	}
	if doc.Usage != "/deploy-service <env>" {
		t.Errorf("Usage = %q", doc.Usage)
	}
	if len(doc.Parameters) != 2 {
		t.Errorf("Parameters = %v, want 2 items", doc.Parameters)
	}
	if len(doc.Examples) != 1 {
		t.Errorf("Examples = %v, want 1 item", doc.Examples)
	}
	if doc.Phase != 6 {
		t.Errorf("Phase = %d, want 6 from directory prefix", doc.Phase)
	}
	if doc.Category != "deployment" {
		t.Errorf("Category = %q, want deployment", doc.Category)
	}
}

func TestParseDocumentReadmeIsGeneric(t *testing.T) {
	doc := ParseDocument("README.md", "# Project\n\nOverview.")
	if doc.Type != DocTypeGeneric {
		t.Errorf("Type = %q, want generic for README", doc.Type)
	}
	if issues := doc.StructuralIssues(); issues != nil {
		t.Errorf("README should skip structural checks, got %v", issues)
	}
}

func TestStructuralIssues(t *testing.T) {
	doc := ParseDocument("commands/broken.md", "# broken\n\n```bash\necho hi\n")
	issues := doc.StructuralIssues()
	found := map[string]bool{}
	for _, issue := range issues {
		found[issue] = true
	}
	if !found["missing description"] {
		t.Errorf("want missing description in %v", issues)
	}
	if !found["unbalanced code fence delimiters"] {
		t.Errorf("want unbalanced fences in %v", issues)
	}
}

func TestDiscoverDocuments(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "02-analysis"), 0o755)
	os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755)
	os.MkdirAll(filepath.Join(dir, ".git"), 0o755)

	os.WriteFile(filepath.Join(dir, "README.md"), []byte("# readme"), 0o644)
	os.WriteFile(filepath.Join(dir, "02-analysis", "audit.md"), []byte("# audit"), 0o644)
	os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "x.md"), []byte("skip"), 0o644)
	os.WriteFile(filepath.Join(dir, ".git", "y.md"), []byte("skip"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644)

	paths, err := DiscoverDocuments(dir)
	if err != nil {
		t.Fatalf("DiscoverDocuments error: %v", err)
	}
	want := []string{"02-analysis/audit.md", "README.md"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestDiscoverDocumentsMissingRoot(t *testing.T) {
	_, err := DiscoverDocuments(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected fatal error for missing root")
	}
	if _, ok := err.(*FatalError); !ok {
		t.Errorf("error type = %T, want *FatalError", err)
	}
}

func TestLoadDocumentUnreadable(t *testing.T) {
	_, err := LoadDocument(t.TempDir(), "missing.md")
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("error type = %T, want *ValidationError", err)
	}
}

func TestInferPhaseFallback(t *testing.T) {
	if got := inferPhase("commands/thing.md", "testing"); got != 4 {
		t.Errorf("phase = %d, want 4 from category table", got)
	}
	if got := inferPhase("misc/thing.md", "mystery"); got != 0 {
		t.Errorf("phase = %d, want 0 for unknown category", got)
	}
}

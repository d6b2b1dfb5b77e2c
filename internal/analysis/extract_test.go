package analysis

import "testing"

func TestExtractFencedBlocks(t *testing.T) {
	text := "# Doc\n\n```bash\necho one\n```\n\nprose\n\n```json\n{\"a\": 1}\n```\n"
	blocks := ExtractBlocks("doc.md", text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Lang != "bash" || blocks[0].Content != "echo one" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Lang != "json" {
		t.Errorf("block 1 lang = %q, want json", blocks[1].Lang)
	}
	if blocks[0].Index != 0 || blocks[1].Index != 1 {
		t.Error("indices should be sequential")
	}
}

func TestExtractIndentedBlocks(t *testing.T) {
	text := "Intro:\n\n    make build\n    make test\n\nmore prose\n"
	blocks := ExtractBlocks("doc.md", text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Lang != "" {
		t.Errorf("indented block lang = %q, want empty", blocks[0].Lang)
	}
	if blocks[0].Content != "make build\nmake test" {
		t.Errorf("content = %q", blocks[0].Content)
	}
}

func TestExtractSkipsEmptyBlocks(t *testing.T) {
	text := "```\n\n```\n\n```sh\nls\n```\n"
	blocks := ExtractBlocks("doc.md", text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1 (empty block dropped)", len(blocks))
	}
	if blocks[0].Content != "ls" {
		t.Errorf("content = %q", blocks[0].Content)
	}
}

func TestExtractUnterminatedFence(t *testing.T) {
	text := "```bash\nrm -rf /\n\nNo closing fence, but this still parses.\n\n    indented command\n"
	blocks := ExtractBlocks("doc.md", text)
	// The broken fence is not matched; the indented region still is.
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Content != "indented command" {
		t.Errorf("content = %q", blocks[0].Content)
	}
}

func TestExtractFenceContentNotDoubleCounted(t *testing.T) {
	text := "```\n    indented inside fence\n```\n"
	blocks := ExtractBlocks("doc.md", text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1, got %+v", len(blocks), blocks)
	}
}

package analysis

import (
	"testing"

	"github.com/cmdguard/cmdguard/internal/core"
)

func TestIsShellLike(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		content string
		want    bool
	}{
		{"declared bash", "bash", "anything", true},
		{"declared sh", "sh", "anything", true},
		{"declared shell", "shell", "anything", true},
		{"declared zsh", "zsh", "anything", true},
		{"declared json", "json", "{\"rm\": \"-rf\"}", false},
		{"declared yaml", "yaml", "run: rm -rf /", false},
		{"declared python", "python", "import os", false},
		{"shell shebang", "", "#!/bin/bash\necho hi", true},
		{"env shebang", "", "#!/usr/bin/env sh\nls", true},
		{"python shebang", "", "#!/usr/bin/env python\nprint(1)", false},
		{"pseudo command", "", "/bootstrap-project my-app --ci github", false},
		{"binutil first token", "", "git status", true},
		{"chaining", "", "build_thing && deploy_thing", true},
		{"export idiom", "", "export PATH=$PATH:/opt/bin", true},
		{"set idiom", "", "set -euo pipefail", true},
		{"flag tokens", "", "mytool --verbose --output out.txt", true},
		{"prose", "", "This paragraph describes the command.", false},
		{"empty", "", "   \n  ", false},
	}
	for _, tt := range tests {
		block := core.CodeBlock{Lang: tt.lang, Content: tt.content}
		if got := IsShellLike(block); got != tt.want {
			t.Errorf("%s: IsShellLike = %v, want %v", tt.name, got, tt.want)
		}
	}
}

package ai

import (
	"strings"
	"testing"
)

func TestParseTitleDescription(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantTitle string
		wantDesc  string
	}{
		{
			name: "well formed",
			response: `TITLE: Add retry logic to fetcher
DESCRIPTION:
Adds exponential backoff.

- retries three times
- logs each attempt`,
			wantTitle: "Add retry logic to fetcher",
			wantDesc:  "Adds exponential backoff.\n\n- retries three times\n- logs each attempt",
		},
		{
			name:      "leading whitespace on markers",
			response:  "  TITLE: Fix parser\n  DESCRIPTION:\nHandles empty input.",
			wantTitle: "Fix parser",
			wantDesc:  "Handles empty input.",
		},
		{
			name:      "code fence in description dropped",
			response:  "TITLE: t\nDESCRIPTION:\n```\nbody\n```",
			wantTitle: "t",
			wantDesc:  "body",
		},
		{
			name:      "missing markers",
			response:  "just some prose",
			wantTitle: "",
			wantDesc:  "",
		},
		{
			name:      "title only",
			response:  "TITLE: Lone title",
			wantTitle: "Lone title",
			wantDesc:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, desc := ParseTitleDescription(tt.response)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if desc != tt.wantDesc {
				t.Errorf("description = %q, want %q", desc, tt.wantDesc)
			}
		})
	}
}

func TestSanitizeBranchName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fix-login-redirect", "fix-login-redirect"},
		{"  Fix Login Redirect  ", "fix-login-redirect"},
		{"`add-caching`", "add-caching"},
		{"\"quoted-name\"", "quoted-name"},
		{"name\nwith trailing explanation", "name"},
		{"feature/new thing!", "feature/new-thing"},
		{"---", ""},
		{"v1.2-release", "v1.2-release"},
	}

	for _, tt := range tests {
		if got := SanitizeBranchName(tt.in); got != tt.want {
			t.Errorf("SanitizeBranchName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeBranchName_Truncates(t *testing.T) {
	long := strings.Repeat("abcde-", 20)
	got := SanitizeBranchName(long)
	if len(got) > 60 {
		t.Errorf("len = %d, want <= 60", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated name ends in hyphen: %q", got)
	}
}

func TestTruncateDiff(t *testing.T) {
	short := "diff --git a/x b/x"
	if got := truncateDiff(short, 100); got != short {
		t.Errorf("short diff was modified: %q", got)
	}

	long := strings.Repeat("x", 200)
	got := truncateDiff(long, 100)
	if !strings.HasPrefix(got, strings.Repeat("x", 100)) {
		t.Error("truncated diff lost its prefix")
	}
	if !strings.Contains(got, "truncated") {
		t.Error("truncated diff has no truncation marker")
	}
}

func TestPrompts_IncludeDiff(t *testing.T) {
	diff := "diff --git a/main.go b/main.go"

	for name, prompt := range map[string]string{
		"commit": commitMessagePrompt(diff),
		"branch": branchNamePrompt(diff),
		"pr":     prContentPrompt(diff, "feature", "main"),
	} {
		if !strings.Contains(prompt, diff) {
			t.Errorf("%s prompt does not contain the diff", name)
		}
	}

	pr := prContentPrompt(diff, "feature", "main")
	if !strings.Contains(pr, "Source Branch: feature") || !strings.Contains(pr, "Target Branch: main") {
		t.Error("pr prompt missing branch names")
	}
}

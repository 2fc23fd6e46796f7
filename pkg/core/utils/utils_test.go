package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	if got := UniquePath(path); got != path {
		t.Errorf("expected %s for a free path, got %s", path, got)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "report_2.md")
	if got := UniquePath(path); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if err := os.WriteFile(want, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want3 := filepath.Join(dir, "report_3.md")
	if got := UniquePath(path); got != want3 {
		t.Errorf("expected %s, got %s", want3, got)
	}
}

func TestFileSHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got, err := FileSHA256(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("hash mismatch: got %s", got)
	}

	if _, err := FileSHA256(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "# Title\n\nBody", "# Title\n\nBody"},
		{"markdown fence", "```markdown\n# Title\n```", "# Title"},
		{"bare fence", "```\n# Title\n```", "# Title"},
		{"whitespace", "  # Title  \n", "# Title"},
		{"inner fence preserved", "# Title\n\n```go\ncode\n```\n\nMore", "# Title\n\n```go\ncode\n```\n\nMore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("# Heading\n\nSome **bold** text.") {
		t.Error("valid markdown rejected")
	}
	if !ValidateMarkdown("") {
		t.Error("empty string should parse")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Annual Report 2024", "annual-report-2024"},
		{"Q3_Concall_Transcript", "q3-concall-transcript"},
		{"News (Oct)", "news-oct"},
		{"  Mixed CASE  ", "mixed-case"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSmartParse(t *testing.T) {
	type payload struct {
		Tool string `json:"tool"`
	}

	t.Run("valid JSON", func(t *testing.T) {
		var p payload
		if _, err := SmartParse(`{"tool": "web_search"}`, &p); err != nil {
			t.Fatal(err)
		}
		if p.Tool != "web_search" {
			t.Errorf("got %q", p.Tool)
		}
	})

	t.Run("single quotes repaired", func(t *testing.T) {
		var p payload
		if _, err := SmartParse(`{'tool': 'web_search'}`, &p); err != nil {
			t.Fatal(err)
		}
		if p.Tool != "web_search" {
			t.Errorf("got %q", p.Tool)
		}
	})

	t.Run("trailing comma repaired", func(t *testing.T) {
		var p payload
		if _, err := SmartParse(`{"tool": "web_search",}`, &p); err != nil {
			t.Fatal(err)
		}
		if p.Tool != "web_search" {
			t.Errorf("got %q", p.Tool)
		}
	})

	t.Run("hjson unquoted keys", func(t *testing.T) {
		var p payload
		out, err := SmartParse("{tool: web_search}", &p)
		if err != nil {
			t.Fatal(err)
		}
		if p.Tool != "web_search" {
			t.Errorf("got %q from %q", p.Tool, out)
		}
	})

	t.Run("garbage fails", func(t *testing.T) {
		var p payload
		if _, err := SmartParse("not even close to json", &p); err == nil {
			t.Error("expected failure")
		} else if !strings.Contains(err.Error(), "SMART_PARSE_FAILED") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

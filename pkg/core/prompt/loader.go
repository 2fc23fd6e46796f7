package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	systemSectionRe = regexp.MustCompile(`(?s)## System Prompt\s*\n\s*(.*?)(?:\n## |\z)`)
	userSectionRe   = regexp.MustCompile(`(?s)## User Prompt\s*\n\s*(.*?)(?:\n## |\z)`)
)

// LoadTemplateFile parses a markdown template file into a Template. The
// file must contain both a `## System Prompt` and a `## User Prompt`
// section.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	t, err := ParseTemplate(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	t.ID = idFromPath(path)
	t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t.Source = path
	return t, nil
}

// ParseTemplate extracts the system and user prompt sections from template
// markdown.
func ParseTemplate(content string) (*Template, error) {
	system := extractSection(systemSectionRe, content)
	user := extractSection(userSectionRe, content)

	if system == "" {
		return nil, fmt.Errorf("template has no '## System Prompt' section")
	}
	if user == "" {
		return nil, fmt.Errorf("template has no '## User Prompt' section")
	}

	return &Template{SystemPrompt: system, UserPrompt: user}, nil
}

func extractSection(re *regexp.Regexp, content string) string {
	m := re.FindStringSubmatch(content)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// idFromPath turns "prompt_master/Equity_Research_Report_Template.md" into
// "file.equity_research_report_template".
func idFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return "file." + strings.ToLower(base)
}

// Resolve returns the template to use for report generation: the explicit
// path when given, otherwise the built-in default.
func Resolve(templatePath string) (*Template, error) {
	if templatePath != "" {
		t, err := LoadTemplateFile(templatePath)
		if err != nil {
			return nil, err
		}
		if err := Get().Register(t); err != nil {
			return nil, err
		}
		return t, nil
	}
	return Get().GetTemplate(IDEquityResearch)
}

// Package prompt provides the prompt template library for LLM interactions.
// Templates are markdown files with `## System Prompt` and `## User Prompt`
// sections and {company}/{timestamp} placeholders; built-in defaults are
// registered at startup and file templates can override them.
package prompt

import (
	"strings"
	"time"
)

// Template is a reusable prompt skeleton.
type Template struct {
	ID           string // e.g. "report.equity_research"
	Name         string // human-readable name
	SystemPrompt string
	UserPrompt   string
	Source       string // file path, or "builtin"
}

// Placeholders carries the runtime values substituted into a template.
type Placeholders struct {
	Company   string
	Timestamp time.Time
}

func (p Placeholders) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{company}", p.Company,
		"{timestamp}", p.Timestamp.Format("2006-01-02 15:04:05"),
	)
}

// Render substitutes all placeholders in both prompt sections. The result
// never contains leftover {company} or {timestamp} markers.
func (t *Template) Render(ph Placeholders) (system string, user string) {
	r := ph.replacer()
	return r.Replace(t.SystemPrompt), r.Replace(t.UserPrompt)
}

// HasLeftoverMarkers reports whether any known placeholder survived
// substitution. Used by tests and by the report generator as a guard.
func HasLeftoverMarkers(s string) bool {
	return strings.Contains(s, "{company}") || strings.Contains(s, "{timestamp}")
}

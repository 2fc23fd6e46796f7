// Package models defines the shared data types for the document pipeline
// and the turnaround agent.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DocumentKind classifies a source document by what it contains. The kind
// decides which section of the master file the document lands in.
type DocumentKind string

const (
	KindAnnualReport DocumentKind = "Annual Reports"
	KindTranscript   DocumentKind = "Concall Transcripts"
	KindPresentation DocumentKind = "Presentations"
	KindNews         DocumentKind = "News"
	KindMisc         DocumentKind = "Miscellaneous"
)

// SourceDocument is one file found inside a company folder.
type SourceDocument struct {
	Path      string       `json:"path"`
	Name      string       `json:"name"` // base name without extension
	Extension string       `json:"extension"`
	Kind      DocumentKind `json:"kind"`
	SHA256    string       `json:"sha256,omitempty"`
}

// ConvertedDocument is the markdown produced from a single source file.
type ConvertedDocument struct {
	Source      SourceDocument `json:"source"`
	Markdown    string         `json:"markdown"`
	OutputPath  string         `json:"output_path"`
	FromCache   bool           `json:"from_cache"`
	ConvertedAt time.Time      `json:"converted_at"`
}

// MasterFile is the consolidated markdown artifact for one company.
type MasterFile struct {
	CompanyName string    `json:"company_name"`
	Path        string    `json:"path"`
	SourceCount int       `json:"source_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Report is a generated equity research report.
type Report struct {
	CompanyName string    `json:"company_name"`
	Path        string    `json:"path"`
	Model       string    `json:"model"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Business is one row of the turnaround CSV: a company name plus optional
// exchange codes. Rows are independent units of work.
type Business struct {
	Name    string `json:"name"`
	BSECode string `json:"bse_code,omitempty"`
	NSECode string `json:"nse_code,omitempty"`
}

// Entry renders the row the way the agent prompt expects it, omitting
// whichever codes are missing.
func (b Business) Entry() string {
	bse := strings.TrimSpace(b.BSECode)
	nse := strings.TrimSpace(b.NSECode)
	switch {
	case nse == "" && bse == "":
		return b.Name
	case nse == "":
		return fmt.Sprintf("Name: %s / BSE: %s", b.Name, bse)
	case bse == "":
		return fmt.Sprintf("Name: %s / NSE: %s", b.Name, nse)
	default:
		return fmt.Sprintf("Name: %s / NSE: %s / BSE: %s", b.Name, nse, bse)
	}
}

// Verdict is the turnaround label the agent must emit in its report.
// It is extracted from the model output, never computed locally.
type Verdict string

const (
	VerdictStrong  Verdict = "Strong Turnaround"
	VerdictWeak    Verdict = "Weak Turnaround"
	VerdictNone    Verdict = "No Turnaround"
	VerdictUnknown Verdict = ""
)

// ExtractVerdict scans report text for the first verdict label.
func ExtractVerdict(report string) Verdict {
	for _, v := range []Verdict{VerdictStrong, VerdictWeak, VerdictNone} {
		if strings.Contains(report, string(v)) {
			return v
		}
	}
	return VerdictUnknown
}

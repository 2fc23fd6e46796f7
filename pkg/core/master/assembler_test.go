package master

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/QueryType/bharattrader/pkg/models"
)

func sampleInputs() []Input {
	return []Input{
		{
			Name:    "annual_report_2024",
			Kind:    models.KindAnnualReport,
			Content: "# annual_report_2024\n\nRevenue details.",
		},
		{
			Name:    "q3_concall",
			Kind:    models.KindTranscript,
			Content: "Management commentary.",
		},
		{
			Name:    "misc_note",
			Kind:    models.KindMisc,
			Content: "A stray note.",
		},
	}
}

func TestAssembleIncludesEveryInputOnce(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	out := Assemble("acme", sampleInputs(), now)

	if !strings.HasPrefix(out, "# ACME - Consolidated Analysis") {
		t.Errorf("title missing or company not uppercased:\n%.120s", out)
	}
	if !strings.Contains(out, "Generated on: 2025-03-10 09:00:00") {
		t.Error("generation timestamp missing")
	}
	if !strings.Contains(out, "Number of source documents: 3") {
		t.Error("source count missing")
	}

	for _, name := range []string{"annual_report_2024", "q3_concall", "misc_note"} {
		if n := strings.Count(out, "## "+name+"\n"); n != 1 {
			t.Errorf("document %s appears %d times as a section, want 1", name, n)
		}
	}

	if !strings.Contains(out, "Revenue details.") ||
		!strings.Contains(out, "Management commentary.") ||
		!strings.Contains(out, "A stray note.") {
		t.Error("document content missing")
	}
}

func TestAssembleSectionOrderAndTOC(t *testing.T) {
	now := time.Now()
	out := Assemble("acme", sampleInputs(), now)

	// Kind sections appear in the fixed order.
	iAnnual := strings.Index(out, "# "+string(models.KindAnnualReport))
	iTranscript := strings.Index(out, "# "+string(models.KindTranscript))
	iMisc := strings.Index(out, "# "+string(models.KindMisc))
	if iAnnual < 0 || iTranscript < 0 || iMisc < 0 {
		t.Fatalf("kind sections missing:\n%s", out)
	}
	if !(iAnnual < iTranscript && iTranscript < iMisc) {
		t.Error("kind sections out of order")
	}

	// Empty kinds produce no empty section.
	if strings.Contains(out, "# "+string(models.KindPresentation)) {
		t.Error("empty kind rendered a section")
	}

	// Every TOC link has a matching anchor.
	for _, slug := range []string{"annual-report-2024", "q3-concall", "misc-note"} {
		if !strings.Contains(out, "](#"+slug+")") {
			t.Errorf("TOC entry for %s missing", slug)
		}
		if !strings.Contains(out, "<a id='"+slug+"'></a>") {
			t.Errorf("anchor for %s missing", slug)
		}
	}
}

func TestAssembleTrimsDuplicateHeading(t *testing.T) {
	out := Assemble("acme", sampleInputs(), time.Now())

	// The document's own `# annual_report_2024` title is dropped under the
	// `## annual_report_2024` section heading.
	if strings.Contains(out, "## annual_report_2024\n\n# annual_report_2024") {
		t.Error("duplicate heading survived assembly")
	}
}

func TestAssembleSourcesTable(t *testing.T) {
	out := Assemble("acme", sampleInputs(), time.Now())

	if !strings.Contains(out, "# Metadata") || !strings.Contains(out, "## Document Sources") {
		t.Fatal("metadata section missing")
	}
	if !strings.Contains(out, "| Source | Type | Date Included |") {
		t.Error("table header missing")
	}
	if !strings.Contains(out, "| q3_concall | "+string(models.KindTranscript)+" |") {
		t.Error("table row missing")
	}
}

func TestLoadProcessedAndGenerate(t *testing.T) {
	company := filepath.Join(t.TempDir(), "acme")
	processed := filepath.Join(company, "processed")
	if err := os.MkdirAll(processed, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"annual_report.md": "# annual_report\n\nBody A",
		"q1_concall.md":    "Body B",
		"notes.txt":        "ignored, not markdown",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(processed, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	inputs, err := LoadProcessed(company)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	if inputs[0].Name != "annual_report" || inputs[1].Name != "q1_concall" {
		t.Errorf("inputs not sorted by name: %v, %v", inputs[0].Name, inputs[1].Name)
	}
	if inputs[0].Kind != models.KindAnnualReport {
		t.Errorf("classification: got %s", inputs[0].Kind)
	}

	mf, err := Generate("acme", inputs, "")
	if err != nil {
		t.Fatal(err)
	}
	if mf.SourceCount != 2 {
		t.Errorf("source count: %d", mf.SourceCount)
	}
	if filepath.Dir(mf.Path) != company {
		t.Errorf("master file written outside the company folder: %s", mf.Path)
	}
	if _, err := os.Stat(mf.Path); err != nil {
		t.Errorf("master file not on disk: %v", err)
	}
	if !strings.Contains(filepath.Base(mf.Path), "acme_master_") {
		t.Errorf("unexpected file name: %s", mf.Path)
	}
}

func TestLoadProcessedMissingFolder(t *testing.T) {
	if _, err := LoadProcessed(filepath.Join(t.TempDir(), "ghost")); err == nil {
		t.Error("expected error for missing processed folder")
	}
}

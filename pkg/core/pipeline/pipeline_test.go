package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/QueryType/bharattrader/pkg/config"
	"github.com/QueryType/bharattrader/pkg/core/llm"
)

func testPipeline(t *testing.T, dataDir string) *Pipeline {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = dataDir
	p := New(cfg, llm.NewManager(cfg))
	t.Cleanup(func() { p.Close() })
	return p
}

func TestProcessConvertsTextFiles(t *testing.T) {
	dataDir := t.TempDir()
	company := filepath.Join(dataDir, "acme")
	if err := os.Mkdir(company, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(company, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("annual_report.txt", "Revenue grew strongly.")
	writeFile("q1_concall.txt", "Management sounded confident.")
	writeFile("archive.rar", "binary junk")

	p := testPipeline(t, dataDir)
	result, err := p.Process(context.Background(), company)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Converted) != 2 {
		t.Fatalf("converted: %d, want 2", len(result.Converted))
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0], "archive.rar") {
		t.Errorf("skipped: %v", result.Skipped)
	}
	if len(result.Failed) != 0 {
		t.Errorf("failed: %v", result.Failed)
	}

	for _, doc := range result.Converted {
		data, err := os.ReadFile(doc.OutputPath)
		if err != nil {
			t.Fatalf("processed file missing: %v", err)
		}
		if !strings.HasPrefix(string(data), "# "+doc.Source.Name) {
			t.Errorf("processed markdown lacks title heading: %s", doc.OutputPath)
		}
		if doc.FromCache {
			t.Errorf("first conversion of %s must not be a cache hit", doc.Source.Name)
		}
	}
}

func TestProcessUsesCacheOnSecondRun(t *testing.T) {
	dataDir := t.TempDir()
	company := filepath.Join(dataDir, "acme")
	if err := os.Mkdir(company, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(company, "note.txt"), []byte("stable content"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := testPipeline(t, dataDir)
	ctx := context.Background()

	first, err := p.Process(ctx, company)
	if err != nil {
		t.Fatal(err)
	}
	if first.Converted[0].FromCache {
		t.Error("first run must convert")
	}

	second, err := p.Process(ctx, company)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Converted[0].FromCache {
		t.Error("second run must hit the cache")
	}
}

func TestProcessThenMaster(t *testing.T) {
	dataDir := t.TempDir()
	company := filepath.Join(dataDir, "acme")
	if err := os.Mkdir(company, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(company, "annual_report.txt"), []byte("FY24 summary."), 0o644); err != nil {
		t.Fatal(err)
	}

	p := testPipeline(t, dataDir)
	if _, err := p.Process(context.Background(), company); err != nil {
		t.Fatal(err)
	}

	mf, err := p.Master(company, "")
	if err != nil {
		t.Fatal(err)
	}
	if mf.CompanyName != "acme" || mf.SourceCount != 1 {
		t.Errorf("master record: %+v", mf)
	}

	data, err := os.ReadFile(mf.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "FY24 summary.") {
		t.Error("master file missing document content")
	}
}

func TestMasterWithoutProcessedFolder(t *testing.T) {
	dataDir := t.TempDir()
	company := filepath.Join(dataDir, "acme")
	if err := os.Mkdir(company, 0o755); err != nil {
		t.Fatal(err)
	}

	p := testPipeline(t, dataDir)
	if _, err := p.Master(company, ""); err == nil {
		t.Error("expected error before process has run")
	}
}

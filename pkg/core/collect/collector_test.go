package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QueryType/bharattrader/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want models.DocumentKind
	}{
		{"Annual_Report_FY24", models.KindAnnualReport},
		{"acme_10K_2023", models.KindAnnualReport},
		{"Q3_results", models.KindAnnualReport},
		{"q4_concall", models.KindTranscript},
		{"earnings_call_jan", models.KindTranscript},
		{"Investor_Presentation", models.KindPresentation},
		{"acme_deck_v2", models.KindPresentation},
		{"press_release_oct", models.KindNews},
		{"news_clipping", models.KindNews},
		{"random_scan", models.KindMisc},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.name), "Classify(%q)", tt.name)
	}
}

func TestListCompanies(t *testing.T) {
	dataDir := t.TempDir()
	for _, name := range []string{"zeta", "acme", ".hidden"} {
		require.NoError(t, os.Mkdir(filepath.Join(dataDir, name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "stray.txt"), []byte("x"), 0o644))

	companies, err := ListCompanies(dataDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "zeta"}, companies)

	_, err = ListCompanies(filepath.Join(dataDir, "missing"))
	assert.Error(t, err)
}

func TestResolveCompanyFolder(t *testing.T) {
	dataDir := t.TempDir()
	folder := filepath.Join(dataDir, "acme")
	require.NoError(t, os.Mkdir(folder, 0o755))

	path, err := ResolveCompanyFolder(dataDir, "acme")
	require.NoError(t, err)
	assert.Equal(t, folder, path)

	path, err = ResolveCompanyFolder(dataDir, folder)
	require.NoError(t, err)
	assert.Equal(t, folder, path)

	_, err = ResolveCompanyFolder(dataDir, "ghost")
	assert.Error(t, err)
}

func TestCollectSources(t *testing.T) {
	folder := t.TempDir()
	files := []string{
		"annual_report.pdf",
		"q1_concall.txt",
		"old_master.md",
		".DS_Store",
		"archive.rar",
	}
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(folder, "processed"), 0o755))

	supported := func(ext string) bool { return ext == "pdf" || ext == "txt" }
	docs, skipped, err := CollectSources(folder, supported)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "annual_report", docs[0].Name)
	assert.Equal(t, "pdf", docs[0].Extension)
	assert.Equal(t, models.KindAnnualReport, docs[0].Kind)
	assert.Equal(t, "q1_concall", docs[1].Name)

	// Markdown, hidden files and directories are silently ignored; only
	// genuinely unsupported formats are reported.
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0], "archive.rar")
}

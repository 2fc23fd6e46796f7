// Package collect lists company folders and the convertible files inside
// them.
package collect

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/QueryType/bharattrader/pkg/models"
)

// ListCompanies returns the company folder names under the data directory,
// skipping hidden entries.
func ListCompanies(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("company data directory not found: %s: %w", dataDir, err)
	}

	var companies []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			companies = append(companies, e.Name())
		}
	}
	sort.Strings(companies)
	return companies, nil
}

// ResolveCompanyFolder makes a company folder path absolute relative to the
// data directory, and verifies it exists.
func ResolveCompanyFolder(dataDir, folder string) (string, error) {
	path := folder
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			path = filepath.Join(dataDir, folder)
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("company folder does not exist: %s", folder)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", path)
	}
	return path, nil
}

// CollectSources gathers the convertible files directly inside a company
// folder, in sorted order. Hidden files, markdown files, and directories
// are skipped. supported is the converter registry's extension check.
func CollectSources(companyFolder string, supported func(ext string) bool) ([]models.SourceDocument, []string, error) {
	entries, err := os.ReadDir(companyFolder)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read company folder: %w", err)
	}

	var docs []models.SourceDocument
	var skipped []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
		if ext == "md" {
			continue
		}
		path := filepath.Join(companyFolder, e.Name())
		if !supported(ext) {
			skipped = append(skipped, path)
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		docs = append(docs, models.SourceDocument{
			Path:      path,
			Name:      name,
			Extension: ext,
			Kind:      Classify(name),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, skipped, nil
}

// Classify infers the document kind from the file name. The kind decides
// which master-file section the document lands in.
func Classify(name string) models.DocumentKind {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "annual", "ar_", "10k", "10-k", "result"):
		return models.KindAnnualReport
	case containsAny(lower, "concall", "transcript", "earnings_call", "call"):
		return models.KindTranscript
	case containsAny(lower, "presentation", "investor", "deck", "ppt"):
		return models.KindPresentation
	case containsAny(lower, "news", "article", "press"):
		return models.KindNews
	default:
		return models.KindMisc
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

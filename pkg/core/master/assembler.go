// Package master assembles the consolidated markdown document for one
// company from its processed per-file markdown.
package master

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/QueryType/bharattrader/pkg/core/collect"
	"github.com/QueryType/bharattrader/pkg/core/utils"
	"github.com/QueryType/bharattrader/pkg/models"
)

// Input is one processed markdown file to include.
type Input struct {
	Path    string
	Name    string // stem, used for headings and anchors
	Kind    models.DocumentKind
	Content string
}

// sectionOrder fixes the ordering of kind sections in the master file.
var sectionOrder = []models.DocumentKind{
	models.KindAnnualReport,
	models.KindTranscript,
	models.KindPresentation,
	models.KindNews,
	models.KindMisc,
}

// LoadProcessed reads every `processed/*.md` file for a company folder.
func LoadProcessed(companyFolder string) ([]Input, error) {
	processedDir := filepath.Join(companyFolder, "processed")
	entries, err := os.ReadDir(processedDir)
	if err != nil {
		return nil, fmt.Errorf("processed folder not found: %s: %w", processedDir, err)
	}

	var inputs []Input
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(processedDir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read processed file %s: %w", path, err)
		}
		name := strings.TrimSuffix(e.Name(), ".md")
		inputs = append(inputs, Input{
			Path:    path,
			Name:    name,
			Kind:    collect.Classify(name),
			Content: string(data),
		})
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no processed markdown files found in %s", processedDir)
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Name < inputs[j].Name })
	return inputs, nil
}

// Generate builds the master document and writes it to outputDir (the
// company folder when empty). Returns the master file record.
func Generate(companyName string, inputs []Input, outputDir string) (*models.MasterFile, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs for master file")
	}
	if outputDir == "" {
		// Processed files live one level below the company folder.
		outputDir = filepath.Dir(filepath.Dir(inputs[0].Path))
	}

	now := time.Now()
	content := Assemble(companyName, inputs, now)

	filename := fmt.Sprintf("%s_master_%s.md", companyName, now.Format("20060102_150405"))
	outputPath := utils.UniquePath(filepath.Join(outputDir, filename))

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("error writing master file: %w", err)
	}

	log.Info().Str("company", companyName).Int("sources", len(inputs)).
		Str("path", outputPath).Msg("master file generated")

	return &models.MasterFile{
		CompanyName: companyName,
		Path:        outputPath,
		SourceCount: len(inputs),
		GeneratedAt: now,
	}, nil
}

// Assemble renders the master document: header, TOC, classified sections
// with every input exactly once, and a sources table. Pure function so the
// layout is testable without touching disk.
func Assemble(companyName string, inputs []Input, now time.Time) string {
	var parts []string

	parts = append(parts,
		fmt.Sprintf("# %s - Consolidated Analysis", strings.ToUpper(companyName)),
		fmt.Sprintf("Generated on: %s", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Number of source documents: %d", len(inputs)),
		"\n---\n",
	)

	for _, in := range inputs {
		parts = append(parts, fmt.Sprintf("- [%s](#%s)", in.Name, utils.Slugify(in.Name)))
	}
	parts = append(parts, "\n---\n")

	byKind := make(map[models.DocumentKind][]Input)
	for _, in := range inputs {
		byKind[in.Kind] = append(byKind[in.Kind], in)
	}

	for _, kind := range sectionOrder {
		section := byKind[kind]
		if len(section) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("# %s", kind))
		for _, in := range section {
			parts = append(parts,
				fmt.Sprintf("<a id='%s'></a>", utils.Slugify(in.Name)),
				fmt.Sprintf("## %s", in.Name),
				trimDuplicateHeading(in.Content, in.Name),
				"\n---\n",
			)
		}
	}

	parts = append(parts, "# Metadata", "## Document Sources")
	table := []string{
		"| Source | Type | Date Included |",
		"| --- | --- | --- |",
	}
	for _, in := range inputs {
		included := now
		if info, err := os.Stat(in.Path); err == nil {
			included = info.ModTime()
		}
		table = append(table, fmt.Sprintf("| %s | %s | %s |", in.Name, in.Kind, included.Format("2006-01-02")))
	}
	parts = append(parts, strings.Join(table, "\n"))

	return strings.Join(parts, "\n\n")
}

// trimDuplicateHeading drops a leading `# <name>` line so the document is
// not titled twice under its `## <name>` heading.
func trimDuplicateHeading(content, name string) string {
	lines := strings.SplitN(content, "\n", 2)
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") && strings.Contains(lines[0], name) {
		if len(lines) == 2 {
			return strings.TrimLeft(lines[1], "\n")
		}
		return ""
	}
	return content
}

// Package report generates the equity research report from a master file
// by prompting the configured LLM provider: first a factual summary of the
// whole document, then one call per report section.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/QueryType/bharattrader/pkg/config"
	"github.com/QueryType/bharattrader/pkg/core/llm"
	"github.com/QueryType/bharattrader/pkg/core/prompt"
	"github.com/QueryType/bharattrader/pkg/core/utils"
	"github.com/QueryType/bharattrader/pkg/models"
)

const (
	summaryChunkTokens = 7000
	sectionTokenBudget = 6000
)

// sectionSpec describes one report section: what to call it, where its
// source material comes from, and how long the answer may run.
type sectionSpec struct {
	ID        string
	Title     string
	Keywords  []string // empty: generate from the document summary
	MaxTokens int
	Focus     string
}

var reportSections = []sectionSpec{
	{
		ID: "executive_summary", Title: "Executive Summary", MaxTokens: 1000,
		Focus: "write ONLY the Executive Summary section of an equity research report",
	},
	{
		ID: "business_overview", Title: "Business Overview", MaxTokens: 1500,
		Keywords: []string{"business", "company", "overview", "product", "service"},
		Focus:    "write ONLY the Business Overview section of an equity research report. Focus on the company's products, services, market position, and business model",
	},
	{
		ID: "financial_analysis", Title: "Financial Analysis", MaxTokens: 2000,
		Keywords: []string{"financial", "revenue", "profit", "margin", "growth", "income", "balance", "cash flow"},
		Focus:    "write ONLY the Financial Analysis section of an equity research report. Focus on revenue trends, profitability, balance sheet strength, and cash flow",
	},
	{
		ID: "competitive_landscape", Title: "Competitive Landscape", MaxTokens: 1500,
		Keywords: []string{"competit", "market share", "industry", "peer", "rival"},
		Focus:    "write ONLY the Competitive Landscape section of an equity research report. Focus on competitors, market position, and differentiation",
	},
	{
		ID: "growth_prospects", Title: "Growth Prospects", MaxTokens: 1500,
		Keywords: []string{"growth", "expansion", "capex", "order book", "guidance", "outlook", "pipeline"},
		Focus:    "write ONLY the Growth Prospects section of an equity research report. Focus on growth drivers, expansion plans, and management guidance",
	},
	{
		ID: "risks", Title: "Risks", MaxTokens: 1500,
		Keywords: []string{"risk", "litigation", "regulat", "debt", "contingent", "concern"},
		Focus:    "write ONLY the Risks section of an equity research report. Focus on business, financial, and regulatory risks",
	},
	{
		ID: "conclusion", Title: "Conclusion", MaxTokens: 1000,
		Focus: "write ONLY the Conclusion section of an equity research report, bringing together the overall investment view",
	},
}

// Generator produces equity research reports.
type Generator struct {
	manager *llm.Manager
	cfg     config.Config
}

func NewGenerator(manager *llm.Manager, cfg config.Config) *Generator {
	return &Generator{manager: manager, cfg: cfg}
}

// Options carries the per-invocation overrides from the CLI.
type Options struct {
	TemplatePath string
	OutputDir    string
	Model        string
}

// Generate reads the master file and writes the report next to it (or to
// opts.OutputDir). One failed section degrades to an error note inside the
// report; a failed summary stage fails the run.
func (g *Generator) Generate(ctx context.Context, masterPath string, opts Options) (*models.Report, error) {
	masterContent, err := os.ReadFile(masterPath)
	if err != nil {
		return nil, fmt.Errorf("error reading master file: %w", err)
	}

	companyName := CompanyFromMasterPath(masterPath)
	now := time.Now()
	runTS := now.Format("20060102_150405")
	runID := uuid.NewString()

	model := opts.Model
	if model == "" {
		model = g.cfg.Models.Text
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = g.cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = filepath.Dir(masterPath)
	}

	templatePath := opts.TemplatePath
	if templatePath == "" {
		templatePath = g.cfg.TemplatePath
	}
	tmpl, err := prompt.Resolve(templatePath)
	if err != nil {
		return nil, err
	}
	systemPrompt, _ := tmpl.Render(prompt.Placeholders{Company: companyName, Timestamp: now})
	if prompt.HasLeftoverMarkers(systemPrompt) {
		return nil, fmt.Errorf("template substitution left placeholder markers")
	}

	ilog := NewInteractionLogger(
		g.cfg.LLMLogging,
		filepath.Join(filepath.Dir(masterPath), "logs"),
		companyName, "report_generation", runTS, runID,
	)

	log.Info().Str("company", companyName).Str("model", model).
		Str("run_id", runID).Msg("generating report")

	summary, err := g.summarize(ctx, companyName, string(masterContent), model, ilog)
	if err != nil {
		return nil, err
	}

	sections := SplitSections(string(masterContent))
	provider := g.manager.GetProvider(llm.RoleReport)

	var body strings.Builder
	fmt.Fprintf(&body, "# %s - Equity Research Report\n\n", companyName)
	fmt.Fprintf(&body, "Generated on: %s\n\n---\n\n", now.Format("2006-01-02 15:04:05"))

	for _, spec := range reportSections {
		material := summary
		if len(spec.Keywords) > 0 {
			if selected := SelectContent(sections, spec.Keywords, sectionTokenBudget); selected != "" {
				material = selected
			}
		}

		userPrompt := fmt.Sprintf(
			"Based on the following information about %s, %s:\n\n%s",
			companyName, spec.Focus, material,
		)
		ilog.Log(spec.ID, model, 0.3, spec.MaxTokens, systemPrompt, userPrompt)

		text, err := provider.GenerateResponse(ctx, userPrompt, systemPrompt, map[string]interface{}{
			"model":       model,
			"temperature": 0.3,
			"max_tokens":  spec.MaxTokens,
		})
		if err != nil {
			log.Error().Err(err).Str("section", spec.ID).Msg("section generation failed")
			text = fmt.Sprintf("Error generating content: %v", err)
		}

		fmt.Fprintf(&body, "## %s\n\n%s\n\n", spec.Title, utils.CleanMarkdown(text))
	}

	final := body.String()
	if !utils.ValidateMarkdown(final) {
		return nil, fmt.Errorf("generated report is not valid markdown")
	}

	filename := fmt.Sprintf("%s_equity_research_%s.md", companyName, runTS)
	outputPath := utils.UniquePath(filepath.Join(outputDir, filename))
	if err := os.WriteFile(outputPath, []byte(final), 0o644); err != nil {
		return nil, fmt.Errorf("error writing report: %w", err)
	}

	log.Info().Str("path", outputPath).Msg("report generated")
	return &models.Report{
		CompanyName: companyName,
		Path:        outputPath,
		Model:       model,
		Provider:    g.manager.ActiveProvider(),
		GeneratedAt: now,
	}, nil
}

// summarize reduces the master content to a factual digest, chunk by chunk.
func (g *Generator) summarize(ctx context.Context, companyName, masterContent, model string, ilog *InteractionLogger) (string, error) {
	summaryTmpl, err := prompt.Get().GetTemplate(prompt.IDDocumentSummary)
	if err != nil {
		return "", err
	}

	provider := g.manager.GetProvider(llm.RoleSummarizer)
	chunks := ChunkText(masterContent, summaryChunkTokens)
	log.Debug().Int("chunks", len(chunks)).Msg("summarizing master document")

	var parts []string
	for i, chunk := range chunks {
		userPrompt := fmt.Sprintf(
			"Summarize the key information about %s from this document, focusing on extracting factual data:\n\n%s",
			companyName, chunk,
		)
		ilog.Log(fmt.Sprintf("document_summary_chunk_%d", i+1), model, 0.2, 1500, summaryTmpl.SystemPrompt, userPrompt)

		text, err := provider.GenerateResponse(ctx, userPrompt, summaryTmpl.SystemPrompt, map[string]interface{}{
			"model":       model,
			"temperature": 0.2,
			"max_tokens":  1500,
		})
		if err != nil {
			return "", fmt.Errorf("error generating summary (chunk %d/%d): %w", i+1, len(chunks), err)
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n\n"), nil
}

// CompanyFromMasterPath recovers the company name from a master file path
// like `Acme_master_20240101_120000.md`.
func CompanyFromMasterPath(masterPath string) string {
	stem := strings.TrimSuffix(filepath.Base(masterPath), filepath.Ext(masterPath))
	if idx := strings.Index(stem, "_master_"); idx >= 0 {
		return stem[:idx]
	}
	return stem
}

// Package agent implements the turnaround screening agent: a step-bounded
// tool-calling loop that researches each business from a CSV watchlist and
// writes one markdown report per business.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/QueryType/bharattrader/pkg/config"
	"github.com/QueryType/bharattrader/pkg/core/llm"
	"github.com/QueryType/bharattrader/pkg/models"
)

// Runner processes a whole watchlist, one business at a time. A failed
// business is reported and skipped; the run continues.
type Runner struct {
	manager *llm.Manager
	cfg     *config.Config
}

func NewRunner(manager *llm.Manager, cfg *config.Config) *Runner {
	return &Runner{manager: manager, cfg: cfg}
}

// RunOptions override the configured agent defaults for one invocation.
type RunOptions struct {
	CSVPath   string
	OutputDir string
	MaxSteps  int
	Model     string
}

// RunSummary is the aggregate outcome of a watchlist run.
type RunSummary struct {
	Results []*Result
	Failed  []string
}

// Run loads the watchlist and drives the agent loop for every business.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	csvPath := opts.CSVPath
	if csvPath == "" {
		csvPath = r.cfg.Agent.CSVPath
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = r.cfg.Agent.OutputDir
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = r.cfg.Agent.MaxSteps
	}

	businesses, err := LoadBusinesses(csvPath)
	if err != nil {
		return nil, err
	}
	log.Info().Int("businesses", len(businesses)).Str("csv", csvPath).Msg("starting turnaround run")

	provider := r.manager.GetProvider(llm.RoleAgent)
	summary := &RunSummary{}

	for i, business := range businesses {
		log.Info().
			Int("index", i+1).
			Int("total", len(businesses)).
			Str("business", business.Name).
			Msg("analyzing business")

		result, err := r.runOne(ctx, provider, business, outputDir, maxSteps, opts.Model)
		if err != nil {
			log.Error().Err(err).Str("business", business.Name).Msg("business analysis failed")
			summary.Failed = append(summary.Failed, business.Name)
			continue
		}
		log.Info().
			Str("business", business.Name).
			Str("verdict", string(result.Verdict)).
			Str("report", result.ReportPath).
			Int("steps", result.Steps).
			Msg("business analysis complete")
		summary.Results = append(summary.Results, result)
	}

	if len(summary.Results) == 0 && len(summary.Failed) > 0 {
		return summary, fmt.Errorf("AGENT_ERROR: all %d businesses failed", len(summary.Failed))
	}
	return summary, nil
}

// runOne builds a fresh tool set and loop per business so no state leaks
// between rows.
func (r *Runner) runOne(ctx context.Context, provider llm.Provider, business models.Business,
	outputDir string, maxSteps int, model string) (*Result, error) {

	if model == "" {
		model = r.cfg.Models.Agent
	}
	searchModel := r.cfg.Models.Text
	// Web search is grounded generation, which only the Gemini provider
	// supports.
	searchProvider, err := r.manager.GetProviderByName("gemini")
	if err != nil {
		return nil, err
	}
	tools := []Tool{
		NewWebSearchTool(searchProvider, searchModel),
		&FSReaderTool{},
		&CmdExecutorTool{Timeout: time.Duration(r.cfg.Agent.CmdTimeoutS) * time.Second},
		&SaveReportTool{OutputDir: outputDir},
	}

	loop := NewLoop(provider, tools, maxSteps, model)
	return loop.Run(ctx, business)
}

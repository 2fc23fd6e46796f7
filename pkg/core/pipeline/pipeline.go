// Package pipeline orchestrates the per-company flow: collect files,
// convert to markdown, assemble the master file, generate the report.
// Processing is sequential; each file and each company is an independent
// unit of work that fails alone.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/QueryType/bharattrader/pkg/config"
	"github.com/QueryType/bharattrader/pkg/core/collect"
	"github.com/QueryType/bharattrader/pkg/core/convert"
	"github.com/QueryType/bharattrader/pkg/core/llm"
	"github.com/QueryType/bharattrader/pkg/core/master"
	"github.com/QueryType/bharattrader/pkg/core/report"
	"github.com/QueryType/bharattrader/pkg/core/store"
	"github.com/QueryType/bharattrader/pkg/core/utils"
	"github.com/QueryType/bharattrader/pkg/models"
)

// Pipeline wires the converter registry, the conversion cache and the LLM
// manager for one process lifetime.
type Pipeline struct {
	cfg      config.Config
	registry *convert.Registry
	cache    *store.Cache
	manager  *llm.Manager
}

// New builds the pipeline. The conversion cache is best effort: when it
// cannot be opened the pipeline runs uncached with a warning.
func New(cfg config.Config, manager *llm.Manager) *Pipeline {
	var vision llm.VisionProvider
	if os.Getenv("GEMINI_API_KEY") != "" {
		if v, err := manager.Vision(); err == nil {
			vision = v
		}
	}

	var cache *store.Cache
	if !cfg.Converters.DisableCache {
		c, err := store.Open(filepath.Join(cfg.DataDir, ".fininsight-cache"))
		if err != nil {
			log.Warn().Err(err).Msg("conversion cache unavailable, running uncached")
		} else {
			cache = c
		}
	}

	return &Pipeline{
		cfg:      cfg,
		registry: convert.NewRegistry(cfg.Converters, vision),
		cache:    cache,
		manager:  manager,
	}
}

// Close releases the conversion cache.
func (p *Pipeline) Close() error {
	return p.cache.Close()
}

// ProcessResult reports what happened to each file in a company folder.
// Nothing is dropped silently: every source lands in exactly one list.
type ProcessResult struct {
	Converted []models.ConvertedDocument
	Skipped   []string // unsupported formats
	Failed    []string // conversion errors, logged and carried on
}

// Process converts every supported file in the company folder into
// `processed/<name>.md`.
func (p *Pipeline) Process(ctx context.Context, companyFolder string) (*ProcessResult, error) {
	docs, skipped, err := collect.CollectSources(companyFolder, p.registry.Supported)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		log.Warn().Str("file", s).Msg("unsupported file format, skipping")
	}

	processedDir := filepath.Join(companyFolder, "processed")
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create processed folder: %w", err)
	}

	result := &ProcessResult{Skipped: skipped}
	for _, doc := range docs {
		converted, err := p.convertOne(ctx, doc, processedDir)
		if err != nil {
			log.Error().Err(err).Str("file", doc.Path).Msg("file conversion failed")
			result.Failed = append(result.Failed, doc.Path)
			continue
		}
		result.Converted = append(result.Converted, *converted)
	}

	log.Info().Str("folder", companyFolder).
		Int("converted", len(result.Converted)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("company folder processed")

	return result, nil
}

func (p *Pipeline) convertOne(ctx context.Context, doc models.SourceDocument, processedDir string) (*models.ConvertedDocument, error) {
	sha, err := utils.FileSHA256(doc.Path)
	if err != nil {
		return nil, err
	}
	doc.SHA256 = sha

	markdown, fromCache := p.cache.Get(sha)
	if !fromCache {
		markdown, err = p.registry.Convert(ctx, doc.Path)
		if err != nil {
			return nil, err
		}
		p.cache.Put(sha, doc.Name, markdown)
	} else {
		log.Debug().Str("file", doc.Path).Msg("conversion cache hit")
	}

	outputPath := filepath.Join(processedDir, doc.Name+".md")
	if err := os.WriteFile(outputPath, []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("cannot write processed markdown: %w", err)
	}

	return &models.ConvertedDocument{
		Source:      doc,
		Markdown:    markdown,
		OutputPath:  outputPath,
		FromCache:   fromCache,
		ConvertedAt: time.Now(),
	}, nil
}

// Master assembles the master file for a processed company folder.
func (p *Pipeline) Master(companyFolder, outputDir string) (*models.MasterFile, error) {
	companyName := filepath.Base(companyFolder)
	inputs, err := master.LoadProcessed(companyFolder)
	if err != nil {
		return nil, err
	}
	return master.Generate(companyName, inputs, outputDir)
}

// Report generates the research report from a master file.
func (p *Pipeline) Report(ctx context.Context, masterPath string, opts report.Options) (*models.Report, error) {
	gen := report.NewGenerator(p.manager, p.cfg)
	return gen.Generate(ctx, masterPath, opts)
}

// RunAll executes process, master and report end to end for one company.
func (p *Pipeline) RunAll(ctx context.Context, companyFolder string, opts report.Options) (*models.Report, error) {
	if _, err := p.Process(ctx, companyFolder); err != nil {
		return nil, err
	}
	mf, err := p.Master(companyFolder, "")
	if err != nil {
		return nil, fmt.Errorf("cannot continue without a master file: %w", err)
	}
	return p.Report(ctx, mf.Path, opts)
}

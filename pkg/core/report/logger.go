package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// InteractionLogger appends every prompt sent to the LLM for one run to a
// per-company log file. Disabled logging turns every call into a no-op.
type InteractionLogger struct {
	enabled bool
	company string
	phase   string
	runTS   string
	runID   string
	logPath string
}

type interactionEntry struct {
	Timestamp   string              `json:"timestamp"`
	Company     string              `json:"company"`
	Phase       string              `json:"phase"`
	Section     string              `json:"section"`
	Model       string              `json:"model"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
	RunID       string              `json:"run_id"`
	Messages    []map[string]string `json:"messages"`
}

// NewInteractionLogger creates the logger for one generation run. logsDir
// is created on demand.
func NewInteractionLogger(enabled bool, logsDir, company, phase, runTS, runID string) *InteractionLogger {
	l := &InteractionLogger{
		enabled: enabled,
		company: company,
		phase:   phase,
		runTS:   runTS,
		runID:   runID,
	}
	if enabled {
		l.logPath = filepath.Join(logsDir, fmt.Sprintf("%s_%s_%s.log", company, phase, runTS))
	}
	return l
}

// Log appends one prompt record. Failures are logged and swallowed; prompt
// logging must never fail a run.
func (l *InteractionLogger) Log(section, model string, temperature float64, maxTokens int, systemPrompt, userPrompt string) {
	if !l.enabled {
		return
	}

	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		log.Warn().Err(err).Msg("cannot create logs directory")
		return
	}

	entry := interactionEntry{
		Timestamp:   time.Now().Format(time.RFC3339),
		Company:     l.company,
		Phase:       l.phase,
		Section:     section,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		RunID:       l.runID,
		Messages: []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}

	f, err := os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("path", l.logPath).Msg("cannot open interaction log")
		return
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		fmt.Fprintf(f, "# LLM Interaction Log for %s\n# Phase: %s\n# Created: %s\n\n", l.company, l.phase, l.runTS)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("cannot marshal interaction entry")
		return
	}
	fmt.Fprintf(f, "\n## %s - %s\n%s\n\n---\n\n", section, entry.Timestamp, data)
}

package agent

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/QueryType/bharattrader/pkg/core/llm"
	"github.com/QueryType/bharattrader/pkg/core/utils"
)

// Tool is one capability the agent can invoke during its loop.
type Tool interface {
	Name() string
	// Description is shown to the model in the tool catalog.
	Description() string
	Execute(ctx context.Context, args map[string]string) (string, error)
}

// --- web_search ---

// WebSearchTool answers a query with a search-grounded LLM call (Gemini
// Google Search grounding), returning text plus source links.
type WebSearchTool struct {
	provider llm.Provider
	model    string
}

func NewWebSearchTool(provider llm.Provider, model string) *WebSearchTool {
	return &WebSearchTool{provider: provider, model: model}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return `web_search(query): searches the web for the given query and returns the results with source links. Be as specific as possible to get relevant results.`
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	query := strings.TrimSpace(args["query"])
	if query == "" {
		return "", fmt.Errorf("no query provided")
	}
	return t.provider.GenerateResponse(ctx, query, "", map[string]interface{}{
		"model":         t.model,
		"google_search": true,
	})
}

// --- fs_reader ---

// FSReaderTool reads a file from the filesystem, with ~ expansion.
type FSReaderTool struct{}

func (t *FSReaderTool) Name() string { return "fs_reader" }

func (t *FSReaderTool) Description() string {
	return `fs_reader(path): reads a file from the filesystem and returns its content. Works on plain text, markdown, and source files.`
}

func (t *FSReaderTool) Execute(_ context.Context, args map[string]string) (string, error) {
	path := strings.TrimSpace(args["path"])
	if path == "" {
		return "", fmt.Errorf("no file path provided")
	}
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return string(data), nil
}

// --- cmd_executor ---

// allowedCommands is the read-only shell allowlist. Commands that modify
// files, install software, or change system state are refused.
var allowedCommands = map[string]bool{
	"ls": true, "find": true, "locate": true, "which": true, "whereis": true,
	"grep": true, "egrep": true, "fgrep": true, "zgrep": true, "rg": true, "ag": true,
	"cat": true, "head": true, "tail": true, "less": true, "more": true,
	"wc": true, "sort": true, "uniq": true, "cut": true, "awk": true, "sed": true,
	"ps": true, "top": true, "df": true, "du": true, "free": true,
	"pwd": true, "whoami": true, "id": true, "uname": true, "date": true,
	"file": true, "stat": true, "lsof": true, "tree": true,
}

// CmdExecutorTool executes read-only shell commands from the allowlist.
// Execution must be explicitly confirmed by the model per call.
type CmdExecutorTool struct {
	Timeout time.Duration
}

func (t *CmdExecutorTool) Name() string { return "cmd_executor" }

func (t *CmdExecutorTool) Description() string {
	return `cmd_executor(command, confirmed): executes a read-only shell command (ls, find, grep, cat, head, tail, wc, sort, du, stat, ...). Set confirmed to "true" to actually run it. Commands that modify state are refused.`
}

func (t *CmdExecutorTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	if strings.ToLower(args["confirmed"]) != "true" {
		return "Error: Command execution not confirmed. Set confirmed to true to proceed with running the command.", nil
	}
	command := strings.TrimSpace(args["command"])
	if command == "" {
		return "", fmt.Errorf("no command provided")
	}

	fields := strings.Fields(command)
	base := filepath.Base(fields[0])
	if !allowedCommands[base] {
		return fmt.Sprintf("Error: Command '%s' is not allowed. Only readonly commands are permitted.", base), nil
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(cmdCtx, fields[0], fields[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Sprintf("Error: %v\n%s", err, out), nil
	}
	return string(out), nil
}

// --- save_report ---

// SaveReportTool persists the agent's markdown report to the output
// directory, one file per business, timestamped and collision-safe.
type SaveReportTool struct {
	OutputDir string
	// LastSaved records the final artifact path for the runner.
	LastSaved string
}

func (t *SaveReportTool) Name() string { return "save_report" }

func (t *SaveReportTool) Description() string {
	return `save_report(md_report, business_name): saves the markdown report for the business to disk. Call this exactly once, when the report is final.`
}

func (t *SaveReportTool) Execute(_ context.Context, args map[string]string) (string, error) {
	mdReport := args["md_report"]
	if strings.TrimSpace(mdReport) == "" {
		return "", fmt.Errorf("no report content provided")
	}
	businessName := strings.TrimSpace(args["business_name"])
	if businessName == "" {
		return "", fmt.Errorf("no business name provided")
	}

	if err := os.MkdirAll(t.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create output directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s_report.md",
		sanitizeName(businessName), time.Now().Format("20060102_150405"))
	path := utils.UniquePath(filepath.Join(t.OutputDir, filename))

	if err := os.WriteFile(path, []byte(utils.CleanMarkdown(mdReport)), 0o644); err != nil {
		return "", fmt.Errorf("an error occurred while saving the report: %w", err)
	}

	t.LastSaved = path
	return fmt.Sprintf("Report saved to %s", path), nil
}

func sanitizeName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	if clean == "" {
		return "report"
	}
	return clean
}

package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/QueryType/bharattrader/pkg/core/llm"
	"github.com/QueryType/bharattrader/pkg/core/prompt"
	"github.com/QueryType/bharattrader/pkg/core/utils"
	"github.com/QueryType/bharattrader/pkg/models"
)

// action is the JSON envelope the model must reply with on every step:
// either a tool invocation or a final answer.
type action struct {
	Tool        string            `json:"tool,omitempty"`
	Args        map[string]string `json:"args,omitempty"`
	Thought     string            `json:"thought,omitempty"`
	FinalAnswer string            `json:"final_answer,omitempty"`
}

// Loop drives one business through a step-bounded research session.
type Loop struct {
	provider llm.Provider
	tools    map[string]Tool
	order    []string
	maxSteps int
	model    string
}

func NewLoop(provider llm.Provider, tools []Tool, maxSteps int, model string) *Loop {
	if maxSteps <= 0 {
		maxSteps = 20
	}
	l := &Loop{
		provider: provider,
		tools:    make(map[string]Tool, len(tools)),
		maxSteps: maxSteps,
		model:    model,
	}
	for _, t := range tools {
		l.tools[t.Name()] = t
		l.order = append(l.order, t.Name())
	}
	return l
}

// Result is the outcome of a single business run.
type Result struct {
	Business    models.Business
	ReportPath  string
	Verdict     models.Verdict
	FinalAnswer string
	Steps       int
}

const actionFormat = `Respond with a single JSON object on every turn, nothing else.
To use a tool: {"thought": "<why>", "tool": "<tool name>", "args": {"<arg>": "<value>"}}
When the report has been saved and you are done: {"final_answer": "<one line summary with the verdict>"}`

// Run executes the agent loop for one business. It fails if the step
// budget is exhausted before a report is saved.
func (l *Loop) Run(ctx context.Context, business models.Business) (*Result, error) {
	tpl, err := prompt.Get().GetTemplate(prompt.IDTurnaroundAnalyst)
	if err != nil {
		return nil, fmt.Errorf("AGENT_ERROR: %w", err)
	}
	sysPrompt, task := tpl.Render(prompt.Placeholders{
		Company:   business.Entry(),
		Timestamp: time.Now(),
	})

	system := strings.Join([]string{
		sysPrompt,
		"",
		"You have the following tools:",
		l.toolCatalog(),
		"",
		actionFormat,
	}, "\n")

	transcript := []string{"Task:\n" + task}
	saver := l.saveTool()

	for step := 1; step <= l.maxSteps; step++ {
		raw, err := l.provider.GenerateResponse(ctx, strings.Join(transcript, "\n\n"), system, map[string]interface{}{
			"model":       l.model,
			"temperature": 0.3,
		})
		if err != nil {
			return nil, fmt.Errorf("AGENT_ERROR: step %d generation failed: %w", step, err)
		}

		act, err := parseAction(raw)
		if err != nil {
			log.Warn().Int("step", step).Err(err).Msg("unparseable agent action, asking for a retry")
			transcript = append(transcript,
				"Your last reply was not valid JSON ("+err.Error()+"). "+actionFormat)
			continue
		}

		if act.FinalAnswer != "" {
			if saver == nil || saver.LastSaved == "" {
				transcript = append(transcript,
					"You answered before saving the report. Call save_report with the full markdown report first.")
				continue
			}
			return &Result{
				Business:    business,
				ReportPath:  saver.LastSaved,
				Verdict:     models.ExtractVerdict(act.FinalAnswer),
				FinalAnswer: act.FinalAnswer,
				Steps:       step,
			}, nil
		}

		tool, ok := l.tools[act.Tool]
		if !ok {
			transcript = append(transcript,
				fmt.Sprintf("Unknown tool %q. Available tools: %s.", act.Tool, strings.Join(l.order, ", ")))
			continue
		}

		log.Info().Int("step", step).Str("tool", act.Tool).Msg("agent step")
		observation, err := tool.Execute(ctx, act.Args)
		if err != nil {
			observation = "Tool error: " + err.Error()
		}
		transcript = append(transcript,
			fmt.Sprintf("Step %d, %s result:\n%s", step, act.Tool, observation))
	}

	return nil, fmt.Errorf("AGENT_ERROR: step budget of %d exhausted for %s without a saved report",
		l.maxSteps, business.Name)
}

func (l *Loop) toolCatalog() string {
	var b strings.Builder
	for _, name := range l.order {
		b.WriteString("- ")
		b.WriteString(l.tools[name].Description())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (l *Loop) saveTool() *SaveReportTool {
	if t, ok := l.tools["save_report"].(*SaveReportTool); ok {
		return t
	}
	return nil
}

// parseAction extracts the JSON action from a model reply, tolerating
// code fences and slightly malformed JSON.
func parseAction(raw string) (*action, error) {
	cleaned := utils.CleanMarkdown(raw)
	if i := strings.Index(cleaned, "{"); i > 0 {
		cleaned = cleaned[i:]
	}
	if i := strings.LastIndex(cleaned, "}"); i >= 0 && i < len(cleaned)-1 {
		cleaned = cleaned[:i+1]
	}

	var act action
	if _, err := utils.SmartParse(cleaned, &act); err != nil {
		return nil, err
	}
	if act.Tool == "" && act.FinalAnswer == "" {
		return nil, fmt.Errorf("reply contains neither a tool call nor a final_answer")
	}
	return &act, nil
}

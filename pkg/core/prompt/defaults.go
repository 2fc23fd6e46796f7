package prompt

// Built-in template IDs.
const (
	IDEquityResearch    = "report.equity_research"
	IDDocumentSummary   = "report.document_summary"
	IDImageAnalysis     = "convert.image_analysis"
	IDTurnaroundAnalyst = "agent.turnaround_analyst"
)

const equityResearchSystem = `You are a senior equity research analyst preparing an institutional-grade research report on {company}. Write in a measured, evidence-driven tone. Ground every claim in the supplied company documents; never invent figures. Where data is missing, say so explicitly. The report date is {timestamp}.`

const equityResearchUser = `Using the consolidated company information provided, write the requested section of an equity research report on {company}. Use markdown headings, keep tables where figures are compared, and cite the source document names where relevant.`

const documentSummarySystem = `You are a financial analyst summarizing key information about a company. Provide only the factual information from the document without analysis or conclusions.`

const documentSummaryUser = `Summarize the key information about {company} from this document, focusing on extracting factual data.`

const imageAnalysisUser = `Describe this image in detail, focusing on any financial data, charts, or business information visible.`

const turnaroundAnalystSystem = `You are an expert financial analyst specializing in identifying turnarounds in companies. You work in steps, using the tools offered to you, and you always answer with a single JSON object and nothing else.`

const turnaroundAnalystUser = `Analyze the company below for turnaround potential and produce a comprehensive markdown report. Follow these steps in sequence:
Step 1. Company/Business Name/Stock Codes: {company}.
Step 2. Analyse whether the business is experiencing a turnaround. Gather the latest information with the web_search tool: latest financial reports, news, and other relevant information about the company.
Step 3. After gathering enough information, prepare a report that includes a verdict about the turnaround potential. The verdict must be exactly one of "Strong Turnaround", "Weak Turnaround", or "No Turnaround".
Step 4. Format the report as a well-structured markdown document with these sections:
- Business Name
- Summary of Financial Data
- Analysis of Financial Health
- Turnaround Potential Verdict
Step 5. Persist the report with the save_report tool, passing the report content and the business name.

General instructions:
Today is: {timestamp}.
Check the tools available to you before reaching for anything else; cmd_executor can run read-only shell commands to gather more local information if needed.`

func registerBuiltins(r *Registry) {
	builtins := []*Template{
		{
			ID:           IDEquityResearch,
			Name:         "Equity Research Report",
			SystemPrompt: equityResearchSystem,
			UserPrompt:   equityResearchUser,
			Source:       "builtin",
		},
		{
			ID:           IDDocumentSummary,
			Name:         "Document Summary",
			SystemPrompt: documentSummarySystem,
			UserPrompt:   documentSummaryUser,
			Source:       "builtin",
		},
		{
			ID:           IDImageAnalysis,
			Name:         "Image Analysis",
			SystemPrompt: "",
			UserPrompt:   imageAnalysisUser,
			Source:       "builtin",
		},
		{
			ID:           IDTurnaroundAnalyst,
			Name:         "Turnaround Analyst",
			SystemPrompt: turnaroundAnalystSystem,
			UserPrompt:   turnaroundAnalystUser,
			Source:       "builtin",
		},
	}
	for _, t := range builtins {
		// Register cannot fail for non-empty IDs
		_ = r.Register(t)
	}
}

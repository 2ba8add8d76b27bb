package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"arai/internal/model"
	"arai/internal/planner"
)

const systemPrompt = `You are AR.AI, a senior marketing strategist. You write concrete, actionable plans for brand teams.
Answer in markdown. Use short headed sections and bullet points. Do not invent numbers the user did not give unless you label them as targets.`

const strategyPromptTemplate = `Create a quarterly marketing strategy for the brand below.

Brand: {{.Input.Brand}}
Product category: {{or .Input.Category "not specified"}}
Target market: {{or .Input.Market "not specified"}}
Primary goal: {{.Input.Goal}}
{{- if .Input.KPIs}}
KPIs to track: {{join .Input.KPIs ", "}}
{{- end}}
{{- if gt .Input.Budget 0.0}}
Quarterly budget: {{money .Input.Budget}}
{{- end}}

Include a SMART objective, the recommended channels with tactical initiatives, a content strategy built on three pillars, and how each KPI will be measured.
`

const contentCalendarPromptTemplate = `Draft a 12-week content calendar for {{.Input.Brand}} ({{or .Input.Category "product"}}) aimed at {{or .Input.Market "its target market"}}.
The primary goal is {{.Input.Goal}}. Follow this go-to-market sequence: {{join .Phases " -> "}}.

For every week give the channel, the content format, a one-line idea and the KPI it moves.
Present it as a markdown table.
`

const budgetRationalePromptTemplate = `{{.Input.Brand}} has a quarterly budget of {{money .Input.Budget}} split equally across these channels:
{{range .Allocations}}- {{.Channel}}: {{money .Amount}}
{{end}}
Explain what each channel's share should buy for a {{.Input.Goal}} goal, which signals would justify moving money between channels after the first month, and the minimum spend below which a channel is not worth running.
`

const refinePromptTemplate = `Here is the current marketing strategy:

{{.History}}

Revise or extend it following this instruction:
{{.Instruction}}

Return only the new or changed material, in markdown.
`

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join":  strings.Join,
	"money": planner.FormatAmount,
}).Parse(`{{define "strategy"}}` + strategyPromptTemplate + `{{end}}` +
	`{{define "content_calendar"}}` + contentCalendarPromptTemplate + `{{end}}` +
	`{{define "budget_rationale"}}` + budgetRationalePromptTemplate + `{{end}}` +
	`{{define "refine"}}` + refinePromptTemplate + `{{end}}`))

// PromptData is what the section templates are rendered with
type PromptData struct {
	Input       model.Input
	Phases      []string
	Allocations []model.Allocation
	History     string
	Instruction string
}

// GeneratePrompt renders the named prompt template with the given data
func GeneratePrompt(name string, data PromptData) (string, error) {
	var buffer bytes.Buffer
	if err := prompts.ExecuteTemplate(&buffer, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buffer.String(), nil
}

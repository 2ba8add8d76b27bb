package web

import (
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"arai/internal/model"
	"arai/internal/planner"
)

const layoutTemplate = `
{{define "head"}}<!DOCTYPE html>
<html>
<head>
    <title>{{.}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        * {
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background-color: #f5f5f5;
            color: #333;
            margin: 0;
            padding: 0;
        }
        .header {
            background: #1f1a17;
            color: #f3e9dc;
            padding: 1rem 0;
        }
        .header-content, .container {
            max-width: 960px;
            margin: 0 auto;
            padding: 0 1rem;
            display: flex;
            justify-content: space-between;
            align-items: center;
        }
        .container {
            display: block;
            margin: 2rem auto;
        }
        .logo {
            font-size: 1.5rem;
            font-weight: bold;
        }
        .header a {
            color: #f3e9dc;
        }
        .section {
            background: white;
            padding: 2rem;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            margin-bottom: 2rem;
        }
        label {
            display: block;
            font-weight: 600;
            margin: 1rem 0 0.25rem;
        }
        input[type=text], input[type=number], input[type=email], select, textarea {
            width: 100%;
            padding: 0.6rem;
            border: 1px solid #ccc;
            border-radius: 4px;
            font-size: 1rem;
        }
        .choices label {
            display: inline-block;
            font-weight: normal;
            margin-right: 1rem;
        }
        button, .button {
            display: inline-block;
            margin-top: 1rem;
            padding: 0.6rem 1.2rem;
            background: #6b4226;
            color: white;
            border: none;
            border-radius: 4px;
            text-decoration: none;
            font-size: 0.95rem;
            cursor: pointer;
        }
        .secondary {
            background: #888;
        }
        .notice {
            padding: 1rem;
            border-radius: 4px;
            margin-bottom: 1rem;
        }
        .warning {
            background: #fff3cd;
            border: 1px solid #ffe69c;
        }
        .error {
            background: #f8d7da;
            border: 1px solid #f1aeb5;
        }
        .info {
            background: #cff4fc;
            border: 1px solid #9eeaf9;
        }
        table {
            border-collapse: collapse;
            width: 100%;
        }
        th, td {
            border: 1px solid #ddd;
            padding: 0.5rem;
            text-align: left;
        }
        .actions form {
            display: inline-block;
            margin-right: 1rem;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="header-content">
            <div class="logo">AR.AI Marketing Intelligence</div>
            <a href="/history">History</a>
        </div>
    </div>
    <div class="container">
{{end}}
{{define "foot"}}
    </div>
</body>
</html>
{{end}}
{{define "notices"}}
        {{if .Warning}}<div class="notice warning">{{.Warning}}</div>{{end}}
        {{if .Error}}<div class="notice error">{{.Error}}</div>{{end}}
        {{if .Info}}<div class="notice info">{{.Info}}</div>{{end}}
{{end}}
`

const formTemplate = `{{template "head" "AR.AI Marketing Intelligence"}}
        {{template "notices" .}}
        <div class="section">
            <form method="post" action="/generate">
                <label for="brand">Brand name</label>
                <input type="text" id="brand" name="brand" value="{{.Input.Brand}}" placeholder="e.g. Cocoa Co">

                <label for="category">Product category</label>
                <input type="text" id="category" name="category" value="{{.Input.Category}}" placeholder="e.g. artisan chocolate">

                <label for="market">Target market</label>
                <input type="text" id="market" name="market" value="{{.Input.Market}}" placeholder="e.g. urban India">

                <label for="goal">Primary goal</label>
                <select id="goal" name="goal">
                    {{range .Goals}}<option value="{{.}}"{{if eq . $.Input.Goal}} selected{{end}}>{{.}}</option>
                    {{end}}
                </select>

                <label>KPIs to track</label>
                <div class="choices">
                    {{range .KPIs}}<label><input type="checkbox" name="kpis" value="{{.}}"{{if hasKPI $.Input.KPIs .}} checked{{end}}> {{.}}</label>
                    {{end}}
                </div>

                <label for="budget">Quarterly budget</label>
                <input type="number" id="budget" name="budget" min="0" step="0.01" value="{{budget .Input.Budget}}">

                <label>Mode</label>
                <div class="choices">
                    <label><input type="radio" name="mode" value="template"{{if ne .Mode "ai"}} checked{{end}}> Template</label>
                    <label><input type="radio" name="mode" value="ai"{{if eq .Mode "ai"}} checked{{end}}{{if not .AIEnabled}} disabled{{end}}> AI{{if not .AIEnabled}} (not configured){{end}}</label>
                </div>

                <button type="submit">Generate strategy</button>
            </form>
        </div>

        {{if .Result}}
        <div class="section">
            {{.Result}}
        </div>

        {{if .CanRefine}}
        <div class="section">
            <form method="post" action="/refine">
                <label for="instruction">Refine the strategy</label>
                <textarea id="instruction" name="instruction" rows="3" placeholder="e.g. Add a festive season push for Diwali"></textarea>
                <button type="submit">Refine</button>
            </form>
        </div>
        {{end}}

        <div class="section actions">
            <a class="button" href="/export/pdf">Download PDF</a>
            {{if gt .Input.Budget 0.0}}<a class="button" href="/export/csv">Budget CSV</a>{{end}}
            {{if .ShareEmail}}
            <form method="post" action="/share/email">
                <input type="email" name="recipient" placeholder="name@example.com">
                <button type="submit">Email PDF</button>
            </form>
            {{end}}
            {{if .ShareTelegram}}
            <form method="post" action="/share/telegram">
                <button type="submit">Send to Telegram</button>
            </form>
            {{end}}
            <form method="post" action="/reset">
                <button type="submit" class="secondary">Start over</button>
            </form>
        </div>
        {{end}}
{{template "foot"}}`

const historyTemplate = `{{template "head" "AR.AI History"}}
        {{template "notices" .}}
        <div class="section">
            <h2>Recent strategies</h2>
            {{if .Reports}}
            <table>
                <tr><th>Date</th><th>Brand</th><th>Goal</th><th>Budget</th><th>Mode</th></tr>
                {{range .Reports}}
                <tr>
                    <td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
                    <td>{{.Brand}}</td>
                    <td>{{.Goal}}</td>
                    <td>{{money .Budget}}</td>
                    <td>{{.Mode}}</td>
                </tr>
                {{end}}
            </table>
            {{else}}
            <p>No strategies saved yet.</p>
            {{end}}
            <a class="button" href="/">Back to the form</a>
        </div>
{{template "foot"}}`

var funcs = template.FuncMap{
	"hasKPI": func(selected []string, kpi string) bool {
		return slices.Contains(selected, kpi)
	},
	"budget": func(v float64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"money": planner.FormatAmount,
}

var (
	formPage    = template.Must(template.New("form").Funcs(funcs).Parse(layoutTemplate + formTemplate))
	historyPage = template.Must(template.New("history").Funcs(funcs).Parse(layoutTemplate + historyTemplate))
)

type notices struct {
	Warning string
	Error   string
	Info    string
}

type formData struct {
	notices
	Goals         []model.Goal
	KPIs          []string
	Input         model.Input
	Mode          model.Mode
	AIEnabled     bool
	Result        template.HTML
	CanRefine     bool
	ShareEmail    bool
	ShareTelegram bool
}

type historyData struct {
	notices
	Reports []model.Report
}

func (s *Server) newFormData() formData {
	return formData{
		Goals:         model.GetGoals(),
		KPIs:          model.GetKPIs(),
		Input:         model.Input{Goal: model.GoalSalesGrowth},
		Mode:          model.ModeTemplate,
		AIEnabled:     s.aiEnabled(),
		ShareEmail:    s.sharers[ChannelEmail] != nil,
		ShareTelegram: s.sharers[ChannelTelegram] != nil,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		s.logger.Errorf("Failed to render page: %v", err)
	}
}

package planner

import (
	"fmt"
	"strings"

	"arai/internal/model"
)

const (
	coreStrategy   = "Core Strategy: Move beyond simple product shots. Every piece of content must reinforce the brand's premium value through storytelling. We will focus on the three pillars of luxury content."
	recommendation = "AR.AI Recommendation: Review performance weekly and iterate aggressively."
)

// Plan is the fully assembled template-mode strategy
type Plan struct {
	Input       model.Input        `json:"input"`
	Headline    string             `json:"headline"`
	Objective   string             `json:"objective"`
	Tactics     []string           `json:"tactics"`
	Pillars     []Pillar           `json:"pillars"`
	KPIs        []string           `json:"kpis"`
	Channels    []string           `json:"channels"`
	Allocations []model.Allocation `json:"allocations"`
	Phases      []string           `json:"phases"`
	Optimize    []string           `json:"optimization"`
	Advice      string             `json:"recommendation"`
}

// Build validates the input and assembles every section of the plan.
// KPIs picked by the user win over the goal's defaults.
func (p *Planner) Build(in model.Input) (Plan, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Plan{}, err
	}

	kpis := in.KPIs
	if len(kpis) == 0 {
		kpis = p.KPIsForGoal(in.Goal)
	}

	channels := p.ChannelsForBudget(in.Budget)

	return Plan{
		Input:       in,
		Headline:    fmt.Sprintf("AR.AI Strategy Generated for %s", in.Brand),
		Objective:   Objective(in),
		Tactics:     Tactics(in),
		Pillars:     ContentPillars(in),
		KPIs:        kpis,
		Channels:    channels,
		Allocations: AllocateBudget(in.Budget, channels),
		Phases:      p.PhasesForGoal(in.Goal),
		Optimize:    OptimizationLogic(),
		Advice:      recommendation,
	}, nil
}

// Build assembles a plan from the built-in playbook
func Build(in model.Input) (Plan, error) {
	return defaultPlanner.Build(in)
}

// Sections returns the plan as ordered titled blocks of markdown
func (p Plan) Sections() []model.Section {
	sections := []model.Section{
		{Title: "Quarterly SMART Objective", Text: p.Objective},
		{Title: "Recommended Channels & Tactical Initiatives", Text: bullets(p.Tactics)},
		{Title: "Specific Content Strategy: The Luxury Narrative for " + p.Input.Brand, Text: p.pillarsText()},
		{Title: "Quarterly Measurables & KPIs", Text: "Primary KPIs to track: **" + strings.Join(p.KPIs, ", ") + "**"},
	}

	if len(p.Allocations) > 0 {
		lines := make([]string, 0, len(p.Allocations)+1)
		for _, a := range p.Allocations {
			lines = append(lines, fmt.Sprintf("**%s:** %s", a.Channel, FormatAmount(a.Amount)))
		}
		lines = append(lines, fmt.Sprintf("**Total:** %s", FormatAmount(p.Input.Budget)))
		sections = append(sections, model.Section{Title: "Budget Allocation", Text: bullets(lines)})
	}

	phases := make([]string, len(p.Phases))
	for i, ph := range p.Phases {
		phases[i] = fmt.Sprintf("%d. %s", i+1, ph)
	}

	sections = append(sections,
		model.Section{Title: "Go-To-Market Sequence", Text: strings.Join(phases, "\n")},
		model.Section{Title: "Optimization Logic", Text: bullets(p.Optimize)},
		model.Section{Title: "Recommendation", Text: p.Advice},
	)
	return sections
}

// Markdown renders the whole plan
func (p Plan) Markdown() string {
	return "# " + p.Headline + "\n\n" + model.JoinSections(p.Sections())
}

func (p Plan) pillarsText() string {
	var b strings.Builder
	b.WriteString(coreStrategy)
	for _, pl := range p.Pillars {
		b.WriteString("\n\n### ")
		b.WriteString(pl.Title)
		b.WriteString("\n\n")
		b.WriteString(pl.Intro)
		b.WriteString("\n\n")
		b.WriteString(bullets(pl.Items))
	}
	return b.String()
}

// FormatAmount prints an amount with two decimals and thousands separators
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}

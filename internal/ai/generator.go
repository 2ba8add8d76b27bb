package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"arai/internal/metrics"
	"arai/internal/model"
	"arai/internal/planner"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyInstruction = errors.New("refine instruction is empty")
	ErrNoHistory        = errors.New("nothing to refine yet")
)

type sectionPrompt struct {
	name  string
	title string
}

var sectionPrompts = []sectionPrompt{
	{name: "strategy", title: "Marketing Strategy"},
	{name: "content_calendar", title: "Content Calendar"},
	{name: "budget_rationale", title: "Budget Rationale"},
}

// Generator produces the AI-mode sections one prompt at a time
type Generator struct {
	completer Completer
	planner   *planner.Planner
	logger    *logrus.Logger
}

func NewGenerator(completer Completer, p *planner.Planner, logger *logrus.Logger) *Generator {
	if p == nil {
		p = planner.New(planner.DefaultPlaybook())
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{completer: completer, planner: p, logger: logger}
}

// Generate runs the section prompts in order. The first failure stops the run.
// The budget rationale is skipped when no budget was given.
func (g *Generator) Generate(ctx context.Context, in model.Input) ([]model.Section, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	channels := g.planner.ChannelsForBudget(in.Budget)
	data := PromptData{
		Input:       in,
		Phases:      g.planner.PhasesForGoal(in.Goal),
		Allocations: planner.AllocateBudget(in.Budget, channels),
	}

	log := g.logger.WithFields(logrus.Fields{"brand": in.Brand, "goal": in.Goal})

	sections := make([]model.Section, 0, len(sectionPrompts))
	for _, sp := range sectionPrompts {
		if sp.name == "budget_rationale" && len(data.Allocations) == 0 {
			continue
		}

		text, err := g.complete(ctx, sp.name, data)
		if err != nil {
			log.Errorf("Failed to generate %s: %v", sp.name, err)
			return sections, fmt.Errorf("%s: %w", sp.name, err)
		}
		sections = append(sections, model.Section{Title: sp.title, Text: text})
	}

	log.Infof("Generated %d sections", len(sections))
	return sections, nil
}

// Refine asks for a follow-up on top of the accumulated text
func (g *Generator) Refine(ctx context.Context, history, instruction string) (model.Section, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return model.Section{}, ErrEmptyInstruction
	}
	if strings.TrimSpace(history) == "" {
		return model.Section{}, ErrNoHistory
	}

	text, err := g.complete(ctx, "refine", PromptData{History: history, Instruction: instruction})
	if err != nil {
		g.logger.Errorf("Failed to refine strategy: %v", err)
		return model.Section{}, fmt.Errorf("refine: %w", err)
	}

	return model.Section{Title: refineTitle(instruction), Text: text}, nil
}

func (g *Generator) complete(ctx context.Context, name string, data PromptData) (string, error) {
	prompt, err := GeneratePrompt(name, data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := g.completer.Complete(ctx, systemPrompt, prompt)
	metrics.LLMRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return text, err
}

func refineTitle(instruction string) string {
	const maxLen = 60
	instruction = strings.Join(strings.Fields(instruction), " ")
	r := []rune(instruction)
	if len(r) > maxLen {
		instruction = strings.TrimSpace(string(r[:maxLen])) + "..."
	}
	return "Refinement: " + instruction
}

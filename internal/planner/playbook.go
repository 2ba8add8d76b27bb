package planner

import (
	"errors"
	"fmt"
	"os"

	"arai/internal/model"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPlaybook = errors.New("invalid playbook")

// Band maps budgets strictly below Below to a channel list. A zero Below
// marks the open-ended top band.
type Band struct {
	Below    float64  `yaml:"below"`
	Channels []string `yaml:"channels"`
}

// Playbook holds the static lookup tables the plan is assembled from.
type Playbook struct {
	KPIs              map[model.Goal][]string `yaml:"kpis"`
	BudgetBands       []Band                  `yaml:"budget_bands"`
	AwarenessPhases   []string                `yaml:"awareness_phases"`
	PerformancePhases []string                `yaml:"performance_phases"`
}

func DefaultPlaybook() Playbook {
	return Playbook{
		KPIs: map[model.Goal][]string{
			model.GoalSalesGrowth:       {model.KPIRevenue, model.KPIROAS, model.KPIAOV, model.KPIConversionRate},
			model.GoalBrandAwareness:    {"Impressions", "Reach", model.KPIEngagementRate},
			model.GoalLeadGeneration:    {"Leads", "CPL (Cost per Lead)", model.KPIConversionRate},
			model.GoalCustomerRetention: {model.KPIRepeatRate, "CLV (Customer Lifetime Value)", "Churn Rate"},
		},
		BudgetBands: []Band{
			{Below: 50000, Channels: []string{"Instagram", "Google Search"}},
			{Below: 200000, Channels: []string{"Instagram", "Google Search", "YouTube", "Email"}},
			{Channels: []string{"Instagram", "Google Search", "YouTube", "Email", "Influencers", "LinkedIn"}},
		},
		AwarenessPhases:   []string{"Awareness", "Consideration", "Conversion"},
		PerformancePhases: []string{"Acquisition", "Conversion", "Retention"},
	}
}

// LoadPlaybook reads a YAML override on top of the defaults. Keys missing
// from the file keep their default tables.
func LoadPlaybook(path string) (Playbook, error) {
	pb := DefaultPlaybook()

	data, err := os.ReadFile(path)
	if err != nil {
		return pb, fmt.Errorf("failed to read playbook: %w", err)
	}

	if err := yaml.Unmarshal(data, &pb); err != nil {
		return pb, fmt.Errorf("failed to parse playbook: %w", err)
	}

	if err := pb.Validate(); err != nil {
		return pb, err
	}

	return pb, nil
}

func (pb Playbook) Validate() error {
	for goal, kpis := range pb.KPIs {
		if !goal.IsValid() {
			return fmt.Errorf("%w: unknown goal %q", ErrInvalidPlaybook, goal)
		}
		if len(kpis) == 0 {
			return fmt.Errorf("%w: no KPIs for %q", ErrInvalidPlaybook, goal)
		}
	}

	if len(pb.BudgetBands) == 0 {
		return fmt.Errorf("%w: no budget bands", ErrInvalidPlaybook)
	}
	prev := 0.0
	for i, band := range pb.BudgetBands {
		if len(band.Channels) == 0 {
			return fmt.Errorf("%w: band %d has no channels", ErrInvalidPlaybook, i)
		}
		last := i == len(pb.BudgetBands)-1
		if last {
			if band.Below != 0 {
				return fmt.Errorf("%w: the last band must be open ended", ErrInvalidPlaybook)
			}
			continue
		}
		if band.Below <= prev {
			return fmt.Errorf("%w: band thresholds must increase", ErrInvalidPlaybook)
		}
		prev = band.Below
	}

	if len(pb.AwarenessPhases) == 0 || len(pb.PerformancePhases) == 0 {
		return fmt.Errorf("%w: phase lists cannot be empty", ErrInvalidPlaybook)
	}

	return nil
}

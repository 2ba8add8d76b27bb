package planner

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arai/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKPIsForGoal(t *testing.T) {
	tests := []struct {
		goal model.Goal
		want []string
	}{
		{goal: model.GoalSalesGrowth, want: []string{model.KPIRevenue, model.KPIROAS, model.KPIAOV, model.KPIConversionRate}},
		{goal: model.GoalBrandAwareness, want: []string{"Impressions", "Reach", model.KPIEngagementRate}},
		{goal: model.GoalLeadGeneration, want: []string{"Leads", "CPL (Cost per Lead)", model.KPIConversionRate}},
		{goal: model.GoalCustomerRetention, want: []string{model.KPIRepeatRate, "CLV (Customer Lifetime Value)", "Churn Rate"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.goal), func(t *testing.T) {
			assert.Equal(t, tt.want, KPIsForGoal(tt.goal))
		})
	}

	assert.Empty(t, KPIsForGoal("Unknown"))
}

func TestKPIsForGoalReturnsCopy(t *testing.T) {
	kpis := KPIsForGoal(model.GoalSalesGrowth)
	kpis[0] = "mutated"
	assert.Equal(t, model.KPIRevenue, KPIsForGoal(model.GoalSalesGrowth)[0])
}

func TestChannelsForBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget float64
		want   int
	}{
		{name: "zero", budget: 0, want: 2},
		{name: "small", budget: 49999.99, want: 2},
		{name: "first threshold", budget: 50000, want: 4},
		{name: "medium", budget: 199999, want: 4},
		{name: "second threshold", budget: 200000, want: 6},
		{name: "large", budget: 5000000, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ChannelsForBudget(tt.budget), tt.want)
		})
	}
}

func TestPhasesForGoal(t *testing.T) {
	assert.Equal(t, []string{"Awareness", "Consideration", "Conversion"}, PhasesForGoal(model.GoalBrandAwareness))
	for _, g := range []model.Goal{model.GoalSalesGrowth, model.GoalLeadGeneration, model.GoalCustomerRetention} {
		assert.Equal(t, []string{"Acquisition", "Conversion", "Retention"}, PhasesForGoal(g), g)
	}
}

func TestAllocateBudget(t *testing.T) {
	tests := []struct {
		name     string
		budget   float64
		channels []string
		want     []float64
	}{
		{name: "even split", budget: 100, channels: []string{"a", "b", "c", "d"}, want: []float64{25, 25, 25, 25}},
		{name: "rounded down share", budget: 100, channels: []string{"a", "b", "c"}, want: []float64{33.33, 33.33, 33.34}},
		{name: "rounded up share", budget: 200, channels: []string{"a", "b", "c"}, want: []float64{66.67, 66.67, 66.66}},
		{name: "single channel", budget: 1234.56, channels: []string{"a"}, want: []float64{1234.56}},
		{name: "sub-cent shares", budget: 0.04, channels: []string{"a", "b", "c", "d", "e", "f"}, want: []float64{0, 0, 0, 0, 0, 0.04}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocateBudget(tt.budget, tt.channels)
			require.Len(t, got, len(tt.want))
			for i, a := range got {
				assert.Equal(t, tt.channels[i], a.Channel)
				assert.InDelta(t, tt.want[i], a.Amount, 1e-9)
			}
		})
	}
}

func TestAllocateBudgetSumsToBudget(t *testing.T) {
	for _, budget := range []float64{1, 99.99, 100, 1000, 12345.67, 250000} {
		for n := 1; n <= 7; n++ {
			channels := make([]string, n)
			for i := range channels {
				channels[i] = string(rune('a' + i))
			}

			got := AllocateBudget(budget, channels)
			var cents int64
			share := math.Round(math.Round(budget*100)/float64(n)) / 100
			for i, a := range got {
				cents += int64(math.Round(a.Amount * 100))
				if i < n-1 {
					assert.InDelta(t, share, a.Amount, 1e-9, "budget %v n %d", budget, n)
				}
			}
			assert.Equal(t, int64(math.Round(budget*100)), cents, "budget %v n %d", budget, n)
		}
	}
}

func TestAllocateBudgetEmpty(t *testing.T) {
	assert.Empty(t, AllocateBudget(1000, nil))
	assert.Empty(t, AllocateBudget(0, []string{"a"}))

	for _, budget := range []float64{1e17, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Empty(t, AllocateBudget(budget, []string{"a", "b"}), "budget %v", budget)
	}
}

func TestAllocateBudgetMaximum(t *testing.T) {
	got := AllocateBudget(model.MaxBudget, []string{"a", "b", "c"})
	require.Len(t, got, 3)

	var cents int64
	for _, a := range got {
		assert.Greater(t, a.Amount, 0.0)
		cents += int64(math.Round(a.Amount * 100))
	}
	assert.Equal(t, int64(model.MaxBudget*100), cents)
}

func TestBuildRejectsUnboundedBudget(t *testing.T) {
	for _, budget := range []float64{1e17, 1e300, math.NaN(), math.Inf(1)} {
		_, err := Build(model.Input{Brand: "Cocoa Co", Goal: model.GoalSalesGrowth, Budget: budget})
		assert.True(t, errors.Is(err, model.ErrInvalidBudget), "budget %v: %v", budget, err)
	}
}

func TestBuild(t *testing.T) {
	plan, err := Build(model.Input{
		Brand:    " Cocoa Co ",
		Category: "chocolate",
		Market:   "India Urban",
		Goal:     model.GoalBrandAwareness,
		Budget:   60000,
	})
	require.NoError(t, err)

	assert.Equal(t, "AR.AI Strategy Generated for Cocoa Co", plan.Headline)
	assert.Contains(t, plan.Objective, "**Cocoa Co**")
	assert.Equal(t, KPIsForGoal(model.GoalBrandAwareness), plan.KPIs)
	assert.Len(t, plan.Allocations, 4)
	assert.Equal(t, []string{"Awareness", "Consideration", "Conversion"}, plan.Phases)
	assert.Contains(t, strings.Join(plan.Tactics, "\n"), "sustainable artisan chocolate in India Urban")
}

func TestBuildKeepsSelectedKPIs(t *testing.T) {
	plan, err := Build(model.Input{
		Brand: "Cocoa Co",
		Goal:  model.GoalSalesGrowth,
		KPIs:  []string{model.KPICAC},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{model.KPICAC}, plan.KPIs)
	assert.Empty(t, plan.Allocations)
}

func TestBuildFillsPlaceholders(t *testing.T) {
	plan, err := Build(model.Input{
		Brand:    "Cocoa Co",
		Category: "truffles",
		Market:   "US SMBs",
		Goal:     model.GoalLeadGeneration,
	})
	require.NoError(t, err)

	md := plan.Markdown()
	assert.NotContains(t, md, "{market}")
	assert.NotContains(t, md, "{category}")
	assert.Contains(t, md, "**US SMBs** market")
	assert.Contains(t, md, "Luxury truffles Pairing Guide")
}

func TestBuildMissingBrand(t *testing.T) {
	_, err := Build(model.Input{Goal: model.GoalSalesGrowth})
	assert.True(t, errors.Is(err, model.ErrMissingBrand))
}

func TestPlanSections(t *testing.T) {
	plan, err := Build(model.Input{Brand: "Cocoa Co", Goal: model.GoalCustomerRetention, Budget: 1000})
	require.NoError(t, err)

	var titles []string
	for _, s := range plan.Sections() {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Quarterly SMART Objective",
		"Recommended Channels & Tactical Initiatives",
		"Specific Content Strategy: The Luxury Narrative for Cocoa Co",
		"Quarterly Measurables & KPIs",
		"Budget Allocation",
		"Go-To-Market Sequence",
		"Optimization Logic",
		"Recommendation",
	}, titles)

	md := plan.Markdown()
	assert.True(t, strings.HasPrefix(md, "# AR.AI Strategy Generated for Cocoa Co"))
	assert.Contains(t, md, "**Instagram:** 500.00")
	assert.Contains(t, md, "**Total:** 1,000.00")
	assert.Contains(t, md, "1. Acquisition")
}

func TestFormatAmount(t *testing.T) {
	tests := map[float64]string{
		0:           "0.00",
		999.5:       "999.50",
		1000:        "1,000.00",
		1234567.891: "1,234,567.89",
		-2500:       "-2,500.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatAmount(in))
	}
}

func TestLoadPlaybook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbook.yaml")
	err := os.WriteFile(path, []byte(`
kpis:
  Sales Growth: [Revenue, Margin]
budget_bands:
  - below: 1000
    channels: [Email]
  - channels: [Email, Instagram]
`), 0o600)
	require.NoError(t, err)

	pb, err := LoadPlaybook(path)
	require.NoError(t, err)

	p := New(pb)
	assert.Equal(t, []string{"Revenue", "Margin"}, p.KPIsForGoal(model.GoalSalesGrowth))
	assert.Equal(t, KPIsForGoal(model.GoalBrandAwareness), p.KPIsForGoal(model.GoalBrandAwareness))
	assert.Equal(t, []string{"Email"}, p.ChannelsForBudget(999))
	assert.Equal(t, []string{"Email", "Instagram"}, p.ChannelsForBudget(1000))
	assert.Equal(t, PhasesForGoal(model.GoalBrandAwareness), p.PhasesForGoal(model.GoalBrandAwareness))
}

func TestLoadPlaybookInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown goal":       "kpis:\n  Fame: [Likes]\n",
		"closed last band":   "budget_bands:\n  - below: 10\n    channels: [Email]\n",
		"decreasing bands":   "budget_bands:\n  - below: 10\n    channels: [a]\n  - below: 5\n    channels: [b]\n  - channels: [c]\n",
		"band with no reach": "budget_bands:\n  - channels: []\n",
		"not yaml":           "kpis: [",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "playbook.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, err := LoadPlaybook(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadPlaybook(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGoal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Goal
		wantErr bool
	}{
		{name: "exact", input: "Sales Growth", want: GoalSalesGrowth},
		{name: "lower case", input: "brand awareness", want: GoalBrandAwareness},
		{name: "padded", input: "  Lead Generation ", want: GoalLeadGeneration},
		{name: "retention", input: "Customer Retention", want: GoalCustomerRetention},
		{name: "unknown", input: "World Domination", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGoal(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseGoal() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseGoal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoalScan(t *testing.T) {
	var g Goal
	assert.NoError(t, g.Scan("Brand Awareness"))
	assert.Equal(t, GoalBrandAwareness, g)
	assert.NoError(t, g.Scan([]byte("Sales Growth")))
	assert.Equal(t, GoalSalesGrowth, g)
	assert.Error(t, g.Scan(nil))
	assert.Error(t, g.Scan(42))

	v, err := GoalLeadGeneration.Value()
	assert.NoError(t, err)
	assert.Equal(t, "Lead Generation", v)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeAI, ParseMode("AI"))
	assert.Equal(t, ModeTemplate, ParseMode("template"))
	assert.Equal(t, ModeTemplate, ParseMode(""))
}

func TestInputNormalize(t *testing.T) {
	in := Input{
		Brand:  "  Cocoa Co ",
		Market: " India Urban",
		Goal:   "sales growth",
		KPIs:   []string{"Revenue", " ", "Revenue", " CAC (Customer Acquisition Cost) "},
	}
	in.Normalize()

	assert.Equal(t, "Cocoa Co", in.Brand)
	assert.Equal(t, "India Urban", in.Market)
	assert.Equal(t, GoalSalesGrowth, in.Goal)
	assert.Equal(t, []string{"Revenue", "CAC (Customer Acquisition Cost)"}, in.KPIs)
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{name: "valid", in: Input{Brand: "Cocoa Co", Goal: GoalSalesGrowth, Budget: 1000}},
		{name: "missing brand", in: Input{Brand: "  ", Goal: GoalSalesGrowth}, want: ErrMissingBrand},
		{name: "invalid goal", in: Input{Brand: "Cocoa Co", Goal: "Fame"}, want: ErrInvalidGoal},
		{name: "negative budget", in: Input{Brand: "Cocoa Co", Goal: GoalBrandAwareness, Budget: -1}, want: ErrNegativeBudget},
		{name: "maximum budget", in: Input{Brand: "Cocoa Co", Goal: GoalSalesGrowth, Budget: MaxBudget}},
		{name: "budget above maximum", in: Input{Brand: "Cocoa Co", Goal: GoalSalesGrowth, Budget: 1e17}, want: ErrInvalidBudget},
		{name: "NaN budget", in: Input{Brand: "Cocoa Co", Goal: GoalSalesGrowth, Budget: math.NaN()}, want: ErrInvalidBudget},
		{name: "infinite budget", in: Input{Brand: "Cocoa Co", Goal: GoalSalesGrowth, Budget: math.Inf(1)}, want: ErrInvalidBudget},
		{name: "negative infinite budget", in: Input{Brand: "Cocoa Co", Goal: GoalSalesGrowth, Budget: math.Inf(-1)}, want: ErrInvalidBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestJoinSections(t *testing.T) {
	got := JoinSections([]Section{
		{Title: "Strategy", Text: "Grow.\n"},
		{Text: "untitled"},
		{Title: "Refinement", Text: " Grow faster. "},
	})
	assert.Equal(t, "## Strategy\n\nGrow.\n\nuntitled\n\n## Refinement\n\nGrow faster.", got)
	assert.Empty(t, JoinSections(nil))
}

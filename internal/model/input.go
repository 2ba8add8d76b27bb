package model

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrMissingBrand   = errors.New("please enter a brand name to generate the plan")
	ErrInvalidGoal    = errors.New("invalid marketing goal")
	ErrNegativeBudget = errors.New("budget cannot be negative")
	ErrInvalidBudget  = errors.New("budget must be a finite number up to the maximum")
)

// MaxBudget is the largest accepted budget. Allocations are computed in
// int64 cents, so the cap keeps well clear of overflow.
const MaxBudget = 1e12

// KPI labels offered on the form. They are display strings only.
const (
	KPIRevenue        = "Revenue"
	KPIROAS           = "ROAS (Return on Ad Spend)"
	KPICAC            = "CAC (Customer Acquisition Cost)"
	KPIEngagementRate = "Engagement Rate"
	KPIConversionRate = "Conversion Rate"
	KPIAOV            = "AOV (Average Order Value)"
	KPIRepeatRate     = "Repeat Rate"
)

func GetKPIs() []string {
	return []string{
		KPIRevenue,
		KPIROAS,
		KPICAC,
		KPIEngagementRate,
		KPIConversionRate,
		KPIAOV,
		KPIRepeatRate,
	}
}

// Input holds the fields of one form submission
type Input struct {
	Brand    string   `json:"brand"`
	Category string   `json:"category"`
	Market   string   `json:"market"`
	Goal     Goal     `json:"goal"`
	KPIs     []string `json:"kpis"`
	Budget   float64  `json:"budget"`
}

// Normalize trims every field and drops blank or repeated KPIs, keeping order
func (in *Input) Normalize() {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Category = strings.TrimSpace(in.Category)
	in.Market = strings.TrimSpace(in.Market)
	if g, err := ParseGoal(string(in.Goal)); err == nil {
		in.Goal = g
	}

	seen := make(map[string]struct{}, len(in.KPIs))
	kpis := make([]string, 0, len(in.KPIs))
	for _, k := range in.KPIs {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		kpis = append(kpis, k)
	}
	in.KPIs = kpis
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.Brand) == "" {
		return ErrMissingBrand
	}
	if !in.Goal.IsValid() {
		return ErrInvalidGoal
	}
	if math.IsNaN(in.Budget) || math.IsInf(in.Budget, 0) || in.Budget > MaxBudget {
		return ErrInvalidBudget
	}
	if in.Budget < 0 {
		return ErrNegativeBudget
	}
	return nil
}

// Allocation is one channel's share of the budget
type Allocation struct {
	Channel string  `json:"channel"`
	Amount  float64 `json:"amount"`
}

// Package planner assembles the template-mode strategy from static tables.
package planner

import (
	"fmt"
	"math"

	"arai/internal/model"
)

type Planner struct {
	playbook Playbook
}

func New(pb Playbook) *Planner {
	return &Planner{playbook: pb}
}

var defaultPlanner = New(DefaultPlaybook())

// KPIsForGoal returns the KPI labels tracked for the goal
func (p *Planner) KPIsForGoal(goal model.Goal) []string {
	return clone(p.playbook.KPIs[goal])
}

// ChannelsForBudget picks the channel list of the first band the budget falls in
func (p *Planner) ChannelsForBudget(budget float64) []string {
	for _, band := range p.playbook.BudgetBands {
		if band.Below == 0 || budget < band.Below {
			return clone(band.Channels)
		}
	}
	return nil
}

// PhasesForGoal returns the go-to-market sequence. Awareness goals get the
// funnel-top sequence, every other goal the performance one.
func (p *Planner) PhasesForGoal(goal model.Goal) []string {
	if goal == model.GoalBrandAwareness {
		return clone(p.playbook.AwarenessPhases)
	}
	return clone(p.playbook.PerformancePhases)
}

func KPIsForGoal(goal model.Goal) []string     { return defaultPlanner.KPIsForGoal(goal) }
func ChannelsForBudget(budget float64) []string { return defaultPlanner.ChannelsForBudget(budget) }
func PhasesForGoal(goal model.Goal) []string    { return defaultPlanner.PhasesForGoal(goal) }

// AllocateBudget splits the budget equally across channels at cent precision.
// Every entry but the last is round(budget/n, 2); the last takes the remainder
// so the entries add up to the budget. Budgets that are not finite or exceed
// model.MaxBudget get no allocation.
func AllocateBudget(budget float64, channels []string) []model.Allocation {
	if len(channels) == 0 || !(budget > 0 && budget <= model.MaxBudget) {
		return nil
	}

	total := int64(math.Round(budget * 100))
	n := int64(len(channels))
	share := int64(math.Round(float64(total) / float64(n)))
	if share*(n-1) > total {
		// Sub-cent shares: rounding up would leave the last channel negative.
		share = total / n
	}

	allocations := make([]model.Allocation, 0, len(channels))
	for i, ch := range channels {
		cents := share
		if i == len(channels)-1 {
			cents = total - share*(n-1)
		}
		allocations = append(allocations, model.Allocation{
			Channel: ch,
			Amount:  float64(cents) / 100,
		})
	}
	return allocations
}

// Objective is the quarterly SMART objective for the goal
func Objective(in model.Input) string {
	switch in.Goal {
	case model.GoalSalesGrowth:
		return fmt.Sprintf("**%s** will achieve a **25%% increase in e-commerce revenue** by the end of the quarter by optimizing performance campaigns and increasing **AOV**.", in.Brand)
	case model.GoalBrandAwareness:
		return fmt.Sprintf("**%s** will increase **Social Media Impressions by 40%%** and **Organic Search Traffic by 20%%** to establish itself as a premium category leader.", in.Brand)
	case model.GoalLeadGeneration:
		return fmt.Sprintf("**%s** will generate **500 new qualified email subscribers** through gated content and tasting event sign-ups, focusing on **CPL** below industry average.", in.Brand)
	default:
		return fmt.Sprintf("**%s** will improve **Repeat Purchase Rate by 15%%** and increase **Customer Lifetime Value (CLV)** through personalized loyalty programs and exclusive offers.", in.Brand)
	}
}

// Tactics lists the recommended channel initiatives for the goal
func Tactics(in model.Input) []string {
	category := orDefault(in.Category, "product")
	market := orDefault(in.Market, "target")

	switch in.Goal {
	case model.GoalBrandAwareness:
		return []string{
			fmt.Sprintf("**Instagram & YouTube Reels:** Focus on aspirational lifestyle videos and celebrity/influencer collaborations for **%s**.", in.Brand),
			fmt.Sprintf("**PR & Media:** Target high-end %s and lifestyle publications for features.", category),
			fmt.Sprintf("**SEO:** Target high-value, niche keywords (e.g., 'sustainable artisan %s in %s').", category, market),
		}
	case model.GoalSalesGrowth:
		return []string{
			"**Meta Performance Ads (Instagram/FB):** Use DCO (Dynamic Creative Optimization) for retargeting high-intent customers and lookalike audiences.",
			"**Google Shopping:** Optimize product feeds for high-margin items.",
			"**E-mail:** Launch flash sales and abandoned cart recovery sequences.",
		}
	case model.GoalLeadGeneration:
		return []string{
			fmt.Sprintf("**LinkedIn/Business Partnerships:** Run targeted campaigns for B2B/Corporate gifting leads in the **%s** market.", market),
			fmt.Sprintf("**Gated Content:** Offer a 'Luxury %s Pairing Guide' (PDF) in exchange for email.", category),
			"**Local Experiential Events:** Promote ticketed tasting events in target metro cities.",
		}
	default:
		return []string{
			fmt.Sprintf("**Loyalty Program:** Launch a tiered points-based system (Gold, Platinum) with early access to new **%s** products.", in.Brand),
			"**WhatsApp CRM:** Use personalized broadcast messages for birthdays, anniversaries, and restocking alerts.",
			"**Exclusive Content:** Send 'Behind the Bean' educational content only to existing customers.",
		}
	}
}

// Pillar is one of the three content pillars of the luxury narrative
type Pillar struct {
	Title string
	Intro string
	Items []string
}

func ContentPillars(in model.Input) []Pillar {
	category := orDefault(in.Category, "product")
	market := orDefault(in.Market, "target")

	return []Pillar{
		{
			Title: "1. The Heritage & Sourcing (Authority)",
			Intro: fmt.Sprintf("Content that establishes *why* **%s's** product is worth the premium price.", in.Brand),
			Items: []string{
				`**Video:** **"The Origin Story"** - Short Reel/TikTok of a hand-selection process, focusing on the texture, soil, and the sound of the bean-to-bar process.`,
				"**Photo:** Macro shots of **raw ingredients** (e.g., rare vanilla beans or specific spices) with dark, moody lighting.",
				`**Caption Theme:** "Crafted from beans so rare, they're found only at [Region Name]."`,
			},
		},
		{
			Title: "2. The Craftsmanship & Expertise (Quality)",
			Intro: fmt.Sprintf("Content that highlights the skill, time, and care that goes into **%s's** %s.", in.Brand, category),
			Items: []string{
				`**Video:** **"The Perfect Temper"** - Slow-motion ASMR video of the artisan tempering on marble, ending with the 'snap' test (or a similar craft element for the product category).`,
				fmt.Sprintf("**Photo:** Elegant hands **decorating a %s item** with specific, high-end details. Focus is on precision.", category),
				fmt.Sprintf(`**Caption Theme:** "The 72-hour process behind the signature **%s** texture."`, category),
			},
		},
		{
			Title: "3. The Exclusivity & Lifestyle (Aspiration)",
			Intro: fmt.Sprintf("Content that showcases the product in an aspirational, luxury setting for your **%s** audience.", market),
			Items: []string{
				fmt.Sprintf(`**Video:** **"The Pairing Ritual"** - A sophisticated hand pairing a %s item with fine whiskey or coffee in a minimalist, high-end environment.`, category),
				"**Photo:** Flat lays of **custom gift boxes** next to items like a luxury watch, cashmere, or high-end stationery.",
				`**Caption Theme:** "An indulgence reserved for your most private moments."`,
			},
		},
	}
}

func OptimizationLogic() []string {
	return []string{
		"**Revenue/ROAS Optimization:** Aggressively pause ad sets where **ROAS** is below 3x. Scale top-performing audiences by 20% weekly.",
		"**Content Optimization:** Replace creative assets (videos/photos) with **Engagement Rate** below 2.5% every 10 days to combat creative fatigue.",
		"**Funnel Optimization:** Run A/B tests on landing pages to reduce **CAC** and increase **Conversion Rate**.",
	}
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

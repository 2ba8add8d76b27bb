package model

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// Goal is the primary marketing goal picked on the form
type Goal string

const (
	GoalSalesGrowth       Goal = "Sales Growth"
	GoalBrandAwareness    Goal = "Brand Awareness"
	GoalLeadGeneration    Goal = "Lead Generation"
	GoalCustomerRetention Goal = "Customer Retention"
)

// GetGoals returns the goals in the order they are offered on the form
func GetGoals() []Goal {
	return []Goal{
		GoalSalesGrowth,
		GoalBrandAwareness,
		GoalLeadGeneration,
		GoalCustomerRetention,
	}
}

// ParseGoal matches a goal label ignoring case and surrounding spaces
func ParseGoal(s string) (Goal, error) {
	s = strings.TrimSpace(s)
	for _, g := range GetGoals() {
		if strings.EqualFold(string(g), s) {
			return g, nil
		}
	}
	return "", ErrInvalidGoal
}

func (g Goal) IsValid() bool {
	for _, v := range GetGoals() {
		if v == g {
			return true
		}
	}
	return false
}

// Value implements the driver.Valuer interface for Goal
func (g Goal) Value() (driver.Value, error) {
	return string(g), nil
}

// Scan implements the sql.Scanner interface for Goal
func (g *Goal) Scan(value any) error {
	if value == nil {
		return errors.New("goal cannot be null")
	}

	switch v := value.(type) {
	case string:
		*g = Goal(v)
	case []byte:
		*g = Goal(v)
	default:
		return errors.New("invalid goal type")
	}
	return nil
}

// Mode is how a strategy was produced
type Mode string

const (
	ModeTemplate Mode = "template"
	ModeAI       Mode = "ai"
)

func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeAI)) {
		return ModeAI
	}
	return ModeTemplate
}

// Value implements the driver.Valuer interface for Mode
func (m Mode) Value() (driver.Value, error) {
	return string(m), nil
}

// Scan implements the sql.Scanner interface for Mode
func (m *Mode) Scan(value any) error {
	if value == nil {
		return errors.New("mode cannot be null")
	}

	switch v := value.(type) {
	case string:
		*m = Mode(v)
	case []byte:
		*m = Mode(v)
	default:
		return errors.New("invalid mode type")
	}
	return nil
}

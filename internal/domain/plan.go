package domain

import (
	"github.com/shopspring/decimal"
)

// Plan interval units.
const (
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// Plan is catalog data describing an allowed billing cadence and amount range.
type Plan struct {
	PlanType        string          `json:"plan_type"`
	MinAmount       decimal.Decimal `json:"min_amount"`
	MaxAmount       decimal.Decimal `json:"max_amount"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
	IntervalCount   int             `json:"interval_count"`
	IntervalUnit    string          `json:"interval_unit"`
	IsActive        bool            `json:"is_active"`
	DisplayOrder    int             `json:"display_order"`
}

// IsValidIntervalUnit checks if the unit is one the gateway can bill on.
func IsValidIntervalUnit(unit string) bool {
	switch unit {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	default:
		return false
	}
}

// Validate checks the catalog invariants, min <= suggested <= max among them.
func (p *Plan) Validate(op string) error {
	var err error
	if p.PlanType == "" {
		err = AddFieldError(err, "plan_type", "plan type is required")
	}
	if !p.MinAmount.IsPositive() {
		err = AddFieldError(err, "min_amount", "minimum amount must be positive")
	}
	if p.SuggestedAmount.LessThan(p.MinAmount) {
		err = AddFieldError(err, "suggested_amount", "suggested amount must not be below the minimum")
	}
	if p.MaxAmount.LessThan(p.SuggestedAmount) {
		err = AddFieldError(err, "max_amount", "maximum amount must not be below the suggested amount")
	}
	if p.IntervalCount <= 0 {
		err = AddFieldError(err, "interval_count", "interval count must be positive")
	}
	if !IsValidIntervalUnit(p.IntervalUnit) {
		err = AddFieldError(err, "interval_unit", "interval unit must be daily, weekly, monthly or yearly")
	}
	if err != nil {
		err.(*ValidationError).Op = op
	}
	return err
}

// CheckAmount returns a ValidationError on "amount" if it falls outside the plan bounds.
func (p *Plan) CheckAmount(op string, amount decimal.Decimal) error {
	if amount.LessThan(p.MinAmount) || amount.GreaterThan(p.MaxAmount) {
		return NewValidationError(op, "amount",
			"amount must be between "+p.MinAmount.String()+" and "+p.MaxAmount.String())
	}
	return nil
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func monthlyPlan() Plan {
	return Plan{
		PlanType:        "monthly",
		MinAmount:       decimal.NewFromInt(100),
		MaxAmount:       decimal.NewFromInt(100000),
		SuggestedAmount: decimal.NewFromInt(500),
		IntervalCount:   1,
		IntervalUnit:    IntervalMonthly,
		IsActive:        true,
	}
}

func TestPlan_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Plan)
		field  string
	}{
		{"valid", func(p *Plan) {}, ""},
		{"suggested below min", func(p *Plan) { p.SuggestedAmount = decimal.NewFromInt(50) }, "suggested_amount"},
		{"max below suggested", func(p *Plan) { p.MaxAmount = decimal.NewFromInt(400) }, "max_amount"},
		{"zero min", func(p *Plan) { p.MinAmount = decimal.Zero; p.SuggestedAmount = decimal.Zero }, "min_amount"},
		{"bad unit", func(p *Plan) { p.IntervalUnit = "fortnightly" }, "interval_unit"},
		{"bad count", func(p *Plan) { p.IntervalCount = 0 }, "interval_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := monthlyPlan()
			tt.mutate(&p)
			err := p.Validate("plan.upsert")
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			fields := GetValidationFields(err)
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("expected field error on %q, got %v", tt.field, fields)
			}
		})
	}
}

func TestPlan_CheckAmount(t *testing.T) {
	p := monthlyPlan()

	if err := p.CheckAmount("op", decimal.NewFromInt(500)); err != nil {
		t.Errorf("500 should be accepted: %v", err)
	}
	if err := p.CheckAmount("op", decimal.NewFromInt(100)); err != nil {
		t.Errorf("lower bound is inclusive: %v", err)
	}
	if err := p.CheckAmount("op", decimal.NewFromInt(99)); !IsValidationError(err) {
		t.Errorf("99 should be rejected, got %v", err)
	}
	if err := p.CheckAmount("op", decimal.NewFromInt(100001)); !IsValidationError(err) {
		t.Errorf("above max should be rejected, got %v", err)
	}
}

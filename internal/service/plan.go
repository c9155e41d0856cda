package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/postgres"
	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/shopspring/decimal"
)

// PlanService reads and maintains the subscription plan catalog.
type PlanService struct {
	repo   repository.Querier
	logger *slog.Logger
}

// NewPlanService creates a new PlanService instance.
func NewPlanService(repo repository.Querier, logger *slog.Logger) *PlanService {
	return &PlanService{repo: repo, logger: logger}
}

// ListPlans returns the active plans in display order.
func (s *PlanService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	rows, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans := make([]domain.Plan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, *postgres.PlanFromRow(r))
	}
	return plans, nil
}

// GetPlan returns an active plan. Unknown and inactive plans are a
// validation failure on plan_type, since the caller chose them.
func (s *PlanService) GetPlan(ctx context.Context, planType string) (*domain.Plan, error) {
	const op = "plan.get"

	row, err := s.repo.GetPlan(ctx, planType)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, domain.NewValidationError(op, "plan_type", "unknown plan type: "+planType)
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if !row.IsActive {
		return nil, domain.NewValidationError(op, "plan_type", "plan is not available: "+planType)
	}
	return postgres.PlanFromRow(row), nil
}

// UpsertPlan creates or replaces a plan after checking its bounds.
func (s *PlanService) UpsertPlan(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	const op = "plan.upsert"

	if err := plan.Validate(op); err != nil {
		return nil, err
	}

	var amounts [3]int64
	for i, a := range []struct {
		field string
		value decimal.Decimal
	}{
		{"min_amount", plan.MinAmount},
		{"max_amount", plan.MaxAmount},
		{"suggested_amount", plan.SuggestedAmount},
	} {
		paise, err := billing.ToPaise(a.value)
		if err != nil {
			return nil, domain.NewValidationError(op, a.field, err.Error())
		}
		amounts[i] = paise
	}

	row, err := s.repo.UpsertPlan(ctx, repository.UpsertPlanParams{
		PlanType:             plan.PlanType,
		MinAmountPaise:       amounts[0],
		MaxAmountPaise:       amounts[1],
		SuggestedAmountPaise: amounts[2],
		IntervalCount:        int32(plan.IntervalCount),
		IntervalUnit:         plan.IntervalUnit,
		IsActive:             plan.IsActive,
		DisplayOrder:         int32(plan.DisplayOrder),
	})
	if err != nil {
		if postgres.IsCheckViolation(err) {
			return nil, domain.Invalid(op, "plan violates catalog constraints")
		}
		return nil, fmt.Errorf("failed to upsert plan: %w", err)
	}

	s.logger.Info("plan updated",
		slog.String("plan_type", row.PlanType),
		slog.Bool("is_active", row.IsActive),
	)
	return postgres.PlanFromRow(row), nil
}

// ValidateAmount checks that amount falls within the plan's bounds.
func (s *PlanService) ValidateAmount(plan *domain.Plan, amount decimal.Decimal) error {
	return plan.CheckAmount("plan.validate_amount", amount)
}

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/handler"
	"github.com/dukerupert/sponsor/internal/service"
)

// PlanService is the part of service.PlanService the API uses.
type PlanService interface {
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	UpsertPlan(ctx context.Context, plan domain.Plan) (*domain.Plan, error)
}

var _ PlanService = (*service.PlanService)(nil)

// PlanHandler serves the plan catalog.
type PlanHandler struct {
	service PlanService
	logger  *slog.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(service PlanService, logger *slog.Logger) *PlanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanHandler{service: service, logger: logger}
}

// List handles GET /plans
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]any{"plans": plans})
}

// Upsert handles PUT /admin/plans/{planType}. The path names the plan; a
// plan_type in the body must agree with it.
func (h *PlanHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	planType := r.PathValue("planType")

	var plan domain.Plan
	if err := handler.DecodeJSON(r, &plan, false); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if plan.PlanType != "" && plan.PlanType != planType {
		handler.ErrorResponse(w, r, domain.NewValidationError("plan.upsert", "plan_type", "must match the plan in the path"))
		return
	}
	plan.PlanType = planType

	saved, err := h.service.UpsertPlan(r.Context(), plan)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, saved)
}

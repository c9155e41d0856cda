package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlans struct {
	plans    []domain.Plan
	listErr  error
	upserted *domain.Plan
}

func (f *fakePlans) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return f.plans, f.listErr
}

func (f *fakePlans) UpsertPlan(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	f.upserted = &plan
	return &plan, nil
}

func TestPlanHandler_List(t *testing.T) {
	svc := &fakePlans{plans: []domain.Plan{
		{PlanType: "monthly", MinAmount: decimal.NewFromInt(100), MaxAmount: decimal.NewFromInt(100000), SuggestedAmount: decimal.NewFromInt(500), IntervalCount: 1, IntervalUnit: "monthly", IsActive: true},
	}}
	h := NewPlanHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/plans", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Plans []struct {
			PlanType        string `json:"plan_type"`
			SuggestedAmount string `json:"suggested_amount"`
		} `json:"plans"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Plans, 1)
	assert.Equal(t, "monthly", body.Plans[0].PlanType)
	assert.Equal(t, "500", body.Plans[0].SuggestedAmount)
}

func TestPlanHandler_List_Error(t *testing.T) {
	h := NewPlanHandler(&fakePlans{listErr: errors.New("db down")}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/plans", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestPlanHandler_Upsert(t *testing.T) {
	body := `{"min_amount":"300","max_amount":"30000","suggested_amount":"1500","interval_count":3,"interval_unit":"monthly","is_active":true}`

	t.Run("path names the plan", func(t *testing.T) {
		svc := &fakePlans{}
		h := NewPlanHandler(svc, nil)

		req := httptest.NewRequest(http.MethodPut, "/admin/plans/quarterly", strings.NewReader(body))
		req.SetPathValue("planType", "quarterly")
		rec := httptest.NewRecorder()
		h.Upsert(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.upserted)
		assert.Equal(t, "quarterly", svc.upserted.PlanType)
		assert.Equal(t, 3, svc.upserted.IntervalCount)
		assert.True(t, decimal.NewFromInt(1500).Equal(svc.upserted.SuggestedAmount))
	})

	t.Run("mismatched body", func(t *testing.T) {
		svc := &fakePlans{}
		h := NewPlanHandler(svc, nil)

		req := httptest.NewRequest(http.MethodPut, "/admin/plans/quarterly", strings.NewReader(`{"plan_type":"monthly"}`))
		req.SetPathValue("planType", "quarterly")
		rec := httptest.NewRecorder()
		h.Upsert(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "plan_type")
		assert.Nil(t, svc.upserted)
	})
}

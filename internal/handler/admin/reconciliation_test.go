package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	syncOne  func(ctx context.Context, id uuid.UUID) (*service.SyncResult, error)
	syncAll  func(ctx context.Context) (*service.SyncSummary, error)
	fixStuck func(ctx context.Context, sponsorID *string) (*service.FixResult, error)
}

func (f *fakeReconciler) SyncSubscriptionStatus(ctx context.Context, id uuid.UUID) (*service.SyncResult, error) {
	return f.syncOne(ctx, id)
}

func (f *fakeReconciler) SyncAllSponsorships(ctx context.Context) (*service.SyncSummary, error) {
	return f.syncAll(ctx)
}

func (f *fakeReconciler) FixStuckSponsorships(ctx context.Context, sponsorID *string) (*service.FixResult, error) {
	return f.fixStuck(ctx, sponsorID)
}

func TestReconciliationHandler_SyncAll(t *testing.T) {
	failed := uuid.New()
	rec := &fakeReconciler{
		syncAll: func(ctx context.Context) (*service.SyncSummary, error) {
			return &service.SyncSummary{
				SyncedCount: 4,
				ErrorCount:  1,
				Errors:      []service.SyncError{{SponsorshipID: failed, SubscriptionID: "sub_1", Error: "gateway timeout"}},
			}, nil
		},
	}
	h := NewReconciliationHandler(rec, nil)

	w := httptest.NewRecorder()
	h.SyncAll(w, httptest.NewRequest(http.MethodPost, "/admin/sponsorships/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body service.SyncSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 4, body.SyncedCount)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, failed, body.Errors[0].SponsorshipID)
}

func TestReconciliationHandler_SyncAll_Interrupted(t *testing.T) {
	rec := &fakeReconciler{
		syncAll: func(ctx context.Context) (*service.SyncSummary, error) {
			return &service.SyncSummary{SyncedCount: 1}, context.DeadlineExceeded
		},
	}
	h := NewReconciliationHandler(rec, nil)

	w := httptest.NewRecorder()
	h.SyncAll(w, httptest.NewRequest(http.MethodPost, "/admin/sponsorships/sync", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReconciliationHandler_FixStuck(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantScope *string
	}{
		{name: "all sponsors", target: "/admin/sponsorships/sync"},
		{name: "one sponsor", target: "/admin/sponsorships/sync?sponsor_id=user_bob", wantScope: strPtr("user_bob")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scope *string
			fixed := uuid.New()
			rec := &fakeReconciler{
				fixStuck: func(ctx context.Context, sponsorID *string) (*service.FixResult, error) {
					scope = sponsorID
					return &service.FixResult{FixedCount: 1, Fixed: []uuid.UUID{fixed}}, nil
				},
			}
			h := NewReconciliationHandler(rec, nil)

			w := httptest.NewRecorder()
			h.FixStuck(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantScope, scope)

			var body service.FixResult
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, []uuid.UUID{fixed}, body.Fixed)
		})
	}
}

func TestReconciliationHandler_SyncOne(t *testing.T) {
	id := uuid.New()
	rec := &fakeReconciler{
		syncOne: func(ctx context.Context, got uuid.UUID) (*service.SyncResult, error) {
			if got != id {
				return nil, service.ErrSponsorshipNotFound
			}
			return &service.SyncResult{
				SponsorshipID:  id,
				PreviousStatus: domain.SponsorshipActive,
				Status:         domain.SponsorshipPaused,
				GatewayStatus:  "halted",
				Changed:        true,
			}, nil
		},
	}
	h := NewReconciliationHandler(rec, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/sponsorships/"+id.String()+"/sync", nil)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	h.SyncOne(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"paused"`)

	other := uuid.New().String()
	req = httptest.NewRequest(http.MethodPost, "/admin/sponsorships/"+other+"/sync", nil)
	req.SetPathValue("id", other)
	w = httptest.NewRecorder()
	h.SyncOne(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/sponsorships/bogus/sync", nil)
	req.SetPathValue("id", "bogus")
	w = httptest.NewRecorder()
	h.SyncOne(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func strPtr(s string) *string { return &s }

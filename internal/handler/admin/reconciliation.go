package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/handler"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/service"
	"github.com/google/uuid"
)

// Reconciler is the part of service.ReconciliationService the admin API uses.
type Reconciler interface {
	SyncSubscriptionStatus(ctx context.Context, sponsorshipID uuid.UUID) (*service.SyncResult, error)
	SyncAllSponsorships(ctx context.Context) (*service.SyncSummary, error)
	FixStuckSponsorships(ctx context.Context, sponsorID *string) (*service.FixResult, error)
}

var _ Reconciler = (*service.ReconciliationService)(nil)

// ReconciliationHandler exposes drift repair to staff.
type ReconciliationHandler struct {
	reconciler Reconciler
	logger     *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reconciler Reconciler, logger *slog.Logger) *ReconciliationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationHandler{reconciler: reconciler, logger: logger}
}

// SyncAll handles POST /admin/sponsorships/sync
//
// Per-sponsorship failures are reported in the summary with a 200. A run
// cut short by the request deadline is a 500.
func (h *ReconciliationHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reconciler.SyncAllSponsorships(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, domain.Internal(err, "reconcile.sync_all", "sponsorship sync did not complete"))
		return
	}

	middleware.GetLogger(r.Context(), h.logger).Info("sponsorship sync requested",
		slog.Int("synced", summary.SyncedCount),
		slog.Int("errors", summary.ErrorCount),
	)
	handler.JSON(w, http.StatusOK, summary)
}

// FixStuck handles GET /admin/sponsorships/sync[?sponsor_id=...]
func (h *ReconciliationHandler) FixStuck(w http.ResponseWriter, r *http.Request) {
	var sponsorID *string
	if v := r.URL.Query().Get("sponsor_id"); v != "" {
		sponsorID = &v
	}

	result, err := h.reconciler.FixStuckSponsorships(r.Context(), sponsorID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, result)
}

// SyncOne handles POST /admin/sponsorships/{id}/sync
func (h *ReconciliationHandler) SyncOne(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.reconciler.SyncSubscriptionStatus(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, result)
}

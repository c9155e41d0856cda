package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/handler"
	"github.com/dukerupert/sponsor/internal/service"
	"github.com/google/uuid"
)

// SponsorshipService is the part of service.SponsorshipService the API uses.
type SponsorshipService interface {
	CreateSponsorship(ctx context.Context, principal *domain.Principal, params service.CreateSponsorshipParams) (*service.CreateSponsorshipResult, error)
	GetSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.SponsorshipDetail, error)
	ListSponsorships(ctx context.Context, principal *domain.Principal) ([]domain.Sponsorship, error)
	PauseSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.Sponsorship, error)
	ResumeSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.Sponsorship, error)
	CancelSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID, params service.CancelParams) (*domain.Sponsorship, error)
	ConfirmPayment(ctx context.Context, principal *domain.Principal, id uuid.UUID, params service.ConfirmPaymentParams) (*domain.Sponsorship, error)
}

var _ SponsorshipService = (*service.SponsorshipService)(nil)

// SponsorshipHandler serves the sponsor-facing sponsorship endpoints.
type SponsorshipHandler struct {
	service SponsorshipService
	logger  *slog.Logger
}

// NewSponsorshipHandler creates a new sponsorship handler
func NewSponsorshipHandler(service SponsorshipService, logger *slog.Logger) *SponsorshipHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SponsorshipHandler{service: service, logger: logger}
}

// Create handles POST /sponsorships
//
// Responds 201 with the pending sponsorship and the checkout the client
// hands to the gateway's payment form.
func (h *SponsorshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params service.CreateSponsorshipParams
	if err := handler.DecodeJSON(r, &params, false); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.service.CreateSponsorship(r.Context(), domain.PrincipalFromContext(r.Context()), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, result)
}

// List handles GET /sponsorships
func (h *SponsorshipHandler) List(w http.ResponseWriter, r *http.Request) {
	sponsorships, err := h.service.ListSponsorships(r.Context(), domain.PrincipalFromContext(r.Context()))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]any{"sponsorships": sponsorships})
}

// Get handles GET /sponsorships/{id}
func (h *SponsorshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	detail, err := h.service.GetSponsorship(r.Context(), domain.PrincipalFromContext(r.Context()), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, detail)
}

// Pause handles POST /sponsorships/{id}/pause
func (h *SponsorshipHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.PauseSponsorship)
}

// Resume handles POST /sponsorships/{id}/resume
func (h *SponsorshipHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ResumeSponsorship)
}

// Cancel handles POST /sponsorships/{id}/cancel
//
// The body is optional: {"at_cycle_end": true, "reason": "..."}.
func (h *SponsorshipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var params service.CancelParams
	if err := handler.DecodeJSON(r, &params, true); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	sp, err := h.service.CancelSponsorship(r.Context(), domain.PrincipalFromContext(r.Context()), id, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, sp)
}

// Verify handles POST /sponsorships/{id}/verify, the checkout callback
// carrying the first payment's signature.
func (h *SponsorshipHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var params service.ConfirmPaymentParams
	if err := handler.DecodeJSON(r, &params, false); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	sp, err := h.service.ConfirmPayment(r.Context(), domain.PrincipalFromContext(r.Context()), id, params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, sp)
}

type transitionFunc func(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.Sponsorship, error)

func (h *SponsorshipHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	sp, err := fn(r.Context(), domain.PrincipalFromContext(r.Context()), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, sp)
}

package service

import (
	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
)

// Sponsorship errors
var (
	ErrSponsorshipNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Sponsorship not found")
	ErrSponsorshipNotActive = domain.Errorf(domain.ECONFLICT, "", "Sponsorship is not active")
	ErrSponsorshipNotPaused = domain.Errorf(domain.ECONFLICT, "", "Sponsorship is not paused")
	ErrSponsorshipEnded     = domain.Errorf(domain.ECONFLICT, "", "Sponsorship has already ended")
	ErrNoSubscription       = domain.Errorf(domain.ECONFLICT, "", "Sponsorship has no gateway subscription yet")
	ErrBeneficiaryTaken     = domain.Errorf(domain.ECONFLICT, "", "Beneficiary already has a sponsor")
	ErrBeneficiaryNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Beneficiary not found")
)

// Authorization errors
var (
	ErrNotSponsorshipOwner = domain.Errorf(domain.EFORBIDDEN, "", "Sponsorship belongs to another sponsor")
	ErrInvalidSignature    = domain.Errorf(domain.EUNAUTHORIZED, "", "Payment signature is invalid")
	ErrUnauthenticated     = domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required")
)

// Ledger errors
var (
	ErrMissingPaymentID = domain.Errorf(domain.EINVALID, "", "Payment id is required")
)

// gatewayUnavailableMessage is shown for failures the caller should retry.
const gatewayUnavailableMessage = "Payment gateway is unavailable. Please try again."

// gatewayError converts a failed gateway call into a domain error. Temporary
// failures get a retry message; permanent rejections carry the provider's
// description.
func gatewayError(op string, err error) error {
	if gerr, ok := billing.AsGatewayError(err); ok && !gerr.IsTemporary() && gerr.Description != "" {
		return domain.Gateway(err, op, gerr.Description)
	}
	return domain.Gateway(err, op, gatewayUnavailableMessage)
}

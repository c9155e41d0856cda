// Package auth resolves callers into principals and decides what they may do.
package auth

import (
	"github.com/dukerupert/sponsor/internal/domain"
)

// Capability names an action a principal may be allowed to perform.
type Capability string

const (
	CapSponsorshipCreate    Capability = "sponsorship:create"
	CapSponsorshipManageOwn Capability = "sponsorship:manage_own"
	CapSponsorshipViewAny   Capability = "sponsorship:view_any"
	CapSponsorshipManageAny Capability = "sponsorship:manage_any"
	CapSponsorshipReconcile Capability = "sponsorship:reconcile"
	CapPlanRead             Capability = "plan:read"
	CapPlanManage           Capability = "plan:manage"
)

// Policy maps roles to capability sets.
type Policy struct {
	roles map[string]map[Capability]bool
}

// DefaultPolicy returns the role table used by the server.
func DefaultPolicy() *Policy {
	sponsor := []Capability{CapSponsorshipCreate, CapSponsorshipManageOwn, CapPlanRead}
	staff := append([]Capability{
		CapSponsorshipViewAny,
		CapSponsorshipManageAny,
		CapSponsorshipReconcile,
		CapPlanManage,
	}, sponsor...)

	return NewPolicy(map[string][]Capability{
		domain.RoleSponsor:   sponsor,
		domain.RoleModerator: staff,
		domain.RoleAdmin:     staff,
	})
}

// NewPolicy builds a policy from a role table.
func NewPolicy(table map[string][]Capability) *Policy {
	p := &Policy{roles: make(map[string]map[Capability]bool, len(table))}
	for role, caps := range table {
		set := make(map[Capability]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		p.roles[role] = set
	}
	return p
}

// Can reports whether the principal holds the capability. A nil principal
// holds nothing.
func (p *Policy) Can(principal *domain.Principal, c Capability) bool {
	if principal == nil {
		return false
	}
	return p.roles[principal.Role][c]
}

// CanAccess reports whether the principal may act on a resource owned by
// ownerID. Owners need ownCap; everybody else needs anyCap.
func (p *Policy) CanAccess(principal *domain.Principal, ownerID string, ownCap, anyCap Capability) bool {
	if principal == nil {
		return false
	}
	if principal.ID == ownerID && p.Can(principal, ownCap) {
		return true
	}
	return p.Can(principal, anyCap)
}

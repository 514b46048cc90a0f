// Package rbac projects the partner set down to what a role and owner may
// see. Access decisions go through an injected AuditLog so the sink is a
// collaborator, not a hard-wired side effect.
package rbac

import (
	"log"
	"strings"

	"github.com/oakline/partnertrack/internal/gates"
	"github.com/oakline/partnertrack/internal/models"
)

// Actor is the authenticated caller as seen by access checks.
type Actor struct {
	Email string
	Role  models.UserRole
}

// AuditLog receives one call per access decision.
type AuditLog interface {
	Decision(actor string, role models.UserRole, partnerID, action string, allowed bool)
}

// LogAudit writes decisions through the standard log pipeline.
type LogAudit struct{}

func (LogAudit) Decision(actor string, role models.UserRole, partnerID, action string, allowed bool) {
	log.Printf("rbac: %s role=%s partner=%s action=%s allowed=%t", actor, role, partnerID, action, allowed)
}

// NopAudit discards decisions (tests).
type NopAudit struct{}

func (NopAudit) Decision(string, models.UserRole, string, string, bool) {}

// relevantGates maps each role to the gates it works. Admin and PAM span the
// whole sequence; PDM covers the early gates, PSM the middle, TAM the tail.
var relevantGates = map[models.UserRole][]string{
	models.RoleAdmin: {"pre-contract", "gate-0", "gate-1", "gate-2", "gate-3", "post-launch"},
	models.RolePAM:   {"pre-contract", "gate-0", "gate-1", "gate-2", "gate-3", "post-launch"},
	models.RolePDM:   {"pre-contract", "gate-0", "gate-1"},
	models.RolePSM:   {"gate-1", "gate-2", "gate-3"},
	models.RoleTAM:   {"gate-3", "post-launch"},
}

// GateRelevant reports whether a role works the given gate.
func GateRelevant(role models.UserRole, gateID string) bool {
	for _, g := range relevantGates[role] {
		if g == gateID {
			return true
		}
	}
	return false
}

// Access answers visibility and permission questions for partners.
type Access struct {
	audit AuditLog
}

func New(audit AuditLog) *Access {
	if audit == nil {
		audit = NopAudit{}
	}
	return &Access{audit: audit}
}

// FilterPartners projects the full partner list down to what the actor may
// see. A nil actor sees nothing; admin sees everything; everyone else sees
// partners they own whose current gate is relevant to their role.
func (a *Access) FilterPartners(actor *Actor, partners []models.Partner) []models.Partner {
	if actor == nil {
		return []models.Partner{}
	}
	if actor.Role == models.RoleAdmin {
		return partners
	}
	out := make([]models.Partner, 0, len(partners))
	for _, p := range partners {
		allowed := ownsPartner(actor.Email, &p) && GateRelevant(actor.Role, p.CurrentGate)
		a.audit.Decision(actor.Email, actor.Role, p.ID, "view", allowed)
		if allowed {
			out = append(out, p)
		}
	}
	return out
}

// CanAccessPartner reports whether the actor may view the partner.
func (a *Access) CanAccessPartner(actor *Actor, partner *models.Partner) bool {
	allowed := a.check(actor, partner)
	if actor != nil {
		a.audit.Decision(actor.Email, actor.Role, partner.ID, "access", allowed)
	}
	return allowed
}

// CanEditPartner reports whether the actor may mutate the partner. Edit is
// the same ownership-and-relevance check as access.
func (a *Access) CanEditPartner(actor *Actor, partner *models.Partner) bool {
	allowed := a.check(actor, partner)
	if actor != nil {
		a.audit.Decision(actor.Email, actor.Role, partner.ID, "edit", allowed)
	}
	return allowed
}

// CanSubmitQuestionnaire additionally requires the submission's gate to be
// relevant to the actor's role.
func (a *Access) CanSubmitQuestionnaire(actor *Actor, partner *models.Partner, gateID string) bool {
	allowed := a.check(actor, partner)
	if allowed && actor.Role != models.RoleAdmin {
		allowed = GateRelevant(actor.Role, gateID)
	}
	if actor != nil {
		a.audit.Decision(actor.Email, actor.Role, partner.ID, "submit:"+gateID, allowed)
	}
	return allowed
}

func (a *Access) check(actor *Actor, partner *models.Partner) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	return ownsPartner(actor.Email, partner) && GateRelevant(actor.Role, partner.CurrentGate)
}

func ownsPartner(email string, partner *models.Partner) bool {
	for _, owner := range partner.OwnerEmails() {
		if strings.EqualFold(owner, email) {
			return true
		}
	}
	return false
}

// RelevantGateIDs exposes the role→gate mapping for dashboards.
func RelevantGateIDs(role models.UserRole) []string {
	return append([]string(nil), relevantGates[role]...)
}

func init() {
	// The relevance table must only name real gates.
	for role, ids := range relevantGates {
		for _, id := range ids {
			if gates.Index(id) < 0 {
				panic("rbac: unknown gate " + id + " for role " + string(role))
			}
		}
	}
}

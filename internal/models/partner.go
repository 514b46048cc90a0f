package models

import "time"

// GateStatus is the derived state of a partner within one gate.
type GateStatus string

const (
	GateNotStarted GateStatus = "not-started"
	GateInProgress GateStatus = "in-progress"
	GatePassed     GateStatus = "passed"
	GateFailed     GateStatus = "failed"
	GateBlocked    GateStatus = "blocked"
)

// Approval is one sign-off recorded when a gate is completed. The list on
// GateProgress is append-only.
type Approval struct {
	ApprovedBy     string    `json:"approvedBy"`
	ApprovedByRole string    `json:"approvedByRole"`
	ApprovedAt     time.Time `json:"approvedAt"`
	Signature      string    `json:"signature"`
	Notes          string    `json:"notes,omitempty"`
}

// GateProgress tracks a partner's state within a single gate.
// Questionnaires maps required questionnaire ids to the submission id that
// answers them; an absent key means not yet submitted.
type GateProgress struct {
	GateID         string            `json:"gateId"`
	Status         GateStatus        `json:"status"`
	Questionnaires map[string]string `json:"questionnaires"`
	Approvals      []Approval        `json:"approvals"`
	Blockers       []string          `json:"blockers,omitempty"`
	StartedDate    *time.Time        `json:"startedDate,omitempty"`
	CompletedDate  *time.Time        `json:"completedDate,omitempty"`
}

// NewGateProgress returns an empty not-started progress record for gateID.
func NewGateProgress(gateID string) *GateProgress {
	return &GateProgress{
		GateID:         gateID,
		Status:         GateNotStarted,
		Questionnaires: map[string]string{},
		Approvals:      []Approval{},
	}
}

// Clone returns a deep copy.
func (g *GateProgress) Clone() *GateProgress {
	out := *g
	out.Questionnaires = make(map[string]string, len(g.Questionnaires))
	for k, v := range g.Questionnaires {
		out.Questionnaires[k] = v
	}
	out.Approvals = append([]Approval(nil), g.Approvals...)
	out.Blockers = append([]string(nil), g.Blockers...)
	if g.StartedDate != nil {
		d := *g.StartedDate
		out.StartedDate = &d
	}
	if g.CompletedDate != nil {
		d := *g.CompletedDate
		out.CompletedDate = &d
	}
	return &out
}

// Partner is a business entity being walked through the onboarding gates.
// The gates map is sparse: only gates touched so far have entries.
//
// The legacy tpmOwner field is intentionally absent; decoding a stored
// partner drops it, which is the one-time migration for deprecated owners.
type Partner struct {
	ID          string                   `json:"_id,omitempty"`
	Name        string                   `json:"name"`
	CurrentGate string                   `json:"currentGate"`
	Gates       map[string]*GateProgress `json:"gates"`
	PAMOwner    string                   `json:"pamOwner"`
	PDMOwner    string                   `json:"pdmOwner,omitempty"`
	PSMOwner    string                   `json:"psmOwner,omitempty"`
	TAMOwner    string                   `json:"tamOwner,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// Clone returns a deep copy; mutators operate on clones so callers keep
// the original value untouched until the write succeeds.
func (p *Partner) Clone() *Partner {
	out := *p
	out.Gates = make(map[string]*GateProgress, len(p.Gates))
	for k, v := range p.Gates {
		out.Gates[k] = v.Clone()
	}
	return &out
}

// OwnerEmails lists the non-empty owner fields.
func (p *Partner) OwnerEmails() []string {
	var out []string
	for _, e := range []string{p.PAMOwner, p.PDMOwner, p.PSMOwner, p.TAMOwner} {
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

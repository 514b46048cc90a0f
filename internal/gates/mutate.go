package gates

import (
	"errors"
	"fmt"
	"time"

	"github.com/oakline/partnertrack/internal/models"
)

// ErrGateNotInitialized means the partner has no progress record for the
// gate. A gate must be initialized before it can be completed or blocked;
// hitting this is an invariant violation on the caller's side.
var ErrGateNotInitialized = errors.New("gate has no progress record")

// CompleteGate marks gateID as passed on a copy of partner: stamps the
// completion date, appends an approval, clears blockers and advances
// currentGate to the next gate (initializing its progress record if absent).
// At the final gate currentGate stays put. The caller persists the result.
func CompleteGate(partner *models.Partner, gateID, approvedBy, approvedByRole, signature, notes string) (*models.Partner, error) {
	if _, ok := partner.Gates[gateID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrGateNotInitialized, gateID)
	}
	now := time.Now().UTC()
	out := partner.Clone()
	progress := out.Gates[gateID]
	progress.Status = models.GatePassed
	progress.CompletedDate = &now
	progress.Blockers = nil
	progress.Approvals = append(progress.Approvals, models.Approval{
		ApprovedBy:     approvedBy,
		ApprovedByRole: approvedByRole,
		ApprovedAt:     now,
		Signature:      signature,
		Notes:          notes,
	})
	if next := Next(gateID); next != "" {
		out.CurrentGate = next
		if _, ok := out.Gates[next]; !ok {
			out.Gates[next] = models.NewGateProgress(next)
		}
	}
	out.UpdatedAt = now
	return out, nil
}

// BlockGate marks gateID as blocked on a copy of partner and records the
// blocking reasons verbatim. currentGate is left alone.
func BlockGate(partner *models.Partner, gateID string, blockers []string) (*models.Partner, error) {
	if _, ok := partner.Gates[gateID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrGateNotInitialized, gateID)
	}
	now := time.Now().UTC()
	out := partner.Clone()
	progress := out.Gates[gateID]
	progress.Status = models.GateBlocked
	progress.Blockers = append([]string(nil), blockers...)
	out.UpdatedAt = now
	return out, nil
}

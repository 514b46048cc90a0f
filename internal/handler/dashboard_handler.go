package handler

import (
	"net/http"

	"github.com/oakline/partnertrack/internal/auth"
	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/rbac"
	"github.com/oakline/partnertrack/internal/service"
)

type DashboardHandler struct {
	partners *service.PartnerService
	access   *rbac.Access
}

func NewDashboardHandler(partners *service.PartnerService, access *rbac.Access) *DashboardHandler {
	return &DashboardHandler{partners: partners, access: access}
}

// Dashboard summarises the visible partner set: counts per gate and per
// status plus a per-partner progress row.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	all, err := h.partners.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list partners")
		return
	}
	visible := h.access.FilterPartners(actor, all)

	byGate := map[string]int{}
	byStatus := map[models.GateStatus]int{}
	rows := make([]map[string]any, 0, len(visible))
	for i := range visible {
		p := &visible[i]
		byGate[p.CurrentGate]++
		metrics, err := h.partners.Metrics(r.Context(), p)
		if err != nil {
			continue
		}
		for _, m := range metrics {
			if m.GateID == p.CurrentGate {
				byStatus[m.Status]++
				rows = append(rows, map[string]any{
					"id":          p.ID,
					"name":        p.Name,
					"currentGate": p.CurrentGate,
					"status":      m.Status,
					"completion":  m.Completion,
					"updatedAt":   p.UpdatedAt,
				})
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"partnerCount": len(visible),
		"byGate":       byGate,
		"byStatus":     byStatus,
		"partners":     rows,
	})
}

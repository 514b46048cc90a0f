package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/oakline/partnertrack/internal/auth"
	"github.com/oakline/partnertrack/internal/gates"
	"github.com/oakline/partnertrack/internal/rbac"
	"github.com/oakline/partnertrack/internal/service"
)

type ExportHandler struct {
	partners *service.PartnerService
	access   *rbac.Access
}

func NewExportHandler(partners *service.PartnerService, access *rbac.Access) *ExportHandler {
	return &ExportHandler{partners: partners, access: access}
}

// PartnersCSV streams the visible partner set with one status/completion
// column pair per gate. The export sees exactly what the caller's dashboard
// sees; filtering happens before any row is written.
func (h *ExportHandler) PartnersCSV(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	all, err := h.partners.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list partners")
		return
	}
	visible := h.access.FilterPartners(actor, all)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="partners.csv"`)

	cw := csv.NewWriter(w)
	header := []string{"id", "name", "currentGate", "pamOwner", "updatedAt"}
	gateList := gates.All()
	for _, g := range gateList {
		header = append(header, g.ID+"_status", g.ID+"_completion")
	}
	cw.Write(header)

	for i := range visible {
		p := &visible[i]
		row := []string{p.ID, p.Name, p.CurrentGate, p.PAMOwner, p.UpdatedAt.Format(time.RFC3339)}
		metrics, err := h.partners.Metrics(r.Context(), p)
		if err != nil {
			continue
		}
		byGate := map[string]service.GateMetric{}
		for _, m := range metrics {
			byGate[m.GateID] = m
		}
		for _, g := range gateList {
			m := byGate[g.ID]
			row = append(row, string(m.Status), fmt.Sprintf("%d", m.Completion))
		}
		cw.Write(row)
	}
	cw.Flush()
}

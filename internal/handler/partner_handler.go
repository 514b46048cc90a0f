package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oakline/partnertrack/internal/auth"
	"github.com/oakline/partnertrack/internal/gates"
	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/rbac"
	"github.com/oakline/partnertrack/internal/service"
)

type PartnerHandler struct {
	svc    *service.PartnerService
	access *rbac.Access
}

func NewPartnerHandler(svc *service.PartnerService, access *rbac.Access) *PartnerHandler {
	return &PartnerHandler{svc: svc, access: access}
}

func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	partners, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list partners")
		return
	}
	writeJSON(w, http.StatusOK, h.access.FilterPartners(actor, partners))
}

func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil || (actor.Role != models.RoleAdmin && actor.Role != models.RolePAM) {
		writeError(w, http.StatusForbidden, "only admin or pam may create partners")
		return
	}
	var req struct {
		Name     string `json:"name"`
		PAMOwner string `json:"pamOwner"`
		PDMOwner string `json:"pdmOwner"`
		PSMOwner string `json:"psmOwner"`
		TAMOwner string `json:"tamOwner"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	partner, err := h.svc.Create(r.Context(), req.Name, req.PAMOwner, req.PDMOwner, req.PSMOwner, req.TAMOwner)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, partner)
}

func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.load(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (h *PartnerHandler) CompleteGate(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.load(w, r, true)
	if !ok {
		return
	}
	gateID := chi.URLParam(r, "gateId")
	actor := auth.ActorFromContext(r.Context())
	var req struct {
		Signature string `json:"signature"`
		Notes     string `json:"notes"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.svc.CompleteGate(r.Context(), partner.ID, gateID, actor.Email, string(actor.Role), req.Signature, req.Notes)
	if err != nil {
		if errors.Is(err, gates.ErrGateNotInitialized) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to complete gate")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PartnerHandler) BlockGate(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.load(w, r, true)
	if !ok {
		return
	}
	gateID := chi.URLParam(r, "gateId")
	var req struct {
		Blockers []string `json:"blockers"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.svc.BlockGate(r.Context(), partner.ID, gateID, req.Blockers)
	if err != nil {
		if errors.Is(err, gates.ErrGateNotInitialized) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to block gate")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PartnerHandler) StartGate(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.load(w, r, true)
	if !ok {
		return
	}
	gateID := chi.URLParam(r, "gateId")
	updated, err := h.svc.StartGate(r.Context(), partner.ID, gateID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Progression reports whether the partner may enter the target gate. A
// blocked answer is a 200 with canProgress=false; it is an answer for the
// operator, not a fault.
func (h *PartnerHandler) Progression(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.load(w, r, false)
	if !ok {
		return
	}
	result, err := h.svc.Progression(r.Context(), partner.ID, chi.URLParam(r, "gateId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate progression")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PartnerHandler) Blockers(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.load(w, r, false)
	if !ok {
		return
	}
	blockers, err := h.svc.Blockers(r.Context(), partner.ID, chi.URLParam(r, "gateId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate blockers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blockers": blockers})
}

func (h *PartnerHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.load(w, r, false)
	if !ok {
		return
	}
	metrics, err := h.svc.Metrics(r.Context(), partner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// load fetches the partner from the URL and enforces access (or edit)
// permission, writing the error response itself when denied.
func (h *PartnerHandler) load(w http.ResponseWriter, r *http.Request, edit bool) (*models.Partner, bool) {
	partner, err := h.svc.Get(r.Context(), chi.URLParam(r, "partnerId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	actor := auth.ActorFromContext(r.Context())
	allowed := h.access.CanAccessPartner(actor, partner)
	if edit {
		allowed = h.access.CanEditPartner(actor, partner)
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return partner, true
}

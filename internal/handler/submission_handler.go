package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oakline/partnertrack/internal/auth"
	"github.com/oakline/partnertrack/internal/gates"
	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/rbac"
	"github.com/oakline/partnertrack/internal/service"
)

type SubmissionHandler struct {
	svc      *service.SubmissionService
	partners *service.PartnerService
	access   *rbac.Access
}

func NewSubmissionHandler(svc *service.SubmissionService, partners *service.PartnerService, access *rbac.Access) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, partners: partners, access: access}
}

// Create stores a new submission and links it into the owning gate's
// progress, recalculating that gate's status.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "partnerId")
	partner, err := h.partners.Get(r.Context(), partnerID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var req struct {
		QuestionnaireID string                     `json:"questionnaireId"`
		OverallStatus   models.SubmissionStatus    `json:"overallStatus"`
		Sections        []models.SubmissionSection `json:"sections"`
		Signature       string                     `json:"signature"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	gateID, ok := gates.GateForQuestionnaire(req.QuestionnaireID)
	if !ok {
		writeError(w, http.StatusBadRequest, "questionnaire is not required by any gate")
		return
	}
	actor := auth.ActorFromContext(r.Context())
	if !h.access.CanSubmitQuestionnaire(actor, partner, gateID) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	sub, err := h.svc.Create(r.Context(), service.CreateInput{
		PartnerID:       partnerID,
		QuestionnaireID: req.QuestionnaireID,
		OverallStatus:   req.OverallStatus,
		Sections:        req.Sections,
		Signature:       req.Signature,
		SubmittedBy:     actor.Email,
		SubmittedByRole: string(actor.Role),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.partners.RecordSubmission(r.Context(), sub); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record submission")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	partnerID := chi.URLParam(r, "partnerId")
	partner, err := h.partners.Get(r.Context(), partnerID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	subID := chi.URLParam(r, "subId")
	existing, err := h.svc.Get(r.Context(), partnerID, subID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	gateID, _ := gates.GateForQuestionnaire(existing.QuestionnaireID)
	actor := auth.ActorFromContext(r.Context())
	if !h.access.CanSubmitQuestionnaire(actor, partner, gateID) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	var req struct {
		OverallStatus models.SubmissionStatus    `json:"overallStatus"`
		Sections      []models.SubmissionSection `json:"sections"`
		Signature     string                     `json:"signature"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.svc.Update(r.Context(), partnerID, subID, service.UpdateInput{
		OverallStatus: req.OverallStatus,
		Sections:      req.Sections,
		Signature:     req.Signature,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Status may have changed; re-derive the owning gate's stored status.
	if _, err := h.partners.RecordSubmission(r.Context(), sub); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record submission")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.authorize(w, r)
	if !ok {
		return
	}
	sub, err := h.svc.Get(r.Context(), partner.ID, chi.URLParam(r, "subId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.authorize(w, r)
	if !ok {
		return
	}
	subs, err := h.svc.List(r.Context(), partner.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// Form renders the field list for an existing submission against the
// template version it was filled with; removed fields come back flagged.
func (h *SubmissionHandler) Form(w http.ResponseWriter, r *http.Request) {
	partner, ok := h.authorize(w, r)
	if !ok {
		return
	}
	sub, err := h.svc.Get(r.Context(), partner.ID, chi.URLParam(r, "subId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	fields, err := h.svc.RenderForm(r.Context(), sub.QuestionnaireID, sub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render form")
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

func (h *SubmissionHandler) authorize(w http.ResponseWriter, r *http.Request) (*models.Partner, bool) {
	partner, err := h.partners.Get(r.Context(), chi.URLParam(r, "partnerId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	actor := auth.ActorFromContext(r.Context())
	if !h.access.CanAccessPartner(actor, partner) {
		writeError(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return partner, true
}

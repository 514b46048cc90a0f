package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oakline/partnertrack/internal/auth"
	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/service"
)

type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.svc.Current(r.Context(), chi.URLParam(r, "templateId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// Save validates and persists a new current version. Validation problems are
// a structured 422 body, not an opaque failure.
func (h *TemplateHandler) Save(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil || actor.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "only admin may edit templates")
		return
	}
	var req struct {
		Fields []models.QuestionField `json:"fields"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tmpl := &models.QuestionnaireTemplate{
		ID:     chi.URLParam(r, "templateId"),
		Fields: req.Fields,
	}
	if result := service.Validate(tmpl); !result.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	saved, err := h.svc.Save(r.Context(), tmpl, actor.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save template")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *TemplateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fields []models.QuestionField `json:"fields"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tmpl := &models.QuestionnaireTemplate{ID: chi.URLParam(r, "templateId"), Fields: req.Fields}
	writeJSON(w, http.StatusOK, service.Validate(tmpl))
}

func (h *TemplateHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.svc.Versions(r.Context(), chi.URLParam(r, "templateId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list versions")
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *TemplateHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid version")
		return
	}
	v, err := h.svc.Version(r.Context(), chi.URLParam(r, "templateId"), version)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Preview projects the current template's renderable field list.
func (h *TemplateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.svc.Current(r.Context(), chi.URLParam(r, "templateId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	includeRemoved := r.URL.Query().Get("includeRemoved") == "true"
	writeJSON(w, http.StatusOK, service.TemplateToConfig(tmpl, includeRemoved))
}

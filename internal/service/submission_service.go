package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/repository"
)

// SubmissionService creates and updates questionnaire submissions. Creation
// pins the template version that is current at that moment; updates never
// touch the pin, the id or createdAt.
type SubmissionService struct {
	subs      *repository.SubmissionRepo
	templates *TemplateService
}

func NewSubmissionService(subs *repository.SubmissionRepo, templates *TemplateService) *SubmissionService {
	return &SubmissionService{subs: subs, templates: templates}
}

// CreateInput carries everything a new submission needs.
type CreateInput struct {
	PartnerID       string
	QuestionnaireID string
	OverallStatus   models.SubmissionStatus
	Sections        []models.SubmissionSection
	Signature       string
	SubmittedBy     string
	SubmittedByRole string
}

func (s *SubmissionService) Create(ctx context.Context, in CreateInput) (*models.QuestionnaireSubmission, error) {
	if in.PartnerID == "" || in.QuestionnaireID == "" {
		return nil, errors.New("partner id and questionnaire id are required")
	}
	if !models.ValidSubmissionStatus(in.OverallStatus) {
		return nil, fmt.Errorf("unknown overall status %q", in.OverallStatus)
	}

	tmpl, err := s.templates.Current(ctx, in.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	if err := validateRequiredFields(tmpl, in.Sections); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &models.QuestionnaireSubmission{
		ID:              uuid.NewString(),
		PartnerID:       in.PartnerID,
		QuestionnaireID: in.QuestionnaireID,
		OverallStatus:   in.OverallStatus,
		TemplateVersion: tmpl.Version,
		Sections:        in.Sections,
		Signature:       in.Signature,
		SubmittedBy:     in.SubmittedBy,
		SubmittedByRole: in.SubmittedByRole,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateInput carries the mutable portion of a submission. Zero values leave
// the stored content alone.
type UpdateInput struct {
	OverallStatus models.SubmissionStatus
	Sections      []models.SubmissionSection
	Signature     string
}

// Update saves content changes onto an existing submission. A save is never
// a semantic create: id, createdAt and templateVersion are preserved exactly
// and only updatedAt moves.
func (s *SubmissionService) Update(ctx context.Context, partnerID, id string, in UpdateInput) (*models.QuestionnaireSubmission, error) {
	sub, err := s.subs.FindByID(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("submission not found")
	}

	if in.OverallStatus != "" {
		if !models.ValidSubmissionStatus(in.OverallStatus) {
			return nil, fmt.Errorf("unknown overall status %q", in.OverallStatus)
		}
		sub.OverallStatus = in.OverallStatus
	}
	if in.Sections != nil {
		sub.Sections = in.Sections
	}
	if in.Signature != "" {
		sub.Signature = in.Signature
	}
	sub.UpdatedAt = time.Now().UTC()

	if err := s.subs.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubmissionService) Get(ctx context.Context, partnerID, id string) (*models.QuestionnaireSubmission, error) {
	sub, err := s.subs.FindByID(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("submission not found")
	}
	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context, partnerID string) ([]models.QuestionnaireSubmission, error) {
	return s.subs.FindByPartner(ctx, partnerID)
}

// RenderedField is a projected form field; Legacy marks fields that were
// removed after the submission was created.
type RenderedField struct {
	models.QuestionField
	Legacy bool `json:"legacy,omitempty"`
}

// RenderForm projects the field list for a submission against the template
// version it was filled against. Preview (no submission) renders the current
// template without removed fields; a historical submission includes removed
// fields flagged as legacy. Given the same snapshot and flag the projection
// is identical every time.
func (s *SubmissionService) RenderForm(ctx context.Context, questionnaireID string, sub *models.QuestionnaireSubmission) ([]RenderedField, error) {
	version := 0
	includeRemoved := false
	if sub != nil {
		version = sub.TemplateVersion
		includeRemoved = true
	}
	tmpl, err := s.templates.ForSubmission(ctx, questionnaireID, version)
	if err != nil {
		return nil, err
	}
	fields := TemplateToConfig(tmpl, includeRemoved)
	out := make([]RenderedField, len(fields))
	for i, f := range fields {
		out[i] = RenderedField{QuestionField: f, Legacy: f.Removed}
	}
	return out, nil
}

// validateRequiredFields checks that every required, non-removed field has a
// non-empty value somewhere in the submitted sections. Removed fields never
// participate in required-field validation.
func validateRequiredFields(tmpl *models.QuestionnaireTemplate, sections []models.SubmissionSection) error {
	values := map[string]any{}
	for _, sec := range sections {
		for k, v := range sec.Fields {
			values[k] = v
		}
	}
	for _, f := range TemplateToConfig(tmpl, false) {
		if !f.Required {
			continue
		}
		v, ok := values[f.ID]
		if !ok || v == nil || v == "" {
			return fmt.Errorf("required field missing: %s", f.Label)
		}
	}
	return nil
}

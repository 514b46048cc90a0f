package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/repository"
)

// TemplateService maintains the append-only version history of questionnaire
// templates and resolves the schema that was authoritative at submission time.
type TemplateService struct {
	templates *repository.TemplateRepo
}

func NewTemplateService(templates *repository.TemplateRepo) *TemplateService {
	return &TemplateService{templates: templates}
}

// Save persists tmpl as the new current template. The first save for an id
// lands at version 1 with no archive; every later save first archives the
// superseded current snapshot under its own version number, then writes the
// new current at version+1.
func (s *TemplateService) Save(ctx context.Context, tmpl *models.QuestionnaireTemplate, updatedBy string) (*models.QuestionnaireTemplate, error) {
	if tmpl.ID == "" {
		return nil, errors.New("template id is required")
	}
	current, err := s.templates.FindCurrent(ctx, tmpl.ID)
	if err != nil {
		return nil, err
	}

	next := tmpl.Clone()
	normalizeOrder(next.Fields)
	next.UpdatedBy = updatedBy
	next.UpdatedAt = time.Now().UTC()

	if current == nil {
		next.Version = 1
	} else {
		archive := &models.TemplateVersion{
			TemplateID: current.ID,
			Version:    current.Version,
			Fields:     current.Fields,
			CreatedAt:  current.UpdatedAt,
			CreatedBy:  current.UpdatedBy,
		}
		if err := s.templates.SaveVersion(ctx, archive); err != nil {
			return nil, err
		}
		next.Version = current.Version + 1
	}

	if err := s.templates.SaveCurrent(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Current returns the current template, or an error if none exists.
func (s *TemplateService) Current(ctx context.Context, id string) (*models.QuestionnaireTemplate, error) {
	tmpl, err := s.templates.FindCurrent(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, errors.New("template not found")
	}
	return tmpl, nil
}

// Version returns one archived snapshot, or an error if it was never archived.
func (s *TemplateService) Version(ctx context.Context, id string, version int) (*models.TemplateVersion, error) {
	v, err := s.templates.FindVersion(ctx, id, version)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("template %s has no archived version %d", id, version)
	}
	return v, nil
}

// Versions lists all archived snapshots, newest first.
func (s *TemplateService) Versions(ctx context.Context, id string) ([]models.TemplateVersion, error) {
	return s.templates.FindVersions(ctx, id)
}

// ForSubmission resolves the template shape a submission should be rendered
// against. version 0 means current. A version that was never archived (or
// predates archiving) degrades to the current template; that is a logged
// best-effort fallback, not an error.
func (s *TemplateService) ForSubmission(ctx context.Context, id string, version int) (*models.QuestionnaireTemplate, error) {
	if version > 0 {
		archived, err := s.templates.FindVersion(ctx, id, version)
		if err != nil {
			return nil, err
		}
		if archived != nil {
			return &models.QuestionnaireTemplate{
				ID:        archived.TemplateID,
				Version:   archived.Version,
				Fields:    archived.Fields,
				UpdatedAt: archived.CreatedAt,
				UpdatedBy: archived.CreatedBy,
			}, nil
		}
		current, err := s.Current(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Version != version {
			log.Printf("template %s version %d not archived, falling back to current v%d", id, version, current.Version)
		}
		return current, nil
	}
	return s.Current(ctx, id)
}

// Validate collects every problem with the template without short-circuiting:
// duplicate field ids, blank labels, and choice fields missing options.
func Validate(tmpl *models.QuestionnaireTemplate) models.ValidationResult {
	var errs []string
	seen := map[string]bool{}
	for _, f := range tmpl.Fields {
		if seen[f.ID] {
			errs = append(errs, fmt.Sprintf("duplicate field id: %s", f.ID))
		}
		seen[f.ID] = true
		if strings.TrimSpace(f.Label) == "" {
			errs = append(errs, fmt.Sprintf("field %s has a blank label", f.ID))
		}
		if f.Type.NeedsOptions() && len(f.Options) == 0 {
			errs = append(errs, fmt.Sprintf("field %s (%s) requires options", f.ID, f.Type))
		}
	}
	return models.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// MarkFieldRemoved soft-deletes a field: it stays in the array for historical
// rendering but is excluded from new submissions. Order is re-derived from
// array position; untouched fields keep every other property byte-identical.
func MarkFieldRemoved(fields []models.QuestionField, fieldID string) []models.QuestionField {
	out := cloneAndNormalize(fields)
	for i := range out {
		if out[i].ID == fieldID {
			out[i].Removed = true
		}
	}
	return out
}

// UpdateField replaces the field with updated.ID, preserving array position.
func UpdateField(fields []models.QuestionField, updated models.QuestionField) []models.QuestionField {
	out := cloneAndNormalize(fields)
	for i := range out {
		if out[i].ID == updated.ID {
			order := out[i].Order
			out[i] = updated
			out[i].Order = order
		}
	}
	return out
}

// MoveField shifts a field from one array position to another and re-derives
// every order value.
func MoveField(fields []models.QuestionField, from, to int) []models.QuestionField {
	out := cloneAndNormalize(fields)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	f := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := append([]models.QuestionField{}, out[:to]...)
	rest = append(rest, f)
	rest = append(rest, out[to:]...)
	normalizeOrder(rest)
	return rest
}

// AddField appends a new field at the end of the array.
func AddField(fields []models.QuestionField, field models.QuestionField) []models.QuestionField {
	out := cloneAndNormalize(fields)
	field.Order = len(out)
	return append(out, field)
}

// TemplateToConfig projects a template snapshot into the ordered field list a
// form renders. The projection is deterministic for a given snapshot and
// flag: new submissions exclude removed fields; historical renders include
// them so the UI can flag legacy answers.
func TemplateToConfig(tmpl *models.QuestionnaireTemplate, includeRemoved bool) []models.QuestionField {
	fields := make([]models.QuestionField, 0, len(tmpl.Fields))
	for _, f := range tmpl.Fields {
		if f.Removed && !includeRemoved {
			continue
		}
		fields = append(fields, f)
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
	return fields
}

func cloneAndNormalize(fields []models.QuestionField) []models.QuestionField {
	out := make([]models.QuestionField, len(fields))
	copy(out, fields)
	normalizeOrder(out)
	return out
}

func normalizeOrder(fields []models.QuestionField) {
	for i := range fields {
		fields[i].Order = i
	}
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/storage"
)

type TemplateRepo struct {
	store storage.Store
}

func NewTemplateRepo(store storage.Store) *TemplateRepo {
	return &TemplateRepo{store: store}
}

// SaveCurrent overwrites the current template for its id.
func (r *TemplateRepo) SaveCurrent(ctx context.Context, tmpl *models.QuestionnaireTemplate) error {
	if tmpl.ID == "" {
		return errors.New("template id is required")
	}
	return r.store.SetJSON(ctx, templateKey(tmpl.ID), tmpl)
}

// FindCurrent returns (nil, nil) when no template exists for the id yet.
func (r *TemplateRepo) FindCurrent(ctx context.Context, id string) (*models.QuestionnaireTemplate, error) {
	data, err := r.store.Get(ctx, templateKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t models.QuestionnaireTemplate
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal template %s: %w", id, err)
	}
	return &t, nil
}

// SaveVersion archives an immutable snapshot under its version number.
func (r *TemplateRepo) SaveVersion(ctx context.Context, v *models.TemplateVersion) error {
	return r.store.SetJSON(ctx, templateVersionKey(v.TemplateID, v.Version), v)
}

// FindVersion returns (nil, nil) when the version was never archived.
func (r *TemplateRepo) FindVersion(ctx context.Context, templateID string, version int) (*models.TemplateVersion, error) {
	data, err := r.store.Get(ctx, templateVersionKey(templateID, version))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v models.TemplateVersion
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal template version %s/%d: %w", templateID, version, err)
	}
	return &v, nil
}

// FindVersions returns all archived snapshots for a template, newest first.
func (r *TemplateRepo) FindVersions(ctx context.Context, templateID string) ([]models.TemplateVersion, error) {
	keys, err := r.store.List(ctx, templateVersionPrefix+templateID+"/")
	if err != nil {
		return nil, err
	}
	versions := make([]models.TemplateVersion, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var v models.TemplateVersion
		if err := json.Unmarshal(data, &v); err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions, nil
}

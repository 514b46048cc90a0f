package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/storage"
)

type SubmissionRepo struct {
	store storage.Store
}

func NewSubmissionRepo(store storage.Store) *SubmissionRepo {
	return &SubmissionRepo{store: store}
}

func (r *SubmissionRepo) Save(ctx context.Context, sub *models.QuestionnaireSubmission) error {
	if sub.ID == "" || sub.PartnerID == "" {
		return errors.New("submission id and partner id are required")
	}
	return r.store.SetJSON(ctx, submissionKey(sub.PartnerID, sub.ID), sub)
}

// FindByID returns (nil, nil) when the submission does not exist.
func (r *SubmissionRepo) FindByID(ctx context.Context, partnerID, id string) (*models.QuestionnaireSubmission, error) {
	data, err := r.store.Get(ctx, submissionKey(partnerID, id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s models.QuestionnaireSubmission
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal submission %s: %w", id, err)
	}
	s.ID = id
	return &s, nil
}

func (r *SubmissionRepo) FindByPartner(ctx context.Context, partnerID string) ([]models.QuestionnaireSubmission, error) {
	keys, err := r.store.List(ctx, submissionPrefix+partnerID+"/")
	if err != nil {
		return nil, err
	}
	subs := make([]models.QuestionnaireSubmission, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var s models.QuestionnaireSubmission
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// MapByPartner indexes a partner's submissions by id, the shape the gate
// status calculator consumes.
func (r *SubmissionRepo) MapByPartner(ctx context.Context, partnerID string) (map[string]*models.QuestionnaireSubmission, error) {
	subs, err := r.FindByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.QuestionnaireSubmission, len(subs))
	for i := range subs {
		out[subs[i].ID] = &subs[i]
	}
	return out, nil
}

func (r *SubmissionRepo) Delete(ctx context.Context, partnerID, id string) error {
	return r.store.Delete(ctx, submissionKey(partnerID, id))
}

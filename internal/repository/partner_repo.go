package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/storage"
)

type PartnerRepo struct {
	store storage.Store
}

func NewPartnerRepo(store storage.Store) *PartnerRepo {
	return &PartnerRepo{store: store}
}

// Save writes the partner under its id, overwriting any prior value.
func (r *PartnerRepo) Save(ctx context.Context, partner *models.Partner) error {
	if partner.ID == "" {
		return errors.New("partner id is required")
	}
	return r.store.SetJSON(ctx, partnerKey(partner.ID), partner)
}

// FindByID returns (nil, nil) when the partner does not exist. Decoding into
// the fixed Partner struct drops legacy fields (tpmOwner) on read.
func (r *PartnerRepo) FindByID(ctx context.Context, id string) (*models.Partner, error) {
	data, err := r.store.Get(ctx, partnerKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p models.Partner
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal partner %s: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

func (r *PartnerRepo) FindAll(ctx context.Context) ([]models.Partner, error) {
	keys, err := r.store.List(ctx, partnerPrefix)
	if err != nil {
		return nil, err
	}
	partners := make([]models.Partner, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var p models.Partner
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		p.ID = key[len(partnerPrefix):]
		partners = append(partners, p)
	}
	return partners, nil
}

func (r *PartnerRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, partnerKey(id))
}

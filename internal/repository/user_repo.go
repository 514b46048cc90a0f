package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/storage"
)

// UserRepo keys users by lowercased email; email is the login identifier.
type UserRepo struct {
	store storage.Store
}

func NewUserRepo(store storage.Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Save(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return errors.New("user email is required")
	}
	return r.store.SetJSON(ctx, userKey(strings.ToLower(user.Email)), user)
}

// FindByEmail returns (nil, nil) when no user exists for the email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	data, err := r.store.Get(ctx, userKey(strings.ToLower(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user %s: %w", email, err)
	}
	return &u, nil
}

// FindByID scans the user space; the user set is small (operators, not
// partners), so a scan is acceptable here.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	keys, err := r.store.List(ctx, userPrefix)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var u models.User
		if err := json.Unmarshal(data, &u); err != nil {
			continue
		}
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

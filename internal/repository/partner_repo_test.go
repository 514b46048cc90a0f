package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/storage"
)

func TestPartnerSaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewPartnerRepo(storage.NewMemory())

	p := &models.Partner{ID: "p1", Name: "Acme", CurrentGate: "pre-contract", PAMOwner: "pam@x.com"}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.Name != "Acme" || got.ID != "p1" {
		t.Fatalf("unexpected partner %+v", got)
	}
}

func TestPartnerFindMissingIsNilNil(t *testing.T) {
	got, err := NewPartnerRepo(storage.NewMemory()).FindByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("missing partner should not be an error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestPartnerSaveRequiresID(t *testing.T) {
	if err := NewPartnerRepo(storage.NewMemory()).Save(context.Background(), &models.Partner{Name: "x"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

// Records written before the ownership model change may still carry tpmOwner.
// Reading drops it; the next save writes the record without it.
func TestLegacyTpmOwnerDroppedOnRead(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	repo := NewPartnerRepo(store)

	legacy := map[string]any{
		"name":        "Acme",
		"currentGate": "gate-1",
		"pamOwner":    "pam@x.com",
		"tpmOwner":    "tpm@x.com",
	}
	if err := store.SetJSON(ctx, "partners/p1", legacy); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p, err := repo.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.PAMOwner != "pam@x.com" || p.CurrentGate != "gate-1" {
		t.Fatalf("known fields should survive: %+v", p)
	}
	for _, owner := range p.OwnerEmails() {
		if owner == "tpm@x.com" {
			t.Fatal("tpm owner must not surface as an owner")
		}
	}

	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := store.Get(ctx, "partners/p1")
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	var rewritten map[string]any
	if err := json.Unmarshal(raw, &rewritten); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := rewritten["tpmOwner"]; ok {
		t.Fatal("rewriting the record should shed the legacy field")
	}
}

func TestPartnerFindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewPartnerRepo(storage.NewMemory())
	for _, id := range []string{"a", "b"} {
		if err := repo.Save(ctx, &models.Partner{ID: id, Name: id}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("findAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 partners, got %d", len(all))
	}
	if all[0].ID != "a" || all[1].ID != "b" {
		t.Fatalf("ids should be rehydrated from keys: %+v", all)
	}
}

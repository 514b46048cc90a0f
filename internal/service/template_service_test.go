package service

import (
	"context"
	"testing"

	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/repository"
	"github.com/oakline/partnertrack/internal/storage"
)

func newTemplateService() *TemplateService {
	return NewTemplateService(repository.NewTemplateRepo(storage.NewMemory()))
}

func fieldsAB() []models.QuestionField {
	return []models.QuestionField{
		{ID: "company-name", Type: models.FieldText, Label: "Company name", Required: true},
		{ID: "region", Type: models.FieldSelect, Label: "Region", Options: []string{"emea", "amer", "apac"}},
	}
}

// n sequential saves yield version n; the first save archives nothing and
// every later save archives exactly the immediately preceding snapshot.
func TestSaveVersionIncrementLaw(t *testing.T) {
	ctx := context.Background()
	svc := newTemplateService()

	for i := 1; i <= 4; i++ {
		saved, err := svc.Save(ctx, &models.QuestionnaireTemplate{ID: "gate-0-business-case", Fields: fieldsAB()}, "admin@x.com")
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if saved.Version != i {
			t.Fatalf("save %d: expected version %d, got %d", i, i, saved.Version)
		}
		versions, err := svc.Versions(ctx, "gate-0-business-case")
		if err != nil {
			t.Fatalf("versions: %v", err)
		}
		if len(versions) != i-1 {
			t.Fatalf("after save %d expected %d archived versions, got %d", i, i-1, len(versions))
		}
		if i > 1 && versions[0].Version != i-1 {
			t.Fatalf("newest archive should be version %d, got %d", i-1, versions[0].Version)
		}
	}
}

// The §8.7 round trip: save, soft-remove a field, save again, then check the
// archive and both projections.
func TestSaveArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTemplateService()

	v1, err := svc.Save(ctx, &models.QuestionnaireTemplate{ID: "gate-0-business-case", Fields: fieldsAB()}, "admin@x.com")
	if err != nil {
		t.Fatalf("save v1: %v", err)
	}
	if v1.Version != 1 {
		t.Fatalf("first save should be version 1, got %d", v1.Version)
	}

	removed := MarkFieldRemoved(v1.Fields, "region")
	v2, err := svc.Save(ctx, &models.QuestionnaireTemplate{ID: "gate-0-business-case", Fields: removed}, "admin@x.com")
	if err != nil {
		t.Fatalf("save v2: %v", err)
	}
	if v2.Version != 2 {
		t.Fatalf("second save should be version 2, got %d", v2.Version)
	}

	versions, err := svc.Versions(ctx, "gate-0-business-case")
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != 1 || versions[0].Version != 1 {
		t.Fatalf("expected exactly one archive at version 1, got %+v", versions)
	}
	// In the archived snapshot the field is not yet removed.
	for _, f := range versions[0].Fields {
		if f.ID == "region" && f.Removed {
			t.Fatal("archived v1 must not carry the later removal")
		}
	}

	visible := TemplateToConfig(v2, false)
	for _, f := range visible {
		if f.ID == "region" {
			t.Fatal("removed field should be excluded when includeRemoved=false")
		}
	}
	all := TemplateToConfig(v2, true)
	found := false
	for _, f := range all {
		if f.ID == "region" {
			found = true
			if !f.Removed {
				t.Fatal("included removed field must keep its removed flag")
			}
		}
	}
	if !found {
		t.Fatal("removed field should be included when includeRemoved=true")
	}
}

func TestForSubmissionResolvesArchivedVersion(t *testing.T) {
	ctx := context.Background()
	svc := newTemplateService()

	if _, err := svc.Save(ctx, &models.QuestionnaireTemplate{ID: "t", Fields: fieldsAB()}, "a"); err != nil {
		t.Fatalf("save: %v", err)
	}
	smaller := []models.QuestionField{{ID: "company-name", Type: models.FieldText, Label: "Company name"}}
	if _, err := svc.Save(ctx, &models.QuestionnaireTemplate{ID: "t", Fields: smaller}, "a"); err != nil {
		t.Fatalf("save: %v", err)
	}

	tmpl, err := svc.ForSubmission(ctx, "t", 1)
	if err != nil {
		t.Fatalf("forSubmission: %v", err)
	}
	if tmpl.Version != 1 || len(tmpl.Fields) != 2 {
		t.Fatalf("expected the v1 field set, got v%d with %d fields", tmpl.Version, len(tmpl.Fields))
	}
}

// A never-archived version degrades to current rather than failing.
func TestForSubmissionFallsBackToCurrent(t *testing.T) {
	ctx := context.Background()
	svc := newTemplateService()
	if _, err := svc.Save(ctx, &models.QuestionnaireTemplate{ID: "t", Fields: fieldsAB()}, "a"); err != nil {
		t.Fatalf("save: %v", err)
	}
	tmpl, err := svc.ForSubmission(ctx, "t", 42)
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}
	if tmpl.Version != 1 {
		t.Fatalf("expected current template, got v%d", tmpl.Version)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	tmpl := &models.QuestionnaireTemplate{ID: "t", Fields: []models.QuestionField{
		{ID: "a", Type: models.FieldText, Label: "A"},
		{ID: "a", Type: models.FieldText, Label: "Dup"},
		{ID: "b", Type: models.FieldText, Label: "   "},
		{ID: "c", Type: models.FieldSelect, Label: "C"},
	}}
	result := Validate(tmpl)
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 errors (dup id, blank label, missing options), got %v", result.Errors)
	}
}

func TestValidateOK(t *testing.T) {
	result := Validate(&models.QuestionnaireTemplate{ID: "t", Fields: fieldsAB()})
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("expected valid, got %v", result.Errors)
	}
}

func TestFieldTransformsPreserveUntouchedFields(t *testing.T) {
	fields := fieldsAB()
	out := MarkFieldRemoved(fields, "region")
	if len(out) != len(fields) {
		t.Fatal("soft removal must not change the field set")
	}
	if out[0].Label != fields[0].Label || out[0].Type != fields[0].Type || out[0].Required != fields[0].Required {
		t.Fatal("untouched field properties must be unchanged")
	}
	for i, f := range out {
		if f.Order != i {
			t.Fatalf("order must match array position: field %d has order %d", i, f.Order)
		}
	}
}

func TestMoveFieldRederivesOrder(t *testing.T) {
	fields := []models.QuestionField{
		{ID: "a", Type: models.FieldText, Label: "A"},
		{ID: "b", Type: models.FieldText, Label: "B"},
		{ID: "c", Type: models.FieldText, Label: "C"},
	}
	out := MoveField(fields, 0, 2)
	ids := []string{out[0].ID, out[1].ID, out[2].ID}
	if ids[0] != "b" || ids[1] != "c" || ids[2] != "a" {
		t.Fatalf("unexpected order after move: %v", ids)
	}
	for i, f := range out {
		if f.Order != i {
			t.Fatalf("order not re-derived at %d: %d", i, f.Order)
		}
	}
}

func TestTemplateToConfigDeterministic(t *testing.T) {
	tmpl := &models.QuestionnaireTemplate{ID: "t", Fields: []models.QuestionField{
		{ID: "b", Type: models.FieldText, Label: "B", Order: 1},
		{ID: "a", Type: models.FieldText, Label: "A", Order: 0},
		{ID: "x", Type: models.FieldText, Label: "X", Order: 2, Removed: true},
	}}
	first := TemplateToConfig(tmpl, true)
	second := TemplateToConfig(tmpl, true)
	if len(first) != len(second) {
		t.Fatal("projection must be deterministic")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatal("projection must be deterministic")
		}
	}
	if first[0].ID != "a" || first[1].ID != "b" {
		t.Fatalf("fields must come back in order: %v", []string{first[0].ID, first[1].ID})
	}
}

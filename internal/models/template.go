package models

import "time"

// FieldType enumerates the supported questionnaire field kinds.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
)

// NeedsOptions reports whether the field type requires a non-empty options list.
func (t FieldType) NeedsOptions() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

// QuestionField is a single field in a questionnaire template. Removed fields
// are soft-deleted: excluded from new submissions but retained so historical
// submissions can still be rendered.
type QuestionField struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	HelpText    string    `json:"helpText,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Order       int       `json:"order"`
	Removed     bool      `json:"removed,omitempty"`
}

// QuestionnaireTemplate is the current schema for one questionnaire,
// monotonically versioned. The template id doubles as the questionnaire id.
type QuestionnaireTemplate struct {
	ID        string          `json:"_id"`
	Version   int             `json:"version"`
	Fields    []QuestionField `json:"fields"`
	UpdatedAt time.Time       `json:"updatedAt"`
	UpdatedBy string          `json:"updatedBy"`
}

// Clone returns a deep copy.
func (t *QuestionnaireTemplate) Clone() *QuestionnaireTemplate {
	out := *t
	out.Fields = cloneFields(t.Fields)
	return &out
}

// TemplateVersion is an immutable snapshot of a superseded template, written
// every time a newer version replaces the current one.
type TemplateVersion struct {
	TemplateID string          `json:"templateId"`
	Version    int             `json:"version"`
	Fields     []QuestionField `json:"fields"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

// ValidationResult reports template validation problems without short-circuiting.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func cloneFields(fields []QuestionField) []QuestionField {
	out := make([]QuestionField, len(fields))
	for i, f := range fields {
		f.Options = append([]string(nil), f.Options...)
		out[i] = f
	}
	return out
}

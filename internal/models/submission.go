package models

import "time"

// SubmissionStatus is the outcome recorded on a questionnaire submission,
// either per section or overall.
type SubmissionStatus string

const (
	SubmissionPass    SubmissionStatus = "pass"
	SubmissionFail    SubmissionStatus = "fail"
	SubmissionPartial SubmissionStatus = "partial"
	SubmissionPending SubmissionStatus = "pending"
)

// ValidSubmissionStatus reports whether s is one of the known statuses.
func ValidSubmissionStatus(s SubmissionStatus) bool {
	switch s {
	case SubmissionPass, SubmissionFail, SubmissionPartial, SubmissionPending:
		return true
	}
	return false
}

// SubmissionSection is one ordered section of answers.
type SubmissionSection struct {
	SectionID string           `json:"sectionId"`
	Fields    map[string]any   `json:"fields"`
	Status    SubmissionStatus `json:"status"`
}

// QuestionnaireSubmission is one partner's answer set for one questionnaire.
// TemplateVersion pins the template schema that was current at creation time
// and never changes afterwards, so historical submissions stay replayable
// against the shape they were filled against. CreatedAt is immutable; saves
// only ever bump UpdatedAt and content.
type QuestionnaireSubmission struct {
	ID              string              `json:"_id,omitempty"`
	PartnerID       string              `json:"partnerId"`
	QuestionnaireID string              `json:"questionnaireId"`
	OverallStatus   SubmissionStatus    `json:"overallStatus"`
	TemplateVersion int                 `json:"templateVersion"`
	Sections        []SubmissionSection `json:"sections"`
	Signature       string              `json:"signature,omitempty"`
	SubmittedBy     string              `json:"submittedBy"`
	SubmittedByRole string              `json:"submittedByRole"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// FieldValues flattens all section field maps into one lookup.
func (s *QuestionnaireSubmission) FieldValues() map[string]any {
	out := map[string]any{}
	for _, sec := range s.Sections {
		for k, v := range sec.Fields {
			out[k] = v
		}
	}
	return out
}

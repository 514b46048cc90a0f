// Package repository maps domain entities to keys in the storage collaborator.
// Repositories return (nil, nil) on a missing entity; callers decide whether
// that is an error.
package repository

import "fmt"

const (
	partnerPrefix         = "partners/"
	templatePrefix        = "templates/"
	templateVersionPrefix = "template_versions/"
	submissionPrefix      = "submissions/"
	userPrefix            = "users/"
)

func partnerKey(id string) string { return partnerPrefix + id }

func templateKey(id string) string { return templatePrefix + id }

func templateVersionKey(templateID string, version int) string {
	return fmt.Sprintf("%s%s/%d", templateVersionPrefix, templateID, version)
}

func submissionKey(partnerID, id string) string {
	return submissionPrefix + partnerID + "/" + id
}

func userKey(email string) string { return userPrefix + email }

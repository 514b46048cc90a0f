package gates

import "github.com/oakline/partnertrack/internal/models"

// CalculateStatus derives a gate's status from its linked questionnaire
// submissions. Failure dominates partial/pending; "all present and passing"
// is the only way to reach passed. A required questionnaire with no recorded
// submission always keeps the gate short of passed.
func CalculateStatus(progress *models.GateProgress, submissions map[string]*models.QuestionnaireSubmission) models.GateStatus {
	required := Required(progress.GateID)

	// Gates with no questionnaires (post-launch) pass once started.
	if len(required) == 0 {
		if progress.StartedDate != nil {
			return models.GatePassed
		}
		return models.GateNotStarted
	}

	recorded := false
	for _, q := range required {
		if _, ok := progress.Questionnaires[q]; ok {
			recorded = true
			break
		}
	}
	if !recorded {
		return models.GateNotStarted
	}

	allPass := true
	for _, q := range required {
		subID, ok := progress.Questionnaires[q]
		if !ok {
			allPass = false
			continue
		}
		sub := submissions[subID]
		if sub == nil {
			allPass = false
			continue
		}
		switch sub.OverallStatus {
		case models.SubmissionFail:
			return models.GateFailed
		case models.SubmissionPass:
		default:
			allPass = false
		}
	}
	if allPass {
		return models.GatePassed
	}
	return models.GateInProgress
}

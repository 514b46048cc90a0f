package gates

import (
	"fmt"
	"math"

	"github.com/oakline/partnertrack/internal/models"
)

// Progression is the outcome of a progression check. A negative result is a
// normal answer meant for an end user, not an error.
type Progression struct {
	CanProgress bool   `json:"canProgress"`
	Reason      string `json:"reason,omitempty"`
}

// CanProgressTo decides whether a partner may enter targetGate. Every gate
// except the first requires its immediate predecessor to have a recorded,
// passed progress record.
func CanProgressTo(partner *models.Partner, targetGate string, submissions map[string]*models.QuestionnaireSubmission) Progression {
	if _, ok := Get(targetGate); !ok {
		return Progression{CanProgress: false, Reason: "Invalid gate ID"}
	}
	prev := Prev(targetGate)
	if prev == "" {
		return Progression{CanProgress: true}
	}
	progress, ok := partner.Gates[prev]
	if !ok {
		return Progression{
			CanProgress: false,
			Reason:      fmt.Sprintf("%s has not been started", DisplayName(prev)),
		}
	}
	if CalculateStatus(progress, submissions) != models.GatePassed {
		return Progression{
			CanProgress: false,
			Reason:      fmt.Sprintf("%s must be passed before entering %s", DisplayName(prev), targetGate),
		}
	}
	return Progression{CanProgress: true}
}

// Blockers returns the full blocking picture for targetGate: the progression
// reason (if blocked) followed by any manually recorded blockers stored on
// the target gate's progress.
func Blockers(partner *models.Partner, targetGate string, submissions map[string]*models.QuestionnaireSubmission) []string {
	var out []string
	if res := CanProgressTo(partner, targetGate, submissions); !res.CanProgress {
		out = append(out, res.Reason)
	}
	if progress, ok := partner.Gates[targetGate]; ok {
		out = append(out, progress.Blockers...)
	}
	return out
}

// CompletionPercentage reports how much of a gate's questionnaire work has
// passed. Gates without requirements are all-or-nothing.
func CompletionPercentage(progress *models.GateProgress, submissions map[string]*models.QuestionnaireSubmission) int {
	required := Required(progress.GateID)
	if len(required) == 0 {
		if CalculateStatus(progress, submissions) == models.GatePassed {
			return 100
		}
		return 0
	}
	passed := 0
	for _, q := range required {
		subID, ok := progress.Questionnaires[q]
		if !ok {
			continue
		}
		if sub := submissions[subID]; sub != nil && sub.OverallStatus == models.SubmissionPass {
			passed++
		}
	}
	return int(math.Round(100 * float64(passed) / float64(len(required))))
}

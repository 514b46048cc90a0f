package gates

import (
	"strings"
	"testing"
	"time"

	"github.com/oakline/partnertrack/internal/models"
)

func partnerWith(gates map[string]*models.GateProgress) *models.Partner {
	return &models.Partner{
		ID:          "p1",
		Name:        "Acme",
		CurrentGate: "pre-contract",
		Gates:       gates,
		PAMOwner:    "pam@example.com",
	}
}

func TestCanProgressToInvalidGate(t *testing.T) {
	p := partnerWith(nil)
	res := CanProgressTo(p, "gate-9", nil)
	if res.CanProgress {
		t.Fatal("unknown gate should not be reachable")
	}
	if res.Reason != "Invalid gate ID" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
}

func TestCanProgressToFirstGateAlwaysAllowed(t *testing.T) {
	p := partnerWith(nil)
	if res := CanProgressTo(p, "pre-contract", nil); !res.CanProgress {
		t.Fatalf("pre-contract should always be reachable: %q", res.Reason)
	}
}

func TestCanProgressToUnstartedPredecessor(t *testing.T) {
	p := partnerWith(map[string]*models.GateProgress{})
	res := CanProgressTo(p, "gate-0", nil)
	if res.CanProgress {
		t.Fatal("should be blocked when predecessor has no progress record")
	}
	if !strings.Contains(res.Reason, "has not been started") {
		t.Fatalf("reason should mention unstarted predecessor, got %q", res.Reason)
	}
}

// The denial reason names the predecessor's display name and the target gate.
func TestBlockedReasonNamesGates(t *testing.T) {
	progress := progressFor("gate-0", map[string]string{"gate-0-business-case": "s1"})
	subs := map[string]*models.QuestionnaireSubmission{
		"s1": submission("s1", models.SubmissionPartial),
	}
	p := partnerWith(map[string]*models.GateProgress{"gate-0": progress})

	res := CanProgressTo(p, "gate-1", subs)
	if res.CanProgress {
		t.Fatal("gate-1 should be blocked while gate-0 is in progress")
	}
	if !strings.Contains(res.Reason, DisplayName("gate-0")) {
		t.Errorf("reason should contain %q, got %q", DisplayName("gate-0"), res.Reason)
	}
	if !strings.Contains(res.Reason, "gate-1") {
		t.Errorf("reason should contain the target gate, got %q", res.Reason)
	}
}

func TestCanProgressWhenPredecessorPassed(t *testing.T) {
	progress := progressFor("gate-0", map[string]string{
		"gate-0-business-case": "s1",
		"gate-0-technical-fit": "s2",
	})
	subs := map[string]*models.QuestionnaireSubmission{
		"s1": submission("s1", models.SubmissionPass),
		"s2": submission("s2", models.SubmissionPass),
	}
	p := partnerWith(map[string]*models.GateProgress{"gate-0": progress})
	if res := CanProgressTo(p, "gate-1", subs); !res.CanProgress {
		t.Fatalf("expected progression allowed, got %q", res.Reason)
	}
}

func TestBlockersConcatenatesManualBlockers(t *testing.T) {
	progress := progressFor("gate-0", map[string]string{"gate-0-business-case": "s1"})
	target := models.NewGateProgress("gate-1")
	target.Blockers = []string{"waiting on legal review"}
	p := partnerWith(map[string]*models.GateProgress{
		"gate-0": progress,
		"gate-1": target,
	})
	subs := map[string]*models.QuestionnaireSubmission{
		"s1": submission("s1", models.SubmissionPending),
	}

	blockers := Blockers(p, "gate-1", subs)
	if len(blockers) != 2 {
		t.Fatalf("expected progression reason plus manual blocker, got %v", blockers)
	}
	if blockers[1] != "waiting on legal review" {
		t.Fatalf("manual blocker should follow the progression reason: %v", blockers)
	}
}

func TestCompletionPercentage(t *testing.T) {
	progress := progressFor("gate-0", map[string]string{"gate-0-business-case": "s1"})
	subs := map[string]*models.QuestionnaireSubmission{
		"s1": submission("s1", models.SubmissionPass),
	}
	if got := CompletionPercentage(progress, subs); got != 50 {
		t.Fatalf("one of two passing should be 50, got %d", got)
	}

	progress.Questionnaires["gate-0-technical-fit"] = "s2"
	subs["s2"] = submission("s2", models.SubmissionPending)
	if got := CompletionPercentage(progress, subs); got != 50 {
		t.Fatalf("pending does not count as passed, got %d", got)
	}

	subs["s2"] = submission("s2", models.SubmissionPass)
	if got := CompletionPercentage(progress, subs); got != 100 {
		t.Fatalf("all passing should be 100, got %d", got)
	}
}

func TestCompletionPercentageNoRequirements(t *testing.T) {
	p := models.NewGateProgress("post-launch")
	if got := CompletionPercentage(p, nil); got != 0 {
		t.Fatalf("unstarted post-launch should be 0, got %d", got)
	}
	now := time.Now().UTC()
	p.StartedDate = &now
	if got := CompletionPercentage(p, nil); got != 100 {
		t.Fatalf("passed post-launch should be 100, got %d", got)
	}
}

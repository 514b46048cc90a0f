package rbac

import (
	"testing"

	"github.com/oakline/partnertrack/internal/models"
)

type recordingAudit struct {
	calls int
}

func (r *recordingAudit) Decision(string, models.UserRole, string, string, bool) { r.calls++ }

func partner(id, currentGate, pamOwner, tamOwner string) models.Partner {
	return models.Partner{ID: id, Name: id, CurrentGate: currentGate, PAMOwner: pamOwner, TAMOwner: tamOwner}
}

func TestFilterPartnersNilActor(t *testing.T) {
	access := New(NopAudit{})
	out := access.FilterPartners(nil, []models.Partner{partner("p1", "gate-0", "pam@x.com", "")})
	if len(out) != 0 {
		t.Fatalf("nil actor must see nothing, got %d", len(out))
	}
}

func TestFilterPartnersAdminSeesAll(t *testing.T) {
	access := New(NopAudit{})
	all := []models.Partner{
		partner("p1", "gate-0", "a@x.com", ""),
		partner("p2", "post-launch", "b@x.com", ""),
	}
	out := access.FilterPartners(&Actor{Email: "root@x.com", Role: models.RoleAdmin}, all)
	if len(out) != 2 {
		t.Fatalf("admin should see all partners, got %d", len(out))
	}
}

func TestFilterPartnersOwnershipAndRelevance(t *testing.T) {
	access := New(NopAudit{})
	all := []models.Partner{
		partner("owned-relevant", "gate-3", "", "tam@x.com"),
		partner("owned-irrelevant", "gate-0", "", "tam@x.com"),
		partner("unowned", "gate-3", "", "other@x.com"),
	}
	out := access.FilterPartners(&Actor{Email: "tam@x.com", Role: models.RoleTAM}, all)
	if len(out) != 1 || out[0].ID != "owned-relevant" {
		t.Fatalf("tam should see only owned partners at relevant gates, got %+v", out)
	}
}

func TestOwnershipIsCaseInsensitive(t *testing.T) {
	access := New(NopAudit{})
	p := partner("p1", "gate-0", "Pam@Example.COM", "")
	if !access.CanAccessPartner(&Actor{Email: "pam@example.com", Role: models.RolePAM}, &p) {
		t.Fatal("owner email comparison should be case-insensitive")
	}
}

func TestCanEditMatchesAccess(t *testing.T) {
	access := New(NopAudit{})
	p := partner("p1", "gate-2", "pam@x.com", "tam@x.com")

	pam := &Actor{Email: "pam@x.com", Role: models.RolePAM}
	if !access.CanEditPartner(pam, &p) {
		t.Fatal("owning pam should edit at any gate")
	}
	// TAM owns the partner but gate-2 is outside their lane.
	tam := &Actor{Email: "tam@x.com", Role: models.RoleTAM}
	if access.CanEditPartner(tam, &p) {
		t.Fatal("tam should not edit a partner at gate-2")
	}
}

func TestCanSubmitQuestionnaireGateScoped(t *testing.T) {
	access := New(NopAudit{})
	p := partner("p1", "gate-1", "", "")
	p.PSMOwner = "psm@x.com"
	psm := &Actor{Email: "psm@x.com", Role: models.RolePSM}

	if !access.CanSubmitQuestionnaire(psm, &p, "gate-1") {
		t.Fatal("psm should submit for gate-1")
	}
	// Submission targets a gate outside the psm lane even though the
	// partner itself is visible.
	if access.CanSubmitQuestionnaire(psm, &p, "pre-contract") {
		t.Fatal("psm should not submit for pre-contract")
	}
}

func TestAdminBypassesGateScope(t *testing.T) {
	access := New(NopAudit{})
	p := partner("p1", "gate-0", "", "")
	admin := &Actor{Email: "root@x.com", Role: models.RoleAdmin}
	if !access.CanSubmitQuestionnaire(admin, &p, "post-launch") {
		t.Fatal("admin submits anywhere")
	}
}

func TestAuditReceivesEveryDecision(t *testing.T) {
	audit := &recordingAudit{}
	access := New(audit)
	all := []models.Partner{
		partner("p1", "gate-0", "pam@x.com", ""),
		partner("p2", "gate-1", "pam@x.com", ""),
	}
	access.FilterPartners(&Actor{Email: "pam@x.com", Role: models.RolePAM}, all)
	if audit.calls != 2 {
		t.Fatalf("expected one audit call per partner, got %d", audit.calls)
	}
	p := all[0]
	access.CanAccessPartner(&Actor{Email: "pam@x.com", Role: models.RolePAM}, &p)
	if audit.calls != 3 {
		t.Fatalf("access check should audit, got %d calls", audit.calls)
	}
}

func TestGateRelevant(t *testing.T) {
	cases := []struct {
		role models.UserRole
		gate string
		want bool
	}{
		{models.RolePDM, "pre-contract", true},
		{models.RolePDM, "gate-2", false},
		{models.RolePSM, "gate-1", true},
		{models.RolePSM, "post-launch", false},
		{models.RoleTAM, "post-launch", true},
		{models.RolePAM, "gate-2", true},
	}
	for _, tc := range cases {
		if got := GateRelevant(tc.role, tc.gate); got != tc.want {
			t.Errorf("GateRelevant(%s, %s) = %t, want %t", tc.role, tc.gate, got, tc.want)
		}
	}
}

func TestRelevantGateIDsReturnsCopy(t *testing.T) {
	ids := RelevantGateIDs(models.RoleTAM)
	if len(ids) == 0 {
		t.Fatal("tam should have relevant gates")
	}
	ids[0] = "mutated"
	if RelevantGateIDs(models.RoleTAM)[0] == "mutated" {
		t.Fatal("callers must not be able to mutate the relevance table")
	}
}

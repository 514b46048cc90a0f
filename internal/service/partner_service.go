package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oakline/partnertrack/internal/gates"
	"github.com/oakline/partnertrack/internal/models"
	"github.com/oakline/partnertrack/internal/repository"
)

// PartnerService walks partner records through the gate sequence. Each
// mutation reads current state, computes the next state purely and performs
// a single write; concurrent writers race last-write-wins by design.
type PartnerService struct {
	partners *repository.PartnerRepo
	subs     *repository.SubmissionRepo
}

func NewPartnerService(partners *repository.PartnerRepo, subs *repository.SubmissionRepo) *PartnerService {
	return &PartnerService{partners: partners, subs: subs}
}

// Create registers a new partner at the entry gate with an initialized,
// started progress record.
func (s *PartnerService) Create(ctx context.Context, name, pamOwner, pdmOwner, psmOwner, tamOwner string) (*models.Partner, error) {
	if name == "" {
		return nil, errors.New("partner name is required")
	}
	if pamOwner == "" {
		return nil, errors.New("pam owner is required")
	}
	now := time.Now().UTC()
	first := gates.First()
	progress := models.NewGateProgress(first)
	progress.StartedDate = &now

	partner := &models.Partner{
		ID:          uuid.NewString(),
		Name:        name,
		CurrentGate: first,
		Gates:       map[string]*models.GateProgress{first: progress},
		PAMOwner:    pamOwner,
		PDMOwner:    pdmOwner,
		PSMOwner:    psmOwner,
		TAMOwner:    tamOwner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.partners.Save(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *PartnerService) Get(ctx context.Context, id string) (*models.Partner, error) {
	partner, err := s.partners.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, errors.New("partner not found")
	}
	return partner, nil
}

func (s *PartnerService) List(ctx context.Context) ([]models.Partner, error) {
	return s.partners.FindAll(ctx)
}

// CompleteGate applies the completion transition and persists the result.
func (s *PartnerService) CompleteGate(ctx context.Context, partnerID, gateID, approvedBy, approvedByRole, signature, notes string) (*models.Partner, error) {
	partner, err := s.Get(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	next, err := gates.CompleteGate(partner, gateID, approvedBy, approvedByRole, signature, notes)
	if err != nil {
		return nil, err
	}
	if err := s.partners.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// BlockGate applies the blocking transition and persists the result.
func (s *PartnerService) BlockGate(ctx context.Context, partnerID, gateID string, blockers []string) (*models.Partner, error) {
	partner, err := s.Get(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	next, err := gates.BlockGate(partner, gateID, blockers)
	if err != nil {
		return nil, err
	}
	if err := s.partners.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// StartGate stamps first activity on the partner's current gate. This is how
// gates with no questionnaires (post-launch) reach passed.
func (s *PartnerService) StartGate(ctx context.Context, partnerID, gateID string) (*models.Partner, error) {
	partner, err := s.Get(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if _, ok := gates.Get(gateID); !ok {
		return nil, errors.New("unknown gate id")
	}
	now := time.Now().UTC()
	next := partner.Clone()
	progress, ok := next.Gates[gateID]
	if !ok {
		if gateID != next.CurrentGate {
			return nil, gates.ErrGateNotInitialized
		}
		progress = models.NewGateProgress(gateID)
		next.Gates[gateID] = progress
	}
	if progress.StartedDate == nil {
		progress.StartedDate = &now
	}
	subs, err := s.subs.MapByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	progress.Status = gates.CalculateStatus(progress, subs)
	next.UpdatedAt = now
	if err := s.partners.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// RecordSubmission links a submission into the gate that requires its
// questionnaire, stamps first activity and recalculates the stored status.
func (s *PartnerService) RecordSubmission(ctx context.Context, sub *models.QuestionnaireSubmission) (*models.Partner, error) {
	gateID, ok := gates.GateForQuestionnaire(sub.QuestionnaireID)
	if !ok {
		return nil, errors.New("questionnaire is not required by any gate")
	}
	partner, err := s.Get(ctx, sub.PartnerID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	next := partner.Clone()
	progress, exists := next.Gates[gateID]
	if !exists {
		progress = models.NewGateProgress(gateID)
		next.Gates[gateID] = progress
	}
	progress.Questionnaires[sub.QuestionnaireID] = sub.ID
	if progress.StartedDate == nil {
		progress.StartedDate = &now
	}
	subs, err := s.subs.MapByPartner(ctx, sub.PartnerID)
	if err != nil {
		return nil, err
	}
	subs[sub.ID] = sub
	progress.Status = gates.CalculateStatus(progress, subs)
	next.UpdatedAt = now
	if err := s.partners.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Progression answers whether the partner may enter targetGate.
func (s *PartnerService) Progression(ctx context.Context, partnerID, targetGate string) (gates.Progression, error) {
	partner, err := s.Get(ctx, partnerID)
	if err != nil {
		return gates.Progression{}, err
	}
	subs, err := s.subs.MapByPartner(ctx, partnerID)
	if err != nil {
		return gates.Progression{}, err
	}
	return gates.CanProgressTo(partner, targetGate, subs), nil
}

// Blockers returns the operator-facing blocking list for targetGate.
func (s *PartnerService) Blockers(ctx context.Context, partnerID, targetGate string) ([]string, error) {
	partner, err := s.Get(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subs.MapByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return gates.Blockers(partner, targetGate, subs), nil
}

// GateMetric is one row of per-gate progress for dashboards and exports.
type GateMetric struct {
	GateID        string            `json:"gateId"`
	Name          string            `json:"name"`
	Status        models.GateStatus `json:"status"`
	Completion    int               `json:"completion"`
	StartedDate   *time.Time        `json:"startedDate,omitempty"`
	CompletedDate *time.Time        `json:"completedDate,omitempty"`
}

// Metrics derives the full gate picture for one partner. Untouched gates
// report not-started with zero completion.
func (s *PartnerService) Metrics(ctx context.Context, partner *models.Partner) ([]GateMetric, error) {
	subs, err := s.subs.MapByPartner(ctx, partner.ID)
	if err != nil {
		return nil, err
	}
	all := gates.All()
	out := make([]GateMetric, 0, len(all))
	for _, g := range all {
		metric := GateMetric{GateID: g.ID, Name: g.Name, Status: models.GateNotStarted}
		if progress, ok := partner.Gates[g.ID]; ok {
			metric.Status = gates.CalculateStatus(progress, subs)
			if progress.Status == models.GateBlocked {
				metric.Status = models.GateBlocked
			}
			metric.Completion = gates.CompletionPercentage(progress, subs)
			metric.StartedDate = progress.StartedDate
			metric.CompletedDate = progress.CompletedDate
		}
		out = append(out, metric)
	}
	return out, nil
}

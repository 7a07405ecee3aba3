package services

import (
	"context"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/clinical"
	"github.com/carcarahealth/glica/internal/domain"
)

// AdjustmentResult is a generated follow-up plan plus the activity curves
// for the adjusted doses. The plan is not persisted here; appending it to
// the history entry is a separate, explicit step.
type AdjustmentResult struct {
	Plan   domain.AdjustmentReportData `json:"plan"`
	Curves []clinical.CurveSegment     `json:"curves"`
}

// AdjustmentService runs the reassessment flow for an existing history
// entry.
type AdjustmentService struct {
	store     domain.HistoryStore
	reasoning domain.ReasoningService
}

// NewAdjustmentService creates an adjustment service.
func NewAdjustmentService(store domain.HistoryStore, reasoning domain.ReasoningService) *AdjustmentService {
	return &AdjustmentService{store: store, reasoning: reasoning}
}

// GeneratePlan validates the reassessment input and asks the reasoning
// collaborator for a therapeutic adjustment, carrying the entry's previous
// conduct and full adjustment history.
func (s *AdjustmentService) GeneratePlan(ctx context.Context, entryID string, followUp domain.FollowUpData, fastMode bool) (*AdjustmentResult, error) {
	if followUp.CurrentWeight <= 0 {
		return nil, apperrors.NewValidationError("O peso atual do paciente é obrigatório.")
	}
	if followUp.CurrentFastingGlucose <= 0 && followUp.CurrentHbA1c <= 0 {
		return nil, apperrors.NewValidationError("Pelo menos um valor de Glicemia de Jejum ou HbA1c atual é necessário.")
	}

	entry, err := s.store.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}

	plan, err := s.reasoning.GenerateAdjustmentPlan(ctx, domain.AdjustmentRequest{
		Patient:       entry.Patient,
		InitialReport: entry.Report,
		FollowUp:      followUp,
		Adjustments:   entry.Adjustments,
		FastMode:      fastMode,
	})
	if err != nil {
		return nil, err
	}

	return &AdjustmentResult{
		Plan:   *plan,
		Curves: clinical.ProjectCurves(plan.AdjustedConduct.RecommendedInsulins, chartScale),
	}, nil
}

package services

import (
	"context"
	"time"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/clinical"
	"github.com/carcarahealth/glica/internal/domain"
	"github.com/carcarahealth/glica/internal/logger"
)

// chartScale is the fixed visual height of the activity chart the curve
// segments are computed against.
const chartScale = 100.0

// EvaluationResult is the tagged outcome of an evaluation: either the fixed
// "insulin not indicated" alert produced by the gate, or a report generated
// by the reasoning service. Consumers branch on Outcome instead of
// inspecting report text.
type EvaluationResult struct {
	Outcome clinical.GateOutcome    `json:"outcome"`
	Patient domain.PatientData      `json:"patient"`
	Report  domain.ReportData       `json:"report"`
	Curves  []clinical.CurveSegment `json:"curves"`
}

// ReportService runs the initial evaluation flow: derive the local
// calculator values, apply the indication gate, and only then consult the
// reasoning collaborator.
type ReportService struct {
	reasoning domain.ReasoningService
	now       func() time.Time
}

// NewReportService creates a report service.
func NewReportService(reasoning domain.ReasoningService) *ReportService {
	return &ReportService{reasoning: reasoning, now: time.Now}
}

// Evaluate validates and enriches the intake data, then produces the
// initial report. In fast mode the gate is skipped and the optional derived
// fields stay zero.
func (s *ReportService) Evaluate(ctx context.Context, patient domain.PatientData, fastMode bool) (*EvaluationResult, error) {
	if patient.HbA1c <= 0 || patient.FastingGlucose <= 0 {
		return nil, apperrors.NewValidationError("HbA1c e Glicemia de Jejum são obrigatórios.")
	}

	patient = s.derive(patient, fastMode)

	if gate := clinical.EvaluateIndication(patient, fastMode); gate.Outcome == clinical.OutcomeAlert {
		logger.Info("Insulin not indicated, skipping reasoning call", "patient", patient.Name, "hba1c", patient.HbA1c)
		return &EvaluationResult{
			Outcome: clinical.OutcomeAlert,
			Patient: patient,
			Report:  *gate.AlertReport,
			Curves:  []clinical.CurveSegment{},
		}, nil
	}

	report, err := s.reasoning.GenerateReport(ctx, patient, fastMode)
	if err != nil {
		return nil, err
	}

	return &EvaluationResult{
		Outcome: clinical.OutcomeProceed,
		Patient: patient,
		Report:  *report,
		Curves:  clinical.ProjectCurves(report.FinalConduct.RecommendedInsulins, chartScale),
	}, nil
}

// derive fills the locally computed fields: age from date of birth, BMI and
// eGFR from the measurements. Fast mode collects neither height nor renal
// labs, so the derived values stay zero there.
func (s *ReportService) derive(patient domain.PatientData, fastMode bool) domain.PatientData {
	if patient.DOB != "" {
		patient.Age = clinical.AgeFromDOB(patient.DOB, s.now())
	}
	if len(patient.Meals) == 0 {
		patient.Meals = domain.DefaultMeals()
	}
	if fastMode {
		patient.IMC = 0
		patient.TFG = 0
		return patient
	}
	patient.IMC = clinical.BMI(patient.Weight, patient.Height)
	patient.TFG = clinical.EGFR(patient.Creatinine, patient.Age, patient.Sex == domain.SexFemale)
	return patient
}

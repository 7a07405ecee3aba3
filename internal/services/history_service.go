package services

import (
	"context"
	"time"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/domain"
	"github.com/carcarahealth/glica/internal/logger"
)

// historyListLimit caps the history listing to the most recent entries.
const historyListLimit = 50

// HistoryService manages the append-only clinical history log on top of the
// document store.
type HistoryService struct {
	store domain.HistoryStore
	now   func() time.Time
}

// NewHistoryService creates a history service.
func NewHistoryService(store domain.HistoryStore) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// List returns the most recent entries, newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.store.List(ctx, historyListLimit)
}

// Get fetches one entry by identifier.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.HistoryEntry, error) {
	return s.store.Get(ctx, id)
}

// Save creates a new history entry. Saving is explicit, never automatic,
// and guarded against duplicate patient names: when the name already exists
// nothing is inserted.
func (s *HistoryService) Save(ctx context.Context, patient domain.PatientData, report domain.ReportData) (*domain.HistoryEntry, error) {
	exists, err := s.store.ExistsByPatientName(ctx, patient.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrPatientExists
	}

	entry := &domain.HistoryEntry{
		Patient:     patient,
		Report:      report,
		SavedAt:     s.now(),
		Adjustments: []domain.Adjustment{},
	}

	id, err := s.store.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	logger.Info("History entry saved", "entry_id", id, "patient", patient.Name)
	return entry, nil
}

// AppendAdjustment appends one adjustment bundle to an existing entry.
// Prior adjustments are never touched.
func (s *HistoryService) AppendAdjustment(ctx context.Context, entryID string, followUp domain.FollowUpData, plan domain.AdjustmentReportData) (*domain.Adjustment, error) {
	adjustment := domain.Adjustment{
		AdjustedAt:       s.now(),
		AdjustmentReport: plan,
		FollowUpData:     followUp,
	}

	if err := s.store.AppendAdjustment(ctx, entryID, adjustment); err != nil {
		return nil, err
	}

	logger.Info("Adjustment appended", "entry_id", entryID)
	return &adjustment, nil
}

// Delete removes an entry by identifier.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// SeedTestPatient inserts the bundled out-of-goal example entry when no
// entry with its patient name exists yet. It reports whether an entry was
// created.
func (s *HistoryService) SeedTestPatient(ctx context.Context) (*domain.HistoryEntry, bool, error) {
	seed := testPatientEntry()

	exists, err := s.store.ExistsByPatientName(ctx, seed.Patient.Name)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}

	seed.SavedAt = s.now()
	id, err := s.store.Insert(ctx, &seed)
	if err != nil {
		return nil, false, err
	}
	seed.ID = id
	return &seed, true, nil
}

// testPatientEntry is a ready-made case used to demo the reassessment flow.
func testPatientEntry() domain.HistoryEntry {
	return domain.HistoryEntry{
		Patient: domain.PatientData{
			Name: "Paciente Teste Fora da Meta", DOB: "1969-01-15", Age: 55, Sex: domain.SexMale,
			Weight: 95, Height: 1.75, IMC: 31.02, IsFrail: false,
			Comorbidities: []string{"HAS", "Dislipidemia", "Obesidade"},
			Medications:   []string{"Metformina", "Losartana"},
			Creatinine:    1.1, TFG: 75, Albuminuria: 50, HbA1c: 9.8, FastingGlucose: 240,
			PrePrandialGlucose: 260, PostPrandialGlucose: 310, PostPrandialMealIDs: []int{2},
			HypoglycemiaEpisodes: domain.HypoRare,
			ClinicalSymptoms:     []string{"Poliúria", "Perda Ponderal"},
			ClinicalSituation:    []string{},
			CurrentInsulins:      []domain.CurrentInsulin{{ID: 1, Type: domain.InsulinNone, Dose: 0, Schedule: ""}},
			Meals: []domain.Meal{
				{ID: 1, Name: "Café da Manhã", Time: "07:00"},
				{ID: 2, Name: "Almoço", Time: "12:00"},
				{ID: 3, Name: "Jantar", Time: "19:00"},
			},
		},
		Report: domain.ReportData{
			GoalClassification: "Paciente significativamente FORA DA META glicêmica.",
			ClinicalSummary:    "Paciente de 55 anos, com DM2, obesidade e HAS, apresentando mau controle glicêmico (HbA1c 9.8%) e sintomas cardinais, indicando necessidade de insulinoterapia.",
			Calculations: domain.Calculations{
				TargetHbA1c:        "< 7.0%",
				NPHInitialDose:     "0.2 U/kg -> 19U de NPH ao deitar.",
				NPHAdjustment:      "Ajustar +2U a cada 3-7 dias se GJ > 130 mg/dL.",
				RegularInitialDose: "Considerar se glicemia pós-prandial persistir elevada após otimização da basal.",
			},
			FinalConduct: domain.Conduct{
				RecommendedInsulins: []domain.RecommendedInsulin{{Type: domain.InsulinNPH, Dose: 19, Schedule: "Noite (22:00)"}},
				NPHDoseText:         "19 unidades de NPH ao deitar (22:00).",
				RegularDosePlanText: "Não indicada no momento. Reavaliar após ajuste da insulina basal.",
				ADOManagement:       "Manter Metformina. Suspender sulfonilureia, se em uso.",
			},
			IdentifiedRisks:       []string{"Risco de hipoglicemia noturna (monitorar)"},
			ComplementaryConducts: []string{"Educação em diabetes", "Monitorização da glicemia capilar (jejum)"},
			FollowUpPlan:          "Reavaliar em 7 a 14 dias para ajuste de dose.",
			GuidelineReference:    "Diretriz SBD 2024: Pacientes com HbA1c > 9% e sintomas catabólicos devem iniciar insulinoterapia.",
		},
		Adjustments: []domain.Adjustment{},
	}
}

package services

import (
	"context"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/domain"

	"github.com/google/uuid"
)

// stubReasoning lets each test script the reasoning collaborator and record
// whether it was consulted at all.
type stubReasoning struct {
	reportFn  func(ctx context.Context, patient domain.PatientData, fastMode bool) (*domain.ReportData, error)
	adjustFn  func(ctx context.Context, req domain.AdjustmentRequest) (*domain.AdjustmentReportData, error)
	handoutFn func(ctx context.Context, patient domain.PatientData, conduct domain.Conduct) (*domain.PatientHandoutData, error)

	reportCalls  int
	adjustCalls  int
	handoutCalls int
	lastRequest  domain.AdjustmentRequest
}

func (s *stubReasoning) GenerateReport(ctx context.Context, patient domain.PatientData, fastMode bool) (*domain.ReportData, error) {
	s.reportCalls++
	if s.reportFn != nil {
		return s.reportFn(ctx, patient, fastMode)
	}
	return &domain.ReportData{GoalClassification: "Paciente FORA da meta."}, nil
}

func (s *stubReasoning) GenerateAdjustmentPlan(ctx context.Context, req domain.AdjustmentRequest) (*domain.AdjustmentReportData, error) {
	s.adjustCalls++
	s.lastRequest = req
	if s.adjustFn != nil {
		return s.adjustFn(ctx, req)
	}
	return &domain.AdjustmentReportData{SituationAnalysis: "Controle inadequado."}, nil
}

func (s *stubReasoning) GenerateHandout(ctx context.Context, patient domain.PatientData, conduct domain.Conduct) (*domain.PatientHandoutData, error) {
	s.handoutCalls++
	if s.handoutFn != nil {
		return s.handoutFn(ctx, patient, conduct)
	}
	return &domain.PatientHandoutData{StorageInstructions: "Manter refrigerada."}, nil
}

// memoryStore is an in-memory domain.HistoryStore for service tests.
type memoryStore struct {
	entries map[string]*domain.HistoryEntry
	order   []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]*domain.HistoryEntry{}}
}

func (m *memoryStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	out := make([]domain.HistoryEntry, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.entries[m.order[i]])
	}
	return out, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*domain.HistoryEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (m *memoryStore) Insert(ctx context.Context, entry *domain.HistoryEntry) (string, error) {
	id := uuid.NewString()
	copied := *entry
	copied.ID = id
	m.entries[id] = &copied
	m.order = append(m.order, id)
	return id, nil
}

func (m *memoryStore) AppendAdjustment(ctx context.Context, id string, adjustment domain.Adjustment) error {
	entry, ok := m.entries[id]
	if !ok {
		return apperrors.ErrEntryNotFound
	}
	entry.Adjustments = append(entry.Adjustments, adjustment)
	return nil
}

func (m *memoryStore) ExistsByPatientName(ctx context.Context, name string) (bool, error) {
	for _, entry := range m.entries {
		if entry.Patient.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

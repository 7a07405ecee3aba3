package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/domain"
)

// HistoryStore persists the clinical history log. It implements
// domain.HistoryStore on top of Postgres with JSONB documents.
type HistoryStore struct {
	db *gorm.DB
}

var _ domain.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a history store over an open connection.
func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// List returns the most recent entries ordered by save time descending.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	var records []HistoryRecord
	if err := s.db.WithContext(ctx).
		Order("saved_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	entries := make([]domain.HistoryEntry, 0, len(records))
	for _, record := range records {
		entry, err := toEntry(record)
		if err != nil {
			return nil, apperrors.NewPersistenceError(err)
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Get fetches a single entry by identifier.
func (s *HistoryStore) Get(ctx context.Context, id string) (*domain.HistoryEntry, error) {
	var record HistoryRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	entry, err := toEntry(record)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return entry, nil
}

// Insert stores a new entry and returns its generated identifier.
func (s *HistoryStore) Insert(ctx context.Context, entry *domain.HistoryEntry) (string, error) {
	record, err := toRecord(entry)
	if err != nil {
		return "", apperrors.NewPersistenceError(err)
	}
	record.ID = uuid.NewString()

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", apperrors.NewPersistenceError(err)
	}
	return record.ID, nil
}

// AppendAdjustment appends one adjustment to the entry's adjustment array
// in a single statement, so concurrent appends cannot lose updates.
func (s *HistoryStore) AppendAdjustment(ctx context.Context, id string, adjustment domain.Adjustment) error {
	payload, err := json.Marshal(adjustment)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}

	result := s.db.WithContext(ctx).Exec(
		`UPDATE history_records SET adjustments = COALESCE(adjustments, '[]'::jsonb) || ?::jsonb WHERE id = ?`,
		string(payload), id)
	if result.Error != nil {
		return apperrors.NewPersistenceError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

// ExistsByPatientName reports whether any entry carries the exact patient
// name. This backs the duplicate-name guard on save.
func (s *HistoryStore) ExistsByPatientName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&HistoryRecord{}).
		Where("patient_name = ?", name).
		Count(&count).Error; err != nil {
		return false, apperrors.NewPersistenceError(err)
	}
	return count > 0, nil
}

// Delete removes an entry by identifier.
func (s *HistoryStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&HistoryRecord{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewPersistenceError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

func toRecord(entry *domain.HistoryEntry) (*HistoryRecord, error) {
	patient, err := json.Marshal(entry.Patient)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patient: %w", err)
	}
	report, err := json.Marshal(entry.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	adjustments := entry.Adjustments
	if adjustments == nil {
		adjustments = []domain.Adjustment{}
	}
	adjustmentsJSON, err := json.Marshal(adjustments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode adjustments: %w", err)
	}

	return &HistoryRecord{
		ID:          entry.ID,
		PatientName: entry.Patient.Name,
		Patient:     patient,
		Report:      report,
		Adjustments: adjustmentsJSON,
		SavedAt:     entry.SavedAt,
	}, nil
}

func toEntry(record HistoryRecord) (*domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		ID:          record.ID,
		SavedAt:     record.SavedAt,
		Adjustments: []domain.Adjustment{},
	}
	if err := json.Unmarshal(record.Patient, &entry.Patient); err != nil {
		return nil, fmt.Errorf("failed to decode patient: %w", err)
	}
	if err := json.Unmarshal(record.Report, &entry.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	if len(record.Adjustments) > 0 {
		if err := json.Unmarshal(record.Adjustments, &entry.Adjustments); err != nil {
			return nil, fmt.Errorf("failed to decode adjustments: %w", err)
		}
	}
	return &entry, nil
}

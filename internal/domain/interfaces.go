package domain

import "context"

// AdjustmentRequest carries everything the reasoning collaborator needs to
// plan a follow-up cycle: the original case, the latest conduct and the full
// adjustment history.
type AdjustmentRequest struct {
	Patient       PatientData
	InitialReport ReportData
	FollowUp      FollowUpData
	Adjustments   []Adjustment
	FastMode      bool
}

// ReasoningService is the external collaborator producing all clinical
// reasoning. Every response is schema-validated before being returned;
// failures are recoverable and never partially exposed.
type ReasoningService interface {
	GenerateReport(ctx context.Context, patient PatientData, fastMode bool) (*ReportData, error)
	GenerateAdjustmentPlan(ctx context.Context, req AdjustmentRequest) (*AdjustmentReportData, error)
	GenerateHandout(ctx context.Context, patient PatientData, conduct Conduct) (*PatientHandoutData, error)
}

// HistoryStore is the document-store collaborator for the clinical history
// log. There is no update/replace-in-place operation: entries are inserted
// whole, appended to atomically, or deleted.
type HistoryStore interface {
	List(ctx context.Context, limit int) ([]HistoryEntry, error)
	Get(ctx context.Context, id string) (*HistoryEntry, error)
	Insert(ctx context.Context, entry *HistoryEntry) (string, error)
	AppendAdjustment(ctx context.Context, id string, adjustment Adjustment) error
	ExistsByPatientName(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id string) error
}

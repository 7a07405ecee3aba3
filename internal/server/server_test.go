package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/domain"
	"github.com/carcarahealth/glica/internal/services"
	"github.com/carcarahealth/glica/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubReasoning struct {
	reportErr error
	adjustErr error
}

func (s *stubReasoning) GenerateReport(ctx context.Context, patient domain.PatientData, fastMode bool) (*domain.ReportData, error) {
	if s.reportErr != nil {
		return nil, s.reportErr
	}
	return &domain.ReportData{
		GoalClassification: "Paciente FORA da meta.",
		FinalConduct: domain.Conduct{
			RecommendedInsulins: []domain.RecommendedInsulin{{Type: domain.InsulinNPH, Dose: 16, Schedule: "Noite (22:00)"}},
		},
	}, nil
}

func (s *stubReasoning) GenerateAdjustmentPlan(ctx context.Context, req domain.AdjustmentRequest) (*domain.AdjustmentReportData, error) {
	if s.adjustErr != nil {
		return nil, s.adjustErr
	}
	return &domain.AdjustmentReportData{SituationAnalysis: "Aumentar NPH em 2U."}, nil
}

func (s *stubReasoning) GenerateHandout(ctx context.Context, patient domain.PatientData, conduct domain.Conduct) (*domain.PatientHandoutData, error) {
	return &domain.PatientHandoutData{StorageInstructions: "Manter refrigerada."}, nil
}

type memStore struct {
	entries map[string]*domain.HistoryEntry
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]*domain.HistoryEntry{}}
}

func (m *memStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	out := make([]domain.HistoryEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memStore) Get(ctx context.Context, id string) (*domain.HistoryEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *memStore) Insert(ctx context.Context, entry *domain.HistoryEntry) (string, error) {
	id := uuid.NewString()
	copied := *entry
	copied.ID = id
	m.entries[id] = &copied
	return id, nil
}

func (m *memStore) AppendAdjustment(ctx context.Context, id string, adjustment domain.Adjustment) error {
	e, ok := m.entries[id]
	if !ok {
		return apperrors.ErrEntryNotFound
	}
	e.Adjustments = append(e.Adjustments, adjustment)
	return nil
}

func (m *memStore) ExistsByPatientName(ctx context.Context, name string) (bool, error) {
	for _, e := range m.entries {
		if e.Patient.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func newTestServer(reasoning domain.ReasoningService, store domain.HistoryStore) *Server {
	return New(
		services.NewReportService(reasoning),
		services.NewHistoryService(store),
		services.NewAdjustmentService(store, reasoning),
		services.NewHandoutService(reasoning),
		session.NewManager(),
	)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func evaluateBody(hba1c float64) map[string]any {
	return map[string]any{
		"patient": map[string]any{
			"name":             "Maria Souza",
			"weight":           80,
			"height":           1.6,
			"hba1c":            hba1c,
			"fastingGlucose":   220,
			"medications":      []string{"Metformina"},
			"clinicalSymptoms": []string{"Poliúria"},
		},
		"fastMode": false,
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	w := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEvaluateEndpoint(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	w := doJSON(t, s, http.MethodPost, "/api/v1/reports", evaluateBody(9.8))
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Outcome string            `json:"outcome"`
		Report  domain.ReportData `json:"report"`
		Curves  []map[string]any  `json:"curves"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "proceed", result.Outcome)
	// The 22:00 NPH dose wraps past midnight: one main and one wrapped
	// segment.
	assert.Len(t, result.Curves, 2)
}

func TestEvaluateEndpointGateAlert(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	body := evaluateBody(8.0)
	body["patient"].(map[string]any)["medications"] = []string{}
	body["patient"].(map[string]any)["clinicalSymptoms"] = []string{}

	w := doJSON(t, s, http.MethodPost, "/api/v1/reports", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Outcome string            `json:"outcome"`
		Report  domain.ReportData `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "alert", result.Outcome)
	assert.Equal(t, "Insulinoterapia Não Indicada no Momento", result.Report.GoalClassification)
}

func TestEvaluateEndpointValidation(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	w := doJSON(t, s, http.MethodPost, "/api/v1/reports", evaluateBody(0))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "obrigatórios")
}

func TestEvaluateEndpointReasoningUnavailable(t *testing.T) {
	reasoning := &stubReasoning{reportErr: apperrors.NewReasoningError(errors.New("timeout"), "report")}
	s := newTestServer(reasoning, newMemStore())

	w := doJSON(t, s, http.MethodPost, "/api/v1/reports", evaluateBody(9.8))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Falha ao gerar a resposta do assistente.")
}

func TestHistoryLifecycle(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	save := map[string]any{
		"patient": map[string]any{"name": "Maria Souza", "hba1c": 9.8, "fastingGlucose": 220},
		"report":  map[string]any{"goalClassification": "FORA da meta"},
	}

	w := doJSON(t, s, http.MethodPost, "/api/v1/history", save)
	require.Equal(t, http.StatusCreated, w.Code)

	var entry domain.HistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.NotEmpty(t, entry.ID)

	// Duplicate name is a conflict, nothing inserted, and the message is
	// user-facing product copy.
	w = doJSON(t, s, http.MethodPost, "/api/v1/history", save)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Já existe um registro para este paciente.")

	w = doJSON(t, s, http.MethodGet, "/api/v1/history/"+entry.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Entries []domain.HistoryEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Entries, 1)

	w = doJSON(t, s, http.MethodDelete, "/api/v1/history/"+entry.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/history/"+entry.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Registro não encontrado no histórico.")
}

func TestAdjustmentPlanAndAppend(t *testing.T) {
	store := newMemStore()
	s := newTestServer(&stubReasoning{}, store)

	id, err := store.Insert(context.Background(), &domain.HistoryEntry{
		Patient: domain.PatientData{Name: "Maria Souza"},
	})
	require.NoError(t, err)

	plan := map[string]any{
		"followUp": map[string]any{"currentWeight": 78, "currentFastingGlucose": 160},
		"fastMode": true,
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/history/"+id+"/adjustment-plans", plan)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Aumentar NPH em 2U.")

	// Planning never persists by itself.
	entry, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, entry.Adjustments)

	appendBody := map[string]any{
		"followUp": map[string]any{"currentWeight": 78, "currentFastingGlucose": 160},
		"plan":     map[string]any{"situationAnalysis": "Aumentar NPH em 2U."},
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/history/"+id+"/adjustments", appendBody)
	require.Equal(t, http.StatusCreated, w.Code)

	entry, err = store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, entry.Adjustments, 1)
}

func TestAdjustmentPlanUnknownEntry(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	plan := map[string]any{
		"followUp": map[string]any{"currentWeight": 78, "currentFastingGlucose": 160},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/history/missing/adjustment-plans", plan)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKineticsEndpoint(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	body := map[string]any{
		"insulins": []map[string]any{
			{"type": "NPH", "dose": 16, "schedule": "Noite (22:00)"},
		},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/kinetics", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Curves []struct {
			Wrapped bool `json:"wrapped"`
		} `json:"curves"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Curves, 2)
	assert.False(t, result.Curves[0].Wrapped)
	assert.True(t, result.Curves[1].Wrapped)
}

func TestCalculatorEndpoint(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	body := map[string]any{
		"age":        60,
		"sex":        "feminino",
		"weight":     70,
		"height":     1.6,
		"creatinine": 0.8,
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/calculator", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Age               int     `json:"age"`
		IMC               float64 `json:"imc"`
		IMCClassification string  `json:"imcClassification"`
		TFG               float64 `json:"tfg"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 60, result.Age)
	assert.InDelta(t, 27.34, result.IMC, 0.01)
	assert.Equal(t, "Sobrepeso", result.IMCClassification)
	assert.InDelta(t, 84.3, result.TFG, 0.1)
}

func TestEntryHandoutUsesLatestConduct(t *testing.T) {
	store := newMemStore()
	s := newTestServer(&stubReasoning{}, store)

	id, err := store.Insert(context.Background(), &domain.HistoryEntry{
		Patient: domain.PatientData{Name: "Maria Souza"},
		Report: domain.ReportData{
			FinalConduct: domain.Conduct{NPHDoseText: "16U ao deitar"},
		},
	})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodPost, "/api/v1/history/"+id+"/handouts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Manter refrigerada.")

	w = doJSON(t, s, http.MethodPost, "/api/v1/history/missing/handouts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDefaultMealsEndpoint(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	w := doJSON(t, s, http.MethodGet, "/api/v1/meals/defaults", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Meals []domain.Meal `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Meals, 3)
	assert.Equal(t, "Café da Manhã", result.Meals[0].Name)
	assert.Equal(t, "08:00", result.Meals[0].Time)
}

func TestHandoutEndpoint(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	body := map[string]any{
		"patient": map[string]any{"name": "Maria Souza"},
		"conduct": map[string]any{"nphDoseText": "16U ao deitar"},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/handouts", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Manter refrigerada.")
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(&stubReasoning{}, newMemStore())

	w := doJSON(t, s, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var sess session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, session.ScreenHome, sess.Screen)

	w = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/intake", map[string]any{"fastMode": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, session.ScreenNewPatient, sess.Screen)
	assert.True(t, sess.FastMode)

	// Undefined edges from the intake screen: the report only comes after
	// the calculator.
	w = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/navigate", map[string]any{"screen": "re-evaluation"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/navigate", map[string]any{"screen": "report"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/navigate", map[string]any{"screen": "calculator"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/navigate", map[string]any{"screen": "report"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/home", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, session.ScreenHome, sess.Screen)

	w = doJSON(t, s, http.MethodDelete, "/api/v1/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package session

import (
	"time"

	"github.com/carcarahealth/glica/internal/apperrors"
)

// Screen identifies where a care-flow session currently is. Transitions are
// restricted to the edges the flow defines; anything else is rejected.
type Screen string

const (
	ScreenHome             Screen = "home"
	ScreenNewPatient       Screen = "new-patient"
	ScreenCalculator       Screen = "calculator"
	ScreenReport           Screen = "report"
	ScreenHistory          Screen = "history"
	ScreenGuide            Screen = "guide"
	ScreenReevaluation     Screen = "re-evaluation"
	ScreenAdjustmentReport Screen = "adjustment-report"
)

// transitions lists the screens reachable from each screen. The evaluation
// flow runs home, new-patient, calculator, report; saved entries are viewed
// on the report screen, where a re-evaluation can start and its adjustment
// report leads back. Home, history and guide are on the navigation bar and
// reachable from everywhere.
var transitions = map[Screen][]Screen{
	ScreenHome:             {ScreenNewPatient, ScreenHistory, ScreenGuide},
	ScreenNewPatient:       {ScreenCalculator, ScreenHome, ScreenHistory, ScreenGuide},
	ScreenCalculator:       {ScreenReport, ScreenHome, ScreenHistory, ScreenGuide},
	ScreenReport:           {ScreenCalculator, ScreenReevaluation, ScreenHome, ScreenHistory, ScreenGuide},
	ScreenHistory:          {ScreenReport, ScreenHome, ScreenGuide},
	ScreenGuide:            {ScreenHome, ScreenHistory},
	ScreenReevaluation:     {ScreenAdjustmentReport, ScreenReport, ScreenHome, ScreenHistory, ScreenGuide},
	ScreenAdjustmentReport: {ScreenReport, ScreenHome, ScreenHistory, ScreenGuide},
}

// Session is one care-flow session. FastMode is chosen when the intake
// starts and threads through every reasoning call of the session; EntryID is
// set while a saved history entry is being worked on.
type Session struct {
	ID        string    `json:"id"`
	Screen    Screen    `json:"screen"`
	FastMode  bool      `json:"fastMode"`
	EntryID   string    `json:"entryId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession returns a session at the home screen.
func NewSession(id string) *Session {
	return &Session{ID: id, Screen: ScreenHome, UpdatedAt: time.Now()}
}

// ValidScreen reports whether s is one of the defined screens.
func ValidScreen(s Screen) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the session may move to the target screen.
func (s *Session) CanTransition(to Screen) bool {
	for _, allowed := range transitions[s.Screen] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the session to the target screen, rejecting edges the
// flow does not define.
func (s *Session) Transition(to Screen) error {
	if !ValidScreen(to) {
		return apperrors.NewValidationError("Tela desconhecida: " + string(to))
	}
	if !s.CanTransition(to) {
		return apperrors.NewValidationError("Transição inválida de " + string(s.Screen) + " para " + string(to))
	}
	s.Screen = to
	s.UpdatedAt = time.Now()
	return nil
}

// StartIntake begins a new evaluation from the home screen, fixing the
// session's mode for all subsequent reasoning calls.
func (s *Session) StartIntake(fastMode bool) error {
	if err := s.Transition(ScreenNewPatient); err != nil {
		return err
	}
	s.FastMode = fastMode
	s.EntryID = ""
	return nil
}

// OpenEntry moves from the history listing into a saved entry's report
// view, where a re-evaluation can be started.
func (s *Session) OpenEntry(entryID string) error {
	if entryID == "" {
		return apperrors.NewValidationError("Identificador da entrada é obrigatório.")
	}
	if err := s.Transition(ScreenReport); err != nil {
		return err
	}
	s.EntryID = entryID
	return nil
}

// GoHome resets the session to the home screen from anywhere, discarding
// the working entry.
func (s *Session) GoHome() {
	s.Screen = ScreenHome
	s.EntryID = ""
	s.UpdatedAt = time.Now()
}

package clinical

import (
	"fmt"
	"strconv"

	"github.com/carcarahealth/glica/internal/domain"
)

// oralAgents is the fixed medication list that counts as being on an oral
// antidiabetic agent for the indication rule.
var oralAgents = map[string]bool{
	"Metformina":     true,
	"Gliclazida":     true,
	"Glibenclamida":  true,
	"Dapagliflozina": true,
	"Outro ADO":      true,
}

// GateOutcome tags the indication decision explicitly instead of relying on
// a sentinel string inside the report.
type GateOutcome string

const (
	// OutcomeProceed routes the evaluation to the reasoning service.
	OutcomeProceed GateOutcome = "proceed"
	// OutcomeAlert short-circuits with a fixed "insulin not indicated"
	// report and no external call.
	OutcomeAlert GateOutcome = "alert"
)

// GateResult is the tagged result of the indication gate. AlertReport is set
// only when Outcome is OutcomeAlert.
type GateResult struct {
	Outcome     GateOutcome
	AlertReport *domain.ReportData
}

// OnOralAgent reports whether any of the patient's medications is a known
// oral antidiabetic agent.
func OnOralAgent(medications []string) bool {
	for _, med := range medications {
		if oralAgents[med] {
			return true
		}
	}
	return false
}

// EvaluateIndication decides whether insulin initiation is appropriate
// before any reasoning-service call. In fast mode the gate is skipped
// entirely: the caller has asserted oral therapy already failed.
//
// The compound condition is kept literally as published, including its
// boundary at HbA1c exactly 9.0 with an oral agent in use (routes to the
// reasoning service): insulin is not indicated when the patient is
// asymptomatic and either HbA1c < 7.5, or HbA1c <= 9.0 without an oral
// agent.
func EvaluateIndication(patient domain.PatientData, fastMode bool) GateResult {
	if fastMode {
		return GateResult{Outcome: OutcomeProceed}
	}

	onOralAgent := OnOralAgent(patient.Medications)
	if (patient.HbA1c < 7.5 || (!onOralAgent && patient.HbA1c <= 9.0)) && len(patient.ClinicalSymptoms) == 0 {
		report := notIndicatedReport(patient.HbA1c)
		return GateResult{Outcome: OutcomeAlert, AlertReport: &report}
	}

	return GateResult{Outcome: OutcomeProceed}
}

// notIndicatedReport is the fixed alert-report template shown when oral
// therapy should be initiated or optimized instead of insulin.
func notIndicatedReport(hba1c float64) domain.ReportData {
	return domain.ReportData{
		GoalClassification: "Insulinoterapia Não Indicada no Momento",
		ClinicalSummary: fmt.Sprintf(
			"Paciente com HbA1c de %s%%. Com base nos dados fornecidos e nas diretrizes atuais, a insulinoterapia não é a primeira linha de tratamento.",
			strconv.FormatFloat(hba1c, 'f', -1, 64)),
		Calculations: domain.Calculations{
			TargetHbA1c:        "N/A",
			NPHInitialDose:     "N/A",
			NPHAdjustment:      "N/A",
			RegularInitialDose: "N/A",
		},
		FinalConduct: domain.Conduct{
			RecommendedInsulins: []domain.RecommendedInsulin{},
			NPHDoseText:         "Não aplicável.",
			RegularDosePlanText: "Não aplicável.",
			ADOManagement:       "Otimizar terapia oral.",
		},
		IdentifiedRisks: []string{
			"Iniciar insulina neste momento pode ser inadequado e não segue as diretrizes para este perfil de paciente.",
		},
		ComplementaryConducts: []string{
			"Recomenda-se iniciar ou otimizar a terapia com antidiabéticos orais.",
			"A combinação de Metformina com outro antidiabético oral (ex: Sulfonilureia, iSGLT2) deve ser tentada por pelo menos 3 meses antes de reavaliar a necessidade de insulina, salvo contraindicações.",
			"Focar em mudanças de estilo de vida: dieta e atividade física.",
		},
		FollowUpPlan:       "Reavaliar o controle glicêmico em 3 meses após otimização da terapia oral.",
		GuidelineReference: "Diretriz SBD 2024 / PCDT DM2-SUS: A insulinoterapia é indicada em casos de falha da terapia oral otimizada, ou em situações específicas como HbA1c > 9%, descompensação aguda ou sintomas catabólicos.",
	}
}

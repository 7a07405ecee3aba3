package domain

import "time"

// InsulinType identifies the insulin formulations handled by the planner.
type InsulinType string

const (
	InsulinNone    InsulinType = "Nenhuma"
	InsulinNPH     InsulinType = "NPH"
	InsulinRegular InsulinType = "Regular"
)

// Sex values follow the intake form options.
const (
	SexMale   = "masculino"
	SexFemale = "feminino"
)

// Hypoglycemia frequency categories.
const (
	HypoNone       = "nenhum"
	HypoRare       = "raro"
	HypoFrequent   = "frequente"
	HypoNotChecked = "nao_avaliado"
)

// Meal is a named time-of-day anchor for prandial dosing. IDs are stable
// and arbitrary; ordering for display and prompts is by time ascending.
type Meal struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"` // "HH:mm"
}

// DefaultMeals is the meal plan the intake starts from when the patient
// reports no custom meal times.
func DefaultMeals() []Meal {
	return []Meal{
		{ID: 1, Name: "Café da Manhã", Time: "08:00"},
		{ID: 2, Name: "Almoço", Time: "12:30"},
		{ID: 3, Name: "Jantar", Time: "19:00"},
	}
}

// CurrentInsulin is an insulin regimen the patient already uses.
type CurrentInsulin struct {
	ID       int         `json:"id"`
	Type     InsulinType `json:"type"`
	Dose     float64     `json:"dose"`
	Schedule string      `json:"schedule"`
}

// PatientData is the full clinical profile collected on intake.
// IMC and TFG are derived server-side; in fast mode the optional fields
// (sex, height, renal labs, comorbidities) are left at their zero values.
type PatientData struct {
	Name                 string           `json:"name"`
	DOB                  string           `json:"dob"` // "YYYY-MM-DD"
	Age                  int              `json:"age"`
	Sex                  string           `json:"sex"`
	Weight               float64          `json:"weight"` // kg
	Height               float64          `json:"height"` // m
	IMC                  float64          `json:"imc"`
	IsFrail              bool             `json:"isFrail"`
	Comorbidities        []string         `json:"comorbidities"`
	Medications          []string         `json:"medications"`
	Creatinine           float64          `json:"creatinine"` // mg/dL
	TFG                  float64          `json:"tfg"`        // mL/min, CKD-EPI 2021
	Albuminuria          float64          `json:"albuminuria"`
	HbA1c                float64          `json:"hba1c"`
	FastingGlucose       float64          `json:"fastingGlucose"`
	PrePrandialGlucose   float64          `json:"prePrandialGlucose"`
	PostPrandialGlucose  float64          `json:"postPrandialGlucose"`
	PostPrandialMealIDs  []int            `json:"postPrandialMealIds"`
	HypoglycemiaEpisodes string           `json:"hypoglycemiaEpisodes"`
	ClinicalSymptoms     []string         `json:"clinicalSymptoms"`
	ClinicalSituation    []string         `json:"clinicalSituation"`
	CurrentInsulins      []CurrentInsulin `json:"currentInsulins"`
	Meals                []Meal           `json:"meals"`
}

// RecommendedInsulin is one dose in the therapeutic plan, schedule as a
// time-of-day string possibly annotated with a meal name, e.g. "Manhã (07:00)".
type RecommendedInsulin struct {
	Type     InsulinType `json:"type"`
	Dose     float64     `json:"dose"`
	Schedule string      `json:"schedule"`
}

// Calculations carries the dose-derivation rationale strings.
type Calculations struct {
	TargetHbA1c        string `json:"targetHbA1c"`
	NPHInitialDose     string `json:"nphInitialDose"`
	NPHAdjustment      string `json:"nphAdjustment"`
	RegularInitialDose string `json:"regularInitialDose"`
}

// Conduct is the actionable therapeutic block shared by the initial report
// (finalConduct) and adjustment reports (adjustedConduct).
type Conduct struct {
	RecommendedInsulins []RecommendedInsulin `json:"recommendedInsulins"`
	NPHDoseText         string               `json:"nphDoseText"`
	RegularDosePlanText string               `json:"regularDosePlanText"`
	ADOManagement       string               `json:"adoManagement"`
}

// ReportData is the full initial clinical report.
type ReportData struct {
	ClinicalSummary       string       `json:"clinicalSummary"`
	GoalClassification    string       `json:"goalClassification"`
	Calculations          Calculations `json:"calculations"`
	FinalConduct          Conduct      `json:"finalConduct"`
	IdentifiedRisks       []string     `json:"identifiedRisks"`
	ComplementaryConducts []string     `json:"complementaryConducts"`
	FollowUpPlan          string       `json:"followUpPlan"`
	GuidelineReference    string       `json:"guidelineReference"`
}

// HyperglycemiaEvent is one discrete high-glucose reading reported on
// reassessment.
type HyperglycemiaEvent struct {
	ID    int     `json:"id"`
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// FollowUpData is the reassessment input for an adjustment cycle.
type FollowUpData struct {
	CurrentFastingGlucose     float64              `json:"currentFastingGlucose"`
	CurrentHbA1c              float64              `json:"currentHbA1c"`
	CurrentPrePrandialGlucose float64              `json:"currentPrePrandialGlucose"`
	CurrentPostPrandialGlucose float64             `json:"currentPostPrandialGlucose"`
	CurrentWeight             float64              `json:"currentWeight"`
	HighGlucoseMeals          []int                `json:"highGlucoseMeals"`
	HyperglycemiaEvents       []HyperglycemiaEvent `json:"hyperglycemiaEvents"`
	NewHypoglycemiaEpisodes   string               `json:"newHypoglycemiaEpisodes"`
	HypoglycemiaTimings       []string             `json:"hypoglycemiaTimings"`
	PatientNotes              string               `json:"patientNotes"`
}

// AdjustmentReportData is the follow-up counterpart of ReportData.
type AdjustmentReportData struct {
	GoalClassification string  `json:"goalClassification"`
	SituationAnalysis  string  `json:"situationAnalysis"`
	AdjustedConduct    Conduct `json:"adjustedConduct"`
	MonitoringPlan     string  `json:"monitoringPlan"`
	NextGoals          string  `json:"nextGoals"`
}

// PatientHandoutData is the plain-language patient guide.
type PatientHandoutData struct {
	StorageInstructions     string `json:"storageInstructions"`
	ApplicationInstructions string `json:"applicationInstructions"`
	HypoglycemiaManagement  string `json:"hypoglycemiaManagement"`
	HyperglycemiaManagement string `json:"hyperglycemiaManagement"`
	GeneralRecommendations  string `json:"generalRecommendations"`
}

// Adjustment bundles one reassessment with its resulting plan. Adjustments
// accumulate append-only under a HistoryEntry.
type Adjustment struct {
	AdjustedAt       time.Time            `json:"adjustedAt"`
	AdjustmentReport AdjustmentReportData `json:"adjustmentReport"`
	FollowUpData     FollowUpData         `json:"followUpData"`
}

// HistoryEntry is one saved evaluation. The ID is assigned by the store on
// insert; the adjustment list preserves insertion order (chronological order
// of care). Entries are never mutated except for atomic adjustment appends
// and whole-entry deletion.
type HistoryEntry struct {
	ID          string       `json:"id"`
	Patient     PatientData  `json:"patient"`
	Report      ReportData   `json:"report"`
	SavedAt     time.Time    `json:"savedAt"`
	Adjustments []Adjustment `json:"adjustments"`
}

// PreviousConduct returns the most recent therapeutic conduct for the entry:
// the last adjustment's adjustedConduct, or the initial finalConduct when no
// adjustment exists yet.
func (e *HistoryEntry) PreviousConduct() Conduct {
	if n := len(e.Adjustments); n > 0 {
		return e.Adjustments[n-1].AdjustmentReport.AdjustedConduct
	}
	return e.Report.FinalConduct
}

package server

import (
	"net/http"
	"time"

	"github.com/carcarahealth/glica/internal/clinical"
	"github.com/carcarahealth/glica/internal/domain"

	"github.com/gin-gonic/gin"
)

// chartScale matches the fixed chart height the curve segments are computed
// against.
const chartScale = 100.0

type evaluateRequest struct {
	Patient  domain.PatientData `json:"patient"`
	FastMode bool               `json:"fastMode"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := s.reports.Evaluate(c.Request.Context(), req.Patient, req.FastMode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type handoutRequest struct {
	Patient domain.PatientData `json:"patient"`
	Conduct domain.Conduct     `json:"conduct"`
}

func (s *Server) handleHandout(c *gin.Context) {
	var req handoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	handout, err := s.handouts.Generate(c.Request.Context(), req.Patient, req.Conduct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handout)
}

type kineticsRequest struct {
	Insulins []domain.RecommendedInsulin `json:"insulins"`
}

func (s *Server) handleKinetics(c *gin.Context) {
	var req kineticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"curves": clinical.ProjectCurves(req.Insulins, chartScale)})
}

type calculatorRequest struct {
	DOB        string  `json:"dob"`
	Age        int     `json:"age"`
	Sex        string  `json:"sex"`
	Weight     float64 `json:"weight"`
	Height     float64 `json:"height"`
	Creatinine float64 `json:"creatinine"`
}

// handleCalculator runs the standalone clinical calculators without
// starting an evaluation.
func (s *Server) handleCalculator(c *gin.Context) {
	var req calculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	age := req.Age
	if req.DOB != "" {
		age = clinical.AgeFromDOB(req.DOB, time.Now())
	}
	imc := clinical.BMI(req.Weight, req.Height)

	c.JSON(http.StatusOK, gin.H{
		"age":               age,
		"imc":               imc,
		"imcClassification": clinical.ClassifyBMI(imc),
		"tfg":               clinical.EGFR(req.Creatinine, age, req.Sex == domain.SexFemale),
	})
}

// handleEntryHandout generates the patient guide for a saved entry from its
// active conduct, the latest adjustment's or the initial one.
func (s *Server) handleEntryHandout(c *gin.Context) {
	entry, err := s.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	handout, err := s.handouts.Generate(c.Request.Context(), entry.Patient, entry.PreviousConduct())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handout)
}

func (s *Server) handleDefaultMeals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"meals": domain.DefaultMeals()})
}

func (s *Server) handleHistoryList(c *gin.Context) {
	entries, err := s.history.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleHistoryGet(c *gin.Context) {
	entry, err := s.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type saveHistoryRequest struct {
	Patient domain.PatientData `json:"patient"`
	Report  domain.ReportData  `json:"report"`
}

func (s *Server) handleHistorySave(c *gin.Context) {
	var req saveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := s.history.Save(c.Request.Context(), req.Patient, req.Report)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleHistorySeed(c *gin.Context) {
	entry, created, err := s.history.SeedTestPatient(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"created": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": true, "entry": entry})
}

func (s *Server) handleHistoryDelete(c *gin.Context) {
	if err := s.history.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustmentPlanRequest struct {
	FollowUp domain.FollowUpData `json:"followUp"`
	FastMode bool                `json:"fastMode"`
}

func (s *Server) handleAdjustmentPlan(c *gin.Context) {
	var req adjustmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := s.adjustments.GeneratePlan(c.Request.Context(), c.Param("id"), req.FollowUp, req.FastMode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type appendAdjustmentRequest struct {
	FollowUp domain.FollowUpData         `json:"followUp"`
	Plan     domain.AdjustmentReportData `json:"plan"`
}

func (s *Server) handleAdjustmentAppend(c *gin.Context) {
	var req appendAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	adjustment, err := s.history.AppendAdjustment(c.Request.Context(), c.Param("id"), req.FollowUp, req.Plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adjustment)
}

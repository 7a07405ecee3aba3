package services

import (
	"context"

	"github.com/carcarahealth/glica/internal/domain"
)

// HandoutService produces the plain-language patient guide from the active
// conduct (initial finalConduct or the latest adjustedConduct).
type HandoutService struct {
	reasoning domain.ReasoningService
}

// NewHandoutService creates a handout service.
func NewHandoutService(reasoning domain.ReasoningService) *HandoutService {
	return &HandoutService{reasoning: reasoning}
}

// Generate builds the handout for a patient and conduct.
func (s *HandoutService) Generate(ctx context.Context, patient domain.PatientData, conduct domain.Conduct) (*domain.PatientHandoutData, error) {
	return s.reasoning.GenerateHandout(ctx, patient, conduct)
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/config"
	"github.com/carcarahealth/glica/internal/domain"
)

// Model tiers: fast mode trades detail for latency.
const (
	geminiModelFast     = "gemini-2.5-flash"
	geminiModelThorough = "gemini-2.5-pro"
	openaiModelFast     = openai.GPT4oMini
	openaiModelThorough = openai.GPT4o
)

// Service talks to the generative reasoning collaborator. The provider is
// fixed at construction; both clients implement the same three operations
// with schema-constrained JSON output.
type Service struct {
	provider     string
	geminiClient *genai.Client
	openaiClient *openai.Client
}

var _ domain.ReasoningService = (*Service)(nil)

// NewService builds the reasoning client for the configured provider.
func NewService(ctx context.Context, cfg config.ReasoningConfig) (*Service, error) {
	s := &Service{provider: cfg.Provider}

	switch cfg.Provider {
	case "gemini":
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	case "openai":
		s.openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	default:
		return nil, fmt.Errorf("unknown reasoning provider %q", cfg.Provider)
	}

	return s, nil
}

// Close releases the underlying client connections.
func (s *Service) Close() error {
	if s.geminiClient != nil {
		return s.geminiClient.Close()
	}
	return nil
}

// GenerateReport produces the initial insulin-therapy report.
func (s *Service) GenerateReport(ctx context.Context, patient domain.PatientData, fastMode bool) (*domain.ReportData, error) {
	prompt := buildReportPrompt(patient, fastMode)

	var report domain.ReportData
	if err := s.generate(ctx, fastMode, reportSchema, prompt, &report); err != nil {
		return nil, apperrors.NewReasoningError(err, "report")
	}
	return &report, nil
}

// GenerateAdjustmentPlan produces a follow-up adjustment plan from the
// reassessment data and the entry's full adjustment history.
func (s *Service) GenerateAdjustmentPlan(ctx context.Context, req domain.AdjustmentRequest) (*domain.AdjustmentReportData, error) {
	prompt := buildAdjustmentPrompt(req)

	var plan domain.AdjustmentReportData
	if err := s.generate(ctx, req.FastMode, adjustmentReportSchema, prompt, &plan); err != nil {
		return nil, apperrors.NewReasoningError(err, "adjustment")
	}
	return &plan, nil
}

// GenerateHandout produces the plain-language patient guide. The handout is
// short and always uses the fast tier.
func (s *Service) GenerateHandout(ctx context.Context, patient domain.PatientData, conduct domain.Conduct) (*domain.PatientHandoutData, error) {
	prompt := buildHandoutPrompt(patient, conduct)

	var handout domain.PatientHandoutData
	if err := s.generate(ctx, true, handoutSchema, prompt, &handout); err != nil {
		return nil, apperrors.NewReasoningError(err, "handout")
	}
	return &handout, nil
}

func (s *Service) generate(ctx context.Context, fastMode bool, schema *genai.Schema, prompt string, out interface{}) error {
	if s.provider == "openai" {
		return s.generateWithOpenAI(ctx, fastMode, prompt, out)
	}
	return s.generateWithGemini(ctx, fastMode, schema, prompt, out)
}

func (s *Service) generateWithGemini(ctx context.Context, fastMode bool, schema *genai.Schema, prompt string, out interface{}) error {
	name := geminiModelThorough
	if fastMode {
		name = geminiModelFast
	}

	model := s.geminiClient.GenerativeModel(name)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := geminiResponseText(resp)
	if err != nil {
		return err
	}
	return decodeResponse(text, out)
}

func (s *Service) generateWithOpenAI(ctx context.Context, fastMode bool, prompt string, out interface{}) error {
	name := openaiModelThorough
	if fastMode {
		name = openaiModelFast
	}

	resp, err := s.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: name,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("empty completion response")
	}
	return decodeResponse(resp.Choices[0].Message.Content, out)
}

func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type %T", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

// decodeResponse validates that the payload parses as the expected shape
// before any of it is exposed to callers. Malformed output is a recoverable
// error: nothing partial is returned and nothing gets persisted.
func decodeResponse(text string, out interface{}) error {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return fmt.Errorf("no valid JSON found in response")
	}
	if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```)
// or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

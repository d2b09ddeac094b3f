package utils

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
)

// GeminiPlannerClient implements PlannerClientInterface using Google's Gemini
// models with JSON-only responses.
type GeminiPlannerClient struct {
	client *genai.Client
	cfg    PlannerConfig
}

func NewGeminiPlannerClient(apiKey string, cfg PlannerConfig) (PlannerClientInterface, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	cfg = cfg.withDefaults()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiPlannerClient{
		client: client,
		cfg:    cfg,
	}, nil
}

func (c *GeminiPlannerClient) GeneratePlan(ctx context.Context, prefs request_models.TripPreferences) (*response_models.Itinerary, error) {
	return generateWithRetry(ctx, c.cfg, prefs, c.callModel)
}

func (c *GeminiPlannerClient) callModel(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.cfg.Model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)
	m.SetTopP(0.5)
	m.SetTopK(20)
	m.SetMaxOutputTokens(8192)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content generated")
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

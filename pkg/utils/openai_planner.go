package utils

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
)

// OpenAIPlannerClient implements PlannerClientInterface on the OpenAI chat
// completions API; selected via PLANNER_PROVIDER=openai.
type OpenAIPlannerClient struct {
	client *openai.Client
	cfg    PlannerConfig
}

func NewOpenAIPlannerClient(apiKey string, cfg PlannerConfig) PlannerClientInterface {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	cfg = cfg.withDefaults()

	return &OpenAIPlannerClient{
		client: openai.NewClient(apiKey),
		cfg:    cfg,
	}
}

func (c *OpenAIPlannerClient) GeneratePlan(ctx context.Context, prefs request_models.TripPreferences) (*response_models.Itinerary, error) {
	return generateWithRetry(ctx, c.cfg, prefs, c.callModel)
}

func (c *OpenAIPlannerClient) callModel(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a travel planner that replies with a single JSON object and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

package planner_fx

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"

	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

var Module = fx.Provide(
	providePlannerClient,
	provideMockGenerator)

// PlannerProviderConfig holds configuration for itinerary planner clients
type PlannerProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// providePlannerClient creates a planner client based on environment variables
func providePlannerClient(fallback *services.MockGenerator) (utils.PlannerClientInterface, error) {
	config := getPlannerConfig()

	log.Printf("Initializing %s planner client with model: %s", config.Provider, config.Model)

	plannerCfg := utils.PlannerConfig{
		Model:       config.Model,
		CallTimeout: getEnvDuration("PLANNER_CALL_TIMEOUT", 30*time.Second),
		MaxRetries:  getEnvInt("PLANNER_MAX_RETRIES", 2),
		Backoff:     getEnvDuration("PLANNER_RETRY_BACKOFF", 500*time.Millisecond),
	}

	switch strings.ToLower(config.Provider) {
	case "openai":
		return utils.NewOpenAIPlannerClient(config.APIKey, plannerCfg), nil
	case "gemini":
		client, err := utils.NewGeminiPlannerClient(config.APIKey, plannerCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	case "mock":
		// Runs the whole pipeline without model access; useful locally and in CI.
		return fallback, nil
	default:
		return nil, fmt.Errorf("unsupported planner provider: %s. Use 'openai', 'gemini' or 'mock'", config.Provider)
	}
}

func provideMockGenerator() *services.MockGenerator {
	return services.NewMockGenerator()
}

// getPlannerConfig reads configuration from environment variables
func getPlannerConfig() PlannerProviderConfig {
	provider := getEnvWithDefault("PLANNER_PROVIDER", "gemini")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
		if apiKey == "" {
			log.Fatal("OPENAI_API_KEY is required when using OpenAI provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using Gemini provider")
		}
	}

	return PlannerProviderConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

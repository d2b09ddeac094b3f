package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
)

// PlannerClientInterface is the primary itinerary producer. Implementations
// own prompt construction, per-call timeouts and bounded retries; after the
// retry budget is spent they surface ErrGenerationUnavailable and nothing
// else. They never touch credit or trip state.
type PlannerClientInterface interface {
	GeneratePlan(ctx context.Context, prefs request_models.TripPreferences) (*response_models.Itinerary, error)
}

// PlannerConfig bounds one generation attempt. MaxRetries counts retries
// after the first call, so MaxRetries=2 means at most three model calls.
type PlannerConfig struct {
	Model       string
	CallTimeout time.Duration
	MaxRetries  int
	Backoff     time.Duration
}

func (c PlannerConfig) withDefaults() PlannerConfig {
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = 500 * time.Millisecond
	}
	return c
}

// buildItineraryPrompt renders the generation instruction. Later attempts get
// increasingly explicit wording, since models that ignored the format once
// tend to need the reminder hammered in.
func buildItineraryPrompt(prefs request_models.TripPreferences, attempt int) string {
	dayCount := prefs.DayCount()

	var sb strings.Builder
	if attempt > 0 {
		sb.WriteString("=== CRITICAL INSTRUCTIONS ===\n")
		fmt.Fprintf(&sb, "You MUST create exactly %d days. You MUST return valid JSON only. No explanations.\n\n", dayCount)
	}

	fmt.Fprintf(&sb, "You are a professional travel planner. Create a detailed %d-day itinerary for %s.\n\n",
		dayCount, prefs.Destination)
	fmt.Fprintf(&sb, "Trip details:\n")
	fmt.Fprintf(&sb, "- Dates: %s to %s (%d days)\n", prefs.StartDate, prefs.EndDate, dayCount)
	fmt.Fprintf(&sb, "- Total budget: %.2f\n", prefs.Budget)
	fmt.Fprintf(&sb, "- Travel type: %s\n", prefs.TravelType)
	if len(prefs.Interests) > 0 {
		fmt.Fprintf(&sb, "- Interests: %s\n", strings.Join(prefs.Interests, ", "))
	}
	if prefs.Accommodation != "" {
		fmt.Fprintf(&sb, "- Accommodation preference: %s\n", prefs.Accommodation)
	}

	sb.WriteString("\nReturn JSON in this EXACT format (match keys exactly):\n")
	fmt.Fprintf(&sb, `{
  "destination": "%s",
  "duration_days": %d,
  "budget": %.2f,
  "tolerance_margin": 0.1,
  "budget_breakdown": {"accommodation": 0, "food": 0, "activities": 0, "transport": 0},
  "days": [
    {
      "day": 1,
      "date": "%s",
      "activities": [
        {"name": "Visit ...", "start_time": "09:00", "end_time": "11:30", "cost": 25, "description": "..."}
      ],
      "accommodation": {"name": "...", "type": "hotel", "price_per_night": 80},
      "restaurant": {"name": "...", "cuisine": "local", "price_meal": 20},
      "transport": {"mode": "metro", "route": "...", "cost": 5}
    }
  ],
  "tips": ["practical tip"]
}`, prefs.Destination, dayCount, prefs.Budget, prefs.StartDate)

	sb.WriteString("\n\nHard constraints:\n")
	fmt.Fprintf(&sb, "- Exactly %d entries in \"days\", day numbered 1..%d with consecutive dates starting %s.\n",
		dayCount, dayCount, prefs.StartDate)
	sb.WriteString("- Every day has at least one activity; all cost fields are non-negative numbers.\n")
	fmt.Fprintf(&sb, "- budget_breakdown totals must stay within the %.2f budget plus tolerance_margin.\n", prefs.Budget)
	sb.WriteString("- Return ONLY valid JSON. No comments, no markdown.\n")

	if attempt > 0 {
		fmt.Fprintf(&sb, "\n=== REMINDER ===\nReturn exactly %d days in the JSON structure above. Nothing else.\n", dayCount)
	}
	return sb.String()
}

// cleanJSONResponse strips markdown fences and common null-field noise that
// models sneak into otherwise valid payloads.
func cleanJSONResponse(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, `"accommodation": null`, `"accommodation": {}`)
	return raw
}

// decodeItinerary parses and schema-checks one raw model response.
func decodeItinerary(prefs request_models.TripPreferences, raw string) (*response_models.Itinerary, error) {
	cleaned := cleanJSONResponse(raw)
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("%w: not valid json", ErrMalformedResponse)
	}

	var it response_models.Itinerary
	if err := json.Unmarshal([]byte(cleaned), &it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := response_models.ValidateItinerary(prefs, &it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &it, nil
}

// generateWithRetry drives the shared call/clean/validate/backoff loop for
// every planner backend. call receives the rendered prompt for the attempt.
func generateWithRetry(
	ctx context.Context,
	cfg PlannerConfig,
	prefs request_models.TripPreferences,
	call func(ctx context.Context, prompt string) (string, error),
) (*response_models.Itinerary, error) {
	if err := prefs.Validate(); err != nil {
		return nil, ErrInvalidInput
	}

	attempts := cfg.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(cfg.Backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		prompt := buildItineraryPrompt(prefs, attempt)

		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		raw, err := call(callCtx, prompt)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("Plan generation attempt %d/%d failed: %v", attempt+1, attempts, err)
			lastErr = err
			continue
		}

		it, err := decodeItinerary(prefs, raw)
		if err != nil {
			log.Printf("Plan generation attempt %d/%d returned invalid payload: %v", attempt+1, attempts, err)
			lastErr = err
			continue
		}

		return it, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, lastErr)
}

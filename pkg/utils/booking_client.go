package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"tripforge/internal/models/request_models"
)

// BookingConfirmation is what the provider hands back for one leg.
type BookingConfirmation struct {
	ProviderRef string  `json:"booking_id"`
	Price       float64 `json:"confirmed_price"`
	Status      string  `json:"status"`
}

// BookingProviderInterface is the external booking boundary: one call per
// leg, independently bounded by the client's timeout.
type BookingProviderInterface interface {
	BookLeg(ctx context.Context, terms request_models.BookingTerms) (*BookingConfirmation, error)
}

type BookingProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPBookingClient talks to the booking provider's REST API. With the demo
// key it returns deterministic confirmations locally, so the reconciliation
// engine can run without network access.
type HTTPBookingClient struct {
	cfg  BookingProviderConfig
	http *http.Client
}

func NewHTTPBookingClient(cfg BookingProviderConfig) BookingProviderInterface {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPBookingClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *HTTPBookingClient) BookLeg(ctx context.Context, terms request_models.BookingTerms) (*BookingConfirmation, error) {
	if c.cfg.APIKey == "" || c.cfg.APIKey == "demo_key" {
		return c.mockConfirmation(terms), nil
	}

	payload, err := json.Marshal(terms)
	if err != nil {
		return nil, fmt.Errorf("marshal booking terms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/bookings/create", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %d", ErrBookingFailed, resp.StatusCode)
	}

	var confirmation BookingConfirmation
	if err := json.Unmarshal(body, &confirmation); err != nil {
		return nil, fmt.Errorf("%w: invalid provider payload: %v", ErrBookingFailed, err)
	}
	if confirmation.ProviderRef == "" {
		return nil, fmt.Errorf("%w: provider returned no reference", ErrBookingFailed)
	}

	return &confirmation, nil
}

func (c *HTTPBookingClient) mockConfirmation(terms request_models.BookingTerms) *BookingConfirmation {
	h := fnv.New32a()
	h.Write([]byte(terms.LegType + terms.Origin + terms.Destination + terms.City + terms.Date + terms.CheckIn))

	prefix := "EMT-HT"
	if terms.LegType == "flight" {
		prefix = "EMT-FL"
	}

	price := terms.QuotedPrice
	if price <= 0 {
		price = 100
	}

	return &BookingConfirmation{
		ProviderRef: fmt.Sprintf("%s-%06d", prefix, h.Sum32()%1_000_000),
		Price:       price,
		Status:      "confirmed",
	}
}

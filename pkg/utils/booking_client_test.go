package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripforge/internal/models/request_models"
)

func flightTerms() request_models.BookingTerms {
	return request_models.BookingTerms{
		LegType:     "flight",
		Destination: "Porto",
		Date:        "2026-05-01",
		Travelers:   1,
		QuotedPrice: 320,
	}
}

func TestDemoModeConfirmsDeterministically(t *testing.T) {
	client := NewHTTPBookingClient(BookingProviderConfig{APIKey: "demo_key"})

	first, err := client.BookLeg(context.Background(), flightTerms())
	require.NoError(t, err)
	second, err := client.BookLeg(context.Background(), flightTerms())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "confirmed", first.Status)
	assert.Equal(t, 320.0, first.Price)
	assert.Contains(t, first.ProviderRef, "EMT-FL")
}

func TestDemoModeLegPrefixes(t *testing.T) {
	client := NewHTTPBookingClient(BookingProviderConfig{APIKey: ""})

	lodging, err := client.BookLeg(context.Background(), request_models.BookingTerms{
		LegType: "lodging",
		City:    "Porto",
		CheckIn: "2026-05-01",
	})
	require.NoError(t, err)
	assert.Contains(t, lodging.ProviderRef, "EMT-HT")

	// No quote on the terms falls back to the demo base rate.
	assert.Equal(t, 100.0, lodging.Price)
}

func TestBookLegCallsProvider(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var terms request_models.BookingTerms
		require.NoError(t, json.NewDecoder(r.Body).Decode(&terms))
		assert.Equal(t, "flight", terms.LegType)

		json.NewEncoder(w).Encode(BookingConfirmation{
			ProviderRef: "FL-12345",
			Price:       310,
			Status:      "confirmed",
		})
	}))
	defer server.Close()

	client := NewHTTPBookingClient(BookingProviderConfig{
		BaseURL: server.URL,
		APIKey:  "real-key",
	})

	confirmation, err := client.BookLeg(context.Background(), flightTerms())
	require.NoError(t, err)
	assert.Equal(t, "FL-12345", confirmation.ProviderRef)
	assert.Equal(t, 310.0, confirmation.Price)
	assert.Equal(t, "Bearer real-key", gotAuth)
}

func TestBookLegProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sold out", http.StatusConflict)
	}))
	defer server.Close()

	client := NewHTTPBookingClient(BookingProviderConfig{
		BaseURL: server.URL,
		APIKey:  "real-key",
	})

	_, err := client.BookLeg(context.Background(), flightTerms())
	assert.ErrorIs(t, err, ErrBookingFailed)
}

func TestBookLegMissingReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "confirmed"}`))
	}))
	defer server.Close()

	client := NewHTTPBookingClient(BookingProviderConfig{
		BaseURL: server.URL,
		APIKey:  "real-key",
	})

	_, err := client.BookLeg(context.Background(), flightTerms())
	assert.ErrorIs(t, err, ErrBookingFailed)
}

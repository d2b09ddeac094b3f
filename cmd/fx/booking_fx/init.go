package booking_fx

import (
	"log"
	"os"
	"time"

	"go.uber.org/fx"

	"tripforge/internal/api/controllers"
	"tripforge/internal/repositories"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

var Module = fx.Provide(
	provideBookingProvider,
	provideBookingService,
	provideBookingController)

func provideBookingProvider() utils.BookingProviderInterface {
	cfg := utils.BookingProviderConfig{
		BaseURL: getEnvWithDefault("BOOKING_API_URL", "https://api.easemytrip.example"),
		APIKey:  getEnvWithDefault("BOOKING_API_KEY", "demo_key"),
		Timeout: getEnvDuration("BOOKING_CALL_TIMEOUT", 30*time.Second),
	}
	if cfg.APIKey == "demo_key" {
		log.Println("Booking provider running in demo mode, confirmations are simulated")
	}
	return utils.NewHTTPBookingClient(cfg)
}

func provideBookingService(
	tripRepo repositories.TripRepository,
	provider utils.BookingProviderInterface,
) services.BookingServiceInterface {
	return services.NewBookingService(tripRepo, provider)
}

func provideBookingController(bookingService services.BookingServiceInterface) *controllers.BookingController {
	return controllers.NewBookingController(bookingService)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

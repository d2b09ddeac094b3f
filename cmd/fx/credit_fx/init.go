package credit_fx

import (
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripforge/internal/api/controllers"
	"tripforge/internal/repositories"
	"tripforge/internal/services"
)

var Module = fx.Provide(
	provideCreditRepo,
	provideCreditService,
	provideCreditController)

func provideCreditRepo(db *gorm.DB) repositories.CreditRepository {
	return repositories.NewCreditRepository(db)
}

func provideCreditService(creditRepo repositories.CreditRepository) services.CreditServiceInterface {
	return services.NewCreditService(creditRepo, getLedgerConfig())
}

func provideCreditController(creditService services.CreditServiceInterface) *controllers.CreditController {
	return controllers.NewCreditController(creditService)
}

func getLedgerConfig() services.CreditLedgerConfig {
	return services.CreditLedgerConfig{
		CostPerPlan:     getEnvInt("CREDIT_COST_PER_PLAN", 10),
		ReservationTTL:  getEnvDuration("CREDIT_RESERVATION_TTL", 5*time.Minute),
		StartingBalance: getEnvInt("CREDIT_STARTING_BALANCE", 100),
	}
}

func getEnvInt(key string, defaultValue int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(raw, 10, 64)
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

package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripforge/internal/api/controllers"
	"tripforge/internal/repositories"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

var Module = fx.Provide(
	provideTripRepo,
	provideTripService,
	provideTripController)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideTripService(
	tripRepo repositories.TripRepository,
	creditService services.CreditServiceInterface,
	planner utils.PlannerClientInterface,
	fallback *services.MockGenerator,
) services.TripServiceInterface {
	return services.NewTripService(tripRepo, creditService, planner, fallback)
}

func provideTripController(
	tripService services.TripServiceInterface,
	creditService services.CreditServiceInterface,
) *controllers.TripController {
	return controllers.NewTripController(tripService, creditService)
}

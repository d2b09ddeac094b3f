package main

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"log"
	"os"
	"tripforge/cmd/fx/booking_fx"
	"tripforge/cmd/fx/credit_fx"
	"tripforge/cmd/fx/db_fx"
	"tripforge/cmd/fx/planner_fx"
	"tripforge/cmd/fx/trip_fx"
	"tripforge/internal/api/controllers"
	"tripforge/internal/infra"
	"tripforge/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		credit_fx.Module,
		planner_fx.Module,
		trip_fx.Module,
		booking_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			infra.ClosePostgresql(db)
			return nil
		},
	})
}

func ProvideRouter(
	tripController *controllers.TripController,
	bookingController *controllers.BookingController,
	creditController *controllers.CreditController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, tripController, bookingController, creditController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	tripController *controllers.TripController,
	bookingController *controllers.BookingController,
	creditController *controllers.CreditController) {

	tripsGroup := r.Group("/trips", middleware.JWTAuthMiddleware())
	tripsGroup.POST("/plan", tripController.PlanTrip)
	tripsGroup.POST("/request-bookings", bookingController.RequestBookings)
	tripsGroup.GET("", tripController.ListTrips)
	tripsGroup.GET("/:tripId", tripController.GetTripById)

	creditsGroup := r.Group("/credits", middleware.JWTAuthMiddleware())
	creditsGroup.GET("/balance", creditController.GetBalance)
}

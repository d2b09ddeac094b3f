package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"tripforge/internal/models/request_models"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

type BookingController struct {
	bookingService services.BookingServiceInterface
}

func NewBookingController(bookingService services.BookingServiceInterface) *BookingController {
	return &BookingController{
		bookingService: bookingService,
	}
}

// RequestBookings godoc
// @Summary Book itinerary legs with the provider
// @Description Attempts to book the requested legs (flight, lodging) of a trip. Legs are booked independently; already confirmed legs are skipped, failed legs get a fresh attempt.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body request_models.RequestBookingsRequest true "Trip ID and legs to book"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/request-bookings [post]
func (b *BookingController) RequestBookings(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var req request_models.RequestBookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	trip, err := b.bookingService.RequestBookings(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Booking request processed")
}

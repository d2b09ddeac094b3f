package controllers

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
	"strconv"
	"tripforge/internal/models/request_models"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

type TripController struct {
	tripService   services.TripServiceInterface
	creditService services.CreditServiceInterface
}

func NewTripController(tripService services.TripServiceInterface, creditService services.CreditServiceInterface) *TripController {
	return &TripController{
		tripService:   tripService,
		creditService: creditService,
	}
}

// PlanTrip godoc
// @Summary Generate or regenerate a trip itinerary
// @Description Reserves one generation credit, produces an itinerary for the given preferences and persists it. Pass trip_id to replan an existing trip in place.
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.PlanTripRequest true "Trip preferences, optional trip_id for replan"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/plan [post]
func (t *TripController) PlanTrip(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var req request_models.PlanTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	trip, err := t.tripService.PlanTrip(c.Request.Context(), userId, req)
	if err != nil {
		if errors.Is(err, utils.ErrInsufficientCredits) {
			if balance, berr := t.creditService.GetBalance(c.Request.Context(), userId); berr == nil {
				utils.RespondErrorWithData(c, http.StatusPaymentRequired, "Insufficient credits", balance)
				return
			}
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip planned successfully")
}

// GetTripById godoc
// @Summary Get trip details by ID
// @Description Fetch one trip with its itinerary, booking records and derived booking status
// @Tags Trip
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.TripResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [get]
func (t *TripController) GetTripById(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	tripId := c.Param("tripId")
	if tripId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	trip, err := t.tripService.GetTripById(c.Request.Context(), userId, tripId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// ListTrips godoc
// @Summary List trips of the authenticated user
// @Description Fetch a paginated list of the user's trips, newest first
// @Tags Trip
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(5) minimum(1) maximum(100)
// @Success 200 {array} response_models.TripSummaryResponse
// @Security BearerAuth
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "5")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	trips, err := t.tripService.ListTrips(c.Request.Context(), userId, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trips, "Trips fetched successfully")
}

// currentUserId pulls the authenticated user id set by the JWT middleware.
func currentUserId(c *gin.Context) (uuid.UUID, bool) {
	userId, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid user identity")
		return uuid.Nil, false
	}
	return userId, true
}

package controllers

import (
	"github.com/gin-gonic/gin"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

type CreditController struct {
	creditService services.CreditServiceInterface
}

func NewCreditController(creditService services.CreditServiceInterface) *CreditController {
	return &CreditController{
		creditService: creditService,
	}
}

// GetBalance godoc
// @Summary Get the current credit balance
// @Description Fetch the authenticated user's generation credit balance. Opens an account with the signup grant on first call.
// @Tags Credit
// @Accept json
// @Produce json
// @Success 200 {object} response_models.CreditBalanceResponse
// @Security BearerAuth
// @Router /credits/balance [get]
func (cc *CreditController) GetBalance(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	balance, err := cc.creditService.GetBalance(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, balance, "Balance fetched successfully")
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mamareykjavik-backend/internal/domains/card/model"
	"mamareykjavik-backend/internal/domains/card/service"
	"mamareykjavik-backend/internal/shared/response"
)

type CheckoutHandler struct {
	service service.CardService
}

func NewCheckoutHandler(svc service.CardService) *CheckoutHandler {
	return &CheckoutHandler{service: svc}
}

// CheckoutMealCard handles POST /api/v1/meal-cards/checkout
func (h *CheckoutHandler) CheckoutMealCard(c *gin.Context) {
	h.checkout(c, model.CardTypeMeal)
}

// CheckoutGiftCard handles POST /api/v1/gift-cards/checkout
func (h *CheckoutHandler) CheckoutGiftCard(c *gin.Context) {
	h.checkout(c, model.CardTypeGift)
}

func (h *CheckoutHandler) checkout(c *gin.Context, cardType model.CardType) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "validation failed", err)
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), cardType, &req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, result)
}

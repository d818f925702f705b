package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mamareykjavik-backend/internal/domains/shop/model"
	"mamareykjavik-backend/internal/domains/shop/service"
	"mamareykjavik-backend/internal/shared/response"
)

type CheckoutHandler struct {
	service service.ShopService
}

func NewCheckoutHandler(svc service.ShopService) *CheckoutHandler {
	return &CheckoutHandler{service: svc}
}

// Checkout handles POST /api/v1/shop/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "validation failed", err)
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), &req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, result)
}

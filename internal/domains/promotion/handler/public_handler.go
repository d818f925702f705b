package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/promotion/model"
	"mamareykjavik-backend/internal/domains/promotion/service"
	"mamareykjavik-backend/internal/shared/response"
)

// PublicHandler serves the storefront-facing promo endpoints.
type PublicHandler struct {
	service service.ServiceInterface
}

func NewPublicHandler(svc service.ServiceInterface) *PublicHandler {
	return &PublicHandler{service: svc}
}

// Validate handles POST /api/v1/promotions/validate
//
// Applies the code to the cart and records the redemption. Anonymous
// carts are allowed; authenticated requests also enforce the per-user
// limit.
func (h *PublicHandler) Validate(c *gin.Context) {
	var req model.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	userID := currentUserID(c)
	identity := rateLimitIdentity(c, userID)

	result, err := h.service.Validate(c.Request.Context(), &req, userID, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Preview handles GET /api/v1/promotions/preview?code=X&eventId=Y&cartTotal=Z
//
// Read-only check: no redemption record, no quota consumption.
func (h *PublicHandler) Preview(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "code is required")
		return
	}

	cartTotal := decimal.Zero
	if raw := c.Query("cartTotal"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			response.BadRequest(c, "invalid cartTotal")
			return
		}
		cartTotal = parsed
	}

	result, err := h.service.Preview(c.Request.Context(), code, c.Query("eventId"), cartTotal)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// currentUserID returns the authenticated user's id, or nil for
// anonymous requests. Set by OptionalAuth.
func currentUserID(c *gin.Context) *uuid.UUID {
	raw := c.GetString("user_id")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// rateLimitIdentity picks the rate limit key: user id when
// authenticated, otherwise the client IP.
func rateLimitIdentity(c *gin.Context, userID *uuid.UUID) string {
	if userID != nil {
		return "user:" + userID.String()
	}
	if ip := c.GetString("client_ip"); ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		if appErr.Details != nil {
			response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
			return
		}
		response.ErrorResponse(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message)
		return
	}

	response.InternalServerError(c, "internal error")
}

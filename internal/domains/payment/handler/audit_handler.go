package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mamareykjavik-backend/internal/domains/payment/repository"
	"mamareykjavik-backend/internal/shared/response"
)

// AuditHandler serves the back-office webhook audit trail. Used to
// trace what the gateway sent when a payment dispute comes in.
type AuditHandler struct {
	repo repository.WebhookRepository
}

func NewAuditHandler(repo repository.WebhookRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListByOrderRef handles GET /api/v1/admin/webhooks?orderRef=MRT-XXXX
func (h *AuditHandler) ListByOrderRef(c *gin.Context) {
	orderRef := c.Query("orderRef")
	if orderRef == "" {
		response.BadRequest(c, "orderRef is required")
		return
	}

	logs, err := h.repo.ListByOrderRef(c.Request.Context(), orderRef)
	if err != nil {
		response.InternalServerError(c, "failed to load webhook logs")
		return
	}

	response.Success(c, http.StatusOK, logs)
}

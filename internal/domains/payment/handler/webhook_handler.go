package handler

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/payment/service"
	"mamareykjavik-backend/internal/shared/response"
)

// WebhookHandler receives SaltPay server-to-server payment callbacks.
type WebhookHandler struct {
	reconciler service.ReconcilerInterface
	resultURL  string
}

func NewWebhookHandler(reconciler service.ReconcilerInterface, resultURL string) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, resultURL: resultURL}
}

// HandleCallback handles POST /webhooks/saltpay/:product
//
// The gateway posts URL-encoded form data and expects a
// product-specific acknowledgement: JSON, XML or a 302 redirect.
// The callback is always answered 200 with the negotiated body so the
// gateway does not retry malformed requests forever; rejection is
// carried inside the acknowledgement itself.
func (h *WebhookHandler) HandleCallback(c *gin.Context) {
	product := model.Product(c.Param("product"))
	if !product.IsValid() {
		response.NotFound(c, "unknown product line")
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 64<<10))
	if err != nil {
		response.BadRequest(c, "unreadable request body")
		return
	}

	outcome, err := h.reconciler.Reconcile(c.Request.Context(), product, string(body))
	if err != nil {
		response.InternalServerError(c, "reconciliation unavailable")
		return
	}

	h.acknowledge(c, outcome)
}

func (h *WebhookHandler) acknowledge(c *gin.Context, outcome *model.ReconciliationOutcome) {
	switch outcome.Ack {
	case model.AckXML:
		body := "<PaymentNotification>Error</PaymentNotification>"
		if outcome.Accepted {
			body = "<PaymentNotification>Accepted</PaymentNotification>"
		}
		c.Data(http.StatusOK, "application/xml", []byte(body))

	case model.AckRedirect:
		q := url.Values{}
		q.Set("orderid", outcome.OrderRef)
		if outcome.Accepted {
			q.Set("result", "success")
		} else {
			q.Set("result", "failed")
		}
		c.Redirect(http.StatusFound, h.resultURL+"?"+q.Encode())

	default: // AckJSON
		c.JSON(http.StatusOK, gin.H{"success": outcome.Accepted})
	}
}

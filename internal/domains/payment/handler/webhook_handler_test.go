package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"mamareykjavik-backend/internal/domains/payment/model"
)

type stubReconciler struct {
	outcome *model.ReconciliationOutcome
	err     error

	gotProduct model.Product
	gotBody    string
}

func (s *stubReconciler) Reconcile(_ context.Context, product model.Product, rawBody string) (*model.ReconciliationOutcome, error) {
	s.gotProduct = product
	s.gotBody = rawBody
	return s.outcome, s.err
}

func performCallback(t *testing.T, reconciler *stubReconciler, product, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	h := NewWebhookHandler(reconciler, "https://mama.is/payment/result")
	router.POST("/webhooks/saltpay/:product", h.HandleCallback)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/saltpay/"+product, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCallback_JSONAck(t *testing.T) {
	reconciler := &stubReconciler{
		outcome: model.AcceptedOutcome("MR-1001", model.AckJSON),
	}

	w := performCallback(t, reconciler, "tickets", "status=OK&orderid=MR-1001&orderhash=abc")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, model.ProductTickets, reconciler.gotProduct)
	assert.Equal(t, "status=OK&orderid=MR-1001&orderhash=abc", reconciler.gotBody)
}

func TestHandleCallback_JSONAckRejected(t *testing.T) {
	reconciler := &stubReconciler{
		outcome: model.RejectedOutcome("MR-1001", model.CodeInvalidSignature, "bad hash", model.AckJSON),
	}

	w := performCallback(t, reconciler, "tickets", "status=OK")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false}`, w.Body.String())
}

func TestHandleCallback_XMLAck(t *testing.T) {
	reconciler := &stubReconciler{
		outcome: model.AcceptedOutcome("MR-2001", model.AckXML),
	}

	w := performCallback(t, reconciler, "shop", "status=OK")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<PaymentNotification>Accepted</PaymentNotification>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
}

func TestHandleCallback_XMLAckRejected(t *testing.T) {
	reconciler := &stubReconciler{
		outcome: model.RejectedOutcome("MR-2001", model.CodeOrderNotFound, "no order", model.AckXML),
	}

	w := performCallback(t, reconciler, "shop", "status=OK")

	assert.Equal(t, "<PaymentNotification>Error</PaymentNotification>", w.Body.String())
}

func TestHandleCallback_RedirectAck(t *testing.T) {
	reconciler := &stubReconciler{
		outcome: model.AcceptedOutcome("MR-3001", model.AckRedirect),
	}

	w := performCallback(t, reconciler, "tours", "status=OK")

	assert.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "https://mama.is/payment/result?")
	assert.Contains(t, location, "orderid=MR-3001")
	assert.Contains(t, location, "result=success")
}

func TestHandleCallback_RedirectAckFailed(t *testing.T) {
	reconciler := &stubReconciler{
		outcome: model.RejectedOutcome("MR-3001", model.CodePaymentNotSuccessful, "cancelled", model.AckRedirect),
	}

	w := performCallback(t, reconciler, "tours", "status=ERROR")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "result=failed")
}

func TestHandleCallback_UnknownProduct(t *testing.T) {
	w := performCallback(t, &stubReconciler{}, "lottery", "status=OK")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

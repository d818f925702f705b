package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"mamareykjavik-backend/internal/domains/payment/model"
)

type stubWebhookRepo struct {
	logs        []*model.WebhookLog
	err         error
	gotOrderRef string
}

func (s *stubWebhookRepo) Insert(_ context.Context, _ *model.WebhookLog) error { return nil }

func (s *stubWebhookRepo) MarkProcessed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (s *stubWebhookRepo) ListByOrderRef(_ context.Context, orderRef string) ([]*model.WebhookLog, error) {
	s.gotOrderRef = orderRef
	return s.logs, s.err
}

func performAuditRequest(repo *stubWebhookRepo, url string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/webhooks", NewAuditHandler(repo).ListByOrderRef)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestListByOrderRef(t *testing.T) {
	repo := &stubWebhookRepo{
		logs: []*model.WebhookLog{{
			ID:         uuid.New(),
			Product:    model.ProductTickets,
			OrderRef:   "MRT-1A2B3C",
			RawPayload: "status=OK&orderid=MRT-1A2B3C",
			Outcome:    "accepted",
			ReceivedAt: time.Now(),
		}},
	}

	w := performAuditRequest(repo, "/admin/webhooks?orderRef=MRT-1A2B3C")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MRT-1A2B3C", repo.gotOrderRef)
	assert.Contains(t, w.Body.String(), "accepted")
}

func TestListByOrderRef_MissingParam(t *testing.T) {
	w := performAuditRequest(&stubWebhookRepo{}, "/admin/webhooks")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListByOrderRef_RepoError(t *testing.T) {
	repo := &stubWebhookRepo{err: errors.New("db down")}

	w := performAuditRequest(repo, "/admin/webhooks?orderRef=MRT-1A2B3C")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

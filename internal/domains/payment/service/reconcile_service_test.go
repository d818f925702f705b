package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mamareykjavik-backend/internal/domains/payment/gateway/saltpay"
	"mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/infrastructure/email"
)

const testSecret = "test-merchant-secret"

// ---------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------

type fakeAdapter struct {
	product    model.Product
	ack        model.AckFormat
	entity     *model.PayableEntity
	loadErr    error
	markErr    error
	effectsErr error

	markPaidCalls  int
	effectsCalls   int
	gotBuyerEmails []string
}

func (a *fakeAdapter) Product() model.Product { return a.product }
func (a *fakeAdapter) Ack() model.AckFormat   { return a.ack }

func (a *fakeAdapter) LoadEntity(_ context.Context, orderRef string) (*model.PayableEntity, error) {
	if a.loadErr != nil {
		return nil, a.loadErr
	}
	if a.entity == nil || a.entity.OrderRef != orderRef {
		return nil, nil
	}
	return a.entity, nil
}

func (a *fakeAdapter) MarkPaid(_ context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	a.markPaidCalls++
	a.gotBuyerEmails = append(a.gotBuyerEmails, buyerEmail)
	if a.markErr != nil {
		return false, a.markErr
	}
	if a.entity.PaymentStatus != model.PaymentStatusPending {
		return false, nil
	}
	a.entity.PaymentStatus = model.PaymentStatusPaid
	if buyerEmail != "" {
		a.entity.BuyerEmail = buyerEmail
	}
	return true, nil
}

func (a *fakeAdapter) ApplyPostPaymentEffects(_ context.Context, _ *model.PayableEntity) error {
	a.effectsCalls++
	return a.effectsErr
}

type fakeWebhookRepo struct {
	inserted  []*model.WebhookLog
	processed map[uuid.UUID]string
	insertErr error
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{processed: make(map[uuid.UUID]string)}
}

func (r *fakeWebhookRepo) Insert(_ context.Context, log *model.WebhookLog) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	r.inserted = append(r.inserted, log)
	return nil
}

func (r *fakeWebhookRepo) MarkProcessed(_ context.Context, id uuid.UUID, outcome string) error {
	r.processed[id] = outcome
	return nil
}

func (r *fakeWebhookRepo) ListByOrderRef(_ context.Context, _ string) ([]*model.WebhookLog, error) {
	return r.inserted, nil
}

type fakeMailer struct {
	confirmations []email.PaymentConfirmationData
	notices       []email.InternalOrderNoticeData
	sendErr       error
}

func (m *fakeMailer) SendPaymentConfirmation(_ context.Context, data email.PaymentConfirmationData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.confirmations = append(m.confirmations, data)
	return nil
}

func (m *fakeMailer) SendInternalOrderNotice(_ context.Context, data email.InternalOrderNoticeData) error {
	m.notices = append(m.notices, data)
	return nil
}

// ---------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------

func pendingEntity(orderRef string, amount int64) *model.PayableEntity {
	return &model.PayableEntity{
		ID:            uuid.New(),
		OrderRef:      orderRef,
		PaymentStatus: model.PaymentStatusPending,
		Amount:        decimal.NewFromInt(amount),
		Currency:      "ISK",
		BuyerEmail:    "buyer@example.com",
		BuyerName:     "Buyer",
		Product:       model.ProductTickets,
	}
}

func signedCallback(orderRef string, amount int64) string {
	amountStr := decimal.NewFromInt(amount).String()
	return "status=OK&orderid=" + orderRef +
		"&amount=" + amountStr +
		"&currency=ISK&orderhash=" + saltpay.Sign(testSecret, orderRef, amountStr, "ISK")
}

func newTestReconciler(adapter *fakeAdapter, repo *fakeWebhookRepo, mailer *fakeMailer) ReconcilerInterface {
	return NewReconcileService([]ProductAdapter{adapter}, repo, mailer, testSecret)
}

// ---------------------------------------------------------------
// Tests
// ---------------------------------------------------------------

func TestReconcile_HappyPath(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	repo := newFakeWebhookRepo()
	mailer := &fakeMailer{}
	svc := newTestReconciler(adapter, repo, mailer)

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, signedCallback("MR-1001", 4500))

	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.False(t, outcome.AlreadyPaid)
	assert.Equal(t, model.PaymentStatusPaid, adapter.entity.PaymentStatus)
	assert.Equal(t, 1, adapter.effectsCalls)
	require.Len(t, mailer.confirmations, 1)
	assert.Equal(t, "buyer@example.com", mailer.confirmations[0].Email)

	// Audit trail
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "accepted", repo.processed[repo.inserted[0].ID])
}

func TestReconcile_BuyerEmailTakenFromCallback(t *testing.T) {
	entity := pendingEntity("MR-1001", 4500)
	entity.BuyerEmail = "" // checkout without an address on file
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  entity,
	}
	mailer := &fakeMailer{}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), mailer)

	body := signedCallback("MR-1001", 4500) + "&buyeremail=gateway-buyer@example.com"

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, body)

	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.Equal(t, []string{"gateway-buyer@example.com"}, adapter.gotBuyerEmails)
	assert.Equal(t, "gateway-buyer@example.com", adapter.entity.BuyerEmail)

	// The confirmation goes to the payload address
	require.Len(t, mailer.confirmations, 1)
	assert.Equal(t, "gateway-buyer@example.com", mailer.confirmations[0].Email)
}

func TestReconcile_CallbackEmailOverridesStoredOne(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	mailer := &fakeMailer{}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), mailer)

	body := signedCallback("MR-1001", 4500) + "&buyeremail=corrected@example.com"

	_, err := svc.Reconcile(context.Background(), model.ProductTickets, body)

	require.NoError(t, err)
	require.Len(t, mailer.confirmations, 1)
	assert.Equal(t, "corrected@example.com", mailer.confirmations[0].Email)
}

func TestReconcile_MissingCallbackEmailKeepsStoredOne(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	mailer := &fakeMailer{}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), mailer)

	_, err := svc.Reconcile(context.Background(), model.ProductTickets, signedCallback("MR-1001", 4500))

	require.NoError(t, err)
	assert.Equal(t, []string{""}, adapter.gotBuyerEmails)
	require.Len(t, mailer.confirmations, 1)
	assert.Equal(t, "buyer@example.com", mailer.confirmations[0].Email)
}

func TestReconcile_DuplicateCallbackIsIdempotent(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	mailer := &fakeMailer{}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), mailer)
	body := signedCallback("MR-1001", 4500)

	first, err := svc.Reconcile(context.Background(), model.ProductTickets, body)
	require.NoError(t, err)
	require.True(t, first.Accepted)

	second, err := svc.Reconcile(context.Background(), model.ProductTickets, body)
	require.NoError(t, err)

	// Duplicate still acks success, but runs nothing twice
	assert.True(t, second.Accepted)
	assert.True(t, second.AlreadyPaid)
	assert.Equal(t, 1, adapter.markPaidCalls)
	assert.Equal(t, 1, adapter.effectsCalls)
	assert.Len(t, mailer.confirmations, 1)
}

func TestReconcile_TamperedAmountRejected(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), &fakeMailer{})

	// Hash signed over the real amount, body claims a different one
	body := "status=OK&orderid=MR-1001&amount=1&currency=ISK&orderhash=" +
		saltpay.Sign(testSecret, "MR-1001", "4500", "ISK")

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, body)

	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, model.CodeInvalidSignature, outcome.Code)
	assert.Equal(t, model.PaymentStatusPending, adapter.entity.PaymentStatus)
}

func TestReconcile_NonOKStatusLeavesOrderPending(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), &fakeMailer{})

	body := "status=ERROR&orderid=MR-1001&amount=4500&currency=ISK&orderhash=" +
		saltpay.Sign(testSecret, "MR-1001", "4500", "ISK")

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, body)

	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, model.CodePaymentNotSuccessful, outcome.Code)
	assert.Equal(t, model.PaymentStatusPending, adapter.entity.PaymentStatus)
	assert.Equal(t, 0, adapter.markPaidCalls)
}

func TestReconcile_UnknownOrderRejected(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
	}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), &fakeMailer{})

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, signedCallback("MR-9999", 4500))

	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, model.CodeOrderNotFound, outcome.Code)
}

func TestReconcile_UnknownProduct(t *testing.T) {
	adapter := &fakeAdapter{product: model.ProductTickets, ack: model.AckJSON}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), &fakeMailer{})

	_, err := svc.Reconcile(context.Background(), model.ProductShop, signedCallback("MR-1001", 4500))

	assert.Error(t, err)
}

func TestReconcile_EffectsErrorDoesNotFailReconciliation(t *testing.T) {
	adapter := &fakeAdapter{
		product:    model.ProductTickets,
		ack:        model.AckJSON,
		entity:     pendingEntity("MR-1001", 4500),
		effectsErr: errors.New("stock table locked"),
	}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), &fakeMailer{})

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, signedCallback("MR-1001", 4500))

	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.Equal(t, model.PaymentStatusPaid, adapter.entity.PaymentStatus)
}

func TestReconcile_EmailErrorDoesNotFailReconciliation(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), mailer)

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, signedCallback("MR-1001", 4500))

	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
}

func TestReconcile_MarkPaidRaceAcksAsDuplicate(t *testing.T) {
	entity := pendingEntity("MR-1001", 4500)
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  entity,
	}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), &fakeMailer{})

	// Another instance pays the order between lookup and update
	entity.PaymentStatus = model.PaymentStatusPending
	adapter.markErr = nil
	// Force the guarded update to report no transition
	entity.PaymentStatus = model.PaymentStatusCancelled

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, signedCallback("MR-1001", 4500))

	require.NoError(t, err)
	assert.True(t, outcome.AlreadyPaid)
	assert.Equal(t, 0, adapter.effectsCalls)
}

func TestReconcile_MalformedBodyRejected(t *testing.T) {
	adapter := &fakeAdapter{product: model.ProductTickets, ack: model.AckJSON}
	svc := newTestReconciler(adapter, newFakeWebhookRepo(), &fakeMailer{})

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, "status=OK")

	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
}

func TestReconcile_AuditInsertFailureStillReconciles(t *testing.T) {
	adapter := &fakeAdapter{
		product: model.ProductTickets,
		ack:     model.AckJSON,
		entity:  pendingEntity("MR-1001", 4500),
	}
	repo := newFakeWebhookRepo()
	repo.insertErr = errors.New("audit table missing")
	svc := newTestReconciler(adapter, repo, &fakeMailer{})

	outcome, err := svc.Reconcile(context.Background(), model.ProductTickets, signedCallback("MR-1001", 4500))

	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
}

func TestReconcile_InternalNotifierAdapter(t *testing.T) {
	adapter := &notifyingAdapter{
		fakeAdapter: fakeAdapter{
			product: model.ProductShop,
			ack:     model.AckJSON,
			entity:  pendingEntity("MR-2001", 9900),
		},
	}
	svc := NewReconcileService([]ProductAdapter{adapter}, newFakeWebhookRepo(), &fakeMailer{}, testSecret)

	outcome, err := svc.Reconcile(context.Background(), model.ProductShop, signedCallback("MR-2001", 9900))

	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.Equal(t, 1, adapter.notifyCalls)
}

type notifyingAdapter struct {
	fakeAdapter
	notifyCalls int
}

func (a *notifyingAdapter) NotifyInternal(_ context.Context, _ *model.PayableEntity) error {
	a.notifyCalls++
	return nil
}

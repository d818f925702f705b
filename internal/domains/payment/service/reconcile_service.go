package service

import (
	"context"
	"fmt"

	"mamareykjavik-backend/internal/domains/payment/gateway/saltpay"
	"mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/payment/repository"
	"mamareykjavik-backend/internal/infrastructure/email"
	"mamareykjavik-backend/pkg/logger"
)

type reconcileService struct {
	adapters    map[model.Product]ProductAdapter
	webhookRepo repository.WebhookRepository
	mailer      email.Service
	secretKey   string
}

// NewReconcileService builds the shared reconciliation pipeline over
// the registered product adapters.
func NewReconcileService(
	adapters []ProductAdapter,
	webhookRepo repository.WebhookRepository,
	mailer email.Service,
	secretKey string,
) ReconcilerInterface {
	byProduct := make(map[model.Product]ProductAdapter, len(adapters))
	for _, a := range adapters {
		byProduct[a.Product()] = a
	}
	return &reconcileService{
		adapters:    byProduct,
		webhookRepo: webhookRepo,
		mailer:      mailer,
		secretKey:   secretKey,
	}
}

// Reconcile processes one gateway callback:
//
//  1. Parse the URL-encoded body
//  2. Gate on the gateway-reported status
//  3. Verify the HMAC signature
//  4. Load the pending order by reference
//  5. Idempotency: an already-paid order acknowledges positively
//     without re-running any side effect
//  6. Mark the order paid (guarded transition)
//  7. Run product-specific post-payment effects (best-effort)
//  8. Send the buyer confirmation (best-effort)
//
// The returned outcome carries the acknowledgement format for the
// handler; a non-nil error means the callback could not be attributed
// to a product at all.
func (s *reconcileService) Reconcile(ctx context.Context, product model.Product, rawBody string) (*model.ReconciliationOutcome, error) {
	adapter, ok := s.adapters[product]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for product %q", product)
	}
	ack := adapter.Ack()

	// Step 1: Parse callback
	cb, err := saltpay.ParseCallback(rawBody)
	if err != nil {
		logger.Warn("unparseable payment callback", map[string]interface{}{
			"product": product.String(),
			"error":   err.Error(),
		})
		return model.RejectedOutcome("", model.CodePaymentNotSuccessful, "malformed callback", ack), nil
	}

	// Audit log before any processing. Best-effort: reconciliation
	// must not depend on the audit table being writable.
	auditLog := &model.WebhookLog{
		Product:    product,
		OrderRef:   cb.OrderRef,
		RawPayload: rawBody,
	}
	audited := true
	if err := s.webhookRepo.Insert(ctx, auditLog); err != nil {
		audited = false
		logger.Error("insert webhook audit log", err)
	}

	outcome := s.reconcile(ctx, adapter, cb, ack)

	if audited {
		note := outcome.Code
		if outcome.Accepted && note == "" {
			note = "accepted"
		}
		if err := s.webhookRepo.MarkProcessed(ctx, auditLog.ID, note); err != nil {
			logger.Error("mark webhook processed", err)
		}
	}

	return outcome, nil
}

func (s *reconcileService) reconcile(ctx context.Context, adapter ProductAdapter, cb *saltpay.Callback, ack model.AckFormat) *model.ReconciliationOutcome {
	product := adapter.Product()

	// Step 2: Gateway status gate. A failed or cancelled payment is
	// acknowledged negatively and the order stays pending for retry.
	if !cb.Successful() {
		logger.Info("payment callback with non-OK status", map[string]interface{}{
			"product":   product.String(),
			"order_ref": cb.OrderRef,
			"status":    cb.Status,
		})
		return model.RejectedOutcome(cb.OrderRef, model.CodePaymentNotSuccessful, "gateway status "+cb.Status, ack)
	}

	// Step 3: Signature verification
	if !cb.VerifySignature(s.secretKey) {
		logger.Warn("payment callback signature mismatch", map[string]interface{}{
			"product":   product.String(),
			"order_ref": cb.OrderRef,
		})
		return model.RejectedOutcome(cb.OrderRef, model.CodeInvalidSignature, "orderhash verification failed", ack)
	}

	// Step 4: Load the pending order
	entity, err := adapter.LoadEntity(ctx, cb.OrderRef)
	if err != nil {
		logger.Error("load order for reconciliation", err)
		return model.RejectedOutcome(cb.OrderRef, model.CodeOrderNotFound, "lookup failed", ack)
	}
	if entity == nil {
		return model.RejectedOutcome(cb.OrderRef, model.CodeOrderNotFound, "no order for reference", ack)
	}

	// Step 5: Idempotency guard. Gateways retry callbacks; a second
	// delivery for a paid order must ack success without side effects.
	if entity.IsPaid() {
		logger.Info("duplicate payment callback", map[string]interface{}{
			"product":   product.String(),
			"order_ref": cb.OrderRef,
		})
		return model.DuplicateOutcome(cb.OrderRef, ack)
	}

	// Step 6: Transition to paid. The adapter guards the UPDATE on
	// the pending status, so a concurrent callback loses cleanly.
	// The gateway payload may carry the buyer email entered on the
	// hosted payment page; when present it replaces the one on file.
	transitioned, err := adapter.MarkPaid(ctx, entity.ID, cb.BuyerEmail)
	if err != nil {
		logger.Error("mark order paid", err)
		return model.RejectedOutcome(cb.OrderRef, model.CodeMarkPaidFailed, "status update failed", ack)
	}
	if !transitioned {
		// Lost the race to another delivery of the same callback.
		return model.DuplicateOutcome(cb.OrderRef, ack)
	}
	if cb.BuyerEmail != "" {
		entity.BuyerEmail = cb.BuyerEmail
	}

	// Step 7: Product-specific effects. The payment is already
	// settled, so failures here are logged and followed up manually
	// rather than bounced back to the gateway.
	if err := adapter.ApplyPostPaymentEffects(ctx, entity); err != nil {
		logger.Error("post-payment effects", err)
	}

	// Step 8: Buyer confirmation, best-effort
	if entity.BuyerEmail != "" {
		err := s.mailer.SendPaymentConfirmation(ctx, email.PaymentConfirmationData{
			Email:    entity.BuyerEmail,
			Name:     entity.BuyerName,
			Product:  product.String(),
			OrderRef: entity.OrderRef,
			Amount:   entity.Amount,
			Currency: entity.Currency,
		})
		if err != nil {
			logger.Error("send payment confirmation", err)
		}
	}

	// Some product lines also notify staff
	if notifier, ok := adapter.(InternalNotifier); ok {
		if err := notifier.NotifyInternal(ctx, entity); err != nil {
			logger.Error("send internal order notice", err)
		}
	}

	logger.Info("payment reconciled", map[string]interface{}{
		"product":   product.String(),
		"order_ref": cb.OrderRef,
		"amount":    entity.Amount.String(),
		"currency":  entity.Currency,
	})

	return model.AcceptedOutcome(cb.OrderRef, ack)
}

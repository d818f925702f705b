package service

import (
	"context"

	"github.com/google/uuid"

	"mamareykjavik-backend/internal/domains/payment/model"
)

// ProductAdapter binds a product line's pending-order storage and
// post-payment behavior into the shared reconciliation pipeline.
type ProductAdapter interface {
	// Product identifies the product line this adapter serves.
	Product() model.Product

	// LoadEntity looks up the pending order by its gateway order
	// reference. Returns (nil, nil) when no order matches.
	LoadEntity(ctx context.Context, orderRef string) (*model.PayableEntity, error)

	// MarkPaid transitions the order from pending to paid. A
	// non-empty buyerEmail is the address from the verified gateway
	// payload and replaces the one on file in the same update.
	// Returns false without error when another callback already won
	// the race; the update is guarded on the pending status.
	MarkPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error)

	// ApplyPostPaymentEffects runs the product-specific follow-up
	// work after a successful transition (issue tickets, decrement
	// stock, activate a card). Errors are logged but never fail the
	// reconciliation: the payment already happened.
	ApplyPostPaymentEffects(ctx context.Context, entity *model.PayableEntity) error

	// Ack is the acknowledgement format this product's gateway
	// integration expects.
	Ack() model.AckFormat
}

// InternalNotifier is implemented by adapters whose product line wants
// a staff notification alongside the buyer confirmation.
type InternalNotifier interface {
	NotifyInternal(ctx context.Context, entity *model.PayableEntity) error
}

// ReconcilerInterface processes gateway payment callbacks.
type ReconcilerInterface interface {
	Reconcile(ctx context.Context, product model.Product, rawBody string) (*model.ReconciliationOutcome, error)
}

// CheckoutService creates pending orders and hands back the hosted
// payment URL for them.
type CheckoutService interface {
	PaymentURL(entity *model.PayableEntity) string
}

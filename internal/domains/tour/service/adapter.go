package service

import (
	"context"

	"github.com/google/uuid"

	payment "mamareykjavik-backend/internal/domains/payment/model"
	paymentservice "mamareykjavik-backend/internal/domains/payment/service"
	"mamareykjavik-backend/internal/domains/tour/repository"
)

// tourAdapter plugs tour bookings into the payment reconciliation
// pipeline. The tour gateway integration answers callbacks with a 302
// back to the storefront result page; the confirmation email is the
// only follow-up.
type tourAdapter struct {
	repo repository.TourRepository
}

func NewTourAdapter(repo repository.TourRepository) paymentservice.ProductAdapter {
	return &tourAdapter{repo: repo}
}

func (a *tourAdapter) Product() payment.Product {
	return payment.ProductTours
}

func (a *tourAdapter) Ack() payment.AckFormat {
	return payment.AckRedirect
}

func (a *tourAdapter) LoadEntity(ctx context.Context, orderRef string) (*payment.PayableEntity, error) {
	booking, err := a.repo.FindBookingByRef(ctx, orderRef)
	if err != nil || booking == nil {
		return nil, err
	}

	return &payment.PayableEntity{
		ID:            booking.ID,
		OrderRef:      booking.OrderRef,
		PaymentStatus: booking.PaymentStatus,
		Amount:        booking.Amount,
		Currency:      booking.Currency,
		BuyerEmail:    booking.BuyerEmail,
		BuyerName:     booking.BuyerName,
		Product:       payment.ProductTours,
	}, nil
}

func (a *tourAdapter) MarkPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	return a.repo.MarkBookingPaid(ctx, id, buyerEmail)
}

func (a *tourAdapter) ApplyPostPaymentEffects(ctx context.Context, entity *payment.PayableEntity) error {
	return nil
}

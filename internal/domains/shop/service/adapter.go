package service

import (
	"context"

	"github.com/google/uuid"

	payment "mamareykjavik-backend/internal/domains/payment/model"
	paymentservice "mamareykjavik-backend/internal/domains/payment/service"
	"mamareykjavik-backend/internal/domains/shop/repository"
	"mamareykjavik-backend/internal/infrastructure/email"
)

// shopAdapter plugs shop orders into the payment reconciliation
// pipeline. The legacy shop integration acks in XML and additionally
// notifies staff so orders get packed.
type shopAdapter struct {
	repo   repository.ShopRepository
	mailer email.Service
}

func NewShopAdapter(repo repository.ShopRepository, mailer email.Service) paymentservice.ProductAdapter {
	return &shopAdapter{repo: repo, mailer: mailer}
}

func (a *shopAdapter) Product() payment.Product {
	return payment.ProductShop
}

func (a *shopAdapter) Ack() payment.AckFormat {
	return payment.AckXML
}

func (a *shopAdapter) LoadEntity(ctx context.Context, orderRef string) (*payment.PayableEntity, error) {
	order, err := a.repo.FindOrderByRef(ctx, orderRef)
	if err != nil || order == nil {
		return nil, err
	}

	return &payment.PayableEntity{
		ID:            order.ID,
		OrderRef:      order.OrderRef,
		PaymentStatus: order.PaymentStatus,
		Amount:        order.Amount,
		Currency:      order.Currency,
		BuyerEmail:    order.BuyerEmail,
		BuyerName:     order.BuyerName,
		Product:       payment.ProductShop,
	}, nil
}

// MarkPaid transitions the order and decrements stock atomically, so
// a crash between the two can never sell the same item twice.
func (a *shopAdapter) MarkPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	return a.repo.MarkPaidAndDecrementStock(ctx, id, buyerEmail)
}

func (a *shopAdapter) ApplyPostPaymentEffects(ctx context.Context, entity *payment.PayableEntity) error {
	// Stock handling happens inside MarkPaid's transaction.
	return nil
}

// NotifyInternal sends the staff packing notice.
func (a *shopAdapter) NotifyInternal(ctx context.Context, entity *payment.PayableEntity) error {
	return a.mailer.SendInternalOrderNotice(ctx, email.InternalOrderNoticeData{
		OrderRef:   entity.OrderRef,
		BuyerEmail: entity.BuyerEmail,
		Amount:     entity.Amount,
		Currency:   entity.Currency,
	})
}

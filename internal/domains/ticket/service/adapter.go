package service

import (
	"context"

	"github.com/google/uuid"

	payment "mamareykjavik-backend/internal/domains/payment/model"
	paymentservice "mamareykjavik-backend/internal/domains/payment/service"
	"mamareykjavik-backend/internal/domains/ticket/repository"
)

// ticketAdapter plugs ticket orders into the payment reconciliation
// pipeline.
type ticketAdapter struct {
	repo repository.TicketRepository
}

func NewTicketAdapter(repo repository.TicketRepository) paymentservice.ProductAdapter {
	return &ticketAdapter{repo: repo}
}

func (a *ticketAdapter) Product() payment.Product {
	return payment.ProductTickets
}

func (a *ticketAdapter) Ack() payment.AckFormat {
	return payment.AckJSON
}

func (a *ticketAdapter) LoadEntity(ctx context.Context, orderRef string) (*payment.PayableEntity, error) {
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
		Product:       payment.ProductTickets,
	}, nil
}

func (a *ticketAdapter) MarkPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	return a.repo.MarkOrderPaid(ctx, id, buyerEmail)
}

// ApplyPostPaymentEffects commits the seats to the event's sold count.
func (a *ticketAdapter) ApplyPostPaymentEffects(ctx context.Context, entity *payment.PayableEntity) error {
	order, err := a.repo.FindOrderByRef(ctx, entity.OrderRef)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}

	return a.repo.IncrementTicketsSold(ctx, order.EventID, order.Quantity)
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/payment/gateway/saltpay"
	payment "mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/ticket/model"
	"mamareykjavik-backend/internal/domains/ticket/repository"
)

// TicketService handles ticket checkout.
type TicketService interface {
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

type ticketService struct {
	repo       repository.TicketRepository
	saltpayCfg *saltpay.Config
	currency   string
}

func NewTicketService(repo repository.TicketRepository, saltpayCfg *saltpay.Config, currency string) TicketService {
	return &ticketService{repo: repo, saltpayCfg: saltpayCfg, currency: currency}
}

// Checkout creates a pending ticket order priced from the event record
// and returns the hosted payment URL. The seat count is only committed
// when the payment callback lands.
func (s *ticketService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id")
	}

	event, err := s.repo.FindEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event not found")
	}
	if event.Remaining() < req.Quantity {
		return nil, fmt.Errorf("only %d tickets remaining", event.Remaining())
	}

	order := &model.TicketOrder{
		OrderRef:   payment.NewOrderRef("MRT"),
		EventID:    event.ID,
		Quantity:   req.Quantity,
		Amount:     event.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Currency:   s.currency,
		BuyerEmail: req.BuyerEmail,
		BuyerName:  req.BuyerName,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return &model.CheckoutResponse{
		OrderRef:   order.OrderRef,
		PaymentURL: saltpay.BuildPaymentURL(s.saltpayCfg, order.OrderRef, order.Amount, order.Currency),
	}, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/payment/gateway/saltpay"
	payment "mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/tour/model"
	"mamareykjavik-backend/internal/domains/tour/repository"
)

// TourService handles tour booking checkout.
type TourService interface {
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

type tourService struct {
	repo       repository.TourRepository
	saltpayCfg *saltpay.Config
	currency   string
}

func NewTourService(repo repository.TourRepository, saltpayCfg *saltpay.Config, currency string) TourService {
	return &tourService{repo: repo, saltpayCfg: saltpayCfg, currency: currency}
}

// Checkout creates a pending tour booking priced per person from the
// tour record and returns the hosted payment URL.
func (s *tourService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		return nil, fmt.Errorf("invalid tour id")
	}

	tour, err := s.repo.FindTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, fmt.Errorf("tour not found")
	}

	tourDate, err := time.Parse(time.RFC3339, req.TourDate)
	if err != nil {
		return nil, fmt.Errorf("invalid tour date")
	}
	if tourDate.Before(time.Now()) {
		return nil, fmt.Errorf("tour date is in the past")
	}

	booking := &model.Booking{
		OrderRef:   payment.NewOrderRef("MRW"),
		TourID:     tour.ID,
		TourDate:   tourDate,
		PartySize:  req.PartySize,
		Amount:     tour.PricePerPerson.Mul(decimal.NewFromInt(int64(req.PartySize))),
		Currency:   s.currency,
		BuyerEmail: req.BuyerEmail,
		BuyerName:  req.BuyerName,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	return &model.CheckoutResponse{
		OrderRef:   booking.OrderRef,
		PaymentURL: saltpay.BuildPaymentURL(s.saltpayCfg, booking.OrderRef, booking.Amount, booking.Currency),
	}, nil
}

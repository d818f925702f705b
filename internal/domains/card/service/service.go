package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/card/model"
	"mamareykjavik-backend/internal/domains/card/repository"
	"mamareykjavik-backend/internal/domains/payment/gateway/saltpay"
	payment "mamareykjavik-backend/internal/domains/payment/model"
)

// CardService handles meal and gift card checkout.
type CardService interface {
	Checkout(ctx context.Context, cardType model.CardType, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

type cardService struct {
	repo       repository.CardRepository
	saltpayCfg *saltpay.Config
	currency   string
}

func NewCardService(repo repository.CardRepository, saltpayCfg *saltpay.Config, currency string) CardService {
	return &cardService{repo: repo, saltpayCfg: saltpayCfg, currency: currency}
}

// Checkout creates a pending card and returns the hosted payment URL.
// The redemption code is only issued once payment reconciles.
func (s *cardService) Checkout(ctx context.Context, cardType model.CardType, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if !cardType.IsValid() {
		return nil, fmt.Errorf("unknown card type")
	}

	prefix := "MRM"
	if cardType == model.CardTypeGift {
		prefix = "MRG"
	}

	card := &model.Card{
		OrderRef:       payment.NewOrderRef(prefix),
		Type:           cardType,
		Amount:         decimal.NewFromFloat(req.Amount),
		Currency:       s.currency,
		BuyerEmail:     req.BuyerEmail,
		BuyerName:      req.BuyerName,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}

	return &model.CheckoutResponse{
		OrderRef:   card.OrderRef,
		PaymentURL: saltpay.BuildPaymentURL(s.saltpayCfg, card.OrderRef, card.Amount, card.Currency),
	}, nil
}

// newRedemptionCode generates a card code like "MAMA-7F2K9Q4T".
// Crockford-ish alphabet, no easily confused characters.
func newRedemptionCode() (string, error) {
	const alphabet = "23456789ABCDEFGHJKMNPQRSTVWXYZ"

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate redemption code: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return "MAMA-" + string(buf), nil
}

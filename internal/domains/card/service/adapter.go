package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mamareykjavik-backend/internal/domains/card/model"
	"mamareykjavik-backend/internal/domains/card/repository"
	payment "mamareykjavik-backend/internal/domains/payment/model"
	paymentservice "mamareykjavik-backend/internal/domains/payment/service"
)

// Cards stay redeemable for two years after purchase.
const cardValidity = 2 * 365 * 24 * time.Hour

// cardAdapter plugs one card type into the payment reconciliation
// pipeline. Meal and gift cards share storage but are distinct product
// lines to the gateway, so each type gets its own adapter instance.
type cardAdapter struct {
	repo     repository.CardRepository
	cardType model.CardType
	product  payment.Product
}

func NewMealCardAdapter(repo repository.CardRepository) paymentservice.ProductAdapter {
	return &cardAdapter{repo: repo, cardType: model.CardTypeMeal, product: payment.ProductMealCards}
}

func NewGiftCardAdapter(repo repository.CardRepository) paymentservice.ProductAdapter {
	return &cardAdapter{repo: repo, cardType: model.CardTypeGift, product: payment.ProductGiftCards}
}

func (a *cardAdapter) Product() payment.Product {
	return a.product
}

func (a *cardAdapter) Ack() payment.AckFormat {
	return payment.AckJSON
}

func (a *cardAdapter) LoadEntity(ctx context.Context, orderRef string) (*payment.PayableEntity, error) {
	card, err := a.repo.FindByOrderRef(ctx, a.cardType, orderRef)
	if err != nil || card == nil {
		return nil, err
	}

	return &payment.PayableEntity{
		ID:            card.ID,
		OrderRef:      card.OrderRef,
		PaymentStatus: card.PaymentStatus,
		Amount:        card.Amount,
		Currency:      card.Currency,
		BuyerEmail:    card.BuyerEmail,
		BuyerName:     card.BuyerName,
		Product:       a.product,
	}, nil
}

func (a *cardAdapter) MarkPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	return a.repo.MarkPaid(ctx, id, buyerEmail)
}

// ApplyPostPaymentEffects issues the redemption code and sets the
// card's expiry.
func (a *cardAdapter) ApplyPostPaymentEffects(ctx context.Context, entity *payment.PayableEntity) error {
	code, err := newRedemptionCode()
	if err != nil {
		return err
	}

	return a.repo.Activate(ctx, entity.ID, code, time.Now().Add(cardValidity))
}

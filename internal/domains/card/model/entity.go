package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	payment "mamareykjavik-backend/internal/domains/payment/model"
)

// CardType distinguishes the two prepaid card products.
type CardType string

const (
	CardTypeMeal CardType = "meal"
	CardTypeGift CardType = "gift"
)

func (t CardType) IsValid() bool {
	return t == CardTypeMeal || t == CardTypeGift
}

// Card is a prepaid meal or gift card. It is created pending at
// checkout and only activated, with a redeemable code, once payment
// reconciles.
type Card struct {
	ID             uuid.UUID             `json:"id" db:"id"`
	OrderRef       string                `json:"order_ref" db:"order_ref"`
	Type           CardType              `json:"type" db:"type"`
	Amount         decimal.Decimal       `json:"amount" db:"amount"`
	Currency       string                `json:"currency" db:"currency"`
	BuyerEmail     string                `json:"buyer_email" db:"buyer_email"`
	BuyerName      string                `json:"buyer_name" db:"buyer_name"`
	RecipientName  string                `json:"recipient_name" db:"recipient_name"`
	RecipientEmail string                `json:"recipient_email" db:"recipient_email"`
	Message        string                `json:"message" db:"message"`
	RedemptionCode *string               `json:"redemption_code,omitempty" db:"redemption_code"`
	ExpiresAt      *time.Time            `json:"expires_at,omitempty" db:"expires_at"`
	PaymentStatus  payment.PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt      time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at" db:"updated_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableEntity is the product-agnostic view of a pending order that
// the reconciler works against. Each product adapter loads it from its
// own table.
type PayableEntity struct {
	ID            uuid.UUID
	OrderRef      string
	PaymentStatus PaymentStatus
	Amount        decimal.Decimal
	Currency      string
	BuyerEmail    string
	BuyerName     string
	Product       Product
}

// IsPaid reports whether this order already completed payment.
func (e *PayableEntity) IsPaid() bool {
	return e.PaymentStatus == PaymentStatusPaid
}

// WebhookLog is the audit record of one gateway callback, stored
// before any processing so failed reconciliations stay traceable.
type WebhookLog struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Product     Product    `json:"product" db:"product"`
	OrderRef    string     `json:"order_ref" db:"order_ref"`
	RawPayload  string     `json:"raw_payload" db:"raw_payload"`
	Outcome     string     `json:"outcome" db:"outcome"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	ReceivedAt  time.Time  `json:"received_at" db:"received_at"`
}

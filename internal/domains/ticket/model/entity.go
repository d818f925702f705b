package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	payment "mamareykjavik-backend/internal/domains/payment/model"
)

// Event is a concert or dinner event that tickets are sold for.
type Event struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Capacity    int             `json:"capacity" db:"capacity"`
	TicketsSold int             `json:"tickets_sold" db:"tickets_sold"`
	StartsAt    time.Time       `json:"starts_at" db:"starts_at"`
}

// Remaining returns the number of unsold seats.
func (e *Event) Remaining() int {
	return e.Capacity - e.TicketsSold
}

// TicketOrder is a pending or paid ticket purchase for one event.
type TicketOrder struct {
	ID            uuid.UUID             `json:"id" db:"id"`
	OrderRef      string                `json:"order_ref" db:"order_ref"`
	EventID       uuid.UUID             `json:"event_id" db:"event_id"`
	Quantity      int                   `json:"quantity" db:"quantity"`
	Amount        decimal.Decimal       `json:"amount" db:"amount"`
	Currency      string                `json:"currency" db:"currency"`
	BuyerEmail    string                `json:"buyer_email" db:"buyer_email"`
	BuyerName     string                `json:"buyer_name" db:"buyer_name"`
	PaymentStatus payment.PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at" db:"updated_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	payment "mamareykjavik-backend/internal/domains/payment/model"
)

// Tour is a bookable guided experience with per-person pricing.
type Tour struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	PricePerPerson decimal.Decimal `json:"price_per_person" db:"price_per_person"`
}

// Booking is a pending or paid tour reservation.
type Booking struct {
	ID            uuid.UUID             `json:"id" db:"id"`
	OrderRef      string                `json:"order_ref" db:"order_ref"`
	TourID        uuid.UUID             `json:"tour_id" db:"tour_id"`
	TourDate      time.Time             `json:"tour_date" db:"tour_date"`
	PartySize     int                   `json:"party_size" db:"party_size"`
	Amount        decimal.Decimal       `json:"amount" db:"amount"`
	Currency      string                `json:"currency" db:"currency"`
	BuyerEmail    string                `json:"buyer_email" db:"buyer_email"`
	BuyerName     string                `json:"buyer_name" db:"buyer_name"`
	PaymentStatus payment.PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at" db:"updated_at"`
}

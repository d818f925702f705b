package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	payment "mamareykjavik-backend/internal/domains/payment/model"
)

// Product is a physical shop item with tracked stock.
type Product struct {
	ID    uuid.UUID       `json:"id" db:"id"`
	Name  string          `json:"name" db:"name"`
	Price decimal.Decimal `json:"price" db:"price"`
	Stock int             `json:"stock" db:"stock"`
}

// Order is a shop purchase of one or more items.
type Order struct {
	ID            uuid.UUID             `json:"id" db:"id"`
	OrderRef      string                `json:"order_ref" db:"order_ref"`
	Amount        decimal.Decimal       `json:"amount" db:"amount"`
	Currency      string                `json:"currency" db:"currency"`
	BuyerEmail    string                `json:"buyer_email" db:"buyer_email"`
	BuyerName     string                `json:"buyer_name" db:"buyer_name"`
	PaymentStatus payment.PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is one line of a shop order. The unit price is copied from
// the product at checkout so later price changes never affect it.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

package email

import "github.com/shopspring/decimal"

// PaymentConfirmationData is the buyer-facing confirmation email payload.
type PaymentConfirmationData struct {
	Email    string
	Name     string
	Product  string // tickets, shop, meal-cards, gift-cards, tours
	OrderRef string
	Amount   decimal.Decimal
	Currency string
}

// InternalOrderNoticeData is the staff notification for new paid shop orders.
type InternalOrderNoticeData struct {
	OrderRef   string
	BuyerEmail string
	Amount     decimal.Decimal
	Currency   string
}

package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	is "github.com/go-ozzo/ozzo-validation/v4/is"
)

// CheckoutRequest starts a meal or gift card purchase.
type CheckoutRequest struct {
	Amount         float64 `json:"amount"`
	BuyerEmail     string  `json:"buyerEmail"`
	BuyerName      string  `json:"buyerName"`
	RecipientName  string  `json:"recipientName"`
	RecipientEmail string  `json:"recipientEmail"`
	Message        string  `json:"message"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Required, validation.Min(500.0), validation.Max(100000.0)),
		validation.Field(&r.BuyerEmail, validation.Required, is.Email),
		validation.Field(&r.BuyerName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.RecipientName, validation.Length(0, 100)),
		validation.Field(&r.RecipientEmail, is.Email),
		validation.Field(&r.Message, validation.Length(0, 500)),
	)
}

// CheckoutResponse hands the storefront the hosted payment URL.
type CheckoutResponse struct {
	OrderRef   string `json:"orderRef"`
	PaymentURL string `json:"paymentUrl"`
}

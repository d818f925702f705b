package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	is "github.com/go-ozzo/ozzo-validation/v4/is"
)

// CheckoutRequest starts a ticket purchase. The price comes from the
// event record, never from the client.
type CheckoutRequest struct {
	EventID    string `json:"eventId"`
	Quantity   int    `json:"quantity"`
	BuyerEmail string `json:"buyerEmail"`
	BuyerName  string `json:"buyerName"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EventID, validation.Required, is.UUID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(20)),
		validation.Field(&r.BuyerEmail, validation.Required, is.Email),
		validation.Field(&r.BuyerName, validation.Required, validation.Length(1, 100)),
	)
}

// CheckoutResponse hands the storefront the hosted payment URL.
type CheckoutResponse struct {
	OrderRef   string `json:"orderRef"`
	PaymentURL string `json:"paymentUrl"`
}

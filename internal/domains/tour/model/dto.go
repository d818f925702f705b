package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	is "github.com/go-ozzo/ozzo-validation/v4/is"
)

// CheckoutRequest starts a tour booking. Pricing comes from the tour
// record, never from the client.
type CheckoutRequest struct {
	TourID     string `json:"tourId"`
	TourDate   string `json:"tourDate"` // RFC3339
	PartySize  int    `json:"partySize"`
	BuyerEmail string `json:"buyerEmail"`
	BuyerName  string `json:"buyerName"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TourID, validation.Required, is.UUID),
		validation.Field(&r.TourDate, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
		validation.Field(&r.PartySize, validation.Required, validation.Min(1), validation.Max(50)),
		validation.Field(&r.BuyerEmail, validation.Required, is.Email),
		validation.Field(&r.BuyerName, validation.Required, validation.Length(1, 100)),
	)
}

// CheckoutResponse hands the storefront the hosted payment URL.
type CheckoutResponse struct {
	OrderRef   string `json:"orderRef"`
	PaymentURL string `json:"paymentUrl"`
}

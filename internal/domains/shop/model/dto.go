package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	is "github.com/go-ozzo/ozzo-validation/v4/is"
)

// CheckoutItem is one requested line in a shop checkout.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (i CheckoutItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProductID, validation.Required, is.UUID),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1), validation.Max(50)),
	)
}

// CheckoutRequest starts a shop purchase. Prices come from the product
// catalog, never from the client.
type CheckoutRequest struct {
	Items      []CheckoutItem `json:"items"`
	BuyerEmail string         `json:"buyerEmail"`
	BuyerName  string         `json:"buyerName"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.BuyerEmail, validation.Required, is.Email),
		validation.Field(&r.BuyerName, validation.Required, validation.Length(1, 100)),
	)
}

// CheckoutResponse hands the storefront the hosted payment URL.
type CheckoutResponse struct {
	OrderRef   string `json:"orderRef"`
	PaymentURL string `json:"paymentUrl"`
}

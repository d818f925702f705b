package saltpay

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// Callback is a parsed payment notification from the gateway.
// The gateway posts URL-encoded form data.
type Callback struct {
	Status    string
	OrderRef  string
	Amount    string
	Currency  string
	OrderHash string

	// BuyerEmail is the address the buyer entered on the hosted
	// payment page. Optional; empty when the gateway omits it.
	BuyerEmail string

	// Everything else the gateway sent, kept for the audit log.
	Raw url.Values
}

// Successful reports whether the gateway marked the payment as
// completed. Anything other than "OK" is a failed or cancelled payment.
func (c *Callback) Successful() bool {
	return c.Status == "OK"
}

// ParseCallback decodes a URL-encoded callback body.
// status, orderid and orderhash are mandatory; a body missing any of
// them cannot be reconciled and is rejected before signature checks.
func ParseCallback(body string) (*Callback, error) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return nil, fmt.Errorf("parse callback body: %w", err)
	}

	cb := &Callback{
		Status:     values.Get("status"),
		OrderRef:   values.Get("orderid"),
		Amount:     values.Get("amount"),
		Currency:   values.Get("currency"),
		OrderHash:  values.Get("orderhash"),
		BuyerEmail: values.Get("buyeremail"),
		Raw:        values,
	}

	if cb.Status == "" || cb.OrderRef == "" || cb.OrderHash == "" {
		return nil, fmt.Errorf("callback missing required fields")
	}

	return cb, nil
}

// VerifySignature checks the callback's orderhash against the merchant
// secret, using the amount and currency as the gateway sent them.
func (c *Callback) VerifySignature(secretKey string) bool {
	return Verify(secretKey, c.OrderRef, c.Amount, c.Currency, c.OrderHash)
}

// BuildPaymentURL constructs the hosted checkout URL for a pending
// order. The signature covers the same fields the callback hash does,
// so the gateway echoes back a verifiable tuple.
func BuildPaymentURL(cfg *Config, orderRef string, amount decimal.Decimal, currency string) string {
	amountStr := amount.String()

	params := url.Values{}
	params.Set("merchantid", cfg.MerchantID)
	params.Set("orderid", orderRef)
	params.Set("amount", amountStr)
	params.Set("currency", currency)
	params.Set("returnurlsuccess", cfg.ReturnURL)
	params.Set("returnurlserver", cfg.CallbackURL)
	params.Set("checkhash", Sign(cfg.SecretKey, orderRef, amountStr, currency))

	return cfg.GatewayURL + "?" + params.Encode()
}

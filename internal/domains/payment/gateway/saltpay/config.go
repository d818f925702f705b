package saltpay

// Config holds the SaltPay (Borgun) merchant credentials and endpoints.
type Config struct {
	MerchantID  string
	SecretKey   string
	GatewayURL  string
	ReturnURL   string
	CallbackURL string
}

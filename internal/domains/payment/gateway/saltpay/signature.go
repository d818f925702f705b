package saltpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sign computes the SaltPay check hash: HMAC-SHA256 over
// "{orderRef}|{amount}|{currency}" keyed with the merchant secret,
// hex encoded.
func Sign(secretKey, orderRef, amount, currency string) string {
	payload := fmt.Sprintf("%s|%s|%s", orderRef, amount, currency)
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a callback's orderhash against a locally computed
// signature in constant time. Case-insensitive on the hex digits.
func Verify(secretKey, orderRef, amount, currency, orderHash string) bool {
	expected := Sign(secretKey, orderRef, amount, currency)

	got, err := hex.DecodeString(orderHash)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(expected)

	return hmac.Equal(got, want)
}

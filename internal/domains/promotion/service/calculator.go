package service

import (
	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/promotion/model"
)

// DiscountCalculator turns a promo code and a cart total into a
// discount amount.
type DiscountCalculator struct{}

func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

var oneHundred = decimal.NewFromInt(100)

// Calculate computes the discount for the given cart total.
//
// percent: round(cartTotal * value / 100), rounded to whole currency
// units (prices are whole ISK). amount: the configured value.
// The result is always clamped to the cart total - a discount can zero
// out a cart but never exceed it.
func (c *DiscountCalculator) Calculate(promo *model.PromoCode, cartTotal decimal.Decimal) decimal.Decimal {
	if cartTotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch promo.Kind {
	case model.PromoKindPercent:
		discount = cartTotal.Mul(promo.Value).Div(oneHundred).Round(0)
	case model.PromoKindAmount:
		discount = promo.Value
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(cartTotal) {
		discount = cartTotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return discount
}

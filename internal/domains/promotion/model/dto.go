package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidateRequest is the public validate endpoint body.
// The field names mirror what the storefront sends.
type ValidateRequest struct {
	Code      string          `json:"code" binding:"required"`
	EntityID  string          `json:"eventId" binding:"required"`
	CartTotal decimal.Decimal `json:"cartTotal"`
	CartID    string          `json:"cartId"`
}

// NormalizeCode uppercases the submitted code in place.
func (r *ValidateRequest) NormalizeCode() {
	r.Code = NormalizeCode(r.Code)
}

// AppliedPromo is the wire shape for a successfully applied code.
type AppliedPromo struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

// ValidationResult is returned by both Validate and Preview.
type ValidationResult struct {
	PromoCode AppliedPromo `json:"promoCode"`
}

// CreatePromoRequest is the admin create body.
type CreatePromoRequest struct {
	Code                string   `json:"code"`
	Kind                string   `json:"kind"`
	Value               float64  `json:"value"`
	MinCartTotal        float64  `json:"min_cart_total"`
	ApplicableEntityIDs []string `json:"applicable_entity_ids"`
	MaxUses             *int     `json:"max_uses"`
	PerUserLimit        int      `json:"per_user_limit"`
	StartsAt            *string  `json:"starts_at"` // RFC3339; defaults to now
	EndsAt              *string  `json:"ends_at"`   // RFC3339; nil = open-ended
	IsActive            bool     `json:"is_active"`
}

// Validate enforces field-level constraints before any business rules run.
func (r CreatePromoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Kind, validation.Required, validation.In(string(PromoKindPercent), string(PromoKindAmount))),
		validation.Field(&r.Value, validation.Required, validation.Min(0.01)),
		validation.Field(&r.MinCartTotal, validation.Min(0.0)),
		validation.Field(&r.PerUserLimit, validation.Min(1)),
	)
}

// UpdatePromoRequest carries partial updates; nil fields are untouched.
type UpdatePromoRequest struct {
	MinCartTotal        *float64  `json:"min_cart_total"`
	ApplicableEntityIDs *[]string `json:"applicable_entity_ids"`
	MaxUses             *int      `json:"max_uses"`
	PerUserLimit        *int      `json:"per_user_limit"`
	EndsAt              *string   `json:"ends_at"`
	IsActive            *bool     `json:"is_active"`
}

// PromoDetail is the admin read model with usage figures attached.
type PromoDetail struct {
	ID                  uuid.UUID       `json:"id"`
	Code                string          `json:"code"`
	Kind                PromoKind       `json:"kind"`
	Value               decimal.Decimal `json:"value"`
	MinCartTotal        decimal.Decimal `json:"min_cart_total"`
	ApplicableEntityIDs []string        `json:"applicable_entity_ids,omitempty"`
	MaxUses             *int            `json:"max_uses,omitempty"`
	PerUserLimit        int             `json:"per_user_limit"`
	AppliedCount        int             `json:"applied_count"`
	StartsAt            time.Time       `json:"starts_at"`
	EndsAt              *time.Time      `json:"ends_at,omitempty"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

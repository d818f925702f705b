package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromoKind represents valid discount kinds
type PromoKind string

const (
	PromoKindPercent PromoKind = "percent"
	PromoKindAmount  PromoKind = "amount"
)

func (k PromoKind) IsValid() bool {
	switch k {
	case PromoKindPercent, PromoKindAmount:
		return true
	}
	return false
}

func (k PromoKind) String() string {
	return string(k)
}

// PromoCode represents a discount rule identified by a unique code.
//
// Codes are stored uppercase; lookups normalize the same way so matching
// is case-insensitive. A code that has at least one redemption is never
// physically deleted, only deactivated.
type PromoCode struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Code string    `json:"code" db:"code"`

	// Discount configuration
	Kind  PromoKind       `json:"kind" db:"kind"`
	Value decimal.Decimal `json:"value" db:"value"`

	// Eligibility rules
	MinCartTotal        decimal.Decimal `json:"min_cart_total" db:"min_cart_total"`
	ApplicableEntityIDs []string        `json:"applicable_entity_ids,omitempty" db:"applicable_entity_ids"`

	// Usage limits
	MaxUses      *int `json:"max_uses,omitempty" db:"max_uses"`
	PerUserLimit int  `json:"per_user_limit" db:"per_user_limit"`

	// Validity window; EndsAt nil means open-ended
	StartsAt time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty" db:"ends_at"`

	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RedemptionStatus for redemption records
type RedemptionStatus string

const (
	RedemptionApplied  RedemptionStatus = "applied"
	RedemptionReversed RedemptionStatus = "reversed"
)

// RedemptionRecord is one attempt, successful or not, to apply a promo
// code. Failed attempts are recorded with a nil PromoID for telemetry
// and never count against any quota.
type RedemptionRecord struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	PromoID          *uuid.UUID       `json:"promo_id,omitempty" db:"promo_id"`
	UserID           *uuid.UUID       `json:"user_id,omitempty" db:"user_id"`
	CartID           string           `json:"cart_id" db:"cart_id"`
	AmountDiscounted decimal.Decimal  `json:"amount_discounted" db:"amount_discounted"`
	Status           RedemptionStatus `json:"status" db:"status"`
	RedeemedAt       time.Time        `json:"redeemed_at" db:"redeemed_at"`
}

// NormalizeCode uppercases and trims a raw promo code input.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsStarted reports whether the validity window has opened at t.
func (p *PromoCode) IsStarted(t time.Time) bool {
	return !t.Before(p.StartsAt)
}

// IsExpired reports whether the validity window has closed at t.
// Open-ended codes never expire.
func (p *PromoCode) IsExpired(t time.Time) bool {
	return p.EndsAt != nil && t.After(*p.EndsAt)
}

// AppliesTo reports whether the code is valid for the given entity.
// An empty restriction list applies to everything.
func (p *PromoCode) AppliesTo(entityID string) bool {
	if len(p.ApplicableEntityIDs) == 0 {
		return true
	}
	for _, id := range p.ApplicableEntityIDs {
		if id == entityID {
			return true
		}
	}
	return false
}

// ValidateValue checks kind-specific bounds:
// percent must be in (0, 100], amount must be > 0.
func (p *PromoCode) ValidateValue() error {
	if !p.Kind.IsValid() {
		return ErrInvalidPromoKind
	}
	if p.Value.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPromoValue
	}
	if p.Kind == PromoKindPercent && p.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentageTooHigh
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"mamareykjavik-backend/internal/domains/promotion/model"
)

// PromotionRepository defines the promotion data access surface.
//
// Find methods return (nil, nil) when no row matches; errors are reserved
// for infrastructure failures.
type PromotionRepository interface {
	// Read operations
	FindByID(ctx context.Context, id uuid.UUID) (*model.PromoCode, error)
	FindByCodeActive(ctx context.Context, code string) (*model.PromoCode, error)
	List(ctx context.Context, page, limit int) ([]*model.PromoCode, int, error)
	CheckCodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)

	// Write operations
	Create(ctx context.Context, promo *model.PromoCode) error
	Update(ctx context.Context, promo *model.PromoCode) error
	UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Redemption tracking. Only APPLIED records count against quotas.
	CountApplied(ctx context.Context, promoID uuid.UUID) (int, error)
	CountAppliedByUser(ctx context.Context, promoID, userID uuid.UUID) (int, error)
	HasRedemptions(ctx context.Context, promoID uuid.UUID) (bool, error)
	InsertRedemption(ctx context.Context, rec *model.RedemptionRecord) error
	ListRedemptions(ctx context.Context, promoID uuid.UUID, page, limit int) ([]*model.RedemptionRecord, int, error)
}

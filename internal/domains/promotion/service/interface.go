package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/promotion/model"
)

// ServiceInterface is the promotion business logic surface.
type ServiceInterface interface {
	// Public
	Validate(ctx context.Context, req *model.ValidateRequest, userID *uuid.UUID, identity string) (*model.ValidationResult, error)
	Preview(ctx context.Context, code, entityID string, cartTotal decimal.Decimal) (*model.ValidationResult, error)

	// Admin
	CreatePromo(ctx context.Context, req *model.CreatePromoRequest) (*model.PromoCode, error)
	GetPromoByID(ctx context.Context, id uuid.UUID) (*model.PromoDetail, error)
	ListPromos(ctx context.Context, page, limit int) ([]*model.PromoCode, int, error)
	UpdatePromo(ctx context.Context, id uuid.UUID, req *model.UpdatePromoRequest) (*model.PromoCode, error)
	UpdatePromoStatus(ctx context.Context, id uuid.UUID, isActive bool) error
	DeletePromo(ctx context.Context, id uuid.UUID) error
	ListRedemptions(ctx context.Context, promoID uuid.UUID, page, limit int) ([]*model.RedemptionRecord, int, error)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/promotion/model"
	"mamareykjavik-backend/internal/domains/promotion/repository"
	"mamareykjavik-backend/pkg/logger"
	"mamareykjavik-backend/pkg/ratelimit"
)

type promotionService struct {
	repo       repository.PromotionRepository
	calculator *DiscountCalculator
	limiter    ratelimit.Limiter
	now        func() time.Time
}

// NewPromotionService creates a new service instance
func NewPromotionService(
	repo repository.PromotionRepository,
	limiter ratelimit.Limiter,
) ServiceInterface {
	return &promotionService{
		repo:       repo,
		calculator: NewDiscountCalculator(),
		limiter:    limiter,
		now:        time.Now,
	}
}

// -------------------------------------------------------------------
// PUBLIC METHODS
// -------------------------------------------------------------------

// Validate validates a promo code against the submitted cart and, on
// success, records an APPLIED redemption.
//
// Checks run in order and short-circuit on the first failure:
//  1. Active code lookup (case-insensitive)
//  2. Validity window not yet open
//  3. Validity window closed
//  4. Entity restriction
//  5. Minimum cart total
//  6. Global usage limit
//  7. Per-user limit (authenticated carts only)
//  8. Discount calculation, clamped to the cart total
//
// Every failed attempt after the rate limit gate is recorded with a nil
// promo id for telemetry; those records never count against quotas.
func (s *promotionService) Validate(
	ctx context.Context,
	req *model.ValidateRequest,
	userID *uuid.UUID,
	identity string,
) (*model.ValidationResult, error) {
	// Rate limit gate. Runs before any database access.
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, identity)
		if err != nil {
			// Limiter infrastructure failure fails open
			logger.Error("rate limiter unavailable, failing open", err)
		} else if !allowed {
			return nil, model.ErrRateLimited
		}
	}

	req.NormalizeCode()

	// Step 1: Find active promotion
	promo, err := s.repo.FindByCodeActive(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("find promo by code: %w", err)
	}
	if promo == nil {
		s.recordFailedAttempt(ctx, req.CartID, userID)
		return nil, model.ErrPromoNotFound
	}

	now := s.now()

	// Step 2: Validity window not yet open
	if !promo.IsStarted(now) {
		s.recordFailedAttempt(ctx, req.CartID, userID)
		return nil, &model.AppError{
			Code:       model.ErrCodePromoNotStarted,
			Message:    "code is not yet active",
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"starts_at": promo.StartsAt,
			},
		}
	}

	// Step 3: Validity window closed
	if promo.IsExpired(now) {
		s.recordFailedAttempt(ctx, req.CartID, userID)
		return nil, &model.AppError{
			Code:       model.ErrCodePromoExpired,
			Message:    "code has expired",
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"ended_at": promo.EndsAt,
			},
		}
	}

	// Step 4: Entity restriction
	if !promo.AppliesTo(req.EntityID) {
		s.recordFailedAttempt(ctx, req.CartID, userID)
		return nil, model.ErrPromoNotApplicable
	}

	// Step 5: Minimum cart total
	if req.CartTotal.LessThan(promo.MinCartTotal) {
		s.recordFailedAttempt(ctx, req.CartID, userID)
		return nil, &model.AppError{
			Code:       model.ErrCodePromoMinCartNotMet,
			Message:    fmt.Sprintf("minimum cart total of %s not met", promo.MinCartTotal.String()),
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"min_cart_total": promo.MinCartTotal,
				"cart_total":     req.CartTotal,
			},
		}
	}

	// Step 6: Global usage limit
	if promo.MaxUses != nil {
		count, err := s.repo.CountApplied(ctx, promo.ID)
		if err != nil {
			return nil, fmt.Errorf("count applied redemptions: %w", err)
		}
		if count >= *promo.MaxUses {
			s.recordFailedAttempt(ctx, req.CartID, userID)
			return nil, model.ErrPromoUsageLimit
		}
	}

	// Step 7: Per-user limit (anonymous carts skip this)
	if userID != nil && *userID != uuid.Nil && promo.PerUserLimit > 0 {
		userCount, err := s.repo.CountAppliedByUser(ctx, promo.ID, *userID)
		if err != nil {
			return nil, fmt.Errorf("count user redemptions: %w", err)
		}
		if userCount >= promo.PerUserLimit {
			s.recordFailedAttempt(ctx, req.CartID, userID)
			return nil, model.ErrPromoUserLimit
		}
	}

	// Step 8: Calculate discount (clamped to cart total)
	discount := s.calculator.Calculate(promo, req.CartTotal)
	finalTotal := req.CartTotal.Sub(discount)

	// Step 9: Record the redemption. This write backs quota
	// enforcement, so a failure here fails the whole validation.
	rec := &model.RedemptionRecord{
		PromoID:          &promo.ID,
		UserID:           userID,
		CartID:           req.CartID,
		AmountDiscounted: discount,
		Status:           model.RedemptionApplied,
	}
	if err := s.repo.InsertRedemption(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}

	return &model.ValidationResult{
		PromoCode: model.AppliedPromo{
			ID:             promo.ID,
			Code:           promo.Code,
			Type:           promo.Kind.String(),
			Value:          promo.Value,
			DiscountAmount: discount,
			FinalTotal:     finalTotal,
		},
	}, nil
}

// Preview runs checks 1-5 without touching redemption counts or
// inserting any record. Used by the storefront before commit.
func (s *promotionService) Preview(
	ctx context.Context,
	code, entityID string,
	cartTotal decimal.Decimal,
) (*model.ValidationResult, error) {
	promo, err := s.repo.FindByCodeActive(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find promo by code: %w", err)
	}
	if promo == nil {
		return nil, model.ErrPromoNotFound
	}

	now := s.now()
	if !promo.IsStarted(now) {
		return nil, model.ErrPromoNotStarted
	}
	if promo.IsExpired(now) {
		return nil, model.ErrPromoExpired
	}
	if !promo.AppliesTo(entityID) {
		return nil, model.ErrPromoNotApplicable
	}
	if cartTotal.IsPositive() && cartTotal.LessThan(promo.MinCartTotal) {
		return nil, &model.AppError{
			Code:       model.ErrCodePromoMinCartNotMet,
			Message:    fmt.Sprintf("minimum cart total of %s not met", promo.MinCartTotal.String()),
			HTTPStatus: 400,
		}
	}

	discount := s.calculator.Calculate(promo, cartTotal)

	return &model.ValidationResult{
		PromoCode: model.AppliedPromo{
			ID:             promo.ID,
			Code:           promo.Code,
			Type:           promo.Kind.String(),
			Value:          promo.Value,
			DiscountAmount: discount,
			FinalTotal:     cartTotal.Sub(discount),
		},
	}, nil
}

// recordFailedAttempt writes a telemetry-only record with a nil promo
// id. Best-effort: a failed write must not mask the validation error.
func (s *promotionService) recordFailedAttempt(ctx context.Context, cartID string, userID *uuid.UUID) {
	rec := &model.RedemptionRecord{
		PromoID:          nil,
		UserID:           userID,
		CartID:           cartID,
		AmountDiscounted: decimal.Zero,
		Status:           model.RedemptionReversed,
	}
	if err := s.repo.InsertRedemption(ctx, rec); err != nil {
		logger.Error("record failed promo attempt", err)
	}
}

// -------------------------------------------------------------------
// ADMIN METHODS
// -------------------------------------------------------------------

// CreatePromo creates a new promo code.
//
// Validation:
// - Code unique (case-insensitive, checked against non-deleted rows)
// - Value within kind-specific bounds
// - EndsAt after StartsAt when both set
func (s *promotionService) CreatePromo(ctx context.Context, req *model.CreatePromoRequest) (*model.PromoCode, error) {
	code := model.NormalizeCode(req.Code)

	exists, err := s.repo.CheckCodeExists(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &model.AppError{
			Code:       model.ErrCodePromoDuplicateCode,
			Message:    fmt.Sprintf("promo code '%s' already exists", code),
			HTTPStatus: 400,
		}
	}

	startsAt := s.now()
	if req.StartsAt != nil {
		startsAt, err = time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "invalid starts_at format",
				HTTPStatus: 400,
			}
		}
	}

	var endsAt *time.Time
	if req.EndsAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "invalid ends_at format",
				HTTPStatus: 400,
			}
		}
		if !parsed.After(startsAt) {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "ends_at must be after starts_at",
				HTTPStatus: 400,
			}
		}
		endsAt = &parsed
	}

	perUserLimit := req.PerUserLimit
	if perUserLimit == 0 {
		perUserLimit = 1
	}

	promo := &model.PromoCode{
		Code:                code,
		Kind:                model.PromoKind(req.Kind),
		Value:               decimal.NewFromFloat(req.Value),
		MinCartTotal:        decimal.NewFromFloat(req.MinCartTotal),
		ApplicableEntityIDs: req.ApplicableEntityIDs,
		MaxUses:             req.MaxUses,
		PerUserLimit:        perUserLimit,
		StartsAt:            startsAt,
		EndsAt:              endsAt,
		IsActive:            req.IsActive,
	}

	if err := promo.ValidateValue(); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}

	return promo, nil
}

// GetPromoByID returns the promo with its applied-redemption count.
func (s *promotionService) GetPromoByID(ctx context.Context, id uuid.UUID) (*model.PromoDetail, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, model.ErrPromoNotFound
	}

	applied, err := s.repo.CountApplied(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.PromoDetail{
		ID:                  promo.ID,
		Code:                promo.Code,
		Kind:                promo.Kind,
		Value:               promo.Value,
		MinCartTotal:        promo.MinCartTotal,
		ApplicableEntityIDs: promo.ApplicableEntityIDs,
		MaxUses:             promo.MaxUses,
		PerUserLimit:        promo.PerUserLimit,
		AppliedCount:        applied,
		StartsAt:            promo.StartsAt,
		EndsAt:              promo.EndsAt,
		IsActive:            promo.IsActive,
		CreatedAt:           promo.CreatedAt,
		UpdatedAt:           promo.UpdatedAt,
	}, nil
}

func (s *promotionService) ListPromos(ctx context.Context, page, limit int) ([]*model.PromoCode, int, error) {
	return s.repo.List(ctx, page, limit)
}

// UpdatePromo applies a partial update. Code, kind and value are
// immutable once created - they affect already-recorded redemptions.
func (s *promotionService) UpdatePromo(ctx context.Context, id uuid.UUID, req *model.UpdatePromoRequest) (*model.PromoCode, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrPromoNotFound
	}

	updated := *existing
	hasChanges := false

	if req.MinCartTotal != nil {
		updated.MinCartTotal = decimal.NewFromFloat(*req.MinCartTotal)
		hasChanges = true
	}

	if req.ApplicableEntityIDs != nil {
		updated.ApplicableEntityIDs = *req.ApplicableEntityIDs
		hasChanges = true
	}

	if req.MaxUses != nil {
		applied, err := s.repo.CountApplied(ctx, id)
		if err != nil {
			return nil, err
		}
		if *req.MaxUses < applied {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "max_uses cannot be lower than the current applied count",
				HTTPStatus: 400,
			}
		}
		updated.MaxUses = req.MaxUses
		hasChanges = true
	}

	if req.PerUserLimit != nil {
		if *req.PerUserLimit < existing.PerUserLimit {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "per_user_limit can only be raised",
				HTTPStatus: 400,
			}
		}
		updated.PerUserLimit = *req.PerUserLimit
		hasChanges = true
	}

	if req.EndsAt != nil {
		endsAt, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "invalid ends_at format",
				HTTPStatus: 400,
			}
		}
		if !endsAt.After(updated.StartsAt) {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "ends_at must be after starts_at",
				HTTPStatus: 400,
			}
		}
		updated.EndsAt = &endsAt
		hasChanges = true
	}

	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
		hasChanges = true
	}

	if !hasChanges {
		return existing, nil
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *promotionService) UpdatePromoStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	return s.repo.UpdateStatus(ctx, id, isActive)
}

// DeletePromo soft-deletes a promo. A code with recorded redemptions
// can only be deactivated, never deleted.
func (s *promotionService) DeletePromo(ctx context.Context, id uuid.UUID) error {
	used, err := s.repo.HasRedemptions(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return &model.AppError{
			Code:       model.ErrCodePromoCannotDelete,
			Message:    "promo has redemptions; deactivate it instead",
			HTTPStatus: 400,
		}
	}

	return s.repo.SoftDelete(ctx, id)
}

func (s *promotionService) ListRedemptions(ctx context.Context, promoID uuid.UUID, page, limit int) ([]*model.RedemptionRecord, int, error) {
	return s.repo.ListRedemptions(ctx, promoID, page, limit)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mamareykjavik-backend/internal/domains/promotion/model"
)

// ---------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------

type fakePromoRepo struct {
	promos      map[string]*model.PromoCode // keyed by normalized code
	redemptions []*model.RedemptionRecord
	insertErr   error
}

func newFakePromoRepo(promos ...*model.PromoCode) *fakePromoRepo {
	r := &fakePromoRepo{promos: make(map[string]*model.PromoCode)}
	for _, p := range promos {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.promos[model.NormalizeCode(p.Code)] = p
	}
	return r
}

func (r *fakePromoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PromoCode, error) {
	for _, p := range r.promos {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePromoRepo) FindByCodeActive(_ context.Context, code string) (*model.PromoCode, error) {
	p, ok := r.promos[model.NormalizeCode(code)]
	if !ok || !p.IsActive {
		return nil, nil
	}
	return p, nil
}

func (r *fakePromoRepo) List(_ context.Context, _, _ int) ([]*model.PromoCode, int, error) {
	var out []*model.PromoCode
	for _, p := range r.promos {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *fakePromoRepo) CheckCodeExists(_ context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	p, ok := r.promos[model.NormalizeCode(code)]
	if !ok {
		return false, nil
	}
	if excludeID != nil && p.ID == *excludeID {
		return false, nil
	}
	return true, nil
}

func (r *fakePromoRepo) Create(_ context.Context, promo *model.PromoCode) error {
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	r.promos[promo.Code] = promo
	return nil
}

func (r *fakePromoRepo) Update(_ context.Context, promo *model.PromoCode) error {
	r.promos[promo.Code] = promo
	return nil
}

func (r *fakePromoRepo) UpdateStatus(_ context.Context, id uuid.UUID, isActive bool) error {
	for _, p := range r.promos {
		if p.ID == id {
			p.IsActive = isActive
			return nil
		}
	}
	return errors.New("promo not found")
}

func (r *fakePromoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for code, p := range r.promos {
		if p.ID == id {
			delete(r.promos, code)
			return nil
		}
	}
	return errors.New("promo not found")
}

func (r *fakePromoRepo) CountApplied(_ context.Context, promoID uuid.UUID) (int, error) {
	count := 0
	for _, rec := range r.redemptions {
		if rec.PromoID != nil && *rec.PromoID == promoID && rec.Status == model.RedemptionApplied {
			count++
		}
	}
	return count, nil
}

func (r *fakePromoRepo) CountAppliedByUser(_ context.Context, promoID, userID uuid.UUID) (int, error) {
	count := 0
	for _, rec := range r.redemptions {
		if rec.PromoID != nil && *rec.PromoID == promoID &&
			rec.UserID != nil && *rec.UserID == userID &&
			rec.Status == model.RedemptionApplied {
			count++
		}
	}
	return count, nil
}

func (r *fakePromoRepo) HasRedemptions(_ context.Context, promoID uuid.UUID) (bool, error) {
	for _, rec := range r.redemptions {
		if rec.PromoID != nil && *rec.PromoID == promoID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePromoRepo) InsertRedemption(_ context.Context, rec *model.RedemptionRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.RedeemedAt = time.Now()
	r.redemptions = append(r.redemptions, rec)
	return nil
}

func (r *fakePromoRepo) ListRedemptions(_ context.Context, promoID uuid.UUID, _, _ int) ([]*model.RedemptionRecord, int, error) {
	var out []*model.RedemptionRecord
	for _, rec := range r.redemptions {
		if rec.PromoID != nil && *rec.PromoID == promoID {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

// failedAttempts counts telemetry records (nil promo id, reversed).
func (r *fakePromoRepo) failedAttempts() int {
	count := 0
	for _, rec := range r.redemptions {
		if rec.PromoID == nil && rec.Status == model.RedemptionReversed {
			count++
		}
	}
	return count
}

type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

// ---------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------

func newTestService(repo *fakePromoRepo, limiter *stubLimiter) *promotionService {
	svc := NewPromotionService(repo, limiter).(*promotionService)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func activePromo(code string, kind model.PromoKind, value int64) *model.PromoCode {
	return &model.PromoCode{
		ID:           uuid.New(),
		Code:         code,
		Kind:         kind,
		Value:        decimal.NewFromInt(value),
		MinCartTotal: decimal.Zero,
		PerUserLimit: 1,
		StartsAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	}
}

func validateReq(code string, cartTotal int64) *model.ValidateRequest {
	return &model.ValidateRequest{
		Code:      code,
		EntityID:  "event-1",
		CartTotal: decimal.NewFromInt(cartTotal),
		CartID:    "cart-1",
	}
}

func appErrCode(t *testing.T, err error) model.ErrorCode {
	t.Helper()
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

// ---------------------------------------------------------------
// Validate
// ---------------------------------------------------------------

func TestValidate_PercentDiscountApplied(t *testing.T) {
	repo := newFakePromoRepo(activePromo("SAVE10", model.PromoKindPercent, 10))
	svc := newTestService(repo, &stubLimiter{allowed: true})

	result, err := svc.Validate(context.Background(), validateReq("save10", 1000), nil, "ip:1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", result.PromoCode.Code)
	assert.Equal(t, "percent", result.PromoCode.Type)
	assert.True(t, result.PromoCode.DiscountAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.PromoCode.FinalTotal.Equal(decimal.NewFromInt(900)))

	require.Len(t, repo.redemptions, 1)
	assert.Equal(t, model.RedemptionApplied, repo.redemptions[0].Status)
	require.NotNil(t, repo.redemptions[0].PromoID)
}

func TestValidate_AmountDiscountClampedToCart(t *testing.T) {
	repo := newFakePromoRepo(activePromo("FLAT500", model.PromoKindAmount, 500))
	svc := newTestService(repo, &stubLimiter{allowed: true})

	result, err := svc.Validate(context.Background(), validateReq("FLAT500", 300), nil, "ip:1.2.3.4")

	require.NoError(t, err)
	assert.True(t, result.PromoCode.DiscountAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, result.PromoCode.FinalTotal.IsZero())
}

func TestValidate_UnknownCodeRecordsFailedAttempt(t *testing.T) {
	repo := newFakePromoRepo()
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("NOPE", 1000), nil, "ip:1.2.3.4")

	assert.Equal(t, model.ErrCodePromoNotFound, appErrCode(t, err))
	assert.Equal(t, 1, repo.failedAttempts())
}

func TestValidate_NotYetStarted(t *testing.T) {
	promo := activePromo("SOON", model.PromoKindPercent, 10)
	promo.StartsAt = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("SOON", 1000), nil, "ip:1.2.3.4")

	assert.Equal(t, model.ErrCodePromoNotStarted, appErrCode(t, err))
	assert.Equal(t, 1, repo.failedAttempts())
}

func TestValidate_Expired(t *testing.T) {
	promo := activePromo("OLD", model.PromoKindPercent, 10)
	endsAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	promo.EndsAt = &endsAt
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("OLD", 1000), nil, "ip:1.2.3.4")

	assert.Equal(t, model.ErrCodePromoExpired, appErrCode(t, err))
}

func TestValidate_NotApplicableToEntity(t *testing.T) {
	promo := activePromo("EVENTONLY", model.PromoKindPercent, 10)
	promo.ApplicableEntityIDs = []string{"event-42"}
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("EVENTONLY", 1000), nil, "ip:1.2.3.4")

	assert.Equal(t, model.ErrCodePromoNotApplicable, appErrCode(t, err))
}

func TestValidate_MinCartTotalNotMet(t *testing.T) {
	promo := activePromo("BIG", model.PromoKindPercent, 10)
	promo.MinCartTotal = decimal.NewFromInt(5000)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("BIG", 1000), nil, "ip:1.2.3.4")

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.ErrCodePromoMinCartNotMet, appErr.Code)
	assert.Contains(t, appErr.Details, "min_cart_total")
}

func TestValidate_GlobalUsageLimitExhausted(t *testing.T) {
	promo := activePromo("LIMITED", model.PromoKindPercent, 10)
	maxUses := 2
	promo.MaxUses = &maxUses
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	for i := 0; i < 2; i++ {
		_, err := svc.Validate(context.Background(), validateReq("LIMITED", 1000), nil, "ip:1.2.3.4")
		require.NoError(t, err)
	}

	_, err := svc.Validate(context.Background(), validateReq("LIMITED", 1000), nil, "ip:1.2.3.4")
	assert.Equal(t, model.ErrCodePromoUsageLimit, appErrCode(t, err))
}

func TestValidate_FailedAttemptsDoNotConsumeQuota(t *testing.T) {
	promo := activePromo("ONCE", model.PromoKindPercent, 10)
	maxUses := 1
	promo.MaxUses = &maxUses
	promo.MinCartTotal = decimal.NewFromInt(500)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	// Fails min-cart check, records telemetry only
	_, err := svc.Validate(context.Background(), validateReq("ONCE", 100), nil, "ip:1.2.3.4")
	require.Error(t, err)

	// Quota must still be available
	_, err = svc.Validate(context.Background(), validateReq("ONCE", 1000), nil, "ip:1.2.3.4")
	assert.NoError(t, err)
}

func TestValidate_PerUserLimit(t *testing.T) {
	promo := activePromo("PERSONAL", model.PromoKindPercent, 10)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Validate(context.Background(), validateReq("PERSONAL", 1000), &alice, "user:"+alice.String())
	require.NoError(t, err)

	// Alice hit her limit of 1
	_, err = svc.Validate(context.Background(), validateReq("PERSONAL", 1000), &alice, "user:"+alice.String())
	assert.Equal(t, model.ErrCodePromoUserLimit, appErrCode(t, err))

	// Bob is unaffected
	_, err = svc.Validate(context.Background(), validateReq("PERSONAL", 1000), &bob, "user:"+bob.String())
	assert.NoError(t, err)
}

func TestValidate_AnonymousSkipsPerUserLimit(t *testing.T) {
	promo := activePromo("ANON", model.PromoKindPercent, 10)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	for i := 0; i < 3; i++ {
		_, err := svc.Validate(context.Background(), validateReq("ANON", 1000), nil, "ip:1.2.3.4")
		require.NoError(t, err)
	}
}

func TestValidate_RateLimited(t *testing.T) {
	repo := newFakePromoRepo(activePromo("SAVE10", model.PromoKindPercent, 10))
	limiter := &stubLimiter{allowed: false}
	svc := newTestService(repo, limiter)

	_, err := svc.Validate(context.Background(), validateReq("SAVE10", 1000), nil, "ip:1.2.3.4")

	assert.Equal(t, model.ErrCodeRateLimited, appErrCode(t, err))
	// Rejected before any database work
	assert.Empty(t, repo.redemptions)
}

func TestValidate_LimiterErrorFailsOpen(t *testing.T) {
	repo := newFakePromoRepo(activePromo("SAVE10", model.PromoKindPercent, 10))
	limiter := &stubLimiter{allowed: false, err: errors.New("redis down")}
	svc := newTestService(repo, limiter)

	_, err := svc.Validate(context.Background(), validateReq("SAVE10", 1000), nil, "ip:1.2.3.4")

	assert.NoError(t, err)
}

func TestValidate_RedemptionInsertFailureFailsValidation(t *testing.T) {
	repo := newFakePromoRepo(activePromo("SAVE10", model.PromoKindPercent, 10))
	repo.insertErr = errors.New("db down")
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("SAVE10", 1000), nil, "ip:1.2.3.4")

	assert.Error(t, err)
}

func TestValidate_CodeIsCaseInsensitive(t *testing.T) {
	repo := newFakePromoRepo(activePromo("SAVE10", model.PromoKindPercent, 10))
	svc := newTestService(repo, &stubLimiter{allowed: true})

	result, err := svc.Validate(context.Background(), validateReq("  sAvE10 ", 1000), nil, "ip:1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", result.PromoCode.Code)
}

// ---------------------------------------------------------------
// Preview
// ---------------------------------------------------------------

func TestPreview_DoesNotRecordRedemption(t *testing.T) {
	repo := newFakePromoRepo(activePromo("SAVE10", model.PromoKindPercent, 10))
	svc := newTestService(repo, &stubLimiter{allowed: true})

	result, err := svc.Preview(context.Background(), "SAVE10", "event-1", decimal.NewFromInt(1000))

	require.NoError(t, err)
	assert.True(t, result.PromoCode.DiscountAmount.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, repo.redemptions)
}

func TestPreview_IgnoresUsageLimits(t *testing.T) {
	promo := activePromo("FULL", model.PromoKindPercent, 10)
	maxUses := 1
	promo.MaxUses = &maxUses
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("FULL", 1000), nil, "ip:1.2.3.4")
	require.NoError(t, err)

	// Quota is gone, but preview only runs eligibility checks
	_, err = svc.Preview(context.Background(), "FULL", "event-1", decimal.NewFromInt(1000))
	assert.NoError(t, err)
}

func TestPreview_UnknownCode(t *testing.T) {
	svc := newTestService(newFakePromoRepo(), &stubLimiter{allowed: true})

	_, err := svc.Preview(context.Background(), "NOPE", "", decimal.Zero)

	assert.Equal(t, model.ErrCodePromoNotFound, appErrCode(t, err))
}

// ---------------------------------------------------------------
// Admin operations
// ---------------------------------------------------------------

func TestCreatePromo_NormalizesAndStores(t *testing.T) {
	repo := newFakePromoRepo()
	svc := newTestService(repo, &stubLimiter{allowed: true})

	promo, err := svc.CreatePromo(context.Background(), &model.CreatePromoRequest{
		Code:     "  summer25 ",
		Kind:     "percent",
		Value:    25,
		IsActive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", promo.Code)
	assert.Equal(t, 1, promo.PerUserLimit)
	assert.False(t, promo.StartsAt.IsZero())
}

func TestCreatePromo_DuplicateCode(t *testing.T) {
	repo := newFakePromoRepo(activePromo("SAVE10", model.PromoKindPercent, 10))
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.CreatePromo(context.Background(), &model.CreatePromoRequest{
		Code:  "save10",
		Kind:  "percent",
		Value: 10,
	})

	assert.Equal(t, model.ErrCodePromoDuplicateCode, appErrCode(t, err))
}

func TestCreatePromo_PercentOverHundred(t *testing.T) {
	svc := newTestService(newFakePromoRepo(), &stubLimiter{allowed: true})

	_, err := svc.CreatePromo(context.Background(), &model.CreatePromoRequest{
		Code:  "TOOMUCH",
		Kind:  "percent",
		Value: 150,
	})

	assert.Equal(t, model.ErrCodeValidationFailed, appErrCode(t, err))
}

func TestDeletePromo_RejectedWhenRedeemed(t *testing.T) {
	promo := activePromo("USED", model.PromoKindPercent, 10)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	_, err := svc.Validate(context.Background(), validateReq("USED", 1000), nil, "ip:1.2.3.4")
	require.NoError(t, err)

	err = svc.DeletePromo(context.Background(), promo.ID)
	assert.Equal(t, model.ErrCodePromoCannotDelete, appErrCode(t, err))
}

func TestDeletePromo_AllowedWhenUnused(t *testing.T) {
	promo := activePromo("FRESH", model.PromoKindPercent, 10)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	err := svc.DeletePromo(context.Background(), promo.ID)

	assert.NoError(t, err)
}

func TestUpdatePromo_MaxUsesBelowAppliedCountRejected(t *testing.T) {
	promo := activePromo("POPULAR", model.PromoKindPercent, 10)
	repo := newFakePromoRepo(promo)
	svc := newTestService(repo, &stubLimiter{allowed: true})

	for i := 0; i < 3; i++ {
		_, err := svc.Validate(context.Background(), validateReq("POPULAR", 1000), nil, "ip:1.2.3.4")
		require.NoError(t, err)
	}

	lower := 2
	_, err := svc.UpdatePromo(context.Background(), promo.ID, &model.UpdatePromoRequest{MaxUses: &lower})

	assert.Equal(t, model.ErrCodeValidationFailed, appErrCode(t, err))
}

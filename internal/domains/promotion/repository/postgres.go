package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mamareykjavik-backend/internal/domains/promotion/model"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) PromotionRepository {
	return &postgresRepository{db: db}
}

const promoColumns = `
	id, code, kind, value, min_cart_total, applicable_entity_ids,
	max_uses, per_user_limit, starts_at, ends_at, is_active,
	created_at, updated_at
`

func scanPromo(row pgx.Row) (*model.PromoCode, error) {
	var p model.PromoCode
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Kind,
		&p.Value,
		&p.MinCartTotal,
		&p.ApplicableEntityIDs,
		&p.MaxUses,
		&p.PerUserLimit,
		&p.StartsAt,
		&p.EndsAt,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = $1 AND deleted_at IS NULL`

	promo, err := scanPromo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find promo by id: %w", err)
	}
	return promo, nil
}

func (r *postgresRepository) FindByCodeActive(ctx context.Context, code string) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + `
		FROM promo_codes
		WHERE code = $1 AND is_active = true AND deleted_at IS NULL`

	promo, err := scanPromo(r.db.QueryRow(ctx, query, model.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find promo by code: %w", err)
	}
	return promo, nil
}

func (r *postgresRepository) List(ctx context.Context, page, limit int) ([]*model.PromoCode, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM promo_codes WHERE deleted_at IS NULL`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count promos: %w", err)
	}

	query := `SELECT ` + promoColumns + `
		FROM promo_codes
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list promos: %w", err)
	}
	defer rows.Close()

	var promos []*model.PromoCode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan promo: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate promos: %w", err)
	}

	return promos, total, nil
}

func (r *postgresRepository) CheckCodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM promo_codes
		WHERE code = $1 AND deleted_at IS NULL AND ($2::uuid IS NULL OR id <> $2)
	)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, model.NormalizeCode(code), excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check code exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, promo *model.PromoCode) error {
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}

	query := `
		INSERT INTO promo_codes (
			id, code, kind, value, min_cart_total, applicable_entity_ids,
			max_uses, per_user_limit, starts_at, ends_at, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		promo.ID,
		promo.Code,
		promo.Kind,
		promo.Value,
		promo.MinCartTotal,
		promo.ApplicableEntityIDs,
		promo.MaxUses,
		promo.PerUserLimit,
		promo.StartsAt,
		promo.EndsAt,
		promo.IsActive,
	).Scan(&promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create promo: %w", err)
	}

	return nil
}

func (r *postgresRepository) Update(ctx context.Context, promo *model.PromoCode) error {
	query := `
		UPDATE promo_codes
		SET min_cart_total = $2,
			applicable_entity_ids = $3,
			max_uses = $4,
			per_user_limit = $5,
			ends_at = $6,
			is_active = $7,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		promo.ID,
		promo.MinCartTotal,
		promo.ApplicableEntityIDs,
		promo.MaxUses,
		promo.PerUserLimit,
		promo.EndsAt,
		promo.IsActive,
	).Scan(&promo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("promo not found")
		}
		return fmt.Errorf("update promo: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE promo_codes SET is_active = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, isActive,
	)
	if err != nil {
		return fmt.Errorf("update promo status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("promo not found")
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE promo_codes SET deleted_at = NOW(), is_active = false, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete promo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("promo not found")
	}
	return nil
}

func (r *postgresRepository) CountApplied(ctx context.Context, promoID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM promo_redemptions WHERE promo_id = $1 AND status = 'applied'`,
		promoID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count applied redemptions: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountAppliedByUser(ctx context.Context, promoID, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM promo_redemptions
		 WHERE promo_id = $1 AND user_id = $2 AND status = 'applied'`,
		promoID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user redemptions: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) HasRedemptions(ctx context.Context, promoID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM promo_redemptions WHERE promo_id = $1)`,
		promoID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check redemptions exist: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) InsertRedemption(ctx context.Context, rec *model.RedemptionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query := `
		INSERT INTO promo_redemptions (id, promo_id, user_id, cart_id, amount_discounted, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING redeemed_at`

	err := r.db.QueryRow(ctx, query,
		rec.ID,
		rec.PromoID,
		rec.UserID,
		rec.CartID,
		rec.AmountDiscounted,
		rec.Status,
	).Scan(&rec.RedeemedAt)
	if err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}

	return nil
}

func (r *postgresRepository) ListRedemptions(ctx context.Context, promoID uuid.UUID, page, limit int) ([]*model.RedemptionRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM promo_redemptions WHERE promo_id = $1`,
		promoID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count redemptions: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, promo_id, user_id, cart_id, amount_discounted, status, redeemed_at
		 FROM promo_redemptions
		 WHERE promo_id = $1
		 ORDER BY redeemed_at DESC
		 LIMIT $2 OFFSET $3`,
		promoID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var records []*model.RedemptionRecord
	for rows.Next() {
		var rec model.RedemptionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.PromoID,
			&rec.UserID,
			&rec.CartID,
			&rec.AmountDiscounted,
			&rec.Status,
			&rec.RedeemedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan redemption: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate redemptions: %w", err)
	}

	return records, total, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mamareykjavik-backend/internal/domains/card/model"
	payment "mamareykjavik-backend/internal/domains/payment/model"
)

// CardRepository stores meal and gift cards in a shared table.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	FindByOrderRef(ctx context.Context, cardType model.CardType, orderRef string) (*model.Card, error)
	MarkPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error)
	Activate(ctx context.Context, id uuid.UUID, redemptionCode string, expiresAt time.Time) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CardRepository {
	return &postgresRepository{db: db}
}

const cardColumns = `
	id, order_ref, type, amount, currency, buyer_email, buyer_name,
	recipient_name, recipient_email, message, redemption_code,
	expires_at, payment_status, created_at, updated_at
`

func scanCard(row pgx.Row) (*model.Card, error) {
	var c model.Card
	err := row.Scan(
		&c.ID, &c.OrderRef, &c.Type, &c.Amount, &c.Currency,
		&c.BuyerEmail, &c.BuyerName, &c.RecipientName, &c.RecipientEmail,
		&c.Message, &c.RedemptionCode, &c.ExpiresAt, &c.PaymentStatus,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, card *model.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}

	query := `
		INSERT INTO cards (
			id, order_ref, type, amount, currency, buyer_email, buyer_name,
			recipient_name, recipient_email, message, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		card.ID, card.OrderRef, card.Type, card.Amount, card.Currency,
		card.BuyerEmail, card.BuyerName, card.RecipientName, card.RecipientEmail,
		card.Message, payment.PaymentStatusPending,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create card: %w", err)
	}

	card.PaymentStatus = payment.PaymentStatusPending
	return nil
}

func (r *postgresRepository) FindByOrderRef(ctx context.Context, cardType model.CardType, orderRef string) (*model.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE type = $1 AND order_ref = $2`

	card, err := scanCard(r.db.QueryRow(ctx, query, cardType, orderRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find card by order ref: %w", err)
	}
	return card, nil
}

func (r *postgresRepository) MarkPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE cards
		 SET payment_status = $2,
		     buyer_email = COALESCE(NULLIF($4, ''), buyer_email),
		     updated_at = NOW()
		 WHERE id = $1 AND payment_status = $3`,
		id, payment.PaymentStatusPaid, payment.PaymentStatusPending, buyerEmail,
	)
	if err != nil {
		return false, fmt.Errorf("mark card paid: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *postgresRepository) Activate(ctx context.Context, id uuid.UUID, redemptionCode string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE cards SET redemption_code = $2, expires_at = $3, updated_at = NOW() WHERE id = $1`,
		id, redemptionCode, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("activate card: %w", err)
	}
	return nil
}

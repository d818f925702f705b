package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mamareykjavik-backend/internal/domains/payment/model"
)

// WebhookRepository stores gateway callback audit records.
type WebhookRepository interface {
	Insert(ctx context.Context, log *model.WebhookLog) error
	MarkProcessed(ctx context.Context, id uuid.UUID, outcome string) error
	ListByOrderRef(ctx context.Context, orderRef string) ([]*model.WebhookLog, error)
}

type postgresWebhookRepository struct {
	db *pgxpool.Pool
}

func NewWebhookRepository(db *pgxpool.Pool) WebhookRepository {
	return &postgresWebhookRepository{db: db}
}

func (r *postgresWebhookRepository) Insert(ctx context.Context, log *model.WebhookLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	query := `
		INSERT INTO payment_webhook_logs (id, product, order_ref, raw_payload)
		VALUES ($1, $2, $3, $4)
		RETURNING received_at`

	err := r.db.QueryRow(ctx, query,
		log.ID,
		log.Product,
		log.OrderRef,
		log.RawPayload,
	).Scan(&log.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert webhook log: %w", err)
	}

	return nil
}

func (r *postgresWebhookRepository) MarkProcessed(ctx context.Context, id uuid.UUID, outcome string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payment_webhook_logs SET outcome = $2, processed_at = NOW() WHERE id = $1`,
		id, outcome,
	)
	if err != nil {
		return fmt.Errorf("mark webhook processed: %w", err)
	}
	return nil
}

func (r *postgresWebhookRepository) ListByOrderRef(ctx context.Context, orderRef string) ([]*model.WebhookLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product, order_ref, raw_payload, outcome, processed_at, received_at
		 FROM payment_webhook_logs
		 WHERE order_ref = $1
		 ORDER BY received_at DESC`,
		orderRef,
	)
	if err != nil {
		return nil, fmt.Errorf("list webhook logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.WebhookLog
	for rows.Next() {
		var l model.WebhookLog
		if err := rows.Scan(
			&l.ID,
			&l.Product,
			&l.OrderRef,
			&l.RawPayload,
			&l.Outcome,
			&l.ProcessedAt,
			&l.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("scan webhook log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook logs: %w", err)
	}

	return logs, nil
}

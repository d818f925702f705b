package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	payment "mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/ticket/model"
)

// TicketRepository is the ticket order data access surface.
type TicketRepository interface {
	FindEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
	CreateOrder(ctx context.Context, order *model.TicketOrder) error
	FindOrderByRef(ctx context.Context, orderRef string) (*model.TicketOrder, error)
	MarkOrderPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error)
	IncrementTicketsSold(ctx context.Context, eventID uuid.UUID, quantity int) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) TicketRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) FindEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRow(ctx,
		`SELECT id, name, price, capacity, tickets_sold, starts_at FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Name, &e.Price, &e.Capacity, &e.TicketsSold, &e.StartsAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &e, nil
}

func (r *postgresRepository) CreateOrder(ctx context.Context, order *model.TicketOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	query := `
		INSERT INTO ticket_orders (
			id, order_ref, event_id, quantity, amount, currency,
			buyer_email, buyer_name, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		order.ID,
		order.OrderRef,
		order.EventID,
		order.Quantity,
		order.Amount,
		order.Currency,
		order.BuyerEmail,
		order.BuyerName,
		payment.PaymentStatusPending,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create ticket order: %w", err)
	}

	order.PaymentStatus = payment.PaymentStatusPending
	return nil
}

func (r *postgresRepository) FindOrderByRef(ctx context.Context, orderRef string) (*model.TicketOrder, error) {
	var o model.TicketOrder
	err := r.db.QueryRow(ctx,
		`SELECT id, order_ref, event_id, quantity, amount, currency,
		        buyer_email, buyer_name, payment_status, created_at, updated_at
		 FROM ticket_orders WHERE order_ref = $1`,
		orderRef,
	).Scan(
		&o.ID, &o.OrderRef, &o.EventID, &o.Quantity, &o.Amount, &o.Currency,
		&o.BuyerEmail, &o.BuyerName, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket order: %w", err)
	}
	return &o, nil
}

// MarkOrderPaid transitions a pending order to paid. The WHERE guard
// makes concurrent callbacks race safely: exactly one wins. A
// non-empty buyerEmail from the gateway payload replaces the stored one.
func (r *postgresRepository) MarkOrderPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE ticket_orders
		 SET payment_status = $2,
		     buyer_email = COALESCE(NULLIF($4, ''), buyer_email),
		     updated_at = NOW()
		 WHERE id = $1 AND payment_status = $3`,
		id, payment.PaymentStatusPaid, payment.PaymentStatusPending, buyerEmail,
	)
	if err != nil {
		return false, fmt.Errorf("mark ticket order paid: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *postgresRepository) IncrementTicketsSold(ctx context.Context, eventID uuid.UUID, quantity int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE events SET tickets_sold = tickets_sold + $2 WHERE id = $1`,
		eventID, quantity,
	)
	if err != nil {
		return fmt.Errorf("increment tickets sold: %w", err)
	}
	return nil
}

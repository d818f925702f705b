package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	payment "mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/tour/model"
)

// TourRepository is the tour booking data access surface.
type TourRepository interface {
	FindTour(ctx context.Context, id uuid.UUID) (*model.Tour, error)
	CreateBooking(ctx context.Context, booking *model.Booking) error
	FindBookingByRef(ctx context.Context, orderRef string) (*model.Booking, error)
	MarkBookingPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) TourRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) FindTour(ctx context.Context, id uuid.UUID) (*model.Tour, error) {
	var t model.Tour
	err := r.db.QueryRow(ctx,
		`SELECT id, name, price_per_person FROM tours WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.PricePerPerson)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find tour: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query := `
		INSERT INTO tour_bookings (
			id, order_ref, tour_id, tour_date, party_size, amount, currency,
			buyer_email, buyer_name, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		booking.ID, booking.OrderRef, booking.TourID, booking.TourDate,
		booking.PartySize, booking.Amount, booking.Currency,
		booking.BuyerEmail, booking.BuyerName, payment.PaymentStatusPending,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create tour booking: %w", err)
	}

	booking.PaymentStatus = payment.PaymentStatusPending
	return nil
}

func (r *postgresRepository) FindBookingByRef(ctx context.Context, orderRef string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRow(ctx,
		`SELECT id, order_ref, tour_id, tour_date, party_size, amount, currency,
		        buyer_email, buyer_name, payment_status, created_at, updated_at
		 FROM tour_bookings WHERE order_ref = $1`,
		orderRef,
	).Scan(
		&b.ID, &b.OrderRef, &b.TourID, &b.TourDate, &b.PartySize, &b.Amount,
		&b.Currency, &b.BuyerEmail, &b.BuyerName, &b.PaymentStatus,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find tour booking: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) MarkBookingPaid(ctx context.Context, id uuid.UUID, buyerEmail string) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE tour_bookings
		 SET payment_status = $2,
		     buyer_email = COALESCE(NULLIF($4, ''), buyer_email),
		     updated_at = NOW()
		 WHERE id = $1 AND payment_status = $3`,
		id, payment.PaymentStatusPaid, payment.PaymentStatusPending, buyerEmail,
	)
	if err != nil {
		return false, fmt.Errorf("mark tour booking paid: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

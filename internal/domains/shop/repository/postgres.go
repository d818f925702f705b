package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	payment "mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/shop/model"
	"mamareykjavik-backend/pkg/database"
)

// ShopRepository is the shop order data access surface.
type ShopRepository interface {
	FindProducts(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	FindOrderByRef(ctx context.Context, orderRef string) (*model.Order, error)

	// MarkPaidAndDecrementStock transitions the order to paid and
	// decrements stock for every line in a single transaction. A
	// non-empty buyerEmail from the gateway payload replaces the
	// stored one. Returns false when the order was not pending anymore.
	MarkPaidAndDecrementStock(ctx context.Context, orderID uuid.UUID, buyerEmail string) (bool, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) ShopRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) FindProducts(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price, stock FROM shop_products WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// CreateOrder inserts the order and its lines atomically.
func (r *postgresRepository) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO shop_orders (id, order_ref, amount, currency, buyer_email, buyer_name, payment_status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING created_at, updated_at`,
			order.ID, order.OrderRef, order.Amount, order.Currency,
			order.BuyerEmail, order.BuyerName, payment.PaymentStatusPending,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create shop order: %w", err)
		}
		order.PaymentStatus = payment.PaymentStatusPending

		for i := range order.Items {
			item := &order.Items[i]
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			item.OrderID = order.ID

			_, err := tx.Exec(ctx,
				`INSERT INTO shop_order_items (id, order_id, product_id, quantity, unit_price)
				 VALUES ($1, $2, $3, $4, $5)`,
				item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
			)
			if err != nil {
				return fmt.Errorf("create shop order item: %w", err)
			}
		}

		return nil
	})
}

func (r *postgresRepository) FindOrderByRef(ctx context.Context, orderRef string) (*model.Order, error) {
	var o model.Order
	err := r.db.QueryRow(ctx,
		`SELECT id, order_ref, amount, currency, buyer_email, buyer_name,
		        payment_status, created_at, updated_at
		 FROM shop_orders WHERE order_ref = $1`,
		orderRef,
	).Scan(
		&o.ID, &o.OrderRef, &o.Amount, &o.Currency, &o.BuyerEmail, &o.BuyerName,
		&o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find shop order: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price
		 FROM shop_order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("find shop order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan shop order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shop order items: %w", err)
	}

	return &o, nil
}

func (r *postgresRepository) MarkPaidAndDecrementStock(ctx context.Context, orderID uuid.UUID, buyerEmail string) (bool, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (bool, error) {
		result, err := tx.Exec(ctx,
			`UPDATE shop_orders
			 SET payment_status = $2,
			     buyer_email = COALESCE(NULLIF($4, ''), buyer_email),
			     updated_at = NOW()
			 WHERE id = $1 AND payment_status = $3`,
			orderID, payment.PaymentStatusPaid, payment.PaymentStatusPending, buyerEmail,
		)
		if err != nil {
			return false, fmt.Errorf("mark shop order paid: %w", err)
		}
		if result.RowsAffected() == 0 {
			// Another callback already completed this order; skip the
			// stock decrement so it never runs twice.
			return false, nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE shop_products p
			 SET stock = p.stock - i.quantity
			 FROM shop_order_items i
			 WHERE i.order_id = $1 AND p.id = i.product_id`,
			orderID,
		)
		if err != nil {
			return false, fmt.Errorf("decrement stock: %w", err)
		}

		return true, nil
	})
}

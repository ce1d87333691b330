package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/axionhelmets/storefront-server/internal/model"
)

var _ model.OrderStore = (*OrderRepository)(nil)

const orderColumns = `id, user_id, items, shipping_address, payment_method, items_price, tax_price,
	shipping_price, total_price, status, is_paid, paid_at, created_at, updated_at`

type OrderRepository struct {
	db *Connection
}

func NewOrderRepository(db *Connection) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o      model.Order
		id     uuid.UUID
		userID uuid.UUID
	)
	err := row.Scan(
		&id, &userID, &o.Items, &o.ShippingAddress, &o.PaymentMethod, &o.ItemsPrice, &o.TaxPrice,
		&o.ShippingPrice, &o.TotalPrice, &o.Status, &o.IsPaid, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	o.ID = id.String()
	o.UserID = userID.String()
	return o, err
}

func (r *OrderRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	userID, err := parseID(order.UserID)
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to create order: invalid user id %q", order.UserID)
	}

	now := time.Now().UTC()
	query := `INSERT INTO orders (` + orderColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
			  RETURNING ` + orderColumns

	saved, err := scanOrder(r.db.QueryRow(ctx, query,
		uuid.New(), userID, order.Items, order.ShippingAddress, order.PaymentMethod,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
		order.Status, order.IsPaid, order.PaidAt, now,
	))
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	return saved, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Order{}, err
	}

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, oid))
	if err != nil {
		if notFound(err) {
			return model.Order{}, model.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	uid, err := parseID(userID)
	if err != nil {
		return []model.Order{}, nil
	}
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, uid)
}

func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Order{}, err
	}

	query := `UPDATE orders SET is_paid = TRUE, paid_at = $2, updated_at = $3
			  WHERE id = $1
			  RETURNING ` + orderColumns

	o, err := scanOrder(r.db.QueryRow(ctx, query, oid, paidAt, time.Now().UTC()))
	if err != nil {
		if notFound(err) {
			return model.Order{}, model.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return model.Order{}, err
	}

	query := `UPDATE orders SET status = $2, updated_at = $3
			  WHERE id = $1
			  RETURNING ` + orderColumns

	o, err := scanOrder(r.db.QueryRow(ctx, query, oid, status, time.Now().UTC()))
	if err != nil {
		if notFound(err) {
			return model.Order{}, model.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	return o, nil
}

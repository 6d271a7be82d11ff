package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository builds the Postgres order repository.
func NewOrderRepository(db *sql.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, reservation_id, room_number, status, total, COALESCE(notes, ''), COALESCE(created_by, ''), delivered_at, created_at, updated_at`

// Create stores the order, its items and the stock decrements in one
// transaction, so a sold-out line rolls the whole order back.
func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO service_orders (id, reservation_id, room_number, status, total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.ExecContext(ctx, orderQuery,
		o.ID, o.ReservationID, o.RoomNumber, o.Status, o.Total,
		nullIfEmpty(o.Notes), nullIfEmpty(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	if len(o.Items) > 0 {
		values := make([]string, 0, len(o.Items))
		args := make([]interface{}, 0, len(o.Items)*6)
		for i, item := range o.Items {
			base := i * 6
			values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
			args = append(args, item.ID, o.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
		}
		itemQuery := `
			INSERT INTO service_order_items (id, order_id, product_id, name, unit_price, quantity)
			VALUES ` + strings.Join(values, ", ")

		if _, err := tx.ExecContext(ctx, itemQuery, args...); err != nil {
			return fmt.Errorf("inserting order items: %w", err)
		}
	}

	stockQuery := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2`

	for _, item := range o.Items {
		result, err := tx.ExecContext(ctx, stockQuery, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrementing stock for %s: %w", item.Name, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrInsufficientStock
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order transaction: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE id = $1`

	o, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *orderRepository) ListByReservation(ctx context.Context, reservationID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE reservation_id = $1 ORDER BY created_at`
	return r.queryOrders(ctx, query, reservationID)
}

func (r *orderRepository) ListOpen(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE status = $1 ORDER BY created_at`
	return r.queryOrders(ctx, query, domain.OrderStatusOpen)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, deliveredAt *time.Time) error {
	query := `UPDATE service_orders SET status = $2, delivered_at = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, nullTime(deliveredAt))
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return requireAffected(result, domain.ErrOrderNotFound)
}

func (r *orderRepository) SumExtras(ctx context.Context, reservationID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM service_orders
		WHERE reservation_id = $1 AND status = $2`

	var sum float64
	err := r.db.QueryRowContext(ctx, query, reservationID, domain.OrderStatusDelivered).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing extras: %w", err)
	}
	return sum, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		var o domain.Order
		if err := r.scanOrderFields(rows, &o); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// loadItems fetches the line items of many orders in one query and groups
// them by order id.
func (r *orderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, unit_price, quantity
		FROM service_order_items
		WHERE order_id = ANY($1)
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("loading order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func (r *orderRepository) scanOrderFields(row rowScanner, o *domain.Order) error {
	var deliveredAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.ReservationID, &o.RoomNumber, &o.Status, &o.Total,
		&o.Notes, &o.CreatedBy, &deliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	o.DeliveredAt = timePtr(deliveredAt)
	return nil
}

func (r *orderRepository) scanOrder(row *sql.Row) (*domain.Order, error) {
	var o domain.Order
	if err := r.scanOrderFields(row, &o); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scanning order: %w", err)
	}
	return &o, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type dashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository builds the Postgres dashboard repository.
func NewDashboardRepository(db *sql.DB) domain.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) RoomCounts(ctx context.Context) (map[domain.RoomStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM rooms GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting rooms: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.RoomStatus]int)
	for rows.Next() {
		var status domain.RoomStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning room count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *dashboardRepository) ReservationCounts(ctx context.Context, now time.Time) (arrivals, inHouse, departures int, err error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $1 AND check_in >= $3 AND check_in < $4),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $2 AND check_out >= $3 AND check_out < $4)
		FROM reservations`

	err = r.db.QueryRowContext(ctx, query,
		domain.ReservationStatusConfirmed, domain.ReservationStatusCheckedIn,
		dayStart, dayEnd,
	).Scan(&arrivals, &inHouse, &departures)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("counting reservations: %w", err)
	}
	return arrivals, inHouse, departures, nil
}

func (r *dashboardRepository) RevenueSince(ctx context.Context, from time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM reservations
		WHERE status = $1 AND checked_out_at >= $2`

	var revenue float64
	err := r.db.QueryRowContext(ctx, query, domain.ReservationStatusCheckedOut, from).Scan(&revenue)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("summing revenue: %w", err)
	}
	return revenue, nil
}

func (r *dashboardRepository) OpenOrderCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_orders WHERE status = $1`, domain.OrderStatusOpen).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting open orders: %w", err)
	}
	return n, nil
}

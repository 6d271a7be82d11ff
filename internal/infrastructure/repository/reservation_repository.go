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

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository builds the Postgres reservation repository.
func NewReservationRepository(db *sql.DB) domain.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `
	id, number, room_id, room_number, guest_id, guest_name, guest_phone,
	guest_email, guest_document, period_code, check_in, check_out, status,
	source, period_price, extras_total, total_amount, payment_method,
	payment_status, notes, created_by,
	checked_in_at, checked_out_at, cancelled_at, created_at, updated_at`

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `
		INSERT INTO reservations (
			id, number, room_id, room_number, guest_id, guest_name, guest_phone,
			guest_email, guest_document, period_code, check_in, check_out, status,
			source, period_price, extras_total, total_amount, payment_method,
			payment_status, notes, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23
		)`

	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.Number, res.RoomID, res.RoomNumber,
		nullIfEmpty(res.GuestID), res.GuestName, nullIfEmpty(res.GuestPhone),
		nullIfEmpty(res.GuestEmail), nullIfEmpty(res.GuestDoc),
		res.PeriodCode, res.CheckIn, res.CheckOut, res.Status, res.Source,
		res.PeriodPrice, res.ExtrasTotal, res.TotalAmount,
		nullIfEmpty(string(res.PaymentMethod)), res.PaymentStatus,
		nullIfEmpty(res.Notes), nullIfEmpty(res.CreatedBy),
		res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("inserting reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, id))
}

func (r *reservationRepository) GetByNumber(ctx context.Context, number string) (*domain.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE number = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, number))
}

func (r *reservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations`

	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(filter.Status))
	}
	if filter.RoomID != "" {
		conditions = append(conditions, "room_id = "+arg(filter.RoomID))
	}
	if filter.GuestID != "" {
		conditions = append(conditions, "guest_id = "+arg(filter.GuestID))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "check_out > "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "check_in < "+arg(filter.To))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) ListOverlapping(ctx context.Context, roomID string, ival domain.Interval, statuses []domain.ReservationStatus) ([]domain.Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE room_id = $1
		  AND status = ANY($2)
		  AND check_in < $3
		  AND check_out > $4
		ORDER BY check_in`

	rows, err := r.db.QueryContext(ctx, query, roomID, pq.Array(statusStrings(statuses)), ival.End, ival.Start)
	if err != nil {
		return nil, fmt.Errorf("querying overlapping reservations: %w", err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) BusyRoomIDs(ctx context.Context, ival domain.Interval, statuses []domain.ReservationStatus) (map[string]bool, error) {
	query := `
		SELECT DISTINCT room_id
		FROM reservations
		WHERE status = ANY($1)
		  AND check_in < $2
		  AND check_out > $3`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(statusStrings(statuses)), ival.End, ival.Start)
	if err != nil {
		return nil, fmt.Errorf("querying busy rooms: %w", err)
	}
	defer rows.Close()

	busy := make(map[string]bool)
	for rows.Next() {
		var roomID string
		if err := rows.Scan(&roomID); err != nil {
			return nil, fmt.Errorf("scanning busy room id: %w", err)
		}
		busy[roomID] = true
	}
	return busy, rows.Err()
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET room_id = $2, room_number = $3, period_code = $4, check_in = $5,
		    check_out = $6, status = $7, notes = $8, period_price = $9,
		    extras_total = $10, total_amount = $11, payment_method = $12,
		    payment_status = $13, checked_in_at = $14, checked_out_at = $15,
		    cancelled_at = $16, updated_at = $17
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		res.ID, res.RoomID, res.RoomNumber, res.PeriodCode, res.CheckIn,
		res.CheckOut, res.Status, nullIfEmpty(res.Notes), res.PeriodPrice,
		res.ExtrasTotal, res.TotalAmount, nullIfEmpty(string(res.PaymentMethod)),
		res.PaymentStatus, nullTime(res.CheckedInAt), nullTime(res.CheckedOutAt),
		nullTime(res.CancelledAt), res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating reservation: %w", err)
	}
	return requireAffected(result, domain.ErrReservationNotFound)
}

func (r *reservationRepository) ListNoShowCandidates(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE status = $1
		  AND check_in <= $2
		  AND checked_in_at IS NULL
		ORDER BY check_in`

	rows, err := r.db.QueryContext(ctx, query, domain.ReservationStatusConfirmed, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying no-show candidates: %w", err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservationFields(row rowScanner, res *domain.Reservation) error {
	var guestID, guestPhone, guestEmail, guestDoc, paymentMethod, notes, createdBy sql.NullString
	var checkedInAt, checkedOutAt, cancelledAt sql.NullTime

	err := row.Scan(
		&res.ID, &res.Number, &res.RoomID, &res.RoomNumber,
		&guestID, &res.GuestName, &guestPhone, &guestEmail, &guestDoc,
		&res.PeriodCode, &res.CheckIn, &res.CheckOut, &res.Status, &res.Source,
		&res.PeriodPrice, &res.ExtrasTotal, &res.TotalAmount,
		&paymentMethod, &res.PaymentStatus,
		&notes, &createdBy,
		&checkedInAt, &checkedOutAt, &cancelledAt,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return err
	}

	res.GuestID = guestID.String
	res.GuestPhone = guestPhone.String
	res.GuestEmail = guestEmail.String
	res.GuestDoc = guestDoc.String
	res.PaymentMethod = domain.PaymentMethod(paymentMethod.String)
	res.Notes = notes.String
	res.CreatedBy = createdBy.String
	res.CheckedInAt = timePtr(checkedInAt)
	res.CheckedOutAt = timePtr(checkedOutAt)
	res.CancelledAt = timePtr(cancelledAt)
	return nil
}

func scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := scanReservationFields(row, &res); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("scanning reservation: %w", err)
	}
	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := scanReservationFields(rows, &res); err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

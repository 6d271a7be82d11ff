package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type roomRepository struct {
	db *sql.DB
}

// NewRoomRepository builds the Postgres room repository.
func NewRoomRepository(db *sql.DB) domain.RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, number, category, capacity, status, floor, COALESCE(notes, ''), created_at, updated_at`

// Create stores the room and its per-period rates in one transaction.
func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning room transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO rooms (id, number, category, capacity, status, floor, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.ExecContext(ctx, query,
		room.ID, room.Number, room.Category, room.Capacity, room.Status,
		room.Floor, nullIfEmpty(room.Notes), room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("room number %s already exists", room.Number)
		}
		return fmt.Errorf("inserting room: %w", err)
	}
	if err := replaceRates(ctx, tx, room.ID, room.Rates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing room transaction: %w", err)
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	room, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return room, r.attachRates(ctx, []*domain.Room{room})
}

func (r *roomRepository) GetByNumber(ctx context.Context, number string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE number = $1`
	room, err := r.scanOne(r.db.QueryRowContext(ctx, query, number))
	if err != nil {
		return nil, err
	}
	return room, r.attachRates(ctx, []*domain.Room{room})
}

func (r *roomRepository) List(ctx context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()
	return r.scanMany(ctx, rows)
}

func (r *roomRepository) ListBookable(ctx context.Context) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms
		WHERE status IN ($1, $2)
		ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, domain.RoomStatusAvailable, domain.RoomStatusCleaning)
	if err != nil {
		return nil, fmt.Errorf("listing bookable rooms: %w", err)
	}
	defer rows.Close()
	return r.scanMany(ctx, rows)
}

// Update rewrites the room's descriptive fields and replaces its rate table
// in one transaction.
func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning room transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE rooms
		SET number = $2, category = $3, capacity = $4, floor = $5, notes = $6, updated_at = $7
		WHERE id = $1`

	result, err := tx.ExecContext(ctx, query,
		room.ID, room.Number, room.Category, room.Capacity, room.Floor,
		nullIfEmpty(room.Notes), room.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("room number %s already exists", room.Number)
		}
		return fmt.Errorf("updating room: %w", err)
	}
	if err := requireAffected(result, domain.ErrRoomNotFound); err != nil {
		return err
	}
	if err := replaceRates(ctx, tx, room.ID, room.Rates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing room transaction: %w", err)
	}
	return nil
}

func (r *roomRepository) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) error {
	query := `UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("updating room status: %w", err)
	}
	return requireAffected(result, domain.ErrRoomNotFound)
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	var inUse bool
	guard := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_id = $1 AND status IN ($2, $3)
		)`
	err := r.db.QueryRowContext(ctx, guard, id,
		domain.ReservationStatusConfirmed, domain.ReservationStatusCheckedIn,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("checking room usage: %w", err)
	}
	if inUse {
		return domain.ErrRoomInUse
	}

	// room_rates rows go with the room via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	return requireAffected(result, domain.ErrRoomNotFound)
}

// replaceRates swaps the room's rate rows for the given table. An empty map
// just clears the overrides.
func replaceRates(ctx context.Context, tx *sql.Tx, roomID string, rates map[string]float64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM room_rates WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("clearing room rates: %w", err)
	}
	if len(rates) == 0 {
		return nil
	}

	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	values := make([]string, 0, len(codes))
	args := make([]interface{}, 0, len(codes)*3)
	for i, code := range codes {
		base := i * 3
		values = append(values, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, roomID, code, rates[code])
	}
	query := `
		INSERT INTO room_rates (room_id, period_code, price)
		VALUES ` + strings.Join(values, ", ")

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting room rates: %w", err)
	}
	return nil
}

// attachRates fetches the rate tables of many rooms in one query and stitches
// them onto the structs.
func (r *roomRepository) attachRates(ctx context.Context, rooms []*domain.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}

	query := `
		SELECT room_id, period_code, price
		FROM room_rates
		WHERE room_id = ANY($1)
		ORDER BY room_id, period_code`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("loading room rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]map[string]float64)
	for rows.Next() {
		var roomID, code string
		var price float64
		if err := rows.Scan(&roomID, &code, &price); err != nil {
			return fmt.Errorf("scanning room rate: %w", err)
		}
		if rates[roomID] == nil {
			rates[roomID] = make(map[string]float64)
		}
		rates[roomID][code] = price
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, room := range rooms {
		room.Rates = rates[room.ID]
	}
	return nil
}

func (r *roomRepository) scanOne(row *sql.Row) (*domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.ID, &room.Number, &room.Category, &room.Capacity, &room.Status,
		&room.Floor, &room.Notes, &room.CreatedAt, &room.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	return &room, nil
}

func (r *roomRepository) scanMany(ctx context.Context, rows *sql.Rows) ([]domain.Room, error) {
	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		err := rows.Scan(
			&room.ID, &room.Number, &room.Category, &room.Capacity, &room.Status,
			&room.Floor, &room.Notes, &room.CreatedAt, &room.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return rooms, nil
	}

	refs := make([]*domain.Room, len(rooms))
	for i := range rooms {
		refs[i] = &rooms[i]
	}
	return rooms, r.attachRates(ctx, refs)
}

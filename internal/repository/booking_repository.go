package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/google/uuid"
)

type BookingRepository struct {
	db base.DB
}

func NewBookingRepository(db base.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, student_id, tutor_id, slot_id, note, status, completed_at, cancelled_at, created_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.TutorID,
		&booking.SlotID,
		&booking.Note,
		&booking.Status,
		&booking.CompletedAt,
		&booking.CancelledAt,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, student_id, tutor_id, slot_id, note, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.ID,
		booking.StudentID,
		booking.TutorID,
		booking.SlotID,
		booking.Note,
		booking.Status,
	).Scan(&booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// Complete переводит бронирование confirmed -> completed.
// Возвращает false, если статус уже не confirmed.
func (r *BookingRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', completed_at = $1
		WHERE id = $2 AND status = 'confirmed'
	`

	result, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("complete booking: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Cancel переводит бронирование confirmed -> cancelled.
// Возвращает false, если статус уже не confirmed.
func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $1
		WHERE id = $2 AND status = 'confirmed'
	`

	result, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByStudentID получает все бронирования студента
func (r *BookingRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, studentID)
}

// GetByTutorID получает все бронирования учителя
func (r *BookingRepository) GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tutor_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, tutorID)
}

// GetAll получает все бронирования (для администратора)
func (r *BookingRepository) GetAll(ctx context.Context) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
	`

	return r.list(ctx, query)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

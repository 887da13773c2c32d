package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/google/uuid"
)

type SlotRepository struct {
	db base.DB
}

func NewSlotRepository(db base.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = `id, tutor_profile_id, start_time, end_time, is_booked, created_at`

func scanSlot(row interface{ Scan(dest ...any) error }) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.TutorProfileID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBooked,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetByIDForUpdate получает слот по ID с блокировкой строки до конца транзакции
func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1 FOR UPDATE`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot for update: %w", err)
	}

	return slot, nil
}

// MarkBooked помечает слот занятым; условная запись срабатывает только
// если слот всё ещё свободен
func (r *SlotRepository) MarkBooked(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE availability_slots
		SET is_booked = TRUE
		WHERE id = $1 AND is_booked = FALSE
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark slot booked: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkFree освобождает слот после отмены бронирования
func (r *SlotRepository) MarkFree(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE availability_slots
		SET is_booked = FALSE
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark slot free: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// GetBookedByProfile получает занятые слоты профиля учителя
func (r *SlotRepository) GetBookedByProfile(ctx context.Context, profileID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE tutor_profile_id = $1 AND is_booked = TRUE
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("get booked slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked slots: %w", err)
	}

	return slots, nil
}

// DeleteUnbookedByProfile удаляет все свободные слоты профиля.
// Занятые слоты фильтр is_booked = FALSE не затрагивает по построению.
func (r *SlotRepository) DeleteUnbookedByProfile(ctx context.Context, profileID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM availability_slots
		WHERE tutor_profile_id = $1 AND is_booked = FALSE
	`

	result, err := r.db.Exec(ctx, query, profileID)
	if err != nil {
		return 0, fmt.Errorf("delete unbooked slots: %w", err)
	}

	return result.RowsAffected(), nil
}

// CreateBatch вставляет пачку новых слотов
func (r *SlotRepository) CreateBatch(ctx context.Context, slots []*model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (id, tutor_profile_id, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING created_at
	`

	for _, slot := range slots {
		err := r.db.QueryRow(
			ctx, query,
			slot.ID,
			slot.TutorProfileID,
			slot.StartTime,
			slot.EndTime,
		).Scan(&slot.CreatedAt)

		if err != nil {
			return fmt.Errorf("create slot: %w", err)
		}
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/google/uuid"
)

type ReviewRepository struct {
	db base.DB
}

func NewReviewRepository(db base.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create создаёт новый отзыв (отзывы неизменяемы, обновлений нет)
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, student_id, tutor_profile_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		review.ID,
		review.BookingID,
		review.StudentID,
		review.TutorProfileID,
		review.Rating,
		review.Comment,
	).Scan(&review.CreatedAt)

	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// ExistsForBooking проверяет, есть ли уже отзыв на бронирование
func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reviews
			WHERE booking_id = $1
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, bookingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}

// StatsByProfile считает агрегат по всем отзывам профиля учителя.
// Полный пересчёт по историческим отзывам, а не скользящее среднее.
func (r *ReviewRepository) StatsByProfile(ctx context.Context, profileID uuid.UUID) (model.RatingStats, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE tutor_profile_id = $1
	`

	var stats model.RatingStats
	err := r.db.QueryRow(ctx, query, profileID).Scan(&stats.Average, &stats.Count)
	if err != nil {
		return model.RatingStats{}, fmt.Errorf("review stats: %w", err)
	}

	return stats, nil
}

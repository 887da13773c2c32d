package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/google/uuid"
)

type TutorProfileRepository struct {
	db base.DB
}

func NewTutorProfileRepository(db base.DB) *TutorProfileRepository {
	return &TutorProfileRepository{db: db}
}

// GetByUserID получает профиль учителя по ID пользователя
func (r *TutorProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	query := `
		SELECT id, user_id, headline, bio, hourly_rate, is_verified,
		       avg_rating, total_reviews, total_sessions, created_at
		FROM tutor_profiles
		WHERE user_id = $1
	`

	var profile model.TutorProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Headline,
		&profile.Bio,
		&profile.HourlyRate,
		&profile.IsVerified,
		&profile.AvgRating,
		&profile.TotalReviews,
		&profile.TotalSessions,
		&profile.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor profile by user id: %w", err)
	}

	return &profile, nil
}

// UpdateRating записывает пересчитанный рейтинг профиля
func (r *TutorProfileRepository) UpdateRating(ctx context.Context, profileID uuid.UUID, avgRating float64, totalReviews int) error {
	query := `
		UPDATE tutor_profiles
		SET avg_rating = $1, total_reviews = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, avgRating, totalReviews, profileID)
	if err != nil {
		return fmt.Errorf("update tutor rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tutor profile not found")
	}

	return nil
}

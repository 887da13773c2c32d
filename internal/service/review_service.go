package service

import (
	"context"
	"math"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService struct {
	store  storage.Store
	logger *zap.Logger
}

func NewReviewService(store storage.Store, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		store:  store,
		logger: logger,
	}
}

// CreateReview создаёт отзыв на завершённое занятие и в той же транзакции
// пересчитывает рейтинг профиля учителя. Пересчёт идёт полным агрегатом по
// всем отзывам профиля, а не скользящим средним, чтобы среднее не накапливало
// погрешность плавающей точки.
func (s *ReviewService) CreateReview(ctx context.Context, principal model.Principal, bookingID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	var review *model.Review

	err := s.store.InTx(ctx, func(tx storage.Repos) error {
		booking, err := tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return apperr.Internal("get booking", err)
		}
		if booking == nil {
			return apperr.NotFound("booking not found")
		}

		if booking.StudentID != principal.ID {
			return apperr.Authorization("this is not your booking")
		}

		if booking.Status != model.BookingStatusCompleted {
			return apperr.State("you can only review sessions that are marked as completed")
		}

		profile, err := tx.TutorProfiles().GetByUserID(ctx, booking.TutorID)
		if err != nil {
			return apperr.Internal("get tutor profile", err)
		}
		if profile == nil {
			return apperr.NotFound("tutor profile not found for this booking")
		}

		exists, err := tx.Reviews().ExistsForBooking(ctx, bookingID)
		if err != nil {
			return apperr.Internal("check existing review", err)
		}
		if exists {
			return apperr.Conflict("you have already reviewed this session")
		}

		review = &model.Review{
			ID:             uuid.New(),
			BookingID:      bookingID,
			StudentID:      principal.ID,
			TutorProfileID: profile.ID,
			Rating:         rating,
			Comment:        comment,
		}

		if err := tx.Reviews().Create(ctx, review); err != nil {
			return apperr.Internal("create review", err)
		}

		// Полный агрегат уже включает только что созданный отзыв
		stats, err := tx.Reviews().StatsByProfile(ctx, profile.ID)
		if err != nil {
			return apperr.Internal("review stats", err)
		}

		avg := math.Round(stats.Average*100) / 100
		if err := tx.TutorProfiles().UpdateRating(ctx, profile.ID, avg, stats.Count); err != nil {
			return apperr.Internal("update tutor rating", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("student_id", principal.ID.String()),
		zap.Int("rating", rating),
	)

	return review, nil
}

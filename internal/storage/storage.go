// Package storage контракты транзакционного хранилища движка бронирования.
// Реализации: internal/repository (PostgreSQL/pgx). Сервисы получают Store
// через внедрение зависимостей и не обращаются к глобальному состоянию.
package storage

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/google/uuid"
)

// Store единица работы поверх транзакционного хранилища. Функция, переданная
// в InTx, выполняется в одной транзакции: коммит целиком при успехе, полный
// откат при любой ошибке внутри. Методы-доступы вне InTx работают без транзакции.
type Store interface {
	Repos

	InTx(ctx context.Context, fn func(tx Repos) error) error
}

// Repos набор репозиториев, привязанных к одному источнику
// (пул соединений либо открытая транзакция)
type Repos interface {
	Users() UserRepository
	TutorProfiles() TutorProfileRepository
	Slots() SlotRepository
	Bookings() BookingRepository
	Reviews() ReviewRepository
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type TutorProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error)
	// UpdateRating записывает пересчитанные avg_rating и total_reviews
	UpdateRating(ctx context.Context, profileID uuid.UUID, avgRating float64, totalReviews int) error
}

type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	// GetByIDForUpdate читает слот с блокировкой строки до конца транзакции
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	// MarkBooked условная запись: успешна только если слот ещё свободен
	MarkBooked(ctx context.Context, id uuid.UUID) (bool, error)
	MarkFree(ctx context.Context, id uuid.UUID) error
	GetBookedByProfile(ctx context.Context, profileID uuid.UUID) ([]*model.AvailabilitySlot, error)
	DeleteUnbookedByProfile(ctx context.Context, profileID uuid.UUID) (int64, error)
	CreateBatch(ctx context.Context, slots []*model.AvailabilitySlot) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Complete переводит confirmed -> completed; false если статус уже не confirmed
	Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// Cancel переводит confirmed -> cancelled; false если статус уже не confirmed
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error)
	GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error)
	GetAll(ctx context.Context) ([]*model.Booking, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	// StatsByProfile агрегат (среднее + количество) по всем отзывам профиля
	StatsByProfile(ctx context.Context, profileID uuid.UUID) (model.RatingStats, error)
}

package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService struct {
	store  storage.Store
	logger *zap.Logger
}

func NewBookingService(store storage.Store, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:  store,
		logger: logger,
	}
}

// CreateBooking бронирует слот для студента. Проверка и запись is_booked
// выполняются в одной транзакции под блокировкой строки слота, поэтому из
// N одновременных попыток на один слот фиксируется ровно одна.
func (s *BookingService) CreateBooking(ctx context.Context, principal model.Principal, tutorID, slotID uuid.UUID, note string) (*model.Booking, error) {
	if principal.ID == tutorID {
		return nil, apperr.Validation("you cannot book a session with yourself")
	}

	var booking *model.Booking

	err := s.store.InTx(ctx, func(tx storage.Repos) error {
		// Читаем слот с блокировкой: конкурирующие брони этого слота
		// будут ждать на этой строке
		slot, err := tx.Slots().GetByIDForUpdate(ctx, slotID)
		if err != nil {
			return apperr.Internal("get slot", err)
		}
		if slot == nil {
			return apperr.NotFound("the selected time slot does not exist")
		}

		tutor, err := tx.Users().GetByID(ctx, tutorID)
		if err != nil {
			return apperr.Internal("get tutor", err)
		}
		if tutor == nil {
			return apperr.NotFound("tutor not found")
		}

		if slot.IsBooked {
			return apperr.Conflict("this slot has already been booked by another student")
		}

		// Условная запись: страхует от гонки даже без блокировки выше
		booked, err := tx.Slots().MarkBooked(ctx, slotID)
		if err != nil {
			return apperr.Internal("mark slot booked", err)
		}
		if !booked {
			return apperr.Conflict("this slot has already been booked by another student")
		}

		booking = &model.Booking{
			ID:        uuid.New(),
			StudentID: principal.ID,
			TutorID:   tutorID,
			SlotID:    slotID,
			Note:      note,
			Status:    model.BookingStatusConfirmed,
		}

		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return apperr.Internal("create booking", err)
		}

		slot.IsBooked = true
		booking.Slot = slot
		booking.Tutor = &model.UserSummary{
			ID:    tutor.ID,
			Name:  tutor.Name,
			Email: tutor.Email,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("student_id", principal.ID.String()),
		zap.String("tutor_id", tutorID.String()),
		zap.String("slot_id", slotID.String()),
	)

	return booking, nil
}

// CompleteBooking завершает занятие; разрешено только учителю этого бронирования
func (s *BookingService) CompleteBooking(ctx context.Context, principal model.Principal, bookingID uuid.UUID) (*model.Booking, error) {
	var booking *model.Booking

	err := s.store.InTx(ctx, func(tx storage.Repos) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return apperr.Internal("get booking", err)
		}
		if booking == nil {
			return apperr.NotFound("booking not found")
		}

		if booking.TutorID != principal.ID {
			return apperr.Authorization("only the assigned tutor can complete this booking")
		}

		if booking.Status != model.BookingStatusConfirmed {
			return apperr.State("only a confirmed booking can be completed")
		}

		now := time.Now().UTC()
		done, err := tx.Bookings().Complete(ctx, bookingID, now)
		if err != nil {
			return apperr.Internal("complete booking", err)
		}
		if !done {
			// Статус изменился между чтением и записью
			return apperr.State("only a confirmed booking can be completed")
		}

		booking.Status = model.BookingStatusCompleted
		booking.CompletedAt = &now

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking completed",
		zap.String("booking_id", bookingID.String()),
		zap.String("tutor_id", principal.ID.String()),
	)

	return booking, nil
}

// CancelBooking отменяет бронирование и освобождает слот; разрешено только
// студенту этого бронирования. Обе записи выполняются в одной транзакции.
func (s *BookingService) CancelBooking(ctx context.Context, principal model.Principal, bookingID uuid.UUID) (*model.Booking, error) {
	var booking *model.Booking

	err := s.store.InTx(ctx, func(tx storage.Repos) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return apperr.Internal("get booking", err)
		}
		if booking == nil {
			return apperr.NotFound("booking not found")
		}

		if booking.StudentID != principal.ID {
			return apperr.Authorization("only the booking's student can cancel it")
		}

		if booking.Status != model.BookingStatusConfirmed {
			return apperr.State("only a confirmed booking can be cancelled")
		}

		now := time.Now().UTC()
		done, err := tx.Bookings().Cancel(ctx, bookingID, now)
		if err != nil {
			return apperr.Internal("cancel booking", err)
		}
		if !done {
			return apperr.State("only a confirmed booking can be cancelled")
		}

		// Слот снова становится доступным для бронирования
		if err := tx.Slots().MarkFree(ctx, booking.SlotID); err != nil {
			return apperr.Internal("free slot", err)
		}

		booking.Status = model.BookingStatusCancelled
		booking.CancelledAt = &now

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("student_id", principal.ID.String()),
		zap.String("slot_id", booking.SlotID.String()),
	)

	return booking, nil
}

// GetUserBookings получает бронирования вызывающего согласно его роли
func (s *BookingService) GetUserBookings(ctx context.Context, principal model.Principal) ([]*model.Booking, error) {
	var (
		bookings []*model.Booking
		err      error
	)

	switch principal.Role {
	case model.RoleStudent:
		bookings, err = s.store.Bookings().GetByStudentID(ctx, principal.ID)
	case model.RoleTutor:
		bookings, err = s.store.Bookings().GetByTutorID(ctx, principal.ID)
	case model.RoleAdmin:
		bookings, err = s.store.Bookings().GetAll(ctx)
	default:
		return nil, apperr.Authorization("unknown role")
	}

	if err != nil {
		return nil, apperr.Internal("list bookings", err)
	}

	return bookings, nil
}

// GetBooking получает одно бронирование; доступно администратору и участникам
func (s *BookingService) GetBooking(ctx context.Context, principal model.Principal, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Internal("get booking", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}

	if principal.Role != model.RoleAdmin &&
		booking.StudentID != principal.ID &&
		booking.TutorID != principal.ID {
		return nil, apperr.Authorization("you are not a participant of this booking")
	}

	return booking, nil
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed" // Активное бронирование
	BookingStatusCompleted BookingStatus = "completed" // Занятие проведено (терминальный)
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено студентом (терминальный)
)

// IsTerminal сообщает, допускает ли статус дальнейшие переходы
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type Booking struct {
	ID          uuid.UUID     `json:"id"`
	StudentID   uuid.UUID     `json:"student_id"`
	TutorID     uuid.UUID     `json:"tutor_id"`
	SlotID      uuid.UUID     `json:"slot_id"`
	Note        string        `json:"note,omitempty"`
	Status      BookingStatus `json:"status"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Slot  *AvailabilitySlot `json:"slot,omitempty"`
	Tutor *UserSummary      `json:"tutor,omitempty"`
}

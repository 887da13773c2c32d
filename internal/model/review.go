package model

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"booking_id"`
	StudentID      uuid.UUID `json:"student_id"`
	TutorProfileID uuid.UUID `json:"tutor_profile_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
}

// RatingStats агрегат по отзывам профиля учителя (среднее + количество)
type RatingStats struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

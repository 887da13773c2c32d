package model

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilitySlot struct {
	ID             uuid.UUID `json:"id"`
	TutorProfileID uuid.UUID `json:"tutor_profile_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	IsBooked       bool      `json:"is_booked"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProposedSlot слот, предложенный учителем при обновлении расписания (ещё без ID)
type ProposedSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// RejectedSlot отклонённое предложение с причиной, возвращается вызывающему
type RejectedSlot struct {
	Index  int          `json:"index"`
	Slot   ProposedSlot `json:"slot"`
	Reason string       `json:"reason"`
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end)
func (p ProposedSlot) Overlaps(slot *AvailabilitySlot) bool {
	return p.StartTime.Before(slot.EndTime) && p.EndTime.After(slot.StartTime)
}

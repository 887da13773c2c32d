package model

import (
	"time"

	"github.com/google/uuid"
)

type TutorProfile struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Headline      string    `json:"headline"`
	Bio           string    `json:"bio"`
	HourlyRate    float64   `json:"hourly_rate"`
	IsVerified    bool      `json:"is_verified"`
	AvgRating     float64   `json:"avg_rating"`
	TotalReviews  int       `json:"total_reviews"`
	TotalSessions int       `json:"total_sessions"`
	CreatedAt     time.Time `json:"created_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTutor   UserRole = "tutor"
	RoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

type User struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// UserSummary краткая информация о пользователе для вложенных ответов
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Principal аутентифицированный вызывающий, полученный от внешнего сервиса сессий.
// Движок доверяет этому значению и не перепроверяет его сам.
type Principal struct {
	ID     uuid.UUID  `json:"id"`
	Role   UserRole   `json:"role"`
	Status UserStatus `json:"status"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin" // Администратор системы, управляет залами
)

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          uuid.UUID  `json:"id"`
	TelegramID  int64      `json:"telegram_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	GymID       *uuid.UUID `json:"gym_id"`       // nil - не привязан к залу
	ProfessorID *uuid.UUID `json:"professor_id"` // nil - нет тренера
	CreatedAt   time.Time  `json:"created_at"`
}

func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasGym reports whether the user is bound to a gym
func (u *User) HasGym() bool {
	return u.GymID != nil && *u.GymID != uuid.Nil
}

// HasProfessor reports whether the user is bound to a professor
func (u *User) HasProfessor() bool {
	return u.ProfessorID != nil && *u.ProfessorID != uuid.Nil
}

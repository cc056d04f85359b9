package model

import (
	"time"

	"github.com/google/uuid"
)

// Routine - программа тренировок, которую тренер составляет для ученика
type Routine struct {
	ID          uuid.UUID  `json:"id"`
	StudentID   uuid.UUID  `json:"student_id"`
	ProfessorID uuid.UUID  `json:"professor_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

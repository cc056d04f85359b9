package model

import (
	"time"

	"github.com/google/uuid"
)

type Gym struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"` // пустая строка - не указан
	Phone     string    `json:"phone"`
	AdminID   uuid.UUID `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

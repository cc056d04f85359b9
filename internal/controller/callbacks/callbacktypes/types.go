package callbacktypes

import (
	"github.com/Freeeeeet/gym_bot/internal/service"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	Start(telegramID int64, state UserState, data map[string]interface{})
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService         *service.UserService
	GymService          *service.GymService
	RequestService      *service.RequestService
	RelationshipService *service.RelationshipService
	MessageService      *service.MessageService
	RoutineService      *service.RoutineService
	StateManager        StateManager
	Logger              *zap.Logger
}

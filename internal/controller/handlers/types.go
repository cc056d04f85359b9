package handlers

import (
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд и диалогов
type Handlers struct {
	deps         *callbacktypes.Handler // сервисы, общие с callback-экранами
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	deps *callbacktypes.Handler,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		deps:         deps,
		stateManager: stateManager,
		logger:       logger,
	}
}

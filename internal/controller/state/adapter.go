package state

import (
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
)

// Adapter адаптирует state.Manager к интерфейсу callbacktypes.StateManager
type Adapter struct {
	sm *Manager
}

// NewAdapter создает адаптер для Manager
func NewAdapter(sm *Manager) *Adapter {
	return &Adapter{sm: sm}
}

// Start начинает диалог с начальными данными
func (a *Adapter) Start(telegramID int64, state callbacktypes.UserState, data map[string]interface{}) {
	a.sm.Start(telegramID, UserState(state), data)
}

func (a *Adapter) ClearState(telegramID int64) {
	a.sm.ClearState(telegramID)
}

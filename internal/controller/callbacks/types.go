package callbacks

import (
	"context"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// Services набор сервисов, которые нужны экранам
type Services struct {
	Users         *service.UserService
	Gyms          *service.GymService
	Requests      *service.RequestService
	Relationships *service.RelationshipService
	Messages      *service.MessageService
	Routines      *service.RoutineService
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	services Services,
	stateManager callbacktypes.StateManager,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		UserService:         services.Users,
		GymService:          services.Gyms,
		RequestService:      services.Requests,
		RelationshipService: services.Relationships,
		MessageService:      services.Messages,
		RoutineService:      services.Routines,
		StateManager:        stateManager,
		Logger:              logger,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}

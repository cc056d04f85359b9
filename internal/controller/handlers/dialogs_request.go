package handlers

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleRequestMessage создаёт заявку в зал с необязательным сообщением
func (h *Handlers) handleRequestMessage(d dialog) {
	telegramID := d.telegramID()

	gymID, ok := h.stateManager.GetUUID(telegramID, state.KeyGymID)
	role, _ := h.stateManager.GetString(telegramID, state.KeyRole)
	requestType, _ := h.stateManager.GetString(telegramID, state.KeyRequestType)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сессия устарела. Начните заново.")
		return
	}

	params := service.CreateRequestParams{
		RequestType:   model.RequestType(requestType),
		RequestedRole: model.Role(role),
		FromID:        d.user.ID,
		ToID:          gymID,
		Message:       inputText(d.update),
		ActingUserID:  d.user.ID,
	}
	if professorID, ok := h.stateManager.GetUUID(telegramID, state.KeyProfessorID); ok {
		params.ProfessorID = &professorID
	}

	if !lengthOK(strings.TrimSpace(params.Message), 0, service.RequestMessageMaxLength) {
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сообщение слишком длинное.\n\nПопробуйте ещё раз или отправьте /skip:")
		return
	}

	h.createRequest(d, params)
}

// handleInviteUsername приглашает пользователя в зал по @username.
// Роль в приглашении совпадает с ролью приглашённого
func (h *Handlers) handleInviteUsername(d dialog) {
	telegramID := d.telegramID()

	gymID, ok := h.stateManager.GetUUID(telegramID, state.KeyGymID)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сессия устарела. Начните заново.")
		return
	}

	invitee, err := h.deps.UserService.GetByUsername(d.ctx, d.update.Message.Text)
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrInvalidInput):
		h.sendError(d.ctx, d.b, d.chatID,
			"❌ Пользователь не найден. Он должен сначала запустить бота.\n\nВведите другой @username или /cancel:")
		return
	case err != nil:
		h.stateManager.ClearState(telegramID)
		h.replyError(d.ctx, d.b, d.chatID, err, "find invitee")
		return
	case invitee.IsAdmin():
		h.sendError(d.ctx, d.b, d.chatID, "❌ Администратора нельзя пригласить в зал.\n\nВведите другой @username или /cancel:")
		return
	}

	h.createRequest(d, service.CreateRequestParams{
		RequestType:   model.RequestTypeGymToPerson,
		RequestedRole: invitee.Role,
		FromID:        gymID,
		ToID:          invitee.ID,
		ActingUserID:  d.user.ID,
	})
}

func (h *Handlers) createRequest(d dialog, params service.CreateRequestParams) {
	req, err := h.deps.RequestService.CreateRequest(d.ctx, params)
	h.stateManager.ClearState(d.telegramID())
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "create request")
		return
	}

	h.logger.Info("Request created via bot",
		zap.String("request_id", req.ID.String()),
		zap.String("type", string(req.RequestType)),
		zap.Int64("telegram_id", d.telegramID()))

	views, err := common.LoadRequestViews(d.ctx, h.deps, []*model.GymRequest{req})
	if err != nil {
		h.logger.Warn("Failed to load created request", zap.Error(err))
		h.sendMessage(d.ctx, d.b, d.chatID, "✅ Заявка отправлена")
		return
	}
	view := views[0]

	text, kb := common.BuildRequestScreen(view, d.user)
	h.sendScreen(d.ctx, d.b, d.chatID, "✅ Заявка отправлена\n\n"+text, kb)

	for _, recipient := range h.counterparts(d, view) {
		text, kb := common.BuildRequestScreen(view, recipient)
		h.notify(d.ctx, d.b, recipient, "🔔 Новая заявка\n\n"+text, kb)
	}
}

// counterparts - кто должен ответить на заявку: приглашённый или
// администратор зала и названный тренер
func (h *Handlers) counterparts(d dialog, view common.RequestView) []*model.User {
	var ids []uuid.UUID
	if view.Request.RequestType == model.RequestTypeGymToPerson {
		ids = append(ids, view.Request.PersonID())
	} else {
		if view.Gym != nil {
			ids = append(ids, view.Gym.AdminID)
		}
		if view.Request.ProfessorID != nil {
			ids = append(ids, *view.Request.ProfessorID)
		}
	}

	var users []*model.User
	for _, id := range ids {
		if id == d.user.ID {
			continue
		}
		user, err := h.deps.UserService.GetByID(d.ctx, id)
		if err != nil {
			h.logger.Warn("Failed to load request counterpart", zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		users = append(users, user)
	}
	return users
}

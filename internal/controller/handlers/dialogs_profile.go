package handlers

import (
	"errors"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/profile"
	"github.com/Freeeeeet/gym_bot/internal/model"
)

// handleEmail сохраняет email. /skip удаляет его
func (h *Handlers) handleEmail(d dialog) {
	user, err := h.deps.UserService.UpdateEmail(d.ctx, d.user.ID, inputText(d.update))
	if errors.Is(err, model.ErrInvalidInput) {
		h.sendError(d.ctx, d.b, d.chatID, "❌ Некорректный email. Пример: name@example.com\n\nПопробуйте ещё раз или /skip:")
		return
	}

	h.stateManager.ClearState(d.telegramID())
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "update email")
		return
	}

	text, kb, err := profile.BuildProfile(d.ctx, h.deps, user)
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "load profile")
		return
	}
	h.sendScreen(d.ctx, d.b, d.chatID, "✅ Email сохранён\n\n"+text, kb)
}

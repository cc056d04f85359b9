package handlers

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"go.uber.org/zap"
)

// handleComposeMessage отправляет сообщение выбранному пользователю
func (h *Handlers) handleComposeMessage(d dialog) {
	recipientID, ok := h.stateManager.GetUUID(d.telegramID(), state.KeyRecipientID)
	if !ok {
		h.stateManager.ClearState(d.telegramID())
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сессия устарела. Начните заново.")
		return
	}

	msg, err := h.deps.MessageService.Send(d.ctx, d.user.ID, recipientID, d.update.Message.Text)
	if errors.Is(err, model.ErrInvalidInput) {
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сообщение пустое или слишком длинное.\n\nПопробуйте ещё раз:")
		return
	}

	h.stateManager.ClearState(d.telegramID())
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "send message")
		return
	}

	h.logger.Info("Message sent via bot",
		zap.String("message_id", msg.ID.String()),
		zap.Int64("telegram_id", d.telegramID()))

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("💬 Переписка", common.Data(common.CbMsgConv, recipientID))).
		AddBackToMainButton().
		Build()
	h.sendScreen(d.ctx, d.b, d.chatID, "✅ Сообщение отправлено", kb)

	recipient, err := h.deps.UserService.GetByID(d.ctx, recipientID)
	if err != nil {
		h.logger.Warn("Failed to load recipient", zap.String("user_id", recipientID.String()), zap.Error(err))
		return
	}

	notice := keyboard.NewBuilder().
		Row(keyboard.Button("📩 Прочитать", common.Data(common.CbMsgRead, msg.ID))).
		Build()
	h.notify(d.ctx, d.b, recipient, fmt.Sprintf("✉️ Новое сообщение от %s", formatting.FormatUser(d.user)), notice)
}

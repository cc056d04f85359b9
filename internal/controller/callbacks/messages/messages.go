package messages

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleInbox показывает входящие сообщения
func HandleInbox(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := BuildInbox(hc.Ctx, h, hc.User)
		if err != nil {
			common.HandleError(hc, err, "load inbox")
			return
		}
		hc.Show(text, kb)
	})
}

// BuildInbox загружает входящие и формирует экран. Используется и командой /inbox
func BuildInbox(ctx context.Context, h *callbacktypes.Handler, user *model.User) (string, *models.InlineKeyboardMarkup, error) {
	inbox, err := h.MessageService.Inbox(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	unread, err := h.MessageService.CountUnread(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	text, kb := common.BuildInboxScreen(inbox, unread)
	return text, kb, nil
}

// HandleMessageRead открывает сообщение и отмечает его прочитанным
func HandleMessageRead(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, messageID uuid.UUID) {
		msg, err := h.MessageService.GetMessage(hc.Ctx, messageID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "get message")
			return
		}

		if !msg.IsRead && msg.ToUserID == hc.User.ID {
			if err := h.MessageService.MarkRead(hc.Ctx, msg.ID, hc.User.ID); err != nil {
				// Сообщение всё равно показываем
				h.Logger.Warn("Failed to mark message read",
					zap.String("message_id", msg.ID.String()),
					zap.Error(err))
			} else {
				msg.IsRead = true
			}
		}

		text, kb := common.BuildMessageScreen(msg)
		hc.Show(text, kb)
	})
}

// HandleMessageWrite начинает диалог отправки сообщения пользователю
func HandleMessageWrite(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, recipientID uuid.UUID) {
		if recipientID == hc.User.ID {
			common.HandleError(hc, fmt.Errorf("%w: message to self", model.ErrInvalidInput), "write message")
			return
		}

		recipient, err := h.UserService.GetByID(hc.Ctx, recipientID)
		if err != nil {
			common.HandleError(hc, err, "get recipient")
			return
		}

		hc.StartDialog(callbacktypes.UserState(state.StateComposingMessage), map[string]interface{}{
			state.KeyRecipientID: recipient.ID,
		})

		header := fmt.Sprintf("✉️ <b>Сообщение для %s</b>\n\n", formatting.FormatUser(recipient))
		text, kb := common.BuildPromptScreen(header+common.PromptChatMessage, common.CbInbox)
		hc.Show(text, kb)
	})
}

// HandleConversation показывает переписку с пользователем
func HandleConversation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, otherID uuid.UUID) {
		other, err := h.UserService.GetByID(hc.Ctx, otherID)
		if err != nil {
			common.HandleError(hc, err, "get user")
			return
		}

		conversation, err := h.MessageService.Conversation(hc.Ctx, hc.User.ID, other.ID)
		if err != nil {
			common.HandleError(hc, err, "load conversation")
			return
		}

		text, kb := common.BuildConversationScreen(other, conversation, hc.User.ID)
		hc.Show(text, kb)
	})
}

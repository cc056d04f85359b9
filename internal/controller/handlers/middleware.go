package handlers

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// skipCommand пропускает необязательный шаг диалога
const skipCommand = "/skip"

// requireUser проверяет что пользователь существует
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	user, err := h.deps.UserService.GetByTelegramID(ctx, telegramID)

	if errors.Is(err, model.ErrNotFound) {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Пользователь не найден. Используйте /start для регистрации.")
		return nil, false
	}
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	return user, true
}

// requireAdmin проверяет что пользователь - администратор системы
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return nil, false
	}

	if !user.IsAdmin() {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotAnAdmin))
		return nil, false
	}

	return user, true
}

// replyError логирует ошибку операции и отправляет пользователю понятный текст
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("chat_id", chatID),
		zap.Error(err),
	}
	if common.IsUserError(err) {
		h.logger.Info("Operation rejected", fields...)
	} else {
		h.logger.Error("Operation failed", fields...)
	}

	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет HTML сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendScreen(ctx, b, chatID, text, nil)
}

// sendScreen отправляет экран с клавиатурой. Возвращает nil при ошибке
func (h *Handlers) sendScreen(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) *models.Message {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	msg, err := b.SendMessage(ctx, params)
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return nil
	}
	return msg
}

// notify отправляет экран другому пользователю. Ошибка только логируется
func (h *Handlers) notify(ctx context.Context, b *bot.Bot, user *model.User, text string, kb *models.InlineKeyboardMarkup) {
	if user == nil || user.TelegramID == 0 {
		return
	}
	if h.sendScreen(ctx, b, user.TelegramID, text, kb) == nil {
		h.logger.Warn("Failed to notify user", zap.String("user_id", user.ID.String()))
	}
}

// inputText возвращает введённый текст. /skip означает пустое значение
func inputText(update *models.Update) string {
	if update.Message.Text == skipCommand {
		return ""
	}
	return update.Message.Text
}

func lengthOK(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

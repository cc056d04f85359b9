package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseUUIDFromCallback извлекает uuid из callback data
// Например: "gym_view:1b4e28ba-2fa1-11d2-883f-0016d3cca427" -> uuid
func ParseUUIDFromCallback(data string) (uuid.UUID, error) {
	_, raw, ok := strings.Cut(data, ":")
	if !ok || raw == "" {
		return uuid.Nil, ErrInvalidFormat
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return id, nil
}

// ParseIntFromCallback извлекает число из callback data
// Например: "gyms_page:2" -> 2
func ParseIntFromCallback(data string) (int, error) {
	_, raw, ok := strings.Cut(data, ":")
	if !ok {
		return 0, ErrInvalidFormat
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ErrInvalidFormat
	}
	return n, nil
}

// Data собирает callback data из префикса и id
func Data(prefix string, id uuid.UUID) string {
	return prefix + id.String()
}

// IsMessageNotModifiedError проверяет ошибку Telegram о неизменённом сообщении
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

package common

import (
	"context"
	"errors"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WithUser создаёт HandlerContext и загружает пользователя
// При ошибке автоматически отвечает пользователю
func WithUser(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.LoadUser(); err != nil {
		HandleError(hc, err, "load user")
		return
	}

	handler(hc)
}

// WithProfessor как WithUser, но только для тренеров
func WithProfessor(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireProfessor(); err != nil {
		HandleError(hc, err, "professor check")
		return
	}

	handler(hc)
}

// WithID разбирает uuid из callback data и загружает пользователя
func WithID(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext, uuid.UUID),
) {
	id, err := ParseUUIDFromCallback(callback.Data)
	if err != nil {
		h.Logger.Warn("Bad callback data",
			zap.String("data", callback.Data),
			zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, ErrorMessage(err))
		return
	}

	WithUser(ctx, b, callback, h, func(hc *HandlerContext) {
		handler(hc, id)
	})
}

// HandleError логирует ошибку и показывает alert. Экран остаётся прежним
func HandleError(hc *HandlerContext, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.String("data", hc.Callback.Data),
		zap.Error(err),
	}

	if IsUserError(err) {
		hc.Handler.Logger.Info("Operation rejected", fields...)
	} else {
		hc.Handler.Logger.Error("Operation failed", fields...)
	}
	hc.AnswerAlert(ErrorMessage(err))
}

// IsUserError true для ошибок, вызванных действиями пользователя, а не сбоем
func IsUserError(err error) bool {
	for _, target := range []error{
		model.ErrInvalidState,
		model.ErrDuplicatePending,
		model.ErrForbidden,
		model.ErrInvalidInput,
		model.ErrNotFound,
		ErrNotAnAdmin,
		ErrNotProfessor,
		ErrInvalidFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}

func logNotifyError(hc *HandlerContext, user *model.User, err error) {
	hc.Handler.Logger.Warn("Failed to notify user",
		zap.String("user_id", user.ID.String()),
		zap.Int64("telegram_id", user.TelegramID),
		zap.Error(err))
}

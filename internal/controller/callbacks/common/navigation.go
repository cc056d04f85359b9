package common

import (
	"context"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleBackToMain возвращает пользователя к главному меню.
// Незаконченный диалог сбрасывается
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithUser(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()

		data, err := LoadMainMenu(hc.Ctx, h, hc.User)
		if err != nil {
			HandleError(hc, err, "load main menu")
			return
		}

		text, kb := BuildMainMenu(data)
		hc.Show(text, kb)
	})
}

// HandleNoop отвечает на нажатие неактивной кнопки (номер страницы)
func HandleNoop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, _ *callbacktypes.Handler) {
	AnswerCallback(ctx, b, callback.ID, "")
}

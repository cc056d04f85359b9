package gyms

import (
	"context"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleGymsPage показывает страницу списка всех залов
func HandleGymsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	page, err := common.ParseIntFromCallback(callback.Data)
	if err != nil {
		h.Logger.Warn("Bad page number", zap.String("data", callback.Data), zap.Error(err))
		page = 0
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		gyms, err := h.GymService.ListGyms(hc.Ctx)
		if err != nil {
			common.HandleError(hc, err, "list gyms")
			return
		}

		text, kb := common.BuildGymListScreen(gyms, page, common.CbGymsPage, hc.User.IsAdmin())
		hc.Show(text, kb)
	})
}

// HandleMyGyms показывает залы, которыми управляет администратор
func HandleMyGyms(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	page, err := common.ParseIntFromCallback(callback.Data)
	if err != nil {
		page = 0
	}

	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := hc.RequireAdmin(); err != nil {
			common.HandleError(hc, err, "my gyms")
			return
		}

		gyms, err := h.GymService.ListAdminGyms(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "list admin gyms")
			return
		}

		text, kb := common.BuildGymListScreen(gyms, page, common.CbMyGyms, true)
		hc.Show(text, kb)
	})
}

// HandleNewGym начинает диалог создания зала
func HandleNewGym(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := hc.RequireAdmin(); err != nil {
			common.HandleError(hc, err, "new gym")
			return
		}

		hc.StartDialog(callbacktypes.UserState(state.StateCreateGymName), nil)

		text, kb := common.BuildPromptScreen(common.PromptGymName, common.CbBackToMain)
		hc.Show(text, kb)
	})
}


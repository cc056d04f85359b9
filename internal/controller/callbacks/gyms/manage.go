package gyms

import (
	"context"
	"html"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleGymEdit показывает меню редактирования зала
func HandleGymEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withManagedGym(ctx, b, callback, h, func(hc *common.HandlerContext, gym *model.Gym) {
		text, kb := common.BuildGymEditScreen(gym)
		hc.Show(text, kb)
	})
}

// HandleGymEditName начинает ввод нового названия
func HandleGymEditName(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	startEditDialog(ctx, b, callback, h, state.StateEditGymName, common.PromptEditGymName)
}

// HandleGymEditAddress начинает ввод нового адреса
func HandleGymEditAddress(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	startEditDialog(ctx, b, callback, h, state.StateEditGymAddress, common.PromptEditGymAddress)
}

// HandleGymEditPhone начинает ввод нового телефона
func HandleGymEditPhone(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	startEditDialog(ctx, b, callback, h, state.StateEditGymPhone, common.PromptEditGymPhone)
}

func startEditDialog(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	dialog state.UserState,
	prompt string,
) {
	withManagedGym(ctx, b, callback, h, func(hc *common.HandlerContext, gym *model.Gym) {
		hc.StartDialog(callbacktypes.UserState(dialog), map[string]interface{}{
			state.KeyGymID: gym.ID,
		})

		text, kb := common.BuildPromptScreen(prompt, common.Data(common.CbGymEdit, gym.ID))
		hc.Show(text, kb)
	})
}

// HandleGymDelete спрашивает подтверждение удаления
func HandleGymDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withManagedGym(ctx, b, callback, h, func(hc *common.HandlerContext, gym *model.Gym) {
		text, kb := common.BuildGymDeleteScreen(gym)
		hc.Show(text, kb)
	})
}

// HandleGymDeleteConfirm удаляет зал и возвращает к списку своих залов
func HandleGymDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withManagedGym(ctx, b, callback, h, func(hc *common.HandlerContext, gym *model.Gym) {
		if err := h.GymService.DeleteGym(hc.Ctx, gym.ID, hc.User.ID); err != nil {
			common.HandleError(hc, err, "delete gym")
			return
		}

		h.Logger.Info("Gym deleted via bot",
			zap.String("gym_id", gym.ID.String()),
			zap.Int64("telegram_id", hc.TelegramID))

		gyms, err := h.GymService.ListAdminGyms(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "list admin gyms")
			return
		}

		text, kb := common.BuildGymListScreen(gyms, 0, common.CbMyGyms, true)
		if err := hc.EditMessage("🗑 Зал удалён\n\n"+text, kb); err != nil {
			common.HandleError(hc, err, "edit message")
			return
		}
		hc.Answer("🗑 Зал удалён")
	})
}

func escape(s string) string {
	return html.EscapeString(s)
}

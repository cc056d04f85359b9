package profile

import (
	"context"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleProfile показывает профиль пользователя
func HandleProfile(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := BuildProfile(hc.Ctx, h, hc.User)
		if err != nil {
			common.HandleError(hc, err, "load profile")
			return
		}
		hc.Show(text, kb)
	})
}

// BuildProfile разрешает зал и тренера пользователя и формирует экран профиля
func BuildProfile(ctx context.Context, h *callbacktypes.Handler, user *model.User) (string, *models.InlineKeyboardMarkup, error) {
	gym, err := h.RelationshipService.ResolveGymName(ctx, user)
	if err != nil {
		return "", nil, err
	}

	professor, err := h.RelationshipService.ResolveProfessor(ctx, user)
	if err != nil {
		return "", nil, err
	}

	text, kb := common.BuildProfileScreen(user, gym, professor)
	return text, kb, nil
}

// HandleSetEmail начинает ввод email
func HandleSetEmail(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.StartDialog(callbacktypes.UserState(state.StateEnteringEmail), nil)

		text, kb := common.BuildPromptScreen(common.PromptEmail, common.CbProfile)
		hc.Show(text, kb)
	})
}

// HandleBecomeProfessor спрашивает подтверждение смены роли
func HandleBecomeProfessor(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if hc.User.IsProfessor() {
			hc.AnswerAlert("🏋️ Вы уже тренер")
			return
		}
		if hc.User.IsAdmin() {
			common.HandleError(hc, model.ErrForbidden, "become professor")
			return
		}

		text, kb := common.BuildBecomeProfessorScreen()
		hc.Show(text, kb)
	})
}

// HandleConfirmProfessor меняет роль на тренера и показывает профиль
func HandleConfirmProfessor(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		user, err := h.UserService.BecomeProfessor(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "become professor")
			return
		}

		h.Logger.Info("User became professor via bot",
			zap.String("user_id", user.ID.String()),
			zap.Int64("telegram_id", hc.TelegramID))

		text, kb, err := BuildProfile(hc.Ctx, h, user)
		if err != nil {
			common.HandleError(hc, err, "load profile")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "edit message")
			return
		}
		hc.Answer("🎓 Теперь вы тренер")
	})
}

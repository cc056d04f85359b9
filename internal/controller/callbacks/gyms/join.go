package gyms

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// HandleGymJoin показывает варианты вступления в зал
func HandleGymJoin(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, gymID uuid.UUID) {
		if hc.User.IsAdmin() {
			common.HandleError(hc, model.ErrForbidden, "join gym")
			return
		}

		gym, err := h.GymService.GetGym(hc.Ctx, gymID)
		if err != nil {
			common.HandleError(hc, err, "get gym")
			return
		}

		var professors []*model.User
		if !hc.User.IsProfessor() {
			professors, err = h.UserService.ListGymMembers(hc.Ctx, gym.ID, model.RoleProfessor)
			if err != nil {
				common.HandleError(hc, err, "list professors")
				return
			}
		}

		text, kb := common.BuildJoinGymScreen(gym, hc.User, professors)
		hc.Show(text, kb)
	})
}

// HandleJoinPlain начинает заявку в зал без тренера (или заявку тренера)
func HandleJoinPlain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, gymID uuid.UUID) {
		gym, err := h.GymService.GetGym(hc.Ctx, gymID)
		if err != nil {
			common.HandleError(hc, err, "get gym")
			return
		}

		startRequestDialog(hc, gym, nil)
	})
}

// HandleJoinWith начинает заявку ученика к тренеру. Зал берётся у тренера
func HandleJoinWith(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, professorID uuid.UUID) {
		professor, err := h.UserService.GetByID(hc.Ctx, professorID)
		if err != nil {
			common.HandleError(hc, err, "get professor")
			return
		}
		if !professor.IsProfessor() || !professor.HasGym() {
			common.HandleError(hc, fmt.Errorf("%w: professor has no gym", model.ErrInvalidInput), "join with professor")
			return
		}

		gym, err := h.GymService.GetGym(hc.Ctx, *professor.GymID)
		if err != nil {
			common.HandleError(hc, err, "get gym")
			return
		}

		startRequestDialog(hc, gym, professor)
	})
}

func startRequestDialog(hc *common.HandlerContext, gym *model.Gym, professor *model.User) {
	if hc.User.IsAdmin() {
		common.HandleError(hc, model.ErrForbidden, "join gym")
		return
	}

	data := map[string]interface{}{
		state.KeyGymID:       gym.ID,
		state.KeyRequestType: string(model.RequestTypePersonToGym),
		state.KeyRole:        string(hc.User.Role),
	}
	header := fmt.Sprintf("📝 <b>Заявка в %s</b>\n\n", escape(gym.Name))
	if professor != nil {
		data[state.KeyProfessorID] = professor.ID
		header += fmt.Sprintf("🏋️ Тренер: %s\n\n", escape(professor.DisplayName))
	}

	hc.StartDialog(callbacktypes.UserState(state.StateEnteringRequestMessage), data)

	text, kb := common.BuildPromptScreen(header+common.PromptRequestMessage, common.Data(common.CbGymView, gym.ID))
	hc.Show(text, kb)
}

// HandleGymInvite начинает приглашение пользователя в зал
func HandleGymInvite(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withManagedGym(ctx, b, callback, h, func(hc *common.HandlerContext, gym *model.Gym) {
		hc.StartDialog(callbacktypes.UserState(state.StateEnteringInviteUsername), map[string]interface{}{
			state.KeyGymID: gym.ID,
		})

		text, kb := common.BuildPromptScreen(common.PromptInviteUsername, common.Data(common.CbGymView, gym.ID))
		hc.Show(text, kb)
	})
}

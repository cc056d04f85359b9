package gyms

import (
	"context"
	"errors"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// HandleGymView показывает карточку зала
func HandleGymView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, gymID uuid.UUID) {
		gym, err := h.GymService.GetGym(hc.Ctx, gymID)
		if err != nil {
			common.HandleError(hc, err, "get gym")
			return
		}

		admin, err := h.UserService.GetByID(hc.Ctx, gym.AdminID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			common.HandleError(hc, err, "get gym admin")
			return
		}

		data := common.GymScreenData{
			Gym:       gym,
			Viewer:    hc.User,
			Admin:     admin,
			CanManage: canManage(gym, hc.User),
		}
		if data.CanManage {
			data.PendingCount, err = h.RequestService.CountGymPending(hc.Ctx, gym.ID)
			if err != nil {
				common.HandleError(hc, err, "count gym requests")
				return
			}
		}

		text, kb := common.BuildGymScreen(data)
		hc.Show(text, kb)
	})
}

// HandleGymMembers показывает тренеров и учеников зала
func HandleGymMembers(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withManagedGym(ctx, b, callback, h, func(hc *common.HandlerContext, gym *model.Gym) {
		professors, err := h.UserService.ListGymMembers(hc.Ctx, gym.ID, model.RoleProfessor)
		if err != nil {
			common.HandleError(hc, err, "list professors")
			return
		}
		students, err := h.UserService.ListGymMembers(hc.Ctx, gym.ID, model.RoleStudent)
		if err != nil {
			common.HandleError(hc, err, "list students")
			return
		}

		text, kb := common.BuildGymMembersScreen(gym, professors, students)
		hc.Show(text, kb)
	})
}

// HandleGymRequests показывает ожидающие заявки зала
func HandleGymRequests(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withManagedGym(ctx, b, callback, h, func(hc *common.HandlerContext, gym *model.Gym) {
		pending := model.RequestStatusPending
		requests, err := h.RequestService.GetGymRequests(hc.Ctx, gym.ID, &pending)
		if err != nil {
			common.HandleError(hc, err, "list gym requests")
			return
		}

		views, err := common.LoadRequestViews(hc.Ctx, h, requests)
		if err != nil {
			common.HandleError(hc, err, "load requests")
			return
		}

		text, kb := common.BuildRequestListScreen("Заявки: "+gym.Name, views, false, common.Data(common.CbGymView, gym.ID))
		hc.Show(text, kb)
	})
}

func canManage(gym *model.Gym, user *model.User) bool {
	return gym.AdminID == user.ID || user.IsAdmin()
}

// withManagedGym загружает зал из callback data и проверяет право управления
func withManagedGym(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*common.HandlerContext, *model.Gym),
) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, gymID uuid.UUID) {
		gym, err := h.GymService.GetGym(hc.Ctx, gymID)
		if err != nil {
			common.HandleError(hc, err, "get gym")
			return
		}
		if !canManage(gym, hc.User) {
			common.HandleError(hc, model.ErrForbidden, "manage gym")
			return
		}

		handler(hc, gym)
	})
}

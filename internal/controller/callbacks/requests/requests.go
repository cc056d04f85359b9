package requests

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleRequests показывает ожидающие заявки пользователя
func HandleRequests(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	pending := model.RequestStatusPending
	showList(ctx, b, callback, h, &pending)
}

// HandleRequestsAll показывает всю историю заявок
func HandleRequestsAll(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	showList(ctx, b, callback, h, nil)
}

func showList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, status *model.RequestStatus) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := BuildList(hc.Ctx, h, hc.User, status)
		if err != nil {
			common.HandleError(hc, err, "list requests")
			return
		}
		hc.Show(text, kb)
	})
}

// BuildList загружает заявки пользователя и формирует экран списка.
// Используется и командой /requests
func BuildList(ctx context.Context, h *callbacktypes.Handler, user *model.User, status *model.RequestStatus) (string, *models.InlineKeyboardMarkup, error) {
	requests, err := common.CollectRequests(ctx, h, user, status)
	if err != nil {
		return "", nil, err
	}

	views, err := common.LoadRequestViews(ctx, h, requests)
	if err != nil {
		return "", nil, err
	}

	title := "Заявки"
	if status == nil {
		title = "Все заявки"
	}
	text, kb := common.BuildRequestListScreen(title, views, status == nil, common.CbBackToMain)
	return text, kb, nil
}

// HandleRequestView показывает карточку заявки
func HandleRequestView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, requestID uuid.UUID) {
		view, err := loadView(hc, requestID)
		if err != nil {
			common.HandleError(hc, err, "get request")
			return
		}

		text, kb := common.BuildRequestScreen(view, hc.User)
		hc.Show(text, kb)
	})
}

// HandleRequestAccept принимает заявку и уведомляет другую сторону
func HandleRequestAccept(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, requestID uuid.UUID) {
		view, err := loadView(hc, requestID)
		if err != nil {
			common.HandleError(hc, err, "load request")
			return
		}
		if err := view.CheckAccept(hc.User); err != nil {
			common.HandleError(hc, err, "accept request")
			return
		}

		if err := h.RequestService.Accept(hc.Ctx, requestID, hc.User.ID); err != nil {
			common.HandleError(hc, err, "accept request")
			return
		}

		h.Logger.Info("Request accepted via bot",
			zap.String("request_id", requestID.String()),
			zap.Int64("telegram_id", hc.TelegramID))

		afterDecision(hc, requestID, "✅ Заявка принята")
	})
}

// HandleRequestReject отклоняет заявку. Автор заявки так её отзывает
func HandleRequestReject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, requestID uuid.UUID) {
		if err := h.RequestService.Reject(hc.Ctx, requestID, hc.User.ID); err != nil {
			common.HandleError(hc, err, "reject request")
			return
		}

		h.Logger.Info("Request rejected via bot",
			zap.String("request_id", requestID.String()),
			zap.Int64("telegram_id", hc.TelegramID))

		afterDecision(hc, requestID, "🚫 Заявка отклонена")
	})
}

// afterDecision перерисовывает заявку с новым статусом и уведомляет участников
func afterDecision(hc *common.HandlerContext, requestID uuid.UUID, answer string) {
	view, err := loadView(hc, requestID)
	if err != nil {
		common.HandleError(hc, err, "reload request")
		return
	}

	if view.Request.IsRejected() && view.IsAuthor(hc.User) {
		answer = "↩️ Заявка отозвана"
	}

	text, kb := common.BuildRequestScreen(view, hc.User)
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "edit message")
		return
	}
	hc.Answer(answer)

	notifyParties(hc, view)
}

func loadView(hc *common.HandlerContext, requestID uuid.UUID) (common.RequestView, error) {
	h := hc.Handler

	req, err := h.RequestService.GetRequest(hc.Ctx, requestID)
	if err != nil {
		return common.RequestView{}, err
	}

	views, err := common.LoadRequestViews(hc.Ctx, h, []*model.GymRequest{req})
	if err != nil {
		return common.RequestView{}, err
	}
	view := views[0]

	if !canSee(view, hc.User) {
		return common.RequestView{}, fmt.Errorf("%w: request %s", model.ErrForbidden, requestID)
	}
	return view, nil
}

func canSee(view common.RequestView, user *model.User) bool {
	if user.IsAdmin() || view.Request.Involves(user.ID) {
		return true
	}
	return view.Gym != nil && view.Gym.AdminID == user.ID
}

// notifyParties сообщает о решении всем участникам, кроме того, кто решал
func notifyParties(hc *common.HandlerContext, view common.RequestView) {
	text := decisionText(view)

	recipients := []*model.User{view.Person, view.Professor}
	if view.Gym != nil {
		admin, err := hc.Handler.UserService.GetByID(hc.Ctx, view.Gym.AdminID)
		if err == nil {
			recipients = append(recipients, admin)
		}
	}

	notified := map[uuid.UUID]bool{hc.User.ID: true}
	for _, u := range recipients {
		if u == nil || notified[u.ID] {
			continue
		}
		notified[u.ID] = true
		hc.Notify(u, text)
	}
}

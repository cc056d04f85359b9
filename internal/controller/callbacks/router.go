package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/gyms"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/messages"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/profile"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/requests"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/routines"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам.
// Все префиксы заканчиваются на ':', поэтому порядок case не важен
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Common Navigation =====
	case data == common.CbBackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == common.CbNoop:
		common.HandleNoop(ctx, b, callback, h)

	// ===== Profile =====
	case data == common.CbProfile:
		profile.HandleProfile(ctx, b, callback, h)
	case data == common.CbSetEmail:
		profile.HandleSetEmail(ctx, b, callback, h)
	case data == common.CbBecomeProfessor:
		profile.HandleBecomeProfessor(ctx, b, callback, h)
	case data == common.CbConfirmProfessor:
		profile.HandleConfirmProfessor(ctx, b, callback, h)

	// ===== Gyms =====
	case strings.HasPrefix(data, common.CbGymsPage):
		gyms.HandleGymsPage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbMyGyms):
		gyms.HandleMyGyms(ctx, b, callback, h)
	case data == common.CbNewGym:
		gyms.HandleNewGym(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymView):
		gyms.HandleGymView(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymJoin):
		gyms.HandleGymJoin(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbJoinPlain):
		gyms.HandleJoinPlain(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbJoinWith):
		gyms.HandleJoinWith(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymInvite):
		gyms.HandleGymInvite(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymMembers):
		gyms.HandleGymMembers(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymRequests):
		gyms.HandleGymRequests(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymEdit):
		gyms.HandleGymEdit(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymEditName):
		gyms.HandleGymEditName(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymEditAddr):
		gyms.HandleGymEditAddress(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymEditPhone):
		gyms.HandleGymEditPhone(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymDelete):
		gyms.HandleGymDelete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbGymDeleteOK):
		gyms.HandleGymDeleteConfirm(ctx, b, callback, h)

	// ===== Membership Requests =====
	case data == common.CbRequests:
		requests.HandleRequests(ctx, b, callback, h)
	case data == common.CbRequestsAll:
		requests.HandleRequestsAll(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbReqView):
		requests.HandleRequestView(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbReqAccept):
		requests.HandleRequestAccept(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbReqReject):
		requests.HandleRequestReject(ctx, b, callback, h)

	// ===== Messages =====
	case data == common.CbInbox:
		messages.HandleInbox(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbMsgRead):
		messages.HandleMessageRead(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbMsgWrite):
		messages.HandleMessageWrite(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbMsgConv):
		messages.HandleConversation(ctx, b, callback, h)

	// ===== Routines =====
	case data == common.CbRoutines:
		routines.HandleRoutines(ctx, b, callback, h)
	case data == common.CbMyStudents:
		routines.HandleMyStudents(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbStudentRoutines):
		routines.HandleStudentRoutines(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRoutineView):
		routines.HandleRoutineView(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRoutineNew):
		routines.HandleRoutineNew(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRoutineEdit):
		routines.HandleRoutineEdit(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRoutineDelete):
		routines.HandleRoutineDelete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbRoutineDeleteOK):
		routines.HandleRoutineDeleteConfirm(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}

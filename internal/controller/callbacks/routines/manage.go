package routines

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleRoutineView показывает программу ученику или её автору
func HandleRoutineView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, routineID uuid.UUID) {
		routine, err := h.RoutineService.GetRoutine(hc.Ctx, routineID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "get routine")
			return
		}

		student, err := optionalUser(hc, routine.StudentID)
		if err != nil {
			common.HandleError(hc, err, "get student")
			return
		}
		professor, err := optionalUser(hc, routine.ProfessorID)
		if err != nil {
			common.HandleError(hc, err, "get professor")
			return
		}

		text, kb := common.BuildRoutineScreen(routine, hc.User, student, professor)
		hc.Show(text, kb)
	})
}

// HandleRoutineNew начинает создание программы для ученика
func HandleRoutineNew(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, studentID uuid.UUID) {
		student, err := ownStudent(hc, studentID)
		if err != nil {
			common.HandleError(hc, err, "new routine")
			return
		}

		hc.StartDialog(callbacktypes.UserState(state.StateCreateRoutineName), map[string]interface{}{
			state.KeyStudentID: student.ID,
		})

		header := fmt.Sprintf("🏃 Ученик: %s\n\n", formatting.FormatUser(student))
		text, kb := common.BuildPromptScreen(header+common.PromptRoutineName, common.Data(common.CbStudentRoutines, student.ID))
		hc.Show(text, kb)
	})
}

// HandleRoutineEdit начинает замену описания программы
func HandleRoutineEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withAuthoredRoutine(ctx, b, callback, h, func(hc *common.HandlerContext, routine *model.Routine) {
		hc.StartDialog(callbacktypes.UserState(state.StateEditRoutineDescription), map[string]interface{}{
			state.KeyRoutineID: routine.ID,
		})

		text, kb := common.BuildPromptScreen(common.PromptEditRoutineDescription, common.Data(common.CbRoutineView, routine.ID))
		hc.Show(text, kb)
	})
}

// HandleRoutineDelete спрашивает подтверждение удаления
func HandleRoutineDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withAuthoredRoutine(ctx, b, callback, h, func(hc *common.HandlerContext, routine *model.Routine) {
		text, kb := common.BuildRoutineDeleteScreen(routine)
		hc.Show(text, kb)
	})
}

// HandleRoutineDeleteConfirm удаляет программу и возвращает к программам ученика
func HandleRoutineDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withAuthoredRoutine(ctx, b, callback, h, func(hc *common.HandlerContext, routine *model.Routine) {
		if err := h.RoutineService.DeleteRoutine(hc.Ctx, routine.ID, hc.User.ID); err != nil {
			common.HandleError(hc, err, "delete routine")
			return
		}

		h.Logger.Info("Routine deleted via bot",
			zap.String("routine_id", routine.ID.String()),
			zap.Int64("telegram_id", hc.TelegramID))

		student, err := h.UserService.GetByID(hc.Ctx, routine.StudentID)
		if err != nil {
			common.HandleError(hc, err, "get student")
			return
		}

		text, kb, err := BuildStudentRoutines(hc.Ctx, h, hc.User, student)
		if err != nil {
			common.HandleError(hc, err, "list student routines")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "edit message")
			return
		}
		hc.Answer("🗑 Программа удалена")
	})
}

func withAuthoredRoutine(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*common.HandlerContext, *model.Routine),
) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, routineID uuid.UUID) {
		routine, err := h.RoutineService.GetRoutine(hc.Ctx, routineID, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "get routine")
			return
		}
		if routine.ProfessorID != hc.User.ID {
			common.HandleError(hc, model.ErrForbidden, "edit routine")
			return
		}

		handler(hc, routine)
	})
}

func optionalUser(hc *common.HandlerContext, id uuid.UUID) (*model.User, error) {
	user, err := hc.Handler.UserService.GetByID(hc.Ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

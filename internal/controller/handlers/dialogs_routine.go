package handlers

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"go.uber.org/zap"
)

// handleRoutineName обрабатывает ввод названия программы
func (h *Handlers) handleRoutineName(d dialog) {
	name := strings.TrimSpace(d.update.Message.Text)
	if !lengthOK(name, service.RoutineNameMinLength, service.RoutineNameMaxLength) {
		h.sendError(d.ctx, d.b, d.chatID, fmt.Sprintf(
			"❌ Название должно быть от %d до %d символов.\n\nПопробуйте ещё раз:",
			service.RoutineNameMinLength, service.RoutineNameMaxLength))
		return
	}

	h.stateManager.SetData(d.telegramID(), state.KeyName, name)
	h.stateManager.SetState(d.telegramID(), state.StateCreateRoutineDescription)

	h.sendMessage(d.ctx, d.b, d.chatID, fmt.Sprintf("✅ Название: %s\n\n%s", html.EscapeString(name), common.PromptRoutineDescription))
}

// handleRoutineDescription последний шаг: создаёт программу
func (h *Handlers) handleRoutineDescription(d dialog) {
	studentID, ok := h.stateManager.GetUUID(d.telegramID(), state.KeyStudentID)
	name, _ := h.stateManager.GetString(d.telegramID(), state.KeyName)
	if !ok {
		h.stateManager.ClearState(d.telegramID())
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сессия устарела. Начните заново.")
		return
	}

	description := strings.TrimSpace(d.update.Message.Text)
	if !lengthOK(description, 0, service.RoutineDescriptionMaxLength) {
		h.sendError(d.ctx, d.b, d.chatID, fmt.Sprintf(
			"❌ Описание слишком длинное. Максимум %d символов.\n\nПопробуйте ещё раз:", service.RoutineDescriptionMaxLength))
		return
	}

	routine, err := h.deps.RoutineService.CreateRoutine(d.ctx, d.user.ID, studentID, service.RoutineParams{
		Name:        name,
		Description: description,
	})
	h.stateManager.ClearState(d.telegramID())
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "create routine")
		return
	}

	h.logger.Info("Routine created via bot",
		zap.String("routine_id", routine.ID.String()),
		zap.String("student_id", studentID.String()))

	h.showRoutine(d, routine, "✅ Программа создана")
	h.notifyStudent(d, routine, "📋 Тренер составил для вас новую программу")
}

// handleEditRoutineDescription заменяет описание программы
func (h *Handlers) handleEditRoutineDescription(d dialog) {
	routineID, ok := h.stateManager.GetUUID(d.telegramID(), state.KeyRoutineID)
	if !ok {
		h.stateManager.ClearState(d.telegramID())
		h.sendError(d.ctx, d.b, d.chatID, "❌ Сессия устарела. Начните заново.")
		return
	}

	routine, err := h.deps.RoutineService.GetRoutine(d.ctx, routineID, d.user.ID)
	if err != nil {
		h.stateManager.ClearState(d.telegramID())
		h.replyError(d.ctx, d.b, d.chatID, err, "get routine")
		return
	}

	updated, err := h.deps.RoutineService.UpdateRoutine(d.ctx, routine.ID, d.user.ID, service.RoutineParams{
		Name:        routine.Name,
		Description: d.update.Message.Text,
	})
	if errors.Is(err, model.ErrInvalidInput) {
		h.sendError(d.ctx, d.b, d.chatID, fmt.Sprintf(
			"❌ Описание слишком длинное. Максимум %d символов.\n\nПопробуйте ещё раз:", service.RoutineDescriptionMaxLength))
		return
	}

	h.stateManager.ClearState(d.telegramID())
	if err != nil {
		h.replyError(d.ctx, d.b, d.chatID, err, "update routine")
		return
	}

	h.showRoutine(d, updated, "✅ Программа обновлена")
	h.notifyStudent(d, updated, "📋 Тренер обновил вашу программу")
}

func (h *Handlers) showRoutine(d dialog, routine *model.Routine, header string) {
	student, err := h.deps.UserService.GetByID(d.ctx, routine.StudentID)
	if err != nil {
		h.logger.Warn("Failed to load student", zap.String("user_id", routine.StudentID.String()), zap.Error(err))
	}

	text, kb := common.BuildRoutineScreen(routine, d.user, student, d.user)
	h.sendScreen(d.ctx, d.b, d.chatID, header+"\n\n"+text, kb)
}

func (h *Handlers) notifyStudent(d dialog, routine *model.Routine, text string) {
	student, err := h.deps.UserService.GetByID(d.ctx, routine.StudentID)
	if err != nil {
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📋 "+routine.Name, common.Data(common.CbRoutineView, routine.ID))).
		Build()
	h.notify(d.ctx, d.b, student, text, kb)
}

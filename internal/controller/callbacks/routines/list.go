package routines

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// HandleRoutines показывает программы пользователя. Список всегда перечитывается
func HandleRoutines(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := BuildRoutines(hc.Ctx, h, hc.User)
		if err != nil {
			common.HandleError(hc, err, "list routines")
			return
		}
		hc.Show(text, kb)
	})
}

// BuildRoutines формирует список программ: тренеру - написанные им,
// ученику - написанные для него. Используется и командой /routines
func BuildRoutines(ctx context.Context, h *callbacktypes.Handler, user *model.User) (string, *models.InlineKeyboardMarkup, error) {
	var (
		routines []*model.Routine
		err      error
		title    string
	)
	if user.IsProfessor() {
		title = "Программы моих учеников"
		routines, err = h.RoutineService.ListProfessorRoutines(ctx, user.ID)
	} else {
		title = "Мои программы"
		routines, err = h.RoutineService.ListStudentRoutines(ctx, user.ID)
	}
	if err != nil {
		return "", nil, err
	}

	people := make(map[uuid.UUID]*model.User)
	for _, r := range routines {
		otherID := r.ProfessorID
		if user.ID == r.ProfessorID {
			otherID = r.StudentID
		}
		if _, ok := people[otherID]; ok {
			continue
		}
		other, err := h.UserService.GetByID(ctx, otherID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return "", nil, fmt.Errorf("get user: %w", err)
		}
		people[otherID] = other
	}

	text, kb := common.BuildRoutineListScreen(title, routines, people, user, common.CbBackToMain)
	return text, kb, nil
}

// HandleMyStudents показывает учеников тренера
func HandleMyStudents(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		students, err := h.UserService.ListProfessorStudents(hc.Ctx, hc.User.ID)
		if err != nil {
			common.HandleError(hc, err, "list students")
			return
		}

		text, kb := common.BuildStudentsScreen(students)
		hc.Show(text, kb)
	})
}

// HandleStudentRoutines показывает тренеру программы одного ученика
func HandleStudentRoutines(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithID(ctx, b, callback, h, func(hc *common.HandlerContext, studentID uuid.UUID) {
		student, err := ownStudent(hc, studentID)
		if err != nil {
			common.HandleError(hc, err, "get student")
			return
		}

		text, kb, err := BuildStudentRoutines(hc.Ctx, h, hc.User, student)
		if err != nil {
			common.HandleError(hc, err, "list student routines")
			return
		}
		hc.Show(text, kb)
	})
}

// BuildStudentRoutines формирует программы ученика, написанные этим тренером
func BuildStudentRoutines(ctx context.Context, h *callbacktypes.Handler, professor, student *model.User) (string, *models.InlineKeyboardMarkup, error) {
	all, err := h.RoutineService.ListStudentRoutines(ctx, student.ID)
	if err != nil {
		return "", nil, err
	}

	var own []*model.Routine
	for _, r := range all {
		if r.ProfessorID == professor.ID {
			own = append(own, r)
		}
	}

	text, kb := common.BuildStudentRoutinesScreen(student, own)
	return text, kb, nil
}

// ownStudent загружает ученика и проверяет, что он занимается у текущего тренера
func ownStudent(hc *common.HandlerContext, studentID uuid.UUID) (*model.User, error) {
	if err := hc.RequireProfessor(); err != nil {
		return nil, err
	}

	student, err := hc.Handler.UserService.GetByID(hc.Ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.ProfessorID == nil || *student.ProfessorID != hc.User.ID {
		return nil, fmt.Errorf("%w: not your student", model.ErrForbidden)
	}
	return student, nil
}

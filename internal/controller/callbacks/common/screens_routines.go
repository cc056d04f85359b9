package common

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// BuildRoutineListScreen формирует список программ.
// people - имена второй стороны (ученика для тренера, тренера для ученика)
func BuildRoutineListScreen(title string, routines []*model.Routine, people map[uuid.UUID]*model.User, viewer *model.User, back string) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>%s</b>\n\n", html.EscapeString(title)))
	if len(routines) == 0 {
		sb.WriteString("Программ пока нет.")
	} else {
		sb.WriteString("Выберите программу:")
	}

	kb := keyboard.NewBuilder()
	for _, r := range routines {
		otherID := r.ProfessorID
		if viewer.ID == r.ProfessorID {
			otherID = r.StudentID
		}
		label := "📋 " + r.Name
		if other, ok := people[otherID]; ok && other != nil {
			label += " · " + plainName(other)
		}
		kb.Row(keyboard.Button(label, Data(CbRoutineView, r.ID)))
	}

	if back == CbBackToMain {
		kb.AddBackToMainButton()
	} else {
		kb.AddBackButton(back)
	}

	return sb.String(), kb.Build()
}

// BuildRoutineScreen формирует экран программы. Редактировать может только автор
func BuildRoutineScreen(r *model.Routine, viewer, student, professor *model.User) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>%s</b>\n\n", html.EscapeString(r.Name)))
	sb.WriteString(fmt.Sprintf("🏃 Ученик: %s\n", formatting.FormatUser(student)))
	sb.WriteString(fmt.Sprintf("🏋️ Тренер: %s\n", formatting.FormatUser(professor)))
	updated := r.CreatedAt
	if r.UpdatedAt != nil {
		updated = *r.UpdatedAt
	}
	sb.WriteString(fmt.Sprintf("📅 Обновлена: %s\n\n", formatting.FormatDateTime(updated)))
	sb.WriteString(html.EscapeString(r.Description))

	kb := keyboard.NewBuilder()
	if viewer.ID == r.ProfessorID {
		kb.Row(
			keyboard.EditButton(Data(CbRoutineEdit, r.ID)),
			keyboard.DeleteButton(Data(CbRoutineDelete, r.ID)),
		)
		kb.AddBackButton(Data(CbStudentRoutines, r.StudentID))
	} else {
		kb.Row(keyboard.Button("✉️ Написать тренеру", Data(CbMsgWrite, r.ProfessorID)))
		kb.AddBackButton(CbRoutines)
	}

	return sb.String(), kb.Build()
}

// BuildRoutineDeleteScreen формирует подтверждение удаления программы
func BuildRoutineDeleteScreen(r *model.Routine) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🗑 <b>Удалить программу %s?</b>", html.EscapeString(r.Name))

	kb := keyboard.NewBuilder().
		AddRow(keyboard.ConfirmCancelButtons(Data(CbRoutineDeleteOK, r.ID), Data(CbRoutineView, r.ID))).
		Build()

	return text, kb
}

// BuildStudentsScreen формирует список учеников тренера
func BuildStudentsScreen(students []*model.User) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 <b>Мои ученики</b> (%d)\n\n", len(students)))
	if len(students) == 0 {
		sb.WriteString("Учеников пока нет. Ученик появится, когда вы примете его заявку.")
	} else {
		sb.WriteString("Выберите ученика:")
	}

	kb := keyboard.NewBuilder()
	for _, s := range students {
		kb.Row(
			keyboard.Button("🏃 "+plainName(s), Data(CbStudentRoutines, s.ID)),
			keyboard.Button("✉️", Data(CbMsgWrite, s.ID)),
		)
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildStudentRoutinesScreen формирует программы одного ученика для тренера
func BuildStudentRoutinesScreen(student *model.User, routines []*model.Routine) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Программы: %s</b>\n\n", formatting.FormatUser(student)))
	if len(routines) == 0 {
		sb.WriteString("Программ пока нет.")
	}

	kb := keyboard.NewBuilder()
	for _, r := range routines {
		kb.Row(keyboard.Button("📋 "+r.Name, Data(CbRoutineView, r.ID)))
	}
	kb.Row(keyboard.Button("➕ Новая программа", Data(CbRoutineNew, student.ID)))
	kb.AddBackButton(CbMyStudents)

	return sb.String(), kb.Build()
}

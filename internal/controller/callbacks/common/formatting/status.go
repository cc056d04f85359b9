package formatting

import (
	"html"

	"github.com/Freeeeeet/gym_bot/internal/model"
)

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetRequestStatusDisplay возвращает emoji и текст для статуса заявки
func GetRequestStatusDisplay(status model.RequestStatus) StatusDisplay {
	displays := map[model.RequestStatus]StatusDisplay{
		model.RequestStatusPending:  {"⏳", "Ожидает ответа"},
		model.RequestStatusAccepted: {"✅", "Принята"},
		model.RequestStatusRejected: {"🚫", "Отклонена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetRoleDisplay возвращает название роли
func GetRoleDisplay(role model.Role) StatusDisplay {
	switch role {
	case model.RoleStudent:
		return StatusDisplay{"🏃", "Ученик"}
	case model.RoleProfessor:
		return StatusDisplay{"🏋️", "Тренер"}
	case model.RoleAdmin:
		return StatusDisplay{"🛡", "Администратор"}
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// RequestDirection описывает, кто кого приглашает
func RequestDirection(t model.RequestType) string {
	if t == model.RequestTypeGymToPerson {
		return "Приглашение от зала"
	}
	return "Заявка в зал"
}

// FormatUser возвращает имя пользователя для экрана
func FormatUser(u *model.User) string {
	if u == nil {
		return "—"
	}
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	if u.Username != "" && u.Username != name {
		name += " (@" + u.Username + ")"
	}
	if name == "" {
		return "Без имени"
	}
	return html.EscapeString(name)
}

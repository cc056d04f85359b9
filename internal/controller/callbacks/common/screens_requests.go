package common

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// RequestView заявка вместе с участниками для отображения.
// Gym, Person и Professor равны nil, если запись уже удалена
type RequestView struct {
	Request   *model.GymRequest
	Gym       *model.Gym
	Person    *model.User
	Professor *model.User
}

// IsAuthor true, если viewer создал заявку
func (v RequestView) IsAuthor(viewer *model.User) bool {
	if v.Request.RequestType == model.RequestTypePersonToGym {
		return v.Request.FromID == viewer.ID
	}
	return v.Gym != nil && v.Gym.AdminID == viewer.ID
}

// CanDecide true, если viewer может принять или отклонить заявку
func (v RequestView) CanDecide(viewer *model.User) bool {
	if !v.Request.IsPending() || v.IsAuthor(viewer) {
		return false
	}
	if viewer.IsAdmin() || v.Request.Involves(viewer.ID) {
		return true
	}
	return v.Gym != nil && v.Gym.AdminID == viewer.ID
}

// CheckAccept проверяет, может ли viewer принять заявку из бота. Автор свою
// заявку только отзывает
func (v RequestView) CheckAccept(viewer *model.User) error {
	if !v.Request.IsPending() {
		return fmt.Errorf("%w: status is %s", model.ErrInvalidState, v.Request.Status)
	}
	if v.IsAuthor(viewer) {
		return fmt.Errorf("%w: author cannot accept own request", model.ErrForbidden)
	}
	if !v.CanDecide(viewer) {
		return fmt.Errorf("%w: user is not a party of the request", model.ErrForbidden)
	}
	return nil
}

func (v RequestView) gymName() string {
	if v.Gym == nil {
		return "удалённый зал"
	}
	return html.EscapeString(v.Gym.Name)
}

// summary строка заявки для кнопки списка
func (v RequestView) summary() string {
	status := formatting.GetRequestStatusDisplay(v.Request.Status)
	role := formatting.GetRoleDisplay(v.Request.RequestedRole)
	gym := "удалённый зал"
	if v.Gym != nil {
		gym = v.Gym.Name
	}
	person := "?"
	if v.Person != nil {
		person = plainName(v.Person)
	}
	return fmt.Sprintf("%s %s %s → %s", status.Emoji, role.Emoji, person, gym)
}

// BuildRequestListScreen формирует список заявок.
// all=false - только ожидающие, back=CbBackToMain - возврат в главное меню
func BuildRequestListScreen(title string, views []RequestView, all bool, back string) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📨 <b>%s</b>\n\n", html.EscapeString(title)))

	switch {
	case len(views) == 0 && all:
		sb.WriteString("Заявок пока нет.")
	case len(views) == 0:
		sb.WriteString("Нет заявок, ожидающих ответа.")
	case all:
		sb.WriteString(fmt.Sprintf("Всего: %d. Выберите заявку:", len(views)))
	default:
		sb.WriteString(fmt.Sprintf("%d %s ждут ответа. Выберите заявку:",
			len(views), formatting.PluralizeRequests(len(views))))
	}

	for _, v := range views {
		kb.Row(keyboard.Button(v.summary(), Data(CbReqView, v.Request.ID)))
	}

	if !all && back == CbBackToMain {
		kb.Row(keyboard.Button("🗂 Все заявки", CbRequestsAll))
	}
	if back == CbBackToMain {
		kb.AddBackToMainButton()
	} else {
		kb.AddBackButton(back)
	}

	return sb.String(), kb.Build()
}

// BuildRequestScreen формирует карточку заявки с действиями для viewer
func BuildRequestScreen(v RequestView, viewer *model.User) (string, *models.InlineKeyboardMarkup) {
	req := v.Request
	status := formatting.GetRequestStatusDisplay(req.Status)
	role := formatting.GetRoleDisplay(req.RequestedRole)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📨 <b>%s</b>\n\n", formatting.RequestDirection(req.RequestType)))
	sb.WriteString(fmt.Sprintf("🏟 Зал: %s\n", v.gymName()))
	sb.WriteString(fmt.Sprintf("👤 Кто: %s\n", formatting.FormatUser(v.Person)))
	sb.WriteString(fmt.Sprintf("%s Роль: %s\n", role.Emoji, role.Text))
	if req.ProfessorID != nil {
		sb.WriteString(fmt.Sprintf("🏋️ Тренер: %s\n", formatting.FormatUser(v.Professor)))
	}
	sb.WriteString(fmt.Sprintf("%s Статус: %s\n", status.Emoji, status.Text))
	sb.WriteString(fmt.Sprintf("📅 Создана: %s\n", formatting.FormatDateTime(req.CreatedAt)))
	if req.Message != "" {
		sb.WriteString(fmt.Sprintf("\n💬 <i>%s</i>\n", html.EscapeString(req.Message)))
	}

	kb := keyboard.NewBuilder()
	switch {
	case v.CanDecide(viewer):
		kb.Row(
			keyboard.Button("✅ Принять", Data(CbReqAccept, req.ID)),
			keyboard.Button("🚫 Отклонить", Data(CbReqReject, req.ID)),
		)
	case req.IsPending() && v.IsAuthor(viewer):
		kb.Row(keyboard.Button("↩️ Отозвать", Data(CbReqReject, req.ID)))
	}
	kb.AddBackButton(CbRequests)

	return sb.String(), kb.Build()
}

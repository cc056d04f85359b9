package common

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

// MainMenuData данные для главного меню
type MainMenuData struct {
	User            *model.User
	PendingRequests int
	UnreadMessages  int
}

// BuildMainMenu формирует главное меню с кнопками по роли
func BuildMainMenu(d MainMenuData) (string, *models.InlineKeyboardMarkup) {
	role := formatting.GetRoleDisplay(d.User.Role)

	var sb strings.Builder
	sb.WriteString("📋 <b>Главное меню</b>\n\n")
	sb.WriteString(fmt.Sprintf("%s Вы: %s\n", role.Emoji, role.Text))
	if d.PendingRequests > 0 {
		sb.WriteString(fmt.Sprintf("📨 %d %s ждут ответа\n",
			d.PendingRequests, formatting.PluralizeRequests(d.PendingRequests)))
	}
	if d.UnreadMessages > 0 {
		sb.WriteString(fmt.Sprintf("✉️ %d %s не прочитано\n",
			d.UnreadMessages, formatting.PluralizeMessages(d.UnreadMessages)))
	}
	sb.WriteString("\nВыберите раздел:")

	requestsText := "📨 Заявки"
	if d.PendingRequests > 0 {
		requestsText = fmt.Sprintf("📨 Заявки (%d)", d.PendingRequests)
	}
	inboxText := "✉️ Сообщения"
	if d.UnreadMessages > 0 {
		inboxText = fmt.Sprintf("✉️ Сообщения (%d)", d.UnreadMessages)
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🏟 Залы", CbGymsPage+"0"), keyboard.Button("👤 Профиль", CbProfile)).
		Row(keyboard.Button(requestsText, CbRequests), keyboard.Button(inboxText, CbInbox))

	switch d.User.Role {
	case model.RoleAdmin:
		kb.Row(keyboard.Button("🛡 Мои залы", CbMyGyms+"0"))
	case model.RoleProfessor:
		kb.Row(keyboard.Button("👥 Мои ученики", CbMyStudents), keyboard.Button("📋 Программы", CbRoutines))
	default:
		kb.Row(keyboard.Button("📋 Мои программы", CbRoutines))
	}

	return sb.String(), kb.Build()
}

// BuildProfileScreen формирует экран профиля. Пока название зала не загружено,
// показывается "загрузка", а не пустая строка
func BuildProfileScreen(user *model.User, gym service.GymName, professor *model.User) (string, *models.InlineKeyboardMarkup) {
	role := formatting.GetRoleDisplay(user.Role)

	var gymLine string
	switch gym.State {
	case service.GymNameResolved:
		gymLine = html.EscapeString(gym.Name)
	case service.GymNameLoading:
		gymLine = "⏳ загрузка..."
	default:
		gymLine = "нет зала"
	}

	email := user.Email
	if email == "" {
		email = "не указан"
	}

	var sb strings.Builder
	sb.WriteString("👤 <b>Профиль</b>\n\n")
	sb.WriteString(fmt.Sprintf("Имя: %s\n", formatting.FormatUser(user)))
	sb.WriteString(fmt.Sprintf("Роль: %s %s\n", role.Emoji, role.Text))
	sb.WriteString(fmt.Sprintf("📧 Email: %s\n", html.EscapeString(email)))
	if !user.IsAdmin() {
		sb.WriteString(fmt.Sprintf("🏟 Зал: %s\n", gymLine))
	}
	if user.Role == model.RoleStudent {
		trainer := "нет тренера"
		if professor != nil {
			trainer = formatting.FormatUser(professor)
		}
		sb.WriteString(fmt.Sprintf("🏋️ Тренер: %s\n", trainer))
	}
	sb.WriteString(fmt.Sprintf("\n📅 С нами с %s", formatting.FormatDate(user.CreatedAt)))

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📧 Изменить email", CbSetEmail))
	if user.HasGym() {
		kb.Row(keyboard.Button("🏟 Мой зал", Data(CbGymView, *user.GymID)))
	}
	if professor != nil {
		kb.Row(keyboard.Button("✉️ Написать тренеру", Data(CbMsgWrite, professor.ID)))
	}
	if user.Role == model.RoleStudent {
		kb.Row(keyboard.Button("🎓 Стать тренером", CbBecomeProfessor))
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildBecomeProfessorScreen формирует экран подтверждения смены роли
func BuildBecomeProfessorScreen() (string, *models.InlineKeyboardMarkup) {
	text := "🎓 <b>Стать тренером</b>\n\n" +
		"Тренер может вести учеников и писать им программы тренировок.\n" +
		"Текущий зал и тренер будут сняты. После смены роли подайте заявку в зал, где вы работаете.\n\n" +
		"Продолжить?"

	kb := keyboard.NewBuilder().
		AddRow(keyboard.ConfirmCancelButtons(CbConfirmProfessor, CbProfile)).
		Build()

	return text, kb
}

// BuildPromptScreen формирует приглашение к вводу текста с кнопкой отмены
func BuildPromptScreen(text, cancel string) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder().
		Row(keyboard.CancelButton(cancel)).
		Build()
	return text, kb
}

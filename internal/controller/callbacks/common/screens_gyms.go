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

// BuildGymListScreen формирует страницу списка залов.
// prefix задаёт callback пагинации (все залы или свои)
func BuildGymListScreen(gyms []*model.Gym, page int, prefix string, canCreate bool) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(gyms) == 0 {
		text := "🏟 <b>Залы</b>\n\nПока нет ни одного зала."
		if canCreate {
			kb.Row(keyboard.Button("➕ Создать зал", CbNewGym))
		}
		kb.AddBackToMainButton()
		return text, kb.Build()
	}

	start, end, pages := keyboard.PageBounds(len(gyms), page)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏟 <b>Залы</b> (%d)\n\nВыберите зал:", len(gyms)))

	for _, gym := range gyms[start:end] {
		kb.Row(keyboard.Button("🏟 "+gym.Name, Data(CbGymView, gym.ID)))
	}
	kb.AddPagination(prefix, start/keyboard.PageSize, pages)
	if canCreate {
		kb.Row(keyboard.Button("➕ Создать зал", CbNewGym))
	}
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// GymScreenData данные для экрана зала
type GymScreenData struct {
	Gym          *model.Gym
	Viewer       *model.User
	Admin        *model.User
	CanManage    bool // владелец зала или системный админ
	PendingCount int
}

// BuildGymScreen формирует карточку зала с действиями для зрителя
func BuildGymScreen(d GymScreenData) (string, *models.InlineKeyboardMarkup) {
	gym := d.Gym

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏟 <b>%s</b>\n\n", html.EscapeString(gym.Name)))
	if gym.Address != "" {
		sb.WriteString(fmt.Sprintf("📍 %s\n", html.EscapeString(gym.Address)))
	}
	if gym.Phone != "" {
		sb.WriteString(fmt.Sprintf("📞 %s\n", html.EscapeString(gym.Phone)))
	}
	if d.Admin != nil {
		sb.WriteString(fmt.Sprintf("🛡 Администратор: %s\n", formatting.FormatUser(d.Admin)))
	}

	member := d.Viewer.GymID != nil && *d.Viewer.GymID == gym.ID
	if member {
		sb.WriteString("\n✅ Вы занимаетесь в этом зале")
	}

	kb := keyboard.NewBuilder()

	if !d.Viewer.IsAdmin() && !member {
		kb.Row(keyboard.Button("📝 Подать заявку", Data(CbGymJoin, gym.ID)))
	}

	if d.CanManage {
		requestsText := "📨 Заявки"
		if d.PendingCount > 0 {
			sb.WriteString(fmt.Sprintf("\n\n📨 %d %s ждут ответа",
				d.PendingCount, formatting.PluralizeRequests(d.PendingCount)))
			requestsText = fmt.Sprintf("📨 Заявки (%d)", d.PendingCount)
		}
		kb.Row(
			keyboard.Button("👥 Участники", Data(CbGymMembers, gym.ID)),
			keyboard.Button(requestsText, Data(CbGymRequests, gym.ID)),
		)
		kb.Row(keyboard.Button("✉️ Пригласить", Data(CbGymInvite, gym.ID)))
		kb.Row(
			keyboard.EditButton(Data(CbGymEdit, gym.ID)),
			keyboard.DeleteButton(Data(CbGymDelete, gym.ID)),
		)
	}

	kb.AddBackButton(CbGymsPage + "0")

	return sb.String(), kb.Build()
}

// BuildJoinGymScreen формирует выбор: просто вступить или вступить к тренеру.
// Тренер может вступить только сам
func BuildJoinGymScreen(gym *model.Gym, viewer *model.User, professors []*model.User) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 <b>Заявка в %s</b>\n\n", html.EscapeString(gym.Name)))

	if viewer.IsProfessor() {
		sb.WriteString("Вы подаёте заявку как тренер.")
		kb.Row(keyboard.Button("🏋️ Подать заявку", Data(CbJoinPlain, gym.ID)))
	} else {
		sb.WriteString("Вступить в зал самостоятельно или сразу к тренеру?")
		kb.Row(keyboard.Button("🏃 Без тренера", Data(CbJoinPlain, gym.ID)))
		for _, p := range professors {
			kb.Row(keyboard.Button("🏋️ "+plainName(p), Data(CbJoinWith, p.ID)))
		}
	}

	kb.AddBackButton(Data(CbGymView, gym.ID))

	return sb.String(), kb.Build()
}

// BuildGymEditScreen формирует меню редактирования зала
func BuildGymEditScreen(gym *model.Gym) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("✏️ <b>Редактирование: %s</b>\n\nЧто изменить?", html.EscapeString(gym.Name))

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🏷 Название", Data(CbGymEditName, gym.ID))).
		Row(keyboard.Button("📍 Адрес", Data(CbGymEditAddr, gym.ID))).
		Row(keyboard.Button("📞 Телефон", Data(CbGymEditPhone, gym.ID))).
		AddBackButton(Data(CbGymView, gym.ID)).
		Build()

	return text, kb
}

// BuildGymDeleteScreen формирует подтверждение удаления зала
func BuildGymDeleteScreen(gym *model.Gym) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🗑 <b>Удалить зал %s?</b>\n\n"+
		"Участники будут отвязаны от зала, все заявки удалены.\n"+
		"Отменить это действие нельзя.", html.EscapeString(gym.Name))

	kb := keyboard.NewBuilder().
		AddRow(keyboard.ConfirmCancelButtons(Data(CbGymDeleteOK, gym.ID), Data(CbGymView, gym.ID))).
		Build()

	return text, kb
}

// BuildGymMembersScreen формирует список тренеров и учеников зала
func BuildGymMembersScreen(gym *model.Gym, professors, students []*model.User) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 <b>Участники: %s</b>\n", html.EscapeString(gym.Name)))

	sb.WriteString(fmt.Sprintf("\n🏋️ Тренеры (%d):\n", len(professors)))
	if len(professors) == 0 {
		sb.WriteString("  нет\n")
	}
	for _, p := range professors {
		sb.WriteString("  • " + formatting.FormatUser(p) + "\n")
	}

	sb.WriteString(fmt.Sprintf("\n🏃 %d %s:\n", len(students), formatting.PluralizeStudents(len(students))))
	if len(students) == 0 {
		sb.WriteString("  нет\n")
	}
	for _, s := range students {
		sb.WriteString("  • " + formatting.FormatUser(s) + "\n")
	}

	kb := keyboard.NewBuilder()
	for _, group := range [][]*model.User{professors, students} {
		for _, u := range group {
			kb.Row(keyboard.Button("✉️ "+plainName(u), Data(CbMsgWrite, u.ID)))
		}
	}
	kb.AddBackButton(Data(CbGymView, gym.ID))

	return sb.String(), kb.Build()
}

// plainName имя для текста кнопки (без html)
func plainName(u *model.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "Без имени"
}

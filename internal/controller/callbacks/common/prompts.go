package common

import (
	"fmt"

	"github.com/Freeeeeet/gym_bot/internal/service"
)

// LengthHint подсказка о допустимой длине ввода
func LengthHint(min, max int) string {
	if min == 0 {
		return fmt.Sprintf("(до %d символов)", max)
	}
	return fmt.Sprintf("(от %d до %d символов)", min, max)
}

// Тексты шагов диалогов
var (
	PromptGymName = "🏟 <b>Новый зал</b>\n\nШаг 1/3. Введите название зала " +
		LengthHint(service.GymNameMinLength, service.GymNameMaxLength) + ":"
	PromptGymAddress = "📍 Шаг 2/3. Введите адрес зала " +
		LengthHint(0, service.GymContactMaxLength) + " или /skip:"
	PromptGymPhone = "📞 Шаг 3/3. Введите телефон зала или /skip:"

	PromptEditGymName = "🏷 Введите новое название зала " +
		LengthHint(service.GymNameMinLength, service.GymNameMaxLength) + ":"
	PromptEditGymAddress = "📍 Введите новый адрес или /skip, чтобы удалить его:"
	PromptEditGymPhone   = "📞 Введите новый телефон или /skip, чтобы удалить его:"

	PromptRequestMessage = "💬 Напишите сообщение к заявке " +
		LengthHint(0, service.RequestMessageMaxLength) + " или отправьте /skip:"
	PromptInviteUsername = "✉️ <b>Приглашение в зал</b>\n\n" +
		"Введите @username пользователя. Ученик получит приглашение как ученик, тренер как тренер."

	PromptChatMessage = "✍️ Введите текст сообщения " +
		LengthHint(1, service.ChatMessageMaxLength) + ":"

	PromptRoutineName = "📋 <b>Новая программа</b>\n\nШаг 1/2. Введите название " +
		LengthHint(service.RoutineNameMinLength, service.RoutineNameMaxLength) + ":"
	PromptRoutineDescription = "📝 Шаг 2/2. Опишите программу " +
		LengthHint(0, service.RoutineDescriptionMaxLength) + ":"
	PromptEditRoutineDescription = "📝 Введите новое описание программы " +
		LengthHint(0, service.RoutineDescriptionMaxLength) + ":"

	PromptEmail = "📧 Введите email или /skip, чтобы удалить его:"
)

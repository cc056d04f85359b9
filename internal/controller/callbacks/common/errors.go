package common

import (
	"errors"

	"github.com/Freeeeeet/gym_bot/internal/model"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNotAnAdmin    = errors.New("user is not an admin")
	ErrNotProfessor  = errors.New("user is not a professor")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNotAnAdmin):
		return "❌ Эта функция доступна только администраторам"
	case errors.Is(err, ErrNotProfessor):
		return "❌ Эта функция доступна только тренерам"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, model.ErrInvalidState):
		return "⚠️ Заявка уже обработана"
	case errors.Is(err, model.ErrDuplicatePending):
		return "⏳ Такая заявка уже ждёт ответа"
	case errors.Is(err, model.ErrForbidden):
		return "🚫 Недостаточно прав"
	case errors.Is(err, model.ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, model.ErrInvalidInput):
		return "❌ Некорректные данные"
	default:
		return "❌ Произошла ошибка. Попробуйте позже"
	}
}

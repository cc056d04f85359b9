package common

import (
	"context"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	User       *model.User
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadUser загружает пользователя в контекст
func (hc *HandlerContext) LoadUser() error {
	user, err := hc.Handler.UserService.GetByTelegramID(hc.Ctx, hc.TelegramID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	hc.User = user
	return nil
}

// RequireUser проверяет что пользователь загружен
func (hc *HandlerContext) RequireUser() error {
	if hc.User == nil {
		return hc.LoadUser()
	}
	return nil
}

// RequireAdmin проверяет что пользователь - администратор системы
func (hc *HandlerContext) RequireAdmin() error {
	if err := hc.RequireUser(); err != nil {
		return err
	}
	if !hc.User.IsAdmin() {
		return ErrNotAnAdmin
	}
	return nil
}

// RequireProfessor проверяет что пользователь - тренер
func (hc *HandlerContext) RequireProfessor() error {
	if err := hc.RequireUser(); err != nil {
		return err
	}
	if !hc.User.IsProfessor() {
		return ErrNotProfessor
	}
	return nil
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// Игнорируем ошибку "message is not modified" - это не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// Show показывает экран и подтверждает callback
func (hc *HandlerContext) Show(text string, keyboard *models.InlineKeyboardMarkup) {
	if err := hc.EditMessage(text, keyboard); err != nil {
		HandleError(hc, err, "edit message")
		return
	}
	hc.Answer("")
}

// Notify отправляет сообщение другому пользователю. Ошибка только логируется
func (hc *HandlerContext) Notify(user *model.User, text string) {
	if user == nil || user.TelegramID == 0 {
		return
	}
	_, err := hc.Bot.SendMessage(hc.Ctx, &bot.SendMessageParams{
		ChatID:    user.TelegramID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logNotifyError(hc, user, err)
	}
}

// StartDialog начинает диалог с пользователем
func (hc *HandlerContext) StartDialog(state callbacktypes.UserState, data map[string]interface{}) {
	hc.Handler.StateManager.Start(hc.TelegramID, state, data)
}

// ClearState очищает состояние пользователя
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}

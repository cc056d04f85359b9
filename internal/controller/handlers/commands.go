package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/messages"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/profile"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/requests"
	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks/routines"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/Freeeeeet/gym_bot/internal/model"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	displayName := strings.TrimSpace(from.FirstName + " " + from.LastName)

	// Регистрируем пользователя
	user, err := h.deps.UserService.RegisterUser(ctx, from.ID, from.Username, displayName)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот спортивного зала: здесь можно вступить в зал, найти тренера, "+
			"получать программы тренировок и переписываться.\n\n"+
			"Справка: /help",
		html.EscapeString(name),
	))

	h.sendMainMenu(ctx, b, update.Message.Chat.ID, user)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 <b>Справка по командам</b>\n\n" +
		"/menu - Главное меню\n" +
		"/profile - Профиль\n" +
		"/gyms - Список залов\n" +
		"/requests - Заявки, ждущие ответа\n" +
		"/inbox - Входящие сообщения\n" +
		"/routines - Программы тренировок\n" +
		"/becomeprofessor - Стать тренером\n" +
		"/cancel - Отменить текущий ввод\n\n" +
		"Для администраторов:\n" +
		"/mygyms - Мои залы\n" +
		"/newgym - Создать зал\n\n" +
		"Чтобы вступить в зал, откройте его в /gyms и подайте заявку."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	// Очищаем состояние
	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nГлавное меню: /menu")
}

// HandleMainMenu обрабатывает команду /menu
func (h *Handlers) HandleMainMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	h.sendMainMenu(ctx, b, update.Message.Chat.ID, user)
}

func (h *Handlers) sendMainMenu(ctx context.Context, b *bot.Bot, chatID int64, user *model.User) {
	data, err := common.LoadMainMenu(ctx, h.deps, user)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "load main menu")
		return
	}

	text, kb := common.BuildMainMenu(data)
	h.sendScreen(ctx, b, chatID, text, kb)
}

// HandleProfile обрабатывает команду /profile. Если название зала ещё не в
// кэше, сначала показывается профиль с "загрузкой", затем он обновляется
func (h *Handlers) HandleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	var placeholder *models.Message
	if gym := h.deps.RelationshipService.PeekGymName(user); gym.State == service.GymNameLoading {
		text, kb := common.BuildProfileScreen(user, gym, nil)
		placeholder = h.sendScreen(ctx, b, chatID, text, kb)
	}

	text, kb, err := profile.BuildProfile(ctx, h.deps, user)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "load profile")
		return
	}

	if placeholder == nil {
		h.sendScreen(ctx, b, chatID, text, kb)
		return
	}

	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   placeholder.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil && !common.IsMessageNotModifiedError(err) {
		h.logger.Error("Failed to update profile", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleGyms обрабатывает команду /gyms
func (h *Handlers) HandleGyms(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	gyms, err := h.deps.GymService.ListGyms(ctx)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err, "list gyms")
		return
	}

	text, kb := common.BuildGymListScreen(gyms, 0, common.CbGymsPage, user.IsAdmin())
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMyGyms обрабатывает команду /mygyms
func (h *Handlers) HandleMyGyms(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}

	gyms, err := h.deps.GymService.ListAdminGyms(ctx, user.ID)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err, "list admin gyms")
		return
	}

	text, kb := common.BuildGymListScreen(gyms, 0, common.CbMyGyms, true)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleNewGym обрабатывает команду /newgym
func (h *Handlers) HandleNewGym(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}

	h.stateManager.Start(update.Message.From.ID, state.StateCreateGymName, nil)

	text, kb := common.BuildPromptScreen(common.PromptGymName, common.CbBackToMain)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleRequests обрабатывает команду /requests
func (h *Handlers) HandleRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	pending := model.RequestStatusPending
	text, kb, err := requests.BuildList(ctx, h.deps, user, &pending)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err, "list requests")
		return
	}
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleInbox обрабатывает команду /inbox
func (h *Handlers) HandleInbox(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	text, kb, err := messages.BuildInbox(ctx, h.deps, user)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err, "load inbox")
		return
	}
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleRoutines обрабатывает команду /routines
func (h *Handlers) HandleRoutines(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	text, kb, err := routines.BuildRoutines(ctx, h.deps, user)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err, "list routines")
		return
	}
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleBecomeProfessor обрабатывает команду /becomeprofessor
func (h *Handlers) HandleBecomeProfessor(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	switch {
	case user.IsProfessor():
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🏋️ Вы уже тренер.\n\nВаши ученики: /menu")
		return
	case user.IsAdmin():
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(model.ErrForbidden))
		return
	}

	text, kb := common.BuildBecomeProfessorScreen()
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers), кроме /skip
	text := update.Message.Text
	if strings.HasPrefix(text, "/") && text != skipCommand {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	// Если нет активного состояния, подсказываем меню
	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🤔 Не понимаю. Откройте /menu или /help")
		return
	}

	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	d := dialog{ctx: ctx, b: b, update: update, user: user, chatID: update.Message.Chat.ID}

	// Обрабатываем в зависимости от состояния
	switch currentState {
	case state.StateCreateGymName:
		h.handleCreateGymName(d)
	case state.StateCreateGymAddress:
		h.handleCreateGymAddress(d)
	case state.StateCreateGymPhone:
		h.handleCreateGymPhone(d)
	case state.StateEditGymName, state.StateEditGymAddress, state.StateEditGymPhone:
		h.handleEditGymField(d, currentState)
	case state.StateEnteringRequestMessage:
		h.handleRequestMessage(d)
	case state.StateEnteringInviteUsername:
		h.handleInviteUsername(d)
	case state.StateComposingMessage:
		h.handleComposeMessage(d)
	case state.StateCreateRoutineName:
		h.handleRoutineName(d)
	case state.StateCreateRoutineDescription:
		h.handleRoutineDescription(d)
	case state.StateEditRoutineDescription:
		h.handleEditRoutineDescription(d)
	case state.StateEnteringEmail:
		h.handleEmail(d)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}

// dialog данные текущего шага диалога
type dialog struct {
	ctx    context.Context
	b      *bot.Bot
	update *models.Update
	user   *model.User
	chatID int64
}

func (d dialog) telegramID() int64 {
	return d.update.Message.From.ID
}

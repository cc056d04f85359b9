package controller

import (
	"context"

	"github.com/Freeeeeet/gym_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/gym_bot/internal/controller/handlers"
	"github.com/Freeeeeet/gym_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

// Services сервисы, которые использует бот
type Services = callbacks.Services

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём callback handler с зависимостями через адаптер
	callbackHandler := callbacks.NewHandler(
		services,
		state.NewAdapter(stateManager),
		logger,
	)

	// Команды используют те же сервисы и экраны
	cmdHandlers := handlers.NewHandlers(
		callbackHandler.Handler,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/menu", bot.MatchTypeExact, c.handlers.HandleMainMenu)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/profile", bot.MatchTypeExact, c.handlers.HandleProfile)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/gyms", bot.MatchTypeExact, c.handlers.HandleGyms)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/requests", bot.MatchTypeExact, c.handlers.HandleRequests)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/inbox", bot.MatchTypeExact, c.handlers.HandleInbox)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/routines", bot.MatchTypeExact, c.handlers.HandleRoutines)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/becomeprofessor", bot.MatchTypeExact, c.handlers.HandleBecomeProfessor)

	// Команды администратора
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mygyms", bot.MatchTypeExact, c.handlers.HandleMyGyms)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newgym", bot.MatchTypeExact, c.handlers.HandleNewGym)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "menu", Description: "📋 Главное меню"},
		{Command: "profile", Description: "👤 Профиль"},
		{Command: "gyms", Description: "🏟 Список залов"},
		{Command: "requests", Description: "📨 Заявки"},
		{Command: "inbox", Description: "✉️ Сообщения"},
		{Command: "routines", Description: "📋 Программы тренировок"},
		{Command: "becomeprofessor", Description: "🎓 Стать тренером"},
		{Command: "mygyms", Description: "🛡 Мои залы (администратор)"},
		{Command: "newgym", Description: "➕ Создать зал (администратор)"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "cancel", Description: "❌ Отменить ввод"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/gym_bot/internal/app"
	"github.com/Freeeeeet/gym_bot/internal/config"
	"github.com/Freeeeeet/gym_bot/internal/controller"
	"github.com/Freeeeeet/gym_bot/internal/repository"
	"github.com/Freeeeeet/gym_bot/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting gym bot",
		zap.String("environment", cfg.Environment),
		zap.Int("admins", len(cfg.AdminTelegramIDs)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := app.NewPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	gymRepo := repository.NewGymRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	routineRepo := repository.NewRoutineRepository(pool)

	// Сервисы
	relationshipService := service.NewRelationshipService(gymRepo, userRepo, logger)
	userService := service.NewUserService(userRepo, relationshipService, cfg.AdminTelegramIDs, logger)
	services := controller.Services{
		Users:         userService,
		Gyms:          service.NewGymService(gymRepo, userRepo, relationshipService, logger),
		Requests:      service.NewRequestService(requestRepo, userRepo, gymRepo, userService, relationshipService, logger),
		Relationships: relationshipService,
		Messages:      service.NewMessageService(messageRepo, userRepo, logger),
		Routines:      service.NewRoutineService(routineRepo, userRepo, logger),
	}

	scheduler := app.NewScheduler(relationshipService, cfg.CacheReset, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, services, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	return botController.Start(ctx)
}

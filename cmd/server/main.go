package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/app"
	"github.com/snowpro-school/schedule-service/internal/cache"
	"github.com/snowpro-school/schedule-service/internal/config"
	"github.com/snowpro-school/schedule-service/internal/events"
	"github.com/snowpro-school/schedule-service/internal/handler"
	"github.com/snowpro-school/schedule-service/internal/notify"
	"github.com/snowpro-school/schedule-service/internal/repository"
	"github.com/snowpro-school/schedule-service/internal/router"
	"github.com/snowpro-school/schedule-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	resourceRepo := repository.NewResourceRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	walletRepo := repository.NewWalletRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	blockRepo := repository.NewBlockRepository(pool)
	rateRepo := repository.NewRateRepository(pool)

	// Кэш расписания (опционально)
	var scheduleCache *cache.ScheduleCache
	if cfg.RedisAddr != "" {
		scheduleCache = cache.NewScheduleCache(cfg.RedisAddr, logger)
		defer scheduleCache.Close()
		logger.Info("Schedule cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	// Уведомления: телеграм, если задан токен, иначе заглушка
	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notifier = tg
		logger.Info("Telegram notifications enabled",
			zap.Int("admin_chats", len(cfg.AdminChatIDs)))
	}
	notifySvc := notify.NewService(notifier, cfg.AdminChatIDs, logger)

	// Публикация событий (опционально)
	var publisher *events.Publisher
	if cfg.RabbitURL != "" {
		publisher = events.NewPublisher(cfg.RabbitURL, logger)
		logger.Info("Event publishing enabled")
	}

	// Сервисы
	calendarSvc := service.NewCalendarService(resourceRepo, slotRepo, blockRepo, scheduleCache, logger)
	templateSvc := service.NewTemplateService(templateRepo, resourceRepo, logger)
	materializerSvc := service.NewMaterializerService(
		pool, calendarSvc, templateRepo, sessionRepo, rateRepo, notifySvc, publisher, logger)
	sessionSvc := service.NewSessionService(
		pool, sessionRepo, slotRepo, participantRepo, walletRepo, templateRepo,
		resourceRepo, clientRepo, notifySvc, publisher, scheduleCache, logger)
	blockSvc := service.NewBlockService(pool, blockRepo, scheduleCache, logger)
	walletSvc := service.NewWalletService(walletRepo, logger)

	// Фоновые задачи
	scheduler := app.NewScheduler(
		materializerSvc, slotRepo, sessionRepo, participantRepo, resourceRepo, notifySvc, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	h := handler.New(calendarSvc, sessionSvc, templateSvc, materializerSvc, blockSvc, walletSvc, logger)
	e := router.New(h)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown по сигналу
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

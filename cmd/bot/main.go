package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"remindbot/internal/config"
	"remindbot/internal/handler"
	"remindbot/internal/locale"
	"remindbot/internal/logger"
	"remindbot/internal/middleware"
	"remindbot/internal/repository/postgres"
	"remindbot/internal/scheduler"
	"remindbot/internal/service"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting reminder bot", zap.String("log_level", cfg.LogLevel))

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Database connection established")

	if err := postgres.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	catalog, err := locale.Load()
	if err != nil {
		log.Fatal("Failed to load translations", zap.Error(err))
	}

	// Initialize repositories
	settingsRepo := postgres.NewSettingsRepo(db)
	draftRepo := postgres.NewDraftRepo(db)
	reminderRepo := postgres.NewReminderRepo(db)

	// Initialize services
	defaults := cfg.DefaultSettings()
	settingsService := service.NewSettingsService(settingsRepo, defaults, log)
	chatLocks := service.NewChatLocks()
	intakeService := service.NewIntakeService(draftRepo, reminderRepo, settingsService, chatLocks, nil, log)
	reminderService := service.NewReminderService(reminderRepo, chatLocks)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("Unhandled bot error", zap.Error(err))
		},
	})
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	bot.Use(middleware.Recover(log, catalog.T(defaults.Language, "error")))
	bot.Use(middleware.Logger(log))

	h := handler.NewHandler(bot, intakeService, settingsService, reminderService, catalog, log)
	h.RegisterHandlers()

	log.Info("Handlers registered")

	dispatcher := scheduler.New(
		reminderRepo,
		settingsService,
		handler.NewNotifier(bot, catalog),
		scheduler.Config{
			Interval: cfg.Dispatch.Interval,
			Rate:     cfg.Dispatch.Rate,
			Batch:    cfg.Dispatch.Batch,
			Locks:    chatLocks,
		},
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Bot started successfully")
		bot.Start()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutdown signal received, stopping bot...")
		bot.Stop()
		return nil
	})

	g.Go(func() error {
		return dispatcher.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Stopped with error", zap.Error(err))
		return
	}

	log.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

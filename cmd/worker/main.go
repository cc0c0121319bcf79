package main

import (
	"context"
	"database/sql"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"openschool/internal/config"
	"openschool/internal/logger"
	"openschool/internal/pubsub"
	"openschool/internal/repository"
	"openschool/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// The worker consumes course-update jobs from Pub/Sub and emails active
// subscribers, and periodically deactivates accounts that have gone quiet.
func main() {
	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		dsn += " sslmode=disable"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}
	logger.Info().Msg("Database connection established")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	subscriber, err := pubsub.NewSubscriber(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub subscriber: %v", err)
	}
	defer subscriber.Close()

	subscriptionRepo := repository.NewSubscriptionRepo(db)
	userRepo := repository.NewUserRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	mailer := service.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFromAddr)
	// The worker only fans out; a nil queue keeps CourseUpdated inert.
	notifier := service.NewNotifier(nil, subscriptionRepo, mailer,
		time.Duration(cfg.NotificationWindowHours)*time.Hour, logger)
	userSvc := service.NewUserService(userRepo, paymentRepo, cfg, logger)

	// Periodic sweep of accounts with no recent login.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.InactiveSweepHours) * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := userSvc.BlockInactive(ctx); err != nil {
					logger.Error().Err(err).Msg("Inactive user sweep failed")
				}
			}
		}
	}()

	logger.Info().Str("subscription", cfg.NotificationSubscription).Msg("Worker listening for course updates")
	err = subscriber.Receive(ctx, func(ctx context.Context, msg pubsub.CourseUpdateMessage) error {
		return notifier.SendCourseUpdateEmails(ctx, msg.CourseID)
	})
	if err != nil {
		logger.Fatal().Msgf("Receive loop failed: %v", err)
	}

	logger.Info().Msg("Worker stopped gracefully")
}

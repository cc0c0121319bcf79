package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"openschool/internal/api/v1/handler"
	"openschool/internal/config"
	"openschool/internal/middleware"
	"openschool/internal/pubsub"
	"openschool/internal/repository"
	"openschool/internal/service"

	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires repositories, services and handlers into the API handler. The
// returned *sql.DB and Publisher are owned by the caller and closed on
// shutdown.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, *pubsub.Publisher, error) {
	// In development SSL is disabled for local testing; in production the
	// connection string carries its own SSL settings.
	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			separator = "?"
			if strings.Contains(dsn, "?") {
				separator = "&"
			}
		}
		dsn += separator + "sslmode=disable"
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	validate := validator.New(validator.WithRequiredStructEnabled())

	publisher, err := pubsub.NewPublisher(context.Background(), cfg)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	userRepo := repository.NewUserRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	lessonRepo := repository.NewLessonRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	mailer := service.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFromAddr)
	notifier := service.NewNotifier(publisher, subscriptionRepo, mailer,
		time.Duration(cfg.NotificationWindowHours)*time.Hour, logger)
	stripeGateway := service.NewStripeService(cfg, logger)

	userSvc := service.NewUserService(userRepo, paymentRepo, cfg, logger)
	courseSvc := service.NewCourseService(courseRepo, lessonRepo, subscriptionRepo, notifier, logger)
	lessonSvc := service.NewLessonService(lessonRepo, courseRepo, notifier, logger)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, courseRepo, logger)
	paymentSvc := service.NewPaymentService(paymentRepo, courseRepo, stripeGateway, logger)

	userHandler := handler.NewUserHandler(userSvc, validate, logger)
	courseHandler := handler.NewCourseHandler(courseSvc, validate, cfg.DefaultPageSize, logger)
	lessonHandler := handler.NewLessonHandler(lessonSvc, validate, cfg.DefaultPageSize, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc, validate, logger)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, validate, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	courseHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	lessonHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	subscriptionHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	paymentHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), db, publisher, nil
}

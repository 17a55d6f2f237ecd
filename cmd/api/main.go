package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/portfolio-contact-api/internal/config"
	"github.com/noah-isme/portfolio-contact-api/internal/database"
	"github.com/noah-isme/portfolio-contact-api/internal/handler"
	"github.com/noah-isme/portfolio-contact-api/internal/middleware"
	"github.com/noah-isme/portfolio-contact-api/internal/models"
	"github.com/noah-isme/portfolio-contact-api/internal/repository"
	"github.com/noah-isme/portfolio-contact-api/internal/router"
	"github.com/noah-isme/portfolio-contact-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.ContactMessage{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	readiness := []handler.DependencyCheck{databaseCheck(db)}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		readiness = append(readiness, handler.DependencyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		readiness = append(readiness, handler.DependencyCheck{
			Name: "nats",
			Check: func(context.Context) error {
				if !natsConn.IsConnected() {
					return fmt.Errorf("nats connection %s", natsConn.Status())
				}
				return nil
			},
		})
	}

	sender, err := newEmailSender(cfg, logger)
	if err != nil {
		log.Fatalf("failed to configure email provider: %v", err)
	}

	contactRepo := repository.NewContactRepository(db)
	composer := service.NewEmailComposer(cfg.EmailFrom, cfg.EmailTo)
	events := service.NewContactEventPublisher(redisClient, natsConn, cfg.EventsChannel)

	contactService := service.NewContactService(contactRepo, composer, sender, events, logger)
	adminContactService := service.NewAdminContactService(contactRepo, logger)

	deps := router.Dependencies{
		ContactHandler:      handler.NewContactHandler(contactService, logger),
		AdminContactHandler: handler.NewAdminContactHandler(adminContactService, logger),
		ReadinessChecks:     readiness,
	}
	if cfg.AdminEnabled() {
		deps.JWTMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	} else {
		logger.Info().Msg("admin inbox disabled: jwt secret not configured")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLogs: cfg.AppEnv == "development"})
	router.Register(app, cfg, deps)

	logger.Info().
		Str("address", cfg.HTTPAddress()).
		Str("email_provider", cfg.EmailProvider).
		Bool("redis", redisClient != nil).
		Bool("nats", natsConn != nil).
		Msg("starting contact api")

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func newEmailSender(cfg config.Config, logger zerolog.Logger) (service.EmailSender, error) {
	switch cfg.EmailProvider {
	case config.EmailProviderSMTP:
		return service.NewSMTPSender(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		}, logger)
	case config.EmailProviderLog:
		return service.NewLogEmailSender(logger), nil
	default:
		return service.NewResendSender(service.ResendConfig{
			APIKey:  cfg.ResendAPIKey,
			BaseURL: cfg.ResendBaseURL,
			Timeout: cfg.EmailTimeout,
		}, logger)
	}
}

func databaseCheck(db *gorm.DB) handler.DependencyCheck {
	return handler.DependencyCheck{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}

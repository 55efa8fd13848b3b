package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/admitpath/admissions-api/internal/channel"
	"github.com/admitpath/admissions-api/internal/config"
	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/admitpath/admissions-api/internal/events"
	"github.com/admitpath/admissions-api/internal/handler"
	"github.com/admitpath/admissions-api/internal/infra/mongodb"
	"github.com/admitpath/admissions-api/internal/infra/postgresql"
	"github.com/admitpath/admissions-api/internal/infra/postgresql/migrations"
	infraredis "github.com/admitpath/admissions-api/internal/infra/redis"
	"github.com/admitpath/admissions-api/internal/observability"
	"github.com/admitpath/admissions-api/internal/repository"
	"github.com/admitpath/admissions-api/internal/service"
	"github.com/admitpath/admissions-api/internal/transport"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	mongoClient, mongoDB, err := mongodb.NewMongo(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongodb initialization failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		mongoClient.Disconnect(ctx) //nolint:errcheck
	}()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	rabbit, err := events.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	defer rabbit.Close()

	metrics := observability.NewMetrics()

	notificationRepo := repository.NewGormNotificationRepo(db)
	studentRepo := repository.NewGormStudentRepo(db)
	essayRepo := repository.NewMongoEssayRepo(mongoDB)

	studentService, err := service.NewStudentService(studentRepo, logger)
	if err != nil {
		logger.Fatal("student service init failed", zap.Error(err))
	}

	senders, err := buildSenderRegistry(cfg, studentService)
	if err != nil {
		logger.Fatal("sender registry init failed", zap.Error(err))
	}

	publisher := events.NewRabbitMQPublisher(rabbit)
	defer publisher.Close()

	notificationService, err := service.NewNotificationService(notificationRepo, senders, publisher, logger)
	if err != nil {
		logger.Fatal("notification service init failed", zap.Error(err))
	}
	notificationService.SetMetrics(metrics)

	essayService, err := service.NewEssayService(essayRepo, logger)
	if err != nil {
		logger.Fatal("essay service init failed", zap.Error(err))
	}

	matchingService, err := service.NewMatchingService(studentRepo, logger)
	if err != nil {
		logger.Fatal("matching service init failed", zap.Error(err))
	}

	rateLimiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.RateLimitPerSec)
	if err != nil {
		logger.Fatal("rate limiter init failed", zap.Error(err))
	}

	worker, err := service.NewDispatchWorker(
		notificationRepo,
		notificationService,
		rateLimiter,
		time.Duration(cfg.DispatchIntervalSec)*time.Second,
		cfg.DispatchBatchLimit,
		cfg.DispatchConcurrency,
		logger,
	)
	if err != nil {
		logger.Fatal("dispatch worker init failed", zap.Error(err))
	}
	worker.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		AppName:      "admissions-api",
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(fiberrecover.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handler.RegisterHealthRoutes(app, sqlDB, mongoClient, rdb)
	if err := handler.RegisterNotificationRoutes(app, notificationService); err != nil {
		logger.Fatal("notification routes init failed", zap.Error(err))
	}
	if err := handler.RegisterStudentRoutes(app, studentService); err != nil {
		logger.Fatal("student routes init failed", zap.Error(err))
	}
	if err := handler.RegisterEssayRoutes(app, essayService); err != nil {
		logger.Fatal("essay routes init failed", zap.Error(err))
	}
	if err := handler.RegisterMatchingRoutes(app, matchingService); err != nil {
		logger.Fatal("matching routes init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("admissions api started", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})
	g.Go(func() error {
		return worker.Start(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown finished with error", zap.Error(err))
	}
}

func buildSenderRegistry(cfg *config.Config, students *service.StudentService) (*channel.Registry, error) {
	registry := channel.NewRegistry()

	emailSender, err := channel.NewEmailSender(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.SMTPFrom,
		students.EmailByID,
	)
	if err != nil {
		return nil, err
	}
	registry.Register(domain.ChannelEmail, emailSender)
	registry.Register(domain.ChannelInApp, channel.NewInAppSender())

	// SMS and push senders come up only when a gateway is configured;
	// dispatch over an unregistered channel records a failed attempt.
	if cfg.SMSGatewayURL != "" {
		smsSender, err := channel.NewWebhookSender(cfg.SMSGatewayURL)
		if err != nil {
			return nil, err
		}
		registry.Register(domain.ChannelSMS, smsSender)
	}
	if cfg.PushGatewayURL != "" {
		pushSender, err := channel.NewWebhookSender(cfg.PushGatewayURL)
		if err != nil {
			return nil, err
		}
		registry.Register(domain.ChannelPush, pushSender)
	}

	return registry, nil
}

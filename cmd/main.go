package main

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sortieapp/sortie/config"
	"github.com/sortieapp/sortie/internal/api"
	"github.com/sortieapp/sortie/internal/gate"
	"github.com/sortieapp/sortie/internal/handler"
	"github.com/sortieapp/sortie/internal/repository"
	"github.com/sortieapp/sortie/internal/service"
	"github.com/sortieapp/sortie/internal/storage"
	"github.com/sortieapp/sortie/middleware/jwt"
	logger "github.com/sortieapp/sortie/middleware/log"
	"github.com/sortieapp/sortie/pkg/mq"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Close()

	// PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	db, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		zlog.Fatal("failed to init postgres", zap.Error(err))
	}

	// Redis
	redisClient, err := storage.InitRedis(&cfg.Redis)
	if err != nil {
		zlog.Fatal("failed to init redis", zap.Error(err))
	}
	tokens := storage.NewTokenStore(redisClient)

	// MinIO
	objectStore, err := storage.NewMinioStorage(context.Background(), &cfg.Minio)
	if err != nil {
		zlog.Fatal("failed to init object storage", zap.Error(err))
	}

	// Kafka, optional: the API degrades to no notifications when the
	// broker is unreachable.
	var notifier service.Notifier
	kafkaNotifier, err := mq.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog.Logger)
	if err != nil {
		zlog.Warn("kafka unavailable, running without notifications", zap.Error(err))
	} else {
		notifier = kafkaNotifier
		defer kafkaNotifier.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	eventRepo := repository.NewEventRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	imageRepo := repository.NewImageRepository(db)

	g := gate.New(membershipRepo, participationRepo, reactionRepo, eventRepo)

	// Services
	tokenManager := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.JWT.RefreshHours)
	authService := service.NewAuthService(userRepo, tokenManager, tokens)
	imageService := service.NewImageService(imageRepo, eventRepo, objectStore, g)
	userService := service.NewUserService(userRepo, membershipRepo, eventRepo, imageRepo, imageService, tokens)
	groupService := service.NewGroupService(groupRepo, membershipRepo, eventRepo, imageRepo, g)
	membershipService := service.NewMembershipService(membershipRepo, groupRepo, userRepo, g, notifier)
	eventService := service.NewEventService(eventRepo, participationRepo, imageRepo, g)
	commentService := service.NewCommentService(commentRepo, reactionRepo, eventRepo, g)
	messageService := service.NewMessageService(messageRepo, groupRepo, g, notifier)

	// Handlers
	handlers := &api.Handlers{
		Auth:    handler.NewAuthHandler(authService, imageService, zlog.Logger),
		User:    handler.NewUserHandler(userService, imageService),
		Group:   handler.NewGroupHandler(groupService, membershipService, imageService),
		Event:   handler.NewEventHandler(eventService, imageService),
		Comment: handler.NewCommentHandler(commentService),
		Message: handler.NewMessageHandler(messageService),
		Image:   handler.NewImageHandler(imageService),
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(api.Recovery(zlog.Logger))

	api.RegisterRoutes(r, handlers, tokenManager, tokens, zlog.Logger)

	zlog.Info("starting server", zap.Int("port", cfg.Server.Port))
	if err := r.Run(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"strings"
	"time"

	"whitebeat/config"
	"whitebeat/internal/handler"
	"whitebeat/internal/proxy"
	"whitebeat/internal/redis"
	"whitebeat/internal/repository"
	"whitebeat/internal/server"
	"whitebeat/internal/services"
	"whitebeat/internal/storage"
	"whitebeat/pkg/database"
	"whitebeat/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.Server.Environment == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := redis.NewClient(redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	publisher := redis.NewPublisher(redisClient)
	presence := redis.NewPresenceStore(redisClient, 5*time.Minute)
	limiter := redis.NewRateLimiter(redisClient, redis.DefaultRateLimitConfig())

	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	callRepo := repository.NewCallRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	access := proxy.NewAccessControl(conversationRepo, groupRepo, privilegedFromConfig(cfg.Auth.PrivilegedUserIDs))
	auditPub := services.NewAuditPublisher(auditRepo, publisher, l)

	authService := services.NewAuthService(cfg.Auth.AccessSecret, 24*time.Hour)
	userService := services.NewUserService(userRepo, presence, auditPub)
	conversationService := services.NewConversationService(conversationRepo, messageRepo, auditPub)
	groupService := services.NewGroupService(groupRepo, userRepo, messageRepo, access, auditPub, nil)
	messageService := services.NewMessageService(db, messageRepo, conversationRepo, userRepo, access, auditPub, nil)
	statusService := services.NewStatusService(statusRepo, userRepo, auditPub)
	callService := services.NewCallService(callRepo, access, auditPub, nil)

	var uploadService *services.UploadService
	store, err := storage.NewClient(context.Background(), storage.S3Config{
		Region:     cfg.Media.S3Region,
		Bucket:     cfg.Media.S3Bucket,
		AccessKey:  cfg.Media.AccessKey,
		SecretKey:  cfg.Media.SecretKey,
		Endpoint:   cfg.Media.S3Endpoint,
		PresignTTL: time.Duration(cfg.Media.PresignExpirySeconds) * time.Second,
	})
	if err != nil {
		l.Errorf("S3 storage unavailable, uploads disabled: %s", err)
		uploadService = services.NewUploadService(nil)
	} else {
		uploadService = services.NewUploadService(store)
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		User:         handler.NewUserHandler(userService, authService),
		Conversation: handler.NewConversationHandler(conversationService),
		Group:        handler.NewGroupHandler(groupService),
		Message:      handler.NewMessageHandler(messageService),
		Status:       handler.NewStatusHandler(statusService),
		Call:         handler.NewCallHandler(callService),
		Upload:       handler.NewUploadHandler(uploadService),
	}, authService, limiter, db)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

// privilegedFromConfig builds the authorization predicate from a static
// allow list.
func privilegedFromConfig(raw string) proxy.PrivilegedFunc {
	ids := make(map[uuid.UUID]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := uuid.Parse(part); err == nil {
			ids[id] = true
		}
	}
	return func(userID uuid.UUID) bool {
		return ids[userID]
	}
}

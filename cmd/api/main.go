package main

import (
	"context"
	"log"
	"time"

	"chatguard/config"
	"chatguard/internal/auth"
	"chatguard/internal/handler"
	"chatguard/internal/middleware"
	"chatguard/internal/redis"
	"chatguard/internal/repository"
	"chatguard/internal/server"
	"chatguard/internal/services"
	"chatguard/pkg/database"
	"chatguard/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	verifier, err := auth.NewVerifier(auth.Config{
		SecretKey:         cfg.JWTSecret,
		AllowedAlgorithms: cfg.JWTAlgorithms,
		ClockSkew:         cfg.JWTClockSkew,
	})
	if err != nil {
		l.Logger.Fatal("failed to build token verifier", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	checks := map[string]handler.HealthCheck{}

	if err := database.Connect(ctx, cfg, l); err != nil {
		l.Logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	var (
		users    repository.UserRepository
		chats    repository.ChatRepository
		messages repository.MessageRepository
	)
	if database.Pool != nil {
		if err := database.InitSchema(ctx, database.Pool); err != nil {
			l.Logger.Fatal("failed to initialize schema", zap.Error(err))
		}
		users = repository.NewUserRepository(database.Pool)
		chats = repository.NewChatRepository(database.Pool)
		messages = repository.NewMessageRepository(database.Pool)
		checks["database"] = database.HealthCheck
	} else {
		l.Logger.Warn("using in-memory store; data is lost on restart")
		store := repository.NewMemoryStore()
		users, chats, messages = store.Users(), store.Chats(), store.Messages()
	}

	var (
		limiter middleware.VerifyLimiter
		cache   services.UserCache
	)
	if cfg.RedisAddr != "" {
		client, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			l.Logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
			VerifyLimit:  cfg.VerifyRateLimit,
			VerifyWindow: cfg.VerifyRateWindow,
		})
		cache = redis.NewCacheStore(client, redis.CacheConfig{UserTTL: cfg.UserCacheTTL})
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	} else {
		l.Logger.Info("REDIS_ADDR not set; verification is not rate limited and users are not cached")
	}

	authService := services.NewAuthService(verifier, l)
	chatService := services.NewChatService(users, chats, messages, cache, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Chat:   handler.NewChatHandler(chatService),
		Health: handler.NewHealthHandler(checks),
	}, authService, limiter)

	if err := srv.Start(); err != nil {
		l.Errorf("server exited: %v", err)
	}
}

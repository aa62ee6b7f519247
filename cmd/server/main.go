package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"chathub/docs"
	"chathub/internal/auth"
	"chathub/internal/cache"
	"chathub/internal/config"
	"chathub/internal/db"
	"chathub/internal/handler"
	"chathub/internal/logstream"
	"chathub/internal/model"
	"chathub/internal/repository"
	"chathub/internal/router"
	"chathub/internal/service"
)

// @title Chathub API
// @version 1.0
// @description Multi-user chat backend with email-verified registration, admin approval and realtime log streaming.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	// SwaggerHost overrides the doc host for deployments behind a proxy.
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.SetupJoinTable(&model.Chat{}, "Users", &model.ChatUser{}); err != nil {
		log.Fatalf("setup join table: %v", err)
	}
	if err := gormDB.SetupJoinTable(&model.User{}, "Chats", &model.ChatUser{}); err != nil {
		log.Fatalf("setup join table: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.ChatMessage{},
			&model.ChatUser{},
			&model.Chat{},
			&model.Credential{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Credential{},
		&model.Chat{},
		&model.ChatUser{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// The log stream lives for the whole process; handlers and middleware
	// share this one instance.
	stream := logstream.New(cfg.LogStreamBuffer)
	defer stream.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	credRepo := repository.NewCredentialRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)
	msgRepo := repository.NewChatMessageRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, credRepo, hasher)
	credService := service.NewCredentialService(credRepo, hasher)
	chatService := service.NewChatService(chatRepo, userRepo)
	msgService := service.NewChatMessageService(msgRepo, chatRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	credHandler := handler.NewCredentialHandler(credService)
	chatHandler := handler.NewChatHandler(chatService)
	msgHandler := handler.NewChatMessageHandler(msgService)
	logHandler := handler.NewLogHandler(stream)
	healthHandler := handler.NewHealthHandler(gormDB)

	// Register routes
	router.Register(
		e,
		cfg,
		stream,
		tokenStore,
		authHandler,
		userHandler,
		credHandler,
		chatHandler,
		msgHandler,
		logHandler,
		healthHandler,
	)

	stream.Publish("INFO", "server starting on port "+cfg.ServerPort, "app")

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

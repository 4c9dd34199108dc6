package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/ai"
	"go-ai-todo/backend/internal/config"
	"go-ai-todo/backend/internal/database"
	"go-ai-todo/backend/internal/handlers"
	"go-ai-todo/backend/internal/lifecycle"
	"go-ai-todo/backend/internal/logger"
	"go-ai-todo/backend/internal/repositories"
	"go-ai-todo/backend/internal/routes"
	"go-ai-todo/backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	gin.SetMode(cfg.GinMode)

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Shutdown, zapLogger)
	stopSignals := manager.Listen(cancel)
	defer stopSignals()

	// ストレージ: 初回接続に失敗したらプロセスを終了する
	var (
		todoRepo repositories.TodoRepository
		db       handlers.Pinger
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		zapLogger.Warn("using in-memory storage, data is lost on restart")
		todoRepo = repositories.NewMemoryTodoRepository()
	default:
		store, err := database.Connect(appCtx, cfg.Storage, zapLogger)
		if err != nil {
			zapLogger.Fatal("error connecting to MongoDB", zap.Error(err))
		}
		manager.Register("mongo", store.Disconnect)
		todoRepo = repositories.NewMongoTodoRepository(store.Collection(), zapLogger)
		db = store
	}

	// AI: キーがなければ analyze は500を返す
	var generator ai.Generator
	gemini, err := ai.NewGeminiClient(appCtx, cfg.AI.APIKey, cfg.AI.Model, zapLogger)
	if err != nil {
		zapLogger.Warn("AI client disabled", zap.Error(err))
	} else {
		generator = gemini
		manager.Register("gemini", func(ctx context.Context) error { return gemini.Close() })
	}

	var jwtService *services.JWTService
	if cfg.JWT.Secret != "" {
		if jwtService, err = services.NewJWTService(cfg.JWT.Secret); err != nil {
			zapLogger.Fatal("jwt setup failed", zap.Error(err))
		}
	}

	todoService := services.NewTodoService(todoRepo, generator,
		services.WithStrictNotFound(cfg.StrictNotFound),
		services.WithLogger(zapLogger),
	)

	router := routes.SetupRouter(routes.Dependencies{
		TodoService:  todoService,
		JWTService:   jwtService,
		DB:           db,
		AllowOrigins: cfg.CORS.AllowOrigins,
		Logger:       zapLogger,
	})

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("server running", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()
	manager.Register("http_server", server.Shutdown)

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

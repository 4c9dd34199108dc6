// Package routesはroutingを行います。
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/handlers"
	"go-ai-todo/backend/internal/services"
)

// Dependencies はルーターが必要とする依存関係です。
type Dependencies struct {
	TodoService  *services.TodoService
	JWTService   *services.JWTService // nil の場合、トークン付きリクエストは401
	DB           handlers.Pinger      // nil の場合、インメモリとして扱う
	AllowOrigins []string
	Logger       *zap.Logger
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log))

	// CORS対策
	config := cors.DefaultConfig()
	if len(deps.AllowOrigins) == 0 || deps.AllowOrigins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = deps.AllowOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	config.MaxAge = 12 * time.Hour
	r.Use(cors.New(config))

	todoHandler := handlers.NewTodoHandler(deps.TodoService, log)

	r.GET("/dbcheck", handlers.DBCheckHandler(deps.DB, log))

	todos := r.Group("/todos")
	todos.Use(Identity(deps.JWTService))
	{
		todos.POST("", todoHandler.CreateTodoHandler)
		todos.POST("/analyze", todoHandler.AnalyzeTodoHandler)
		todos.GET("", todoHandler.GetTodosHandler)
		todos.PUT("/:todoId", todoHandler.UpdateTodoHandler)
		todos.DELETE("/:todoId", todoHandler.DeleteTodoHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}

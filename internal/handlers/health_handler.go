package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/logger"
)

// Pinger は疎通確認ができるストレージです。
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBCheckHandler はデータベース接続の健全性を確認します。
func DBCheckHandler(db Pinger, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "In-memory storage"})
			return
		}
		if err := db.Ping(c.Request.Context()); err != nil {
			logger.WithRequestID(c.Request.Context(), log).Error("DB ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	}
}

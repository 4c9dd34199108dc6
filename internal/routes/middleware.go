package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/handlers"
	"go-ai-todo/backend/internal/logger"
	"go-ai-todo/backend/internal/services"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダーです。
const RequestIDHeader = "X-Request-ID"

// RequestID はリクエストIDを採番 (または引き継ぎ) し、コンテキストとレスポンスヘッダーに設定します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog は各リクエストの結果をzapで記録します。
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		l := logger.WithRequestID(c.Request.Context(), log)
		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Warn("request completed", fields...)
			return
		}
		l.Info("request completed", fields...)
	}
}

// Identity はBearerトークンがあれば検証し、ユーザーIDをコンテキストに設定するミドルウェアです。
// トークンなしのリクエストは匿名として通します。
// jwtService が nil の場合は Authorization ヘッダーを見ずに全リクエストを匿名として通します。
func Identity(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if jwtService == nil || header == "" {
			c.Next()
			return
		}
		// "Bearer " プレフィックスを削除
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(handlers.ContextUserID, claims.UserID)
		c.Next()
	}
}

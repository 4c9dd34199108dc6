package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/apperrors"
	"go-ai-todo/backend/internal/logger"
	"go-ai-todo/backend/internal/models"
	"go-ai-todo/backend/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
	logger      *zap.Logger
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, log *zap.Logger) *TodoHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TodoHandler{todoService: todoService, logger: log}
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	req, ok := h.bindTodoRequest(c)
	if !ok {
		return
	}

	created, err := h.todoService.CreateTodo(c.Request.Context(), req, c.GetString(ContextUserID))
	if err != nil {
		h.respondError(c, err, "Failed to create todo")
		return
	}
	c.JSON(http.StatusCreated, models.CreateTodoResponse{
		TodoID:  created.ID.Hex(),
		Message: "Todo created successfully",
	})
}

// AnalyzeTodoHandler は説明文をAIで分析します。
func (h *TodoHandler) AnalyzeTodoHandler(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required for analysis"})
		return
	}

	analysis, err := h.todoService.AnalyzeDescription(c.Request.Context(), req.Description)
	if err != nil {
		h.respondError(c, err, "AI analysis failed")
		return
	}
	c.JSON(http.StatusOK, models.AnalyzeResponse{Analysis: analysis})
}

// GetTodosHandler はTodoリストを取得します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	todos, err := h.todoService.GetTodos(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to fetch todos")
		return
	}
	c.JSON(http.StatusOK, todos)
}

// UpdateTodoHandler はTodoを更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	req, ok := h.bindTodoRequest(c)
	if !ok {
		return
	}

	err := h.todoService.UpdateTodo(c.Request.Context(), c.Param("todoId"), req, c.GetString(ContextUserID))
	if err != nil {
		h.respondError(c, err, "Failed to update todo")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Todo updated successfully"})
}

// DeleteTodoHandler はTodoを削除します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	err := h.todoService.DeleteTodo(c.Request.Context(), c.Param("todoId"), c.GetString(ContextUserID))
	if err != nil {
		h.respondError(c, err, "Failed to delete todo")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Todo deleted successfully"})
}

// bindTodoRequest はボディを読み取ります。空ボディは空のリクエストとして扱います。
func (h *TodoHandler) bindTodoRequest(c *gin.Context) (models.TodoRequest, bool) {
	var req models.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return req, false
	}
	return req, true
}

// respondError はエラー分類をHTTPステータスに変換します。
// 詳細はログにのみ出力し、クライアントには安全な文言だけを返します。
func (h *TodoHandler) respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(apperrors.KindOf(err))
	log := logger.WithRequestID(c.Request.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		log.Info("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
	}

	message := fallback
	if status < http.StatusInternalServerError || apperrors.Is(err, apperrors.KindUpstream) {
		message = apperrors.PublicMessage(err, fallback)
	}
	c.JSON(status, gin.H{"error": message})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-ai-todo/backend/internal/ai"
	"go-ai-todo/backend/internal/apperrors"
	"go-ai-todo/backend/internal/models"
	"go-ai-todo/backend/internal/repositories"
)

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo       repositories.TodoRepository
	generator      ai.Generator
	strictNotFound bool
	now            func() time.Time
	logger         *zap.Logger
}

// Option はTodoServiceの任意設定です。
type Option func(*TodoService)

// WithStrictNotFound は更新・削除で一致0件のときに NotFound を返すようにします。
func WithStrictNotFound(strict bool) Option {
	return func(s *TodoService) { s.strictNotFound = strict }
}

// WithClock は現在時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(s *TodoService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewTodoService は新しいTodoServiceを作成します。generator は nil でも構いません。
func NewTodoService(todoRepo repositories.TodoRepository, generator ai.Generator, opts ...Option) *TodoService {
	s := &TodoService{
		todoRepo:  todoRepo,
		generator: generator,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp はMongoDBの保存精度 (ミリ秒) に揃えたUTC時刻を返します。
func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// CreateTodo は新しいTodoを作成します。createdAt と updatedAt は同じ時刻です。
func (s *TodoService) CreateTodo(ctx context.Context, req models.TodoRequest, userID string) (*models.Todo, error) {
	now := s.timestamp()
	todo := &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.todoRepo.Create(ctx, todo)
}

// GetTodos は全てのTodoを取得します。
func (s *TodoService) GetTodos(ctx context.Context) ([]*models.Todo, error) {
	return s.todoRepo.FindAll(ctx)
}

// UpdateTodo はタイトルと説明を置き換え、updatedAt を更新します。
func (s *TodoService) UpdateTodo(ctx context.Context, idHex string, req models.TodoRequest, userID string) error {
	id, err := repositories.ParseTodoID(idHex)
	if err != nil {
		return err
	}
	current, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return s.absorbNotFound(err, "update", idHex)
	}
	err = s.todoRepo.Update(ctx, id, userID, repositories.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		UpdatedAt:   s.nextUpdatedAt(current.UpdatedAt),
	})
	return s.absorbNotFound(err, "update", idHex)
}

// nextUpdatedAt は直前の updatedAt より必ず後になる時刻を返します。
// 同じミリ秒内の更新では1ミリ秒進めます。
func (s *TodoService) nextUpdatedAt(previous time.Time) time.Time {
	now := s.timestamp()
	if floor := previous.UTC().Add(time.Millisecond); now.Before(floor) {
		return floor
	}
	return now
}

// DeleteTodo はTodoを削除します。
func (s *TodoService) DeleteTodo(ctx context.Context, idHex string, userID string) error {
	id, err := repositories.ParseTodoID(idHex)
	if err != nil {
		return err
	}
	return s.absorbNotFound(s.todoRepo.Delete(ctx, id, userID), "delete", idHex)
}

// AnalyzeDescription は説明文をAIに渡し、結果をそのまま返します。
func (s *TodoService) AnalyzeDescription(ctx context.Context, description string) (string, error) {
	if description == "" {
		return "", ai.ErrEmptyPrompt
	}
	if s.generator == nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, "AI analysis failed", ai.ErrNoAPIKey)
	}
	return s.generator.GenerateText(ctx, description)
}

// absorbNotFound は strictNotFound でない場合、一致0件を成功として扱います。
func (s *TodoService) absorbNotFound(err error, op, id string) error {
	if err == nil || s.strictNotFound || !apperrors.Is(err, apperrors.KindNotFound) {
		return err
	}
	s.logger.Debug("no todo matched", zap.String("op", op), zap.String("todo_id", id))
	return nil
}

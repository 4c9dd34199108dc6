// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-ai-todo/backend/internal/apperrors"
	"go-ai-todo/backend/internal/models"
)

// ErrTodoNotFound はTODOが見つからない場合のエラーです。
var ErrTodoNotFound = apperrors.New(apperrors.KindNotFound, "Todo not found")

// TodoUpdate は更新で置き換えるフィールドです。
type TodoUpdate struct {
	Title       string
	Description string
	UpdatedAt   time.Time
}

// TodoRepository はTodoの永続化を抽象化します。
// userID が空の場合、Update/Delete は userId を持たないドキュメントだけに一致します。
type TodoRepository interface {
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	FindAll(ctx context.Context) ([]*models.Todo, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error)
	Update(ctx context.Context, id primitive.ObjectID, userID string, u TodoUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

// ParseTodoID はパスパラメータのIDをObjectIDに変換します。
func ParseTodoID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.Wrap(apperrors.KindValidation, "Invalid todo ID", err)
	}
	return id, nil
}

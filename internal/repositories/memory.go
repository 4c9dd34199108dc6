package repositories

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-ai-todo/backend/internal/models"
)

// MemoryTodoRepository はプロセス内メモリにTodoを保持します。
// DBなしでのローカル起動とテストで使います。
type MemoryTodoRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	todos map[primitive.ObjectID]models.Todo
}

// NewMemoryTodoRepository は空のMemoryTodoRepositoryを作成します。
func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{todos: make(map[primitive.ObjectID]models.Todo)}
}

func (r *MemoryTodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = primitive.NewObjectID()
	r.todos[t.ID] = *t
	r.order = append(r.order, t.ID)
	return t, nil
}

func (r *MemoryTodoRepository) FindAll(ctx context.Context) ([]*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]*models.Todo, 0, len(r.order))
	for _, id := range r.order {
		t := r.todos[id]
		todos = append(todos, &t)
	}
	return todos, nil
}

func (r *MemoryTodoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	return &t, nil
}

func (r *MemoryTodoRepository) Update(ctx context.Context, id primitive.ObjectID, userID string, u TodoUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return ErrTodoNotFound
	}
	t.Title = u.Title
	t.Description = u.Description
	t.UpdatedAt = u.UpdatedAt
	r.todos[id] = t
	return nil
}

func (r *MemoryTodoRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return ErrTodoNotFound
	}
	delete(r.todos, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

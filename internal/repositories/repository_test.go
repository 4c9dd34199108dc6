package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/apperrors"
	"go-ai-todo/backend/internal/config"
	"go-ai-todo/backend/internal/database"
	"go-ai-todo/backend/internal/models"
	"go-ai-todo/backend/internal/repositories"
)

// testRepositories は検証対象のリポジトリを返します。
// TEST_MONGO_URI が設定されていればMongoDB実装も対象にします。
func testRepositories(t *testing.T) map[string]func(t *testing.T) repositories.TodoRepository {
	repos := map[string]func(t *testing.T) repositories.TodoRepository{
		"memory": func(t *testing.T) repositories.TodoRepository {
			return repositories.NewMemoryTodoRepository()
		},
	}

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Log("TEST_MONGO_URI not set, skipping MongoDB repository")
		return repos
	}
	repos["mongo"] = func(t *testing.T) repositories.TodoRepository {
		ctx := context.Background()
		store, err := database.Connect(ctx, config.StorageConfig{
			URI:        uri,
			Database:   "todo_repository_test",
			Collection: "todos",
		}, zap.NewNop())
		require.NoError(t, err)

		coll := store.Collection()
		require.NoError(t, coll.Drop(ctx))
		t.Cleanup(func() {
			_ = coll.Drop(context.Background())
			_ = store.Disconnect(context.Background())
		})
		return repositories.NewMongoTodoRepository(coll, zap.NewNop())
	}
	return repos
}

func newTodo(title, description, userID string, at time.Time) *models.Todo {
	return &models.Todo{
		Title:       title,
		Description: description,
		UserID:      userID,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestTodoRepository(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	for name, open := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("FindAll on empty collection returns empty slice", func(t *testing.T) {
				repo := open(t)
				todos, err := repo.FindAll(ctx)
				require.NoError(t, err)
				require.NotNil(t, todos)
				require.Empty(t, todos)
			})

			t.Run("Create assigns an ID and FindAll returns the record", func(t *testing.T) {
				repo := open(t)
				todo, err := repo.Create(ctx, newTodo("A", "B", "", created))
				require.NoError(t, err)
				require.False(t, todo.ID.IsZero())

				todos, err := repo.FindAll(ctx)
				require.NoError(t, err)
				require.Len(t, todos, 1)
				assert.Equal(t, todo.ID, todos[0].ID)
				assert.Equal(t, "A", todos[0].Title)
				assert.Equal(t, "B", todos[0].Description)
				assert.True(t, todos[0].CreatedAt.Equal(todos[0].UpdatedAt))
			})

			t.Run("Update replaces fields of the matching record only", func(t *testing.T) {
				repo := open(t)
				target, err := repo.Create(ctx, newTodo("old", "old desc", "", created))
				require.NoError(t, err)
				other, err := repo.Create(ctx, newTodo("other", "untouched", "", created))
				require.NoError(t, err)

				later := created.Add(time.Minute)
				err = repo.Update(ctx, target.ID, "", repositories.TodoUpdate{Title: "new", Description: "new desc", UpdatedAt: later})
				require.NoError(t, err)

				got, err := repo.FindByID(ctx, target.ID)
				require.NoError(t, err)
				assert.Equal(t, "new", got.Title)
				assert.Equal(t, "new desc", got.Description)
				assert.True(t, got.CreatedAt.Equal(created))
				assert.True(t, got.UpdatedAt.Equal(later))

				untouched, err := repo.FindByID(ctx, other.ID)
				require.NoError(t, err)
				assert.Equal(t, "other", untouched.Title)
				assert.True(t, untouched.UpdatedAt.Equal(created))
			})

			t.Run("Update and Delete respect the owner", func(t *testing.T) {
				repo := open(t)
				owned, err := repo.Create(ctx, newTodo("mine", "", "user-1", created))
				require.NoError(t, err)

				err = repo.Update(ctx, owned.ID, "", repositories.TodoUpdate{Title: "x", UpdatedAt: created})
				require.ErrorIs(t, err, repositories.ErrTodoNotFound)
				err = repo.Update(ctx, owned.ID, "user-2", repositories.TodoUpdate{Title: "x", UpdatedAt: created})
				require.ErrorIs(t, err, repositories.ErrTodoNotFound)
				require.ErrorIs(t, repo.Delete(ctx, owned.ID, "user-2"), repositories.ErrTodoNotFound)

				err = repo.Update(ctx, owned.ID, "user-1", repositories.TodoUpdate{Title: "x", UpdatedAt: created})
				require.NoError(t, err)
				require.NoError(t, repo.Delete(ctx, owned.ID, "user-1"))
			})

			t.Run("Delete removes exactly one document", func(t *testing.T) {
				repo := open(t)
				first, err := repo.Create(ctx, newTodo("1", "", "", created))
				require.NoError(t, err)
				_, err = repo.Create(ctx, newTodo("2", "", "", created))
				require.NoError(t, err)

				require.NoError(t, repo.Delete(ctx, first.ID, ""))

				todos, err := repo.FindAll(ctx)
				require.NoError(t, err)
				require.Len(t, todos, 1)
				assert.Equal(t, "2", todos[0].Title)

				_, err = repo.FindByID(ctx, first.ID)
				assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
			})

			t.Run("Delete of unknown ID reports not found", func(t *testing.T) {
				repo := open(t)
				err := repo.Delete(ctx, primitive.NewObjectID(), "")
				require.ErrorIs(t, err, repositories.ErrTodoNotFound)
			})
		})
	}
}

func TestParseTodoID(t *testing.T) {
	id := primitive.NewObjectID()
	parsed, err := repositories.ParseTodoID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = repositories.ParseTodoID("not-an-id")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/handlers"
	"go-ai-todo/backend/internal/models"
	"go-ai-todo/backend/internal/repositories"
	"go-ai-todo/backend/internal/routes"
	"go-ai-todo/backend/internal/services"
)

// TestJWTSecret はテスト用のJWTシークレットです。
const TestJWTSecret = "test-secret"

// StubGenerator は固定の文章を返す ai.Generator です。
type StubGenerator struct {
	mu      sync.Mutex
	Text    string
	Err     error
	Prompts []string
}

func (g *StubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompts = append(g.Prompts, prompt)
	return g.Text, g.Err
}

// Calls は GenerateText が呼ばれた回数を返します。
func (g *StubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}

// TestEnv はテスト用にセットアップされたルーターと依存関係です。
type TestEnv struct {
	Router    *gin.Engine
	Repo      repositories.TodoRepository
	Generator *StubGenerator
	JWT       *services.JWTService
}

// Options はテスト環境の任意設定です。
type Options struct {
	Repo           repositories.TodoRepository // nil ならインメモリ
	StrictNotFound bool
	Clock          func() time.Time
	DB             handlers.Pinger
	WithoutJWT     bool // true なら JWT_SECRET 未設定と同じ構成
}

// SetupTestRouter はインメモリストレージとスタブAIでルーターをセットアップします。
func SetupTestRouter(t *testing.T, opts Options) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := opts.Repo
	if repo == nil {
		repo = repositories.NewMemoryTodoRepository()
	}
	generator := &StubGenerator{Text: "analysis"}

	jwtService, err := services.NewJWTService(TestJWTSecret)
	require.NoError(t, err)
	routerJWT := jwtService
	if opts.WithoutJWT {
		routerJWT = nil
	}

	todoService := services.NewTodoService(repo, generator,
		services.WithStrictNotFound(opts.StrictNotFound),
		services.WithClock(opts.Clock),
	)

	router := routes.SetupRouter(routes.Dependencies{
		TodoService:  todoService,
		JWTService:   routerJWT,
		DB:           opts.DB,
		AllowOrigins: []string{"http://localhost:3000"},
		Logger:       zap.NewNop(),
	})

	return &TestEnv{Router: router, Repo: repo, Generator: generator, JWT: jwtService}
}

// Token はテスト用ユーザーのトークンを発行します。
func (e *TestEnv) Token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.JWT.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// Do はJSONリクエストを実行します。body が nil ならボディなし、token が空なら匿名です。
func (e *TestEnv) Do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.Router.ServeHTTP(resp, req)
	return resp
}

// CreateTestTodo はAPI経由でTODOを作成し、IDを返します。
func (e *TestEnv) CreateTestTodo(t *testing.T, token, title, description string) string {
	t.Helper()
	resp := e.Do(t, http.MethodPost, "/todos", models.TodoRequest{Title: title, Description: description}, token)
	require.Equal(t, http.StatusCreated, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	var created models.CreateTodoResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.NotEmpty(t, created.TodoID)
	return created.TodoID
}

// ListTodos はAPI経由で全TODOを取得します。
func (e *TestEnv) ListTodos(t *testing.T) []models.Todo {
	t.Helper()
	resp := e.Do(t, http.MethodGet, "/todos", nil, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var todos []models.Todo
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &todos))
	return todos
}

// FindTodo は一覧から指定IDのTODOを探します。
func FindTodo(todos []models.Todo, id string) (models.Todo, bool) {
	for _, todo := range todos {
		if todo.ID.Hex() == id {
			return todo, true
		}
	}
	return models.Todo{}, false
}

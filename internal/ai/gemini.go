// Package ai は外部の文章生成サービスへの呼び出しをラップします。
package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"go-ai-todo/backend/internal/apperrors"
)

// DefaultModel は既定で使う生成モデルです。
const DefaultModel = "gemini-1.5-flash"

var (
	// ErrEmptyPrompt はプロンプトが空のときのエラーです。
	ErrEmptyPrompt = apperrors.New(apperrors.KindValidation, "Description is required for analysis")
	// ErrNoAPIKey はAPIキー未設定のときのエラーです。
	ErrNoAPIKey = errors.New("gemini api key is not set")
)

// Generator はプロンプトから文章を生成します。
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// contentGenerator は *genai.GenerativeModel が満たすインターフェースです。
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient は Gemini API を使う Generator です。
type GeminiClient struct {
	client *genai.Client
	model  contentGenerator
	name   string
	logger *zap.Logger
}

// NewGeminiClient はAPIキーとモデル名からクライアントを作成します。
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(model),
		name:   model,
		logger: logger,
	}, nil
}

// GenerateText はプロンプトを送信し、生成された文章をそのまま返します。
// 空白だけのプロンプトもそのままモデルに渡します。
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Error("AI request failed", zap.String("model", g.name), zap.Error(err))
		return "", apperrors.Wrap(apperrors.KindUpstream, "AI analysis failed", err)
	}

	text, err := responseText(resp)
	if err != nil {
		g.logger.Error("AI response had no text", zap.String("model", g.name), zap.Error(err))
		return "", apperrors.Wrap(apperrors.KindUpstream, "AI analysis failed", err)
	}
	return text, nil
}

// Close は内部クライアントを解放します。
func (g *GeminiClient) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// responseText は最初の候補に含まれるテキストパートを連結します。
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("response contains no candidates")
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return "", errors.New("candidate has no content")
	}

	var b strings.Builder
	found := false
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
			found = true
		}
	}
	if !found {
		return "", errors.New("candidate has no text parts")
	}
	return b.String(), nil
}

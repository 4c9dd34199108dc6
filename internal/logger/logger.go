// Package logger はzapロガーの生成とリクエスト単位のフィールド付与を扱います。
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// 出力形式
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// Config はロガーの出力レベルとエンコーディングです。
// Output が nil なら標準出力に書き出します。
type Config struct {
	Level    string
	Encoding string
	Output   zapcore.WriteSyncer
}

// ParseLevel はLOG_LEVELの値を解釈します。空文字は info です。
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	return parsed, nil
}

// ValidateEncoding はLOG_ENCODINGの値を検証します。空文字は json 扱いです。
func ValidateEncoding(encoding string) error {
	switch encoding {
	case "", EncodingJSON, EncodingConsole:
		return nil
	}
	return fmt.Errorf("invalid LOG_ENCODING %q (want %s or %s)", encoding, EncodingJSON, EncodingConsole)
}

// New は設定に従って zap.Logger を生成します。
// 不正なレベルや形式は info / json に丸めずエラーにします。
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if err := ValidateEncoding(cfg.Encoding); err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoder := zapcore.NewJSONEncoder(encoderCfg)
	if cfg.Encoding == EncodingConsole {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	out := cfg.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}
	return zap.New(zapcore.NewCore(encoder, out, level), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ContextWithRequestID はリクエストIDをコンテキストに格納します。
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID はコンテキストからリクエストIDを取り出します。
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRequestID はコンテキストのリクエストIDをロガーに付与します。
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	if id := RequestID(ctx); id != "" {
		return base.With(zap.String("request_id", id))
	}
	return base
}

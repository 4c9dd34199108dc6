// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"go-ai-todo/backend/internal/logger"
)

// ストレージドライバー名
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config はアプリケーション全体の設定をまとめたものです。
type Config struct {
	Port           string
	GinMode        string
	StrictNotFound bool
	Storage        StorageConfig
	AI             AIConfig
	JWT            JWTConfig
	CORS           CORSConfig
	Logger         LoggerConfig
	Shutdown       time.Duration
}

type StorageConfig struct {
	Driver     string
	URI        string
	Database   string
	Collection string
}

type AIConfig struct {
	APIKey string
	Model  string
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowOrigins []string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load は .env (存在する場合) と環境変数から設定を構築します。
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:           getString("PORT", "3001"),
		GinMode:        getString("GIN_MODE", "release"),
		StrictNotFound: getBool("STRICT_NOT_FOUND", false),
		Storage: StorageConfig{
			Driver:     strings.ToLower(getString("STORAGE_DRIVER", DriverMongo)),
			URI:        getString("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getString("MONGO_DB", "test"),
			Collection: "todos",
		},
		AI: AIConfig{
			// GIMNI_API_KEY は旧来の変数名 (互換用)
			APIKey: getString("GEMINI_API_KEY", os.Getenv("GIMNI_API_KEY")),
			Model:  getString("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		CORS: CORSConfig{
			AllowOrigins: getList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Shutdown: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo:
		if c.Storage.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORAGE_DRIVER=%s", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	// gin.SetMode は不正な値で panic する
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("invalid GIN_MODE %q", c.GinMode)
	}
	if _, err := logger.ParseLevel(c.Logger.Level); err != nil {
		return err
	}
	return logger.ValidateEncoding(c.Logger.Encoding)
}

// Address はHTTPサーバーの待ち受けアドレスを返します。
func (c *Config) Address() string {
	return ":" + c.Port
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

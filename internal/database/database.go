// Package database はMongoDBへの接続を管理します。
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/config"
)

// Store はプロセス全体で共有する1つのMongoDBクライアントを保持します。
type Store struct {
	client     *mongo.Client
	database   string
	collection string
}

// Connect はMongoDBに接続し、Pingで疎通を確認します。
// 失敗時の終了判断は呼び出し側で行います。
func Connect(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("could not create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not ping mongo: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)

	return &Store{client: client, database: cfg.Database, collection: cfg.Collection}, nil
}

// Collection は todos コレクションのハンドルを返します。
func (s *Store) Collection() *mongo.Collection {
	return s.client.Database(s.database).Collection(s.collection)
}

// Ping はヘルスチェック用に接続を確認します。
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Disconnect は接続を閉じます。
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

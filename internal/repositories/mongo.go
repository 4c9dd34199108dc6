package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"go-ai-todo/backend/internal/apperrors"
	"go-ai-todo/backend/internal/models"
)

// MongoTodoRepository は todos コレクションに対する操作を行います。
type MongoTodoRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoTodoRepository は新しいMongoTodoRepositoryを作成します。
func NewMongoTodoRepository(coll *mongo.Collection, logger *zap.Logger) *MongoTodoRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoTodoRepository{coll: coll, logger: logger}
}

// Create は新しいTodoを挿入し、採番されたIDをセットして返します。
func (r *MongoTodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	result, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		r.logger.Error("failed to insert todo", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindInternal, "Failed to save todo", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, apperrors.Wrap(apperrors.KindInternal, "Failed to save todo",
			fmt.Errorf("unexpected inserted id type %T", result.InsertedID))
	}
	t.ID = id
	return t, nil
}

// FindAll は全てのTodoを取得します。絞り込みもページングも行いません。
func (r *MongoTodoRepository) FindAll(ctx context.Context) ([]*models.Todo, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		r.logger.Error("failed to query todos", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindInternal, "Failed to fetch todos", err)
	}

	todos := make([]*models.Todo, 0)
	if err := cursor.All(ctx, &todos); err != nil {
		r.logger.Error("failed to decode todos", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindInternal, "Failed to fetch todos", err)
	}
	return todos, nil
}

// FindByID は指定IDのTodoを取得します。
func (r *MongoTodoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Todo, error) {
	var t models.Todo
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		r.logger.Error("failed to query todo by ID", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindInternal, "Failed to fetch todo", err)
	}
	return &t, nil
}

// Update は _id と userId が一致するTodoのタイトル・説明・更新日時を置き換えます。
func (r *MongoTodoRepository) Update(ctx context.Context, id primitive.ObjectID, userID string, u TodoUpdate) error {
	update := bson.M{"$set": bson.M{
		"title":       u.Title,
		"description": u.Description,
		"updatedAt":   u.UpdatedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, ownerFilter(id, userID), update)
	if err != nil {
		r.logger.Error("failed to update todo", zap.Error(err))
		return apperrors.Wrap(apperrors.KindInternal, "Failed to update todo", err)
	}
	if result.MatchedCount == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Delete は _id と userId が一致するTodoを1件削除します。
func (r *MongoTodoRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.coll.DeleteOne(ctx, ownerFilter(id, userID))
	if err != nil {
		r.logger.Error("failed to delete todo", zap.Error(err))
		return apperrors.Wrap(apperrors.KindInternal, "Failed to delete todo", err)
	}
	if result.DeletedCount == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// ownerFilter は所有者条件付きのフィルタを作ります。
// userId: null は userId フィールドが存在しないドキュメントにも一致する。
func ownerFilter(id primitive.ObjectID, userID string) bson.M {
	if userID == "" {
		return bson.M{"_id": id, "userId": nil}
	}
	return bson.M{"_id": id, "userId": userID}
}

// Package modelsはTodoを定義します。
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Todo は todos コレクションのドキュメントです。
type Todo struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`                 // ストレージが採番
	Title       string             `json:"title" bson:"title"`                       // 任意
	Description string             `json:"description" bson:"description"`           // 任意
	UserID      string             `json:"userId,omitempty" bson:"userId,omitempty"` // 認証時のみ設定
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`               // 作成後は不変
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`               // 更新ごとにリセット
}

// TodoRequest は作成・更新時のリクエストボディです。
type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalyzeRequest はAI分析のリクエストボディです。
type AnalyzeRequest struct {
	Description string `json:"description"`
}

// CreateTodoResponse は作成成功時のレスポンスです。
type CreateTodoResponse struct {
	TodoID  string `json:"todoId"`
	Message string `json:"message"`
}

// AnalyzeResponse はAI分析結果のレスポンスです。
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

// MessageResponse は更新・削除成功時のレスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

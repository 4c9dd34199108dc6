package models

// JWTClaims はトークンから取り出したユーザー情報です。
type JWTClaims struct {
	UserID string
}

// Package handlers はHTTPハンドラーを提供します。
package handlers

// ContextUserID は認証済みユーザーIDを gin.Context に格納するキーです。
const ContextUserID = "user_id"

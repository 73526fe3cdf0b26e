// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// パスワード認証のみをサポートし、メール確認が完了するまでログインできない。
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Confirmed         bool
	ConfirmationToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Principal は認証済みユーザーの最小限の識別情報を表す。
// ナビゲーションコントローラとHTTPハンドラーの間で受け渡す読み取り専用の値。
type Principal struct {
	ID    string
	Email string
}

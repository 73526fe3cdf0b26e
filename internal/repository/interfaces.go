// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/careernest/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByConfirmationToken は確認トークンで未確認ユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByConfirmationToken(ctx context.Context, token string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// MarkConfirmed はユーザーをメール確認済みにし、確認トークンを無効化する。
	MarkConfirmed(ctx context.Context, id string) error

	// DeleteUnconfirmedBefore は指定日時より前に作成された未確認ユーザーを削除し、
	// 削除件数を返す。
	DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// ResumeRepository はレジュメデータの永続化インターフェース。
type ResumeRepository interface {
	// FindByID は指定IDのレジュメを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Resume, error)

	// ListByUserEmail はユーザーのレジュメ一覧をcreated_at降順で返す。
	ListByUserEmail(ctx context.Context, userEmail string) ([]*model.Resume, error)

	// Create はレジュメを作成する。
	Create(ctx context.Context, resume *model.Resume) error

	// UpdateATSScore はレジュメのATSスコアを更新する。
	UpdateATSScore(ctx context.Context, id string, score int) error
}

// ApplicationRepository は求人応募データの永続化インターフェース。
type ApplicationRepository interface {
	// Create は応募レコードを作成する。
	Create(ctx context.Context, app *model.JobApplication) error

	// ListByUserEmail はユーザーの応募一覧をapplied_at降順で返す。
	ListByUserEmail(ctx context.Context, userEmail string) ([]*model.JobApplication, error)
}

// Package cleanup は期限切れデータの自動削除ジョブを提供する。
// 期限切れセッションと、一定期間メール確認されなかった仮登録ユーザーを
// 日次バッチで削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/careernest/internal/repository"
)

// CleanupJob は期限切れセッションと未確認ユーザーの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	logger      *slog.Logger
	// UnconfirmedTTL はメール未確認ユーザーの保持期間（デフォルト: 7日）。
	UnconfirmedTTL time.Duration
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		logger:         logger,
		UnconfirmedTTL: 7 * 24 * time.Hour,
	}
}

// Run は期限切れセッションと古い未確認ユーザーを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	expiredSessions, err := j.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("セッションクリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	cutoff := time.Now().Add(-j.UnconfirmedTTL)
	staleUsers, err := j.userRepo.DeleteUnconfirmedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("未確認ユーザークリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("未確認ユーザークリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int64("deleted_sessions", expiredSessions),
		slog.Int64("deleted_unconfirmed_users", staleUsers),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

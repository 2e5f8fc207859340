// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// expires_atを過ぎたセッション行を定期バッチで削除する。
// 期限切れセッションは読み取り時点で既に無効として扱われるため、
// このジョブはストレージの肥大化を防ぐためのものであり、
// 実行タイミングがセキュリティに影響することはない。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionSweeper は期限切れセッションの一括削除インターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionSweeper interface {
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// PurgeRecorder は削除件数のメトリクス記録インターフェース。
type PurgeRecorder interface {
	RecordSessionsPurged(count int64)
}

// CleanupJob は期限切れセッションの自動削除ジョブ。
// 一回実行（cleanupサブコマンド）と定期実行（serveモードのバックグラウンド）の
// 両方から使われる。冪等であり、削除対象がなくてもエラーにならない。
type CleanupJob struct {
	sessions SessionSweeper
	logger   *slog.Logger
	recorder PurgeRecorder
}

// NewCleanupJob は新しいCleanupJobを生成する。
// recorderはnilでもよい（メトリクスなしの一回実行向け）。
func NewCleanupJob(sessions SessionSweeper, logger *slog.Logger, recorder PurgeRecorder) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		logger:   logger,
		recorder: recorder,
	}
}

// Run は期限切れセッションを1回削除する。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	if j.recorder != nil {
		j.recorder.RecordSessionsPurged(deletedCount)
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は指定間隔でRunを繰り返し実行する。
// コンテキストがキャンセルされるまでブロックする。
// 1回の実行が失敗しても次回のスケジュールは継続する。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	j.logger.Info("セッションクリーンアップワーカーを開始します",
		slog.String("interval", interval.String()),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				// 失敗はログ済み。次のtickで再試行する。
				continue
			}
		case <-ctx.Done():
			j.logger.Info("セッションクリーンアップワーカーを停止します")
			return
		}
	}
}

package repository

import (
	"Meguri-App/internal/domain/model"
	"context"
)

// RunResultRepository はパイプライン実行結果のキャッシュの責務を持つリポジトリインターフェース
type RunResultRepository interface {
	// SaveRunResult は実行結果をTTL付きで保存し、run_idを返す
	SaveRunResult(ctx context.Context, result *model.CachedRunResult, ttlHours int) (string, error)

	// GetRunResult は指定されたrun_idの実行結果を取得する
	GetRunResult(ctx context.Context, runID string) (*model.CachedRunResult, error)
}

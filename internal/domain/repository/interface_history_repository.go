package repository

import (
	"Meguri-App/internal/domain/model"
	"context"
)

// HistoryRepository は完了したパイプライン実行記録の責務を持つリポジトリインターフェース
type HistoryRepository interface {
	// Create は実行記録を新規作成する
	Create(ctx context.Context, record *model.RunRecord) error

	// GetByID は指定されたIDの実行記録を取得する
	GetByID(ctx context.Context, id string) (*model.RunRecord, error)

	// List は実行記録を新しい順に最大limit件取得する
	List(ctx context.Context, limit int) ([]model.RunRecord, error)
}

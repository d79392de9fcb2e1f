package repository

import (
	"Meguri-App/internal/domain/model"
	"context"
)

// GeocodeCacheRepository はジオコーディング結果キャッシュの責務を持つリポジトリインターフェース
// キャッシュのエラーは呼び出し側でAPI呼び出しにフォールバックする
type GeocodeCacheRepository interface {
	// Lookup は正規化済み住所のキャッシュを検索する（未登録時は nil, nil）
	Lookup(ctx context.Context, address string) (*model.GeocodedPlace, error)

	// Store はジオコーディング結果をキャッシュに保存する
	Store(ctx context.Context, place *model.GeocodedPlace) error
}

package repository

import (
	"Meguri-App/internal/domain/model"
	"context"
)

// GeocodingRepository は住所のジオコーディングの責務を持つリポジトリインターフェース
type GeocodingRepository interface {
	// Geocode は複数の住所をまとめてジオコーディングする
	// 一部の住所の解決に失敗した場合、その住所は結果から除外される
	// （返却リストの長さは入力より短くなりうる）
	Geocode(ctx context.Context, addresses []string) ([]model.GeocodedPlace, error)
}

package repository

import (
	"Meguri-App/internal/domain/model"
	"context"
)

// DirectionsRepository は2地点間の経路検索の責務を持つリポジトリインターフェース
type DirectionsRepository interface {
	// GetRoute は2地点間の経路情報を取得する
	// 経路が見つからない場合は (nil, nil) を返す（ネットワークエラー等とは区別する）
	GetRoute(ctx context.Context, from, to model.LatLng, transport model.TransportType) (*model.RouteDetails, error)
}

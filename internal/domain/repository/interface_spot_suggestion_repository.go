package repository

import (
	"Meguri-App/internal/domain/model"
	"context"
)

// SpotSuggestionRepository はテーマに沿った観光スポット候補生成の責務を持つリポジトリインターフェース
type SpotSuggestionRepository interface {
	// SuggestSpots は出発地点とテーマからspotCount個のスポット候補を生成する
	// 先頭が出発地点(start)、末尾が目的地(destination)、中間がwaypointとなる
	SuggestSpots(ctx context.Context, startPoint, purpose string, spotCount int, geminiModel string) ([]model.RouteSpot, error)
}

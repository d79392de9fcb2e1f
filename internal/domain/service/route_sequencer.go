package service

import (
	"Meguri-App/internal/domain/helper"
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
)

// RouteSequencer は地点列から連続区間の経路を順番に計算するサービス
type RouteSequencer interface {
	// CalculateRoute は住所リストをジオコーディングして順番に経路を計算する
	CalculateRoute(ctx context.Context, addresses []string, transport model.TransportType) (*model.AddressRouteResult, error)

	// CalculateRouteForPlaces はジオコーディング済みの地点列から経路を計算する
	CalculateRouteForPlaces(ctx context.Context, places []model.GeocodedPlace, transport model.TransportType) (*model.AddressRouteResult, error)

	// CalculateRouteForPlacesWithProgress は区間ごとの進捗通知付きで経路を計算する
	// onSegmentは各区間の結果（成功・失敗とも）記録後に (完了数, 区間総数) で呼ばれる
	CalculateRouteForPlacesWithProgress(ctx context.Context, places []model.GeocodedPlace, transport model.TransportType, onSegment func(done, total int)) (*model.AddressRouteResult, error)
}

// routeSequencerImpl はRouteSequencerの実装
type routeSequencerImpl struct {
	geocodingRepo  repository.GeocodingRepository
	directionsRepo repository.DirectionsRepository
}

// NewRouteSequencer は新しいRouteSequencerインスタンスを作成
func NewRouteSequencer(geocodingRepo repository.GeocodingRepository, directionsRepo repository.DirectionsRepository) RouteSequencer {
	return &routeSequencerImpl{
		geocodingRepo:  geocodingRepo,
		directionsRepo: directionsRepo,
	}
}

// CalculateRoute は住所リストをジオコーディングして順番に経路を計算する
// ジオコーディングに失敗した住所は除外され、残りが2件未満ならエラーとなる
func (s *routeSequencerImpl) CalculateRoute(ctx context.Context, addresses []string, transport model.TransportType) (*model.AddressRouteResult, error) {
	if len(addresses) < 2 {
		return nil, model.NewInvalidInputError("addresses", "経路計算には2件以上の住所が必要です")
	}

	log.Printf("📍 %d件の住所をジオコーディング中...", len(addresses))
	places, err := s.geocodingRepo.Geocode(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("ジオコーディングに失敗: %w", err)
	}

	if len(places) < len(addresses) {
		log.Printf("⚠️ %d件の住所が解決できませんでした", len(addresses)-len(places))
	}

	return s.CalculateRouteForPlaces(ctx, places, transport)
}

// CalculateRouteForPlaces はジオコーディング済みの地点列から経路を計算する
func (s *routeSequencerImpl) CalculateRouteForPlaces(ctx context.Context, places []model.GeocodedPlace, transport model.TransportType) (*model.AddressRouteResult, error) {
	return s.CalculateRouteForPlacesWithProgress(ctx, places, transport, nil)
}

// CalculateRouteForPlacesWithProgress は区間ごとの進捗通知付きで経路を計算する
// 区間は入力順に1つずつ計算され、失敗した区間は記録して次の区間に進む
// （1区間の失敗で全体を中断しない）。コンテキストのキャンセルは即座に中断する
func (s *routeSequencerImpl) CalculateRouteForPlacesWithProgress(ctx context.Context, places []model.GeocodedPlace, transport model.TransportType, onSegment func(done, total int)) (*model.AddressRouteResult, error) {
	if len(places) < 2 {
		return nil, model.NewInvalidInputError("places", "経路計算には2件以上の地点が必要です")
	}
	if !transport.IsValid() {
		return nil, model.NewInvalidInputError("transport", "移動手段はwalkingまたはdrivingを指定してください")
	}

	result := &model.AddressRouteResult{
		Places: places,
	}
	segmentCount := len(places) - 1

	// 連続するペアを入力順に処理する。表示側が区間番号=訪問順を前提とするため、
	// 並列化や順序の入れ替えは行わない
	for i := 0; i < segmentCount; i++ {
		// キャンセル後は新しい経路リクエストを発行しない
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		from := places[i]
		to := places[i+1]

		details, err := s.directionsRepo.GetRoute(ctx, from.Location, to.Location, transport)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			log.Printf("⚠️ 区間%d (%s → %s) の経路計算に失敗: %v", i+1, from.InputAddress, to.InputAddress, err)
			result.FailedSegments = append(result.FailedSegments, s.newFailedSegment(from, to, err.Error()))
		} else if details == nil {
			log.Printf("⚠️ 区間%d (%s → %s) の経路が見つかりませんでした", i+1, from.InputAddress, to.InputAddress)
			result.FailedSegments = append(result.FailedSegments, s.newFailedSegment(from, to, "経路が見つかりませんでした"))
		} else {
			result.Segments = append(result.Segments, model.RouteSegment{
				From:              from,
				To:                to,
				DistanceMeters:    details.DistanceMeters,
				TravelTimeSeconds: details.TravelTimeSeconds,
				Polyline:          details.Polyline,
			})
		}

		if onSegment != nil {
			onSegment(i+1, segmentCount)
		}
	}

	log.Printf("✅ 経路計算完了 (%s, 合計: %s / %s)",
		result.SuccessSummary(), result.FormattedTotalDistance(), result.FormattedTotalTravelTime())

	return result, nil
}

// newFailedSegment は失敗区間の記録を作成する（直線距離を参考値として付与）
func (s *routeSequencerImpl) newFailedSegment(from, to model.GeocodedPlace, reason string) model.FailedSegment {
	return model.FailedSegment{
		From:                  from,
		To:                    to,
		Reason:                reason,
		CrowFlyDistanceMeters: helper.CrowFlyDistanceMeters(from.Location, to.Location),
	}
}

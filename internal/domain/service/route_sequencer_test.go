package service

import (
	"Meguri-App/internal/domain/model"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGeocodingRepository テスト用のジオコーディングスタブ
// failAddressesに含まれる住所は結果から除外される
type stubGeocodingRepository struct {
	failAddresses map[string]bool
	err           error
}

func (s *stubGeocodingRepository) Geocode(ctx context.Context, addresses []string) ([]model.GeocodedPlace, error) {
	if s.err != nil {
		return nil, s.err
	}
	var places []model.GeocodedPlace
	for i, address := range addresses {
		if s.failAddresses[address] {
			continue
		}
		places = append(places, model.GeocodedPlace{
			InputAddress:     address,
			FormattedAddress: address + "（正式）",
			Location:         model.LatLng{Lat: 35.0 + float64(i)*0.01, Lng: 139.0 + float64(i)*0.01},
		})
	}
	return places, nil
}

// stubDirectionsRepository テスト用の経路検索スタブ
// 呼び出し順を記録し、指定区間で失敗またはnil（経路なし）を返せる
type stubDirectionsRepository struct {
	calls      []string
	routes     map[string]*model.RouteDetails
	errorPairs map[string]error
	noRoute    map[string]bool
}

func (s *stubDirectionsRepository) GetRoute(ctx context.Context, from, to model.LatLng, transport model.TransportType) (*model.RouteDetails, error) {
	key := fmt.Sprintf("%.2f->%.2f", from.Lat, to.Lat)
	s.calls = append(s.calls, key)
	if err, ok := s.errorPairs[key]; ok {
		return nil, err
	}
	if s.noRoute[key] {
		return nil, nil
	}
	if route, ok := s.routes[key]; ok {
		return route, nil
	}
	return &model.RouteDetails{DistanceMeters: 500, TravelTimeSeconds: 300}, nil
}

func TestCalculateRoute_InvalidInput(t *testing.T) {
	sequencer := NewRouteSequencer(&stubGeocodingRepository{}, &stubDirectionsRepository{})
	ctx := context.Background()

	t.Run("住所が2件未満の場合はInvalidInputError", func(t *testing.T) {
		for _, addresses := range [][]string{{}, {"東京駅"}} {
			result, err := sequencer.CalculateRoute(ctx, addresses, model.TransportWalking)
			assert.Nil(t, result)

			var invalidInput *model.InvalidInputError
			assert.ErrorAs(t, err, &invalidInput)
		}
	})

	t.Run("ジオコーディング成功が2件未満の場合もInvalidInputError", func(t *testing.T) {
		geocoding := &stubGeocodingRepository{failAddresses: map[string]bool{"存在しない場所": true, "もっと存在しない場所": true}}
		sequencer := NewRouteSequencer(geocoding, &stubDirectionsRepository{})

		result, err := sequencer.CalculateRoute(ctx, []string{"東京駅", "存在しない場所", "もっと存在しない場所"}, model.TransportWalking)
		assert.Nil(t, result)

		var invalidInput *model.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
	})

	t.Run("無効な移動手段はInvalidInputError", func(t *testing.T) {
		result, err := sequencer.CalculateRoute(ctx, []string{"東京駅", "銀座"}, model.TransportType("flying"))
		assert.Nil(t, result)

		var invalidInput *model.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
	})
}

func TestCalculateRoute_PartialFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("1区間の失敗で全体を中断しない", func(t *testing.T) {
		directions := &stubDirectionsRepository{
			routes: map[string]*model.RouteDetails{
				"35.00->35.01": {DistanceMeters: 1000, TravelTimeSeconds: 600},
			},
			errorPairs: map[string]error{
				"35.01->35.02": errors.New("タイムアウト"),
			},
		}
		sequencer := NewRouteSequencer(&stubGeocodingRepository{}, directions)

		result, err := sequencer.CalculateRoute(ctx, []string{"東京駅", "皇居", "銀座"}, model.TransportWalking)
		require.NoError(t, err)

		// 不変条件: 区間数 + 失敗区間数 == 地点数 - 1
		assert.Len(t, result.Segments, 1)
		assert.Len(t, result.FailedSegments, 1)
		assert.Equal(t, len(result.Places)-1, len(result.Segments)+len(result.FailedSegments))

		// 合計は成功区間のみ（エラーでも0でもなく1000）
		assert.Equal(t, 1000, result.TotalDistanceMeters())
		assert.False(t, result.HasAllSegmentsSucceeded())
		assert.Equal(t, "タイムアウト", result.FailedSegments[0].Reason)

		// 失敗後も次の区間がリクエストされている
		assert.Len(t, directions.calls, 2)
	})

	t.Run("経路なし（nil）も失敗区間として記録する", func(t *testing.T) {
		directions := &stubDirectionsRepository{
			noRoute: map[string]bool{"35.00->35.01": true},
		}
		sequencer := NewRouteSequencer(&stubGeocodingRepository{}, directions)

		result, err := sequencer.CalculateRoute(ctx, []string{"本州の住所", "離島の住所"}, model.TransportWalking)
		require.NoError(t, err)

		assert.Empty(t, result.Segments)
		require.Len(t, result.FailedSegments, 1)
		assert.Equal(t, "経路が見つかりませんでした", result.FailedSegments[0].Reason)
		// 失敗区間には直線距離の参考値が付与される
		assert.Greater(t, result.FailedSegments[0].CrowFlyDistanceMeters, 0)
	})
}

func TestCalculateRoute_Ordering(t *testing.T) {
	t.Run("区間は入力順に計算される", func(t *testing.T) {
		directions := &stubDirectionsRepository{}
		sequencer := NewRouteSequencer(&stubGeocodingRepository{}, directions)

		result, err := sequencer.CalculateRoute(context.Background(), []string{"A", "B", "C", "D"}, model.TransportWalking)
		require.NoError(t, err)

		assert.Equal(t, []string{"35.00->35.01", "35.01->35.02", "35.02->35.03"}, directions.calls)
		require.Len(t, result.Segments, 3)
		assert.Equal(t, "A", result.Segments[0].From.InputAddress)
		assert.Equal(t, "D", result.Segments[2].To.InputAddress)
	})
}

func TestCalculateRoute_Cancellation(t *testing.T) {
	t.Run("キャンセル後は新しい区間リクエストを発行しない", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		geocoding := &stubGeocodingRepository{}
		places, err := geocoding.Geocode(ctx, []string{"A", "B", "C", "D"})
		require.NoError(t, err)

		// 1区間目の完了後にキャンセルする
		directions := &cancellingDirectionsRepository{cancel: cancel}
		sequencer := NewRouteSequencer(geocoding, directions)

		result, err := sequencer.CalculateRouteForPlaces(ctx, places, model.TransportWalking)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, directions.callCount)
	})
}

// cancellingDirectionsRepository 1回目の呼び出し中にキャンセルを発生させるスタブ
type cancellingDirectionsRepository struct {
	cancel    context.CancelFunc
	callCount int
}

func (s *cancellingDirectionsRepository) GetRoute(ctx context.Context, from, to model.LatLng, transport model.TransportType) (*model.RouteDetails, error) {
	s.callCount++
	s.cancel()
	return &model.RouteDetails{DistanceMeters: 100, TravelTimeSeconds: 60}, nil
}

func TestCalculateRoute_EndToEnd(t *testing.T) {
	t.Run("東京駅から銀座までの全区間成功", func(t *testing.T) {
		directions := &stubDirectionsRepository{
			routes: map[string]*model.RouteDetails{
				"35.00->35.01": {DistanceMeters: 1200, TravelTimeSeconds: 900, Polyline: "abc"},
				"35.01->35.02": {DistanceMeters: 800, TravelTimeSeconds: 600, Polyline: "def"},
			},
		}
		sequencer := NewRouteSequencer(&stubGeocodingRepository{}, directions)

		result, err := sequencer.CalculateRoute(context.Background(), []string{"東京駅", "皇居", "銀座"}, model.TransportWalking)
		require.NoError(t, err)

		assert.True(t, result.HasAllSegmentsSucceeded())
		assert.Equal(t, 2000, result.TotalDistanceMeters())
		assert.Equal(t, "2.0 km", result.FormattedTotalDistance())
		assert.Equal(t, "25分", result.FormattedTotalTravelTime())
	})
}

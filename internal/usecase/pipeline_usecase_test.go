package usecase

import (
	"Meguri-App/internal/domain/model"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSpotSuggestionRepository テスト用のスポット候補生成スタブ
// startedとreleaseを設定すると、呼び出し中にブロックして外部から再開・キャンセルできる
type stubSpotSuggestionRepository struct {
	spots   []model.RouteSpot
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubSpotSuggestionRepository) SuggestSpots(ctx context.Context, startPoint, purpose string, spotCount int, geminiModel string) ([]model.RouteSpot, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.spots, nil
}

// pipelineGeocodingStub スポット名をそのまま座標に解決するジオコーディングスタブ
type pipelineGeocodingStub struct {
	mu    sync.Mutex
	calls int
	drop  map[string]bool
	err   error
}

func (s *pipelineGeocodingStub) Geocode(ctx context.Context, addresses []string) ([]model.GeocodedPlace, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	var places []model.GeocodedPlace
	for i, address := range addresses {
		if s.drop[address] {
			continue
		}
		places = append(places, model.GeocodedPlace{
			InputAddress: address,
			Location:     model.LatLng{Lat: 35.0 + float64(i)*0.01, Lng: 139.0 + float64(i)*0.01},
		})
	}
	return places, nil
}

func (s *pipelineGeocodingStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubRouteSequencer 区間ごとに進捗を通知しながら固定の結果を返すスタブ
type stubRouteSequencer struct {
	err error
}

func (s *stubRouteSequencer) CalculateRoute(ctx context.Context, addresses []string, transport model.TransportType) (*model.AddressRouteResult, error) {
	return nil, errors.New("テストでは使用しない")
}

func (s *stubRouteSequencer) CalculateRouteForPlaces(ctx context.Context, places []model.GeocodedPlace, transport model.TransportType) (*model.AddressRouteResult, error) {
	return s.CalculateRouteForPlacesWithProgress(ctx, places, transport, nil)
}

func (s *stubRouteSequencer) CalculateRouteForPlacesWithProgress(ctx context.Context, places []model.GeocodedPlace, transport model.TransportType, onSegment func(done, total int)) (*model.AddressRouteResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := &model.AddressRouteResult{Places: places}
	total := len(places) - 1
	for i := 0; i < total; i++ {
		result.Segments = append(result.Segments, model.RouteSegment{
			From:              places[i],
			To:                places[i+1],
			DistanceMeters:    500,
			TravelTimeSeconds: 300,
		})
		if onSegment != nil {
			onSegment(i+1, total)
		}
	}
	return result, nil
}

// stubRunResultStore 保存された実行結果を記録するスタブ
type stubRunResultStore struct {
	mu      sync.Mutex
	saved   []*model.CachedRunResult
	saveErr error
}

func (s *stubRunResultStore) SaveRunResult(ctx context.Context, result *model.CachedRunResult, ttlHours int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved = append(s.saved, result)
	return result.RunID, nil
}

func (s *stubRunResultStore) GetRunResult(ctx context.Context, runID string) (*model.CachedRunResult, error) {
	return nil, errors.New("テストでは使用しない")
}

func pipelineSpots() []model.RouteSpot {
	return []model.RouteSpot{
		{Name: "東京駅", Type: model.SpotTypeStart},
		{Name: "皇居", Type: model.SpotTypeWaypoint},
		{Name: "銀座", Type: model.SpotTypeDestination},
	}
}

func pipelineRequest() *model.PipelineRequest {
	return &model.PipelineRequest{
		StartPoint: "東京駅",
		Purpose:    "歴史散策",
		SpotCount:  3,
	}
}

func TestRunPipeline_Validation(t *testing.T) {
	uc := NewPipelineUseCase(&stubSpotSuggestionRepository{}, &pipelineGeocodingStub{}, &stubRouteSequencer{}, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *model.PipelineRequest
	}{
		{"出発地点なし", &model.PipelineRequest{Purpose: "歴史散策", SpotCount: 3}},
		{"テーマなし", &model.PipelineRequest{StartPoint: "東京駅", SpotCount: 3}},
		{"スポット数が2未満", &model.PipelineRequest{StartPoint: "東京駅", Purpose: "歴史散策", SpotCount: 1}},
		{"無効な移動手段", &model.PipelineRequest{StartPoint: "東京駅", Purpose: "歴史散策", SpotCount: 3, Transport: "flying"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := uc.RunPipeline(ctx, tc.req)
			assert.Nil(t, result)

			var invalidInput *model.InvalidInputError
			assert.ErrorAs(t, err, &invalidInput)

			// 検証エラーでは状態遷移しない
			assert.Equal(t, model.PhaseIdle, uc.CurrentState().Phase)
		})
	}
}

func TestRunPipeline_Success(t *testing.T) {
	t.Run("idleからloadingを経てcompletedに遷移する", func(t *testing.T) {
		resultStore := &stubRunResultStore{}
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots()},
			&pipelineGeocodingStub{},
			&stubRouteSequencer{},
			resultStore,
		)

		states, unsubscribe := uc.Subscribe()
		defer unsubscribe()

		result, err := uc.RunPipeline(context.Background(), pipelineRequest())
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.True(t, strings.HasPrefix(result.RunID, "run_"))
		assert.Equal(t, "東京駅", result.StartPoint)
		assert.Len(t, result.Spots, 3)
		assert.True(t, result.Route.HasAllSegmentsSucceeded())
		assert.False(t, result.CompletedAt.IsZero())

		// 購読者には loading → ... → completed が届き、進捗は単調増加する
		var observed []model.PipelineState
	drain:
		for {
			select {
			case state := <-states:
				observed = append(observed, state)
			default:
				break drain
			}
		}
		require.NotEmpty(t, observed)
		assert.Equal(t, model.PhaseLoading, observed[0].Phase)
		assert.Equal(t, model.PhaseCompleted, observed[len(observed)-1].Phase)
		for i := 1; i < len(observed); i++ {
			assert.GreaterOrEqual(t, observed[i].FetchedCount, observed[i-1].FetchedCount)
		}

		// 完了時は全単位を消化している（候補生成1 + ジオコーディング1 + 区間2）
		final := uc.CurrentState()
		assert.Equal(t, model.PhaseCompleted, final.Phase)
		assert.Equal(t, 4, final.FetchedCount)
		assert.Equal(t, 4, final.TotalCount)

		// 実行結果がキャッシュに保存されている
		require.Len(t, resultStore.saved, 1)
		assert.Equal(t, result.RunID, resultStore.saved[0].RunID)
	})

	t.Run("キャッシュ保存の失敗はパイプラインを失敗させない", func(t *testing.T) {
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots()},
			&pipelineGeocodingStub{},
			&stubRouteSequencer{},
			&stubRunResultStore{saveErr: errors.New("Firestoreダウン")},
		)

		result, err := uc.RunPipeline(context.Background(), pipelineRequest())
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, model.PhaseCompleted, uc.CurrentState().Phase)
	})

	t.Run("キャッシュリポジトリなしでも完走する", func(t *testing.T) {
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots()},
			&pipelineGeocodingStub{},
			&stubRouteSequencer{},
			nil,
		)

		result, err := uc.RunPipeline(context.Background(), pipelineRequest())
		require.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestRunPipeline_Busy(t *testing.T) {
	t.Run("実行中の2本目はPipelineBusyError", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots(), started: started, release: release},
			&pipelineGeocodingStub{},
			&stubRouteSequencer{},
			nil,
		)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = uc.RunPipeline(context.Background(), pipelineRequest())
		}()

		<-started
		assert.Equal(t, model.PhaseLoading, uc.CurrentState().Phase)

		result, err := uc.RunPipeline(context.Background(), pipelineRequest())
		assert.Nil(t, result)

		var busy *model.PipelineBusyError
		assert.ErrorAs(t, err, &busy)

		close(release)
		<-done
		assert.Equal(t, model.PhaseCompleted, uc.CurrentState().Phase)
	})
}

func TestRunPipeline_Cancellation(t *testing.T) {
	t.Run("キャンセルするとidleに戻り後続ステージは実行されない", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{}) // 閉じない（キャンセルのみで抜ける）
		geocoding := &pipelineGeocodingStub{}
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots(), started: started, release: release},
			geocoding,
			&stubRouteSequencer{},
			nil,
		)

		type runOutcome struct {
			result *model.PipelineResult
			err    error
		}
		done := make(chan runOutcome, 1)
		go func() {
			result, err := uc.RunPipeline(context.Background(), pipelineRequest())
			done <- runOutcome{result, err}
		}()

		<-started
		uc.Cancel()

		outcome := <-done
		assert.Nil(t, outcome.result)

		var cancelled *model.PipelineCancelledError
		assert.ErrorAs(t, outcome.err, &cancelled)

		// completedでもfailedでもなくidleに戻る
		assert.Equal(t, model.PhaseIdle, uc.CurrentState().Phase)
		assert.Equal(t, 0, geocoding.callCount())
	})

	t.Run("キャンセル後は再実行できる", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		spotRepo := &stubSpotSuggestionRepository{spots: pipelineSpots(), started: started, release: release}
		uc := NewPipelineUseCase(spotRepo, &pipelineGeocodingStub{}, &stubRouteSequencer{}, nil)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = uc.RunPipeline(context.Background(), pipelineRequest())
		}()
		<-started
		uc.Cancel()
		<-done

		// 2回目はブロックせずに完走させる
		spotRepo.started = nil
		spotRepo.release = nil
		result, err := uc.RunPipeline(context.Background(), pipelineRequest())
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, model.PhaseCompleted, uc.CurrentState().Phase)
	})
}

func TestRunPipeline_StageFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("スポット候補生成の失敗はfailedに遷移する", func(t *testing.T) {
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{err: errors.New("APIダウン")},
			&pipelineGeocodingStub{},
			&stubRouteSequencer{},
			nil,
		)

		result, err := uc.RunPipeline(ctx, pipelineRequest())
		assert.Nil(t, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "スポット候補の生成")

		state := uc.CurrentState()
		assert.Equal(t, model.PhaseFailed, state.Phase)
		assert.NotEmpty(t, state.Message)
	})

	t.Run("ジオコーディング成功が2件未満の場合はfailedに遷移する", func(t *testing.T) {
		geocoding := &pipelineGeocodingStub{drop: map[string]bool{"皇居": true, "銀座": true}}
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots()},
			geocoding,
			&stubRouteSequencer{},
			nil,
		)

		result, err := uc.RunPipeline(ctx, pipelineRequest())
		assert.Nil(t, result)

		var invalidInput *model.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
		assert.Equal(t, model.PhaseFailed, uc.CurrentState().Phase)
	})

	t.Run("経路計算の失敗はfailedに遷移する", func(t *testing.T) {
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots()},
			&pipelineGeocodingStub{},
			&stubRouteSequencer{err: errors.New("タイムアウト")},
			nil,
		)

		result, err := uc.RunPipeline(ctx, pipelineRequest())
		assert.Nil(t, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "経路計算")
		assert.Equal(t, model.PhaseFailed, uc.CurrentState().Phase)

		// 失敗後は新しい実行を受け付ける
		assert.NotEqual(t, model.PhaseLoading, uc.CurrentState().Phase)
	})
}

func TestPipelineSubscribe(t *testing.T) {
	t.Run("購読解除後は通知されずチャンネルが閉じる", func(t *testing.T) {
		uc := NewPipelineUseCase(
			&stubSpotSuggestionRepository{spots: pipelineSpots()},
			&pipelineGeocodingStub{},
			&stubRouteSequencer{},
			nil,
		)

		states, unsubscribe := uc.Subscribe()
		unsubscribe()

		_, err := uc.RunPipeline(context.Background(), pipelineRequest())
		require.NoError(t, err)

		select {
		case _, ok := <-states:
			assert.False(t, ok)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("購読解除後のチャンネルが閉じられていません")
		}
	})
}

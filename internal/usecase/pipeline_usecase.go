package usecase

import (
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
	"Meguri-App/internal/domain/service"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// resultCacheTTLHours は実行結果キャッシュの保持時間
const resultCacheTTLHours = 2

// PipelineUseCase はテーマ入力から経路計算までのパイプライン全体を実行するユースケース
// 状態マシン（idle → loading → completed | failed）を外部から観測できる
type PipelineUseCase interface {
	// RunPipeline はスポット候補生成 → ジオコーディング → 経路計算を順に実行する
	// 同時に実行できるのは1本のみで、実行中の呼び出しはPipelineBusyErrorで失敗する
	RunPipeline(ctx context.Context, req *model.PipelineRequest) (*model.PipelineResult, error)

	// CurrentState は現在の状態スナップショットを返す
	CurrentState() model.PipelineState

	// Subscribe は状態遷移の通知チャンネルと購読解除関数を返す
	Subscribe() (<-chan model.PipelineState, func())

	// Cancel は実行中のパイプラインを協調的にキャンセルする
	// キャンセルされた実行はidle状態に戻る（completed/failedにはならない）
	Cancel()
}

// pipelineUseCaseImpl はPipelineUseCaseの実装
type pipelineUseCaseImpl struct {
	spotSuggestionRepository repository.SpotSuggestionRepository
	geocodingRepository      repository.GeocodingRepository
	routeSequencer           service.RouteSequencer
	runResultRepository      repository.RunResultRepository // nilの場合キャッシュなし

	mu          sync.Mutex
	state       model.PipelineState
	cancelRun   context.CancelFunc
	subscribers map[int]chan model.PipelineState
	nextSubID   int
}

// NewPipelineUseCase は新しいPipelineUseCaseインスタンスを作成
func NewPipelineUseCase(
	spotRepo repository.SpotSuggestionRepository,
	geocodingRepo repository.GeocodingRepository,
	sequencer service.RouteSequencer,
	resultRepo repository.RunResultRepository,
) PipelineUseCase {
	return &pipelineUseCaseImpl{
		spotSuggestionRepository: spotRepo,
		geocodingRepository:      geocodingRepo,
		routeSequencer:           sequencer,
		runResultRepository:      resultRepo,
		state:                    model.PipelineState{Phase: model.PhaseIdle},
		subscribers:              make(map[int]chan model.PipelineState),
	}
}

// RunPipeline はスポット候補生成 → ジオコーディング → 経路計算を順に実行する
// 進捗はスポット候補生成(1) + ジオコーディング(1) + 各区間(n-1)を単位として通知する
func (u *pipelineUseCaseImpl) RunPipeline(ctx context.Context, req *model.PipelineRequest) (*model.PipelineResult, error) {
	if err := u.validateRequest(req); err != nil {
		return nil, err
	}

	transport := model.TransportType(req.Transport)
	if req.Transport == "" {
		transport = model.TransportWalking
	}

	// 実行スロットの獲得（同時実行は1本のみ）
	runCtx, err := u.beginRun(ctx, req.SpotCount)
	if err != nil {
		return nil, err
	}
	defer u.endRun()

	log.Printf("🚀 パイプライン実行開始 (出発地点: %s, テーマ: %s, スポット数: %d)", req.StartPoint, req.Purpose, req.SpotCount)

	// Stage A: テーマに沿ったスポット候補の生成
	spots, err := u.spotSuggestionRepository.SuggestSpots(runCtx, req.StartPoint, req.Purpose, req.SpotCount, req.Model)
	if err != nil {
		return nil, u.finishWithError(runCtx, model.WrapStageError("スポット候補の生成", err))
	}
	u.advanceProgress(1, 2+len(spots)-1)

	// Stage B-1: スポット名のジオコーディング
	addresses := make([]string, 0, len(spots))
	for _, spot := range spots {
		addresses = append(addresses, spot.Name)
	}

	places, err := u.geocodingRepository.Geocode(runCtx, addresses)
	if err != nil {
		return nil, u.finishWithError(runCtx, model.WrapStageError("ジオコーディング", err))
	}
	if len(places) < 2 {
		return nil, u.finishWithError(runCtx, model.NewInvalidInputError("spots", "ジオコーディングに成功したスポットが2件未満です"))
	}
	u.advanceProgress(2, 2+len(places)-1)

	// Stage B-2: スポット順での経路計算（区間ごとに進捗を通知）
	routeResult, err := u.routeSequencer.CalculateRouteForPlacesWithProgress(runCtx, places, transport, func(done, total int) {
		u.advanceProgress(2+done, 2+total)
	})
	if err != nil {
		return nil, u.finishWithError(runCtx, model.WrapStageError("経路計算", err))
	}

	if err := runCtx.Err(); err != nil {
		return nil, u.finishWithError(runCtx, err)
	}

	result := &model.PipelineResult{
		RunID:       fmt.Sprintf("run_%s", uuid.New().String()),
		StartPoint:  req.StartPoint,
		Purpose:     req.Purpose,
		Model:       req.Model,
		Spots:       spots,
		Route:       routeResult,
		CompletedAt: time.Now(),
	}

	// 結果キャッシュへの保存（失敗してもパイプライン自体は成功扱い）
	if u.runResultRepository != nil {
		cached := model.FromPipelineResult(result, "")
		if _, err := u.runResultRepository.SaveRunResult(runCtx, cached, resultCacheTTLHours); err != nil {
			log.Printf("⚠️ 実行結果のキャッシュ保存に失敗: %v", err)
		}
	}

	u.setState(model.PipelineState{Phase: model.PhaseCompleted, FetchedCount: 2 + len(places) - 1, TotalCount: 2 + len(places) - 1})
	log.Printf("🎉 パイプライン実行完了 (スポット: %d件, %s)", len(spots), routeResult.SuccessSummary())

	return result, nil
}

// validateRequest はリクエストの検証を行う
func (u *pipelineUseCaseImpl) validateRequest(req *model.PipelineRequest) error {
	if req.StartPoint == "" {
		return model.NewInvalidInputError("start_point", "出発地点は必須です")
	}
	if req.Purpose == "" {
		return model.NewInvalidInputError("purpose", "目的・テーマは必須です")
	}
	if req.SpotCount < 2 {
		return model.NewInvalidInputError("spot_count", "スポット数は2以上を指定してください")
	}
	if req.Transport != "" && !model.TransportType(req.Transport).IsValid() {
		return model.NewInvalidInputError("transport", "移動手段はwalkingまたはdrivingを指定してください")
	}
	return nil
}

// beginRun は実行スロットを獲得してloading状態に遷移する
func (u *pipelineUseCaseImpl) beginRun(ctx context.Context, spotCount int) (context.Context, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase == model.PhaseLoading {
		return nil, &model.PipelineBusyError{}
	}

	runCtx, cancel := context.WithCancel(ctx)
	u.cancelRun = cancel
	u.setStateLocked(model.PipelineState{
		Phase:        model.PhaseLoading,
		FetchedCount: 0,
		TotalCount:   2 + spotCount - 1,
	})
	return runCtx, nil
}

// endRun は実行スロットを解放する
func (u *pipelineUseCaseImpl) endRun() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cancelRun != nil {
		u.cancelRun()
		u.cancelRun = nil
	}
}

// finishWithError は失敗の種類に応じて終端状態を決める
// キャンセルによる失敗はidleに戻し、それ以外はfailed(message)に遷移する
func (u *pipelineUseCaseImpl) finishWithError(runCtx context.Context, err error) error {
	if runCtx.Err() != nil || errors.Is(err, context.Canceled) {
		u.setState(model.PipelineState{Phase: model.PhaseIdle})
		log.Printf("⏹️ パイプライン実行がキャンセルされました")
		return &model.PipelineCancelledError{}
	}

	u.setState(model.PipelineState{Phase: model.PhaseFailed, Message: err.Error()})
	log.Printf("❌ パイプライン実行に失敗: %v", err)
	return err
}

// advanceProgress はloading中の進捗を更新する（FetchedCountは単調増加）
func (u *pipelineUseCaseImpl) advanceProgress(fetched, total int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase != model.PhaseLoading {
		return
	}
	if fetched < u.state.FetchedCount {
		fetched = u.state.FetchedCount
	}
	u.setStateLocked(model.PipelineState{
		Phase:        model.PhaseLoading,
		FetchedCount: fetched,
		TotalCount:   total,
	})
}

// CurrentState は現在の状態スナップショットを返す
func (u *pipelineUseCaseImpl) CurrentState() model.PipelineState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Subscribe は状態遷移の通知チャンネルと購読解除関数を返す
// 通知は購読者が受信しきれない場合に破棄される（ブロックしない）
func (u *pipelineUseCaseImpl) Subscribe() (<-chan model.PipelineState, func()) {
	u.mu.Lock()
	defer u.mu.Unlock()

	id := u.nextSubID
	u.nextSubID++

	ch := make(chan model.PipelineState, 16)
	u.subscribers[id] = ch

	unsubscribe := func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		if sub, ok := u.subscribers[id]; ok {
			delete(u.subscribers, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Cancel は実行中のパイプラインを協調的にキャンセルする
func (u *pipelineUseCaseImpl) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase != model.PhaseLoading || u.cancelRun == nil {
		return
	}
	u.cancelRun()
}

// setState は状態を更新して購読者に通知する
func (u *pipelineUseCaseImpl) setState(state model.PipelineState) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.setStateLocked(state)
}

// setStateLocked はロック保持中に状態を更新して購読者に通知する
func (u *pipelineUseCaseImpl) setStateLocked(state model.PipelineState) {
	u.state = state
	for _, ch := range u.subscribers {
		select {
		case ch <- state:
		default:
		}
	}
}

package model

import "time"

// PipelineRequest パイプライン実行のリクエスト
type PipelineRequest struct {
	StartPoint string `json:"start_point" validate:"required"` // 出発地点（住所または地名）
	Purpose    string `json:"purpose" validate:"required"`     // 観光の目的・テーマ
	SpotCount  int    `json:"spot_count" validate:"required"`  // 生成するスポット数（出発地点を含む）
	Model      string `json:"model"`                           // 使用する生成モデル
	Transport  string `json:"transport"`                       // 移動手段（省略時はwalking）
}

// PipelineResult パイプライン実行の結果
// Spotsは生成されたスポット（先頭=出発地点、末尾=目的地）、
// Routeはそのスポット順での経路計算結果
type PipelineResult struct {
	RunID       string              `json:"run_id"`
	StartPoint  string              `json:"start_point"`
	Purpose     string              `json:"purpose"`
	Model       string              `json:"model"`
	Spots       []RouteSpot         `json:"spots"`
	Route       *AddressRouteResult `json:"route"`
	CompletedAt time.Time           `json:"completed_at"`
}

// PipelinePhase パイプラインの状態
// idle → loading → completed | failed の4状態のみ
// （再生・一時停止などの表示系の状態はパイプラインの関心ではない）
type PipelinePhase string

const (
	PhaseIdle      PipelinePhase = "idle"
	PhaseLoading   PipelinePhase = "loading"
	PhaseCompleted PipelinePhase = "completed"
	PhaseFailed    PipelinePhase = "failed"
)

// PipelineState 状態マシンのスナップショット
// loading中のFetchedCountは単調増加する
type PipelineState struct {
	Phase        PipelinePhase `json:"phase"`
	FetchedCount int           `json:"fetched_count"`
	TotalCount   int           `json:"total_count"`
	Message      string        `json:"message,omitempty"` // failed時のエラーメッセージ
}

// IsTerminal completed/failedの終端状態かどうか
func (s PipelineState) IsTerminal() bool {
	return s.Phase == PhaseCompleted || s.Phase == PhaseFailed
}

package model

import "time"

// SpotType ルート内でのスポットの役割
type SpotType string

const (
	SpotTypeStart       SpotType = "start"
	SpotTypeWaypoint    SpotType = "waypoint"
	SpotTypeDestination SpotType = "destination"
)

// RouteSpot シナリオ生成の入力となるスポット
// Typeは位置と整合していることを呼び出し側が保証する（先頭=start、末尾=destination）
type RouteSpot struct {
	Name        string   `json:"name"`
	Type        SpotType `json:"type"`
	Description string   `json:"description,omitempty"`
	Point       string   `json:"point,omitempty"` // 見どころ・おすすめポイント
}

// ScenarioGenerationRequest シナリオ生成APIのリクエスト
// Modelsの先頭がソースモデル（統合時に使用）となる
type ScenarioGenerationRequest struct {
	RouteName string      `json:"route_name" validate:"required"`
	Spots     []RouteSpot `json:"spots" validate:"required,min=1"`
	Language  string      `json:"language"` // 省略時は日本語
	Models    []string    `json:"models" validate:"required,min=1"`
}

// ModelScenarioResult 1つの(スポット, モデル)ペアの生成結果
// ScenarioとErrorはどちらか一方のみが設定される
type ModelScenarioResult struct {
	Model    string `json:"model"`
	Scenario string `json:"scenario,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Succeeded 生成が成功したかどうか
func (m *ModelScenarioResult) Succeeded() bool {
	return m.Error == "" && m.Scenario != ""
}

// SpotScenarioResult 1スポット分の生成結果
// Resultsはリクエストされたモデルの順に1件ずつ並ぶ
type SpotScenarioResult struct {
	SpotName string                `json:"spot_name"`
	SpotType SpotType              `json:"spot_type"`
	Results  []ModelScenarioResult `json:"results"`
}

// ResultForModel 指定モデルの結果を返す（存在しない場合はnil）
func (s *SpotScenarioResult) ResultForModel(model string) *ModelScenarioResult {
	for i := range s.Results {
		if s.Results[i].Model == model {
			return &s.Results[i]
		}
	}
	return nil
}

// ScenarioStats シナリオ生成の統計情報
type ScenarioStats struct {
	SuccessCount     int            `json:"success_count"` // ソースモデルで成功したスポット数
	TotalCount       int            `json:"total_count"`   // スポット総数
	SuccessByModel   map[string]int `json:"success_by_model"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

// ScenarioOutput 1回のシナリオ生成の結果
// SpotScenariosは入力スポットと同じ順序を保つ
type ScenarioOutput struct {
	RouteName     string               `json:"route_name"`
	SourceModel   string               `json:"source_model"` // 統合時に使用するモデル（リクエストの先頭）
	Language      string               `json:"language"`
	SpotScenarios []SpotScenarioResult `json:"spot_scenarios"`
	Stats         ScenarioStats        `json:"stats"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

// SuccessfulScenarios ソースモデルで成功したスポットのシナリオを入力順で返す
// 統合（ScenarioIntegration）の入力作成に使用する
func (o *ScenarioOutput) SuccessfulScenarios() []SpotScenarioInput {
	var inputs []SpotScenarioInput
	for _, spot := range o.SpotScenarios {
		result := spot.ResultForModel(o.SourceModel)
		if result != nil && result.Succeeded() {
			inputs = append(inputs, SpotScenarioInput{
				SpotName: spot.SpotName,
				Scenario: result.Scenario,
			})
		}
	}
	return inputs
}

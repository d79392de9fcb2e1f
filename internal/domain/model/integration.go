package model

import "time"

// SpotScenarioInput 統合の入力となる1スポット分のシナリオ
// 生成に成功したシナリオのみを渡すこと（Scenarioは非空）
type SpotScenarioInput struct {
	SpotName string `json:"spot_name"`
	Scenario string `json:"scenario"`
}

// ScenarioIntegrationRequest シナリオ統合APIのリクエスト
type ScenarioIntegrationRequest struct {
	RouteName        string              `json:"route_name" validate:"required"`
	SpotScenarios    []SpotScenarioInput `json:"spot_scenarios" validate:"required,min=1"`
	SourceModel      string              `json:"source_model"`
	IntegrationModel string              `json:"integration_model"`
}

// ScenarioIntegrationOutput 統合結果
// SourceModelは各スポットのシナリオを生成したモデル、
// IntegrationModelは統合に使用したモデル
type ScenarioIntegrationOutput struct {
	RouteName        string    `json:"route_name"`
	SourceModel      string    `json:"source_model"`
	IntegrationModel string    `json:"integration_model"`
	IntegratedScript string    `json:"integrated_script"`
	IntegratedAt     time.Time `json:"integrated_at"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
}

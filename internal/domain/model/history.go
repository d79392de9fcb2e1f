package model

import "time"

// RunRecord 完了したパイプライン実行の記録
type RunRecord struct {
	ID              string    `json:"id" db:"id"`                             // ユニークな実行ID
	RouteName       string    `json:"route_name" db:"route_name"`             // ルート名
	Purpose         string    `json:"purpose" db:"purpose"`                   // 観光の目的・テーマ
	SpotNames       []string  `json:"spot_names" db:"spot_names"`             // 訪問スポット名の配列（訪問順）
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"` // 合計所要時間
	DistanceMeters  int       `json:"distance_meters" db:"distance_meters"`   // 合計距離
	ScriptExcerpt   string    `json:"script_excerpt" db:"script_excerpt"`     // 統合スクリプトの冒頭抜粋
	StartLocation   *LatLng   `json:"start_location" db:"start_location"`     // 出発地点
	CreatedAt       time.Time `json:"created_at" db:"created_at"`             // 記録日時
}

// CreateRunRecordRequest 実行記録の作成リクエスト
type CreateRunRecordRequest struct {
	RouteName        string      `json:"route_name" validate:"required"`
	Purpose          string      `json:"purpose" validate:"required"`
	Spots            []RouteSpot `json:"spots" validate:"required"`
	DurationMinutes  int         `json:"duration_minutes" validate:"min=0"`
	DistanceMeters   int         `json:"distance_meters" validate:"min=0"`
	IntegratedScript string      `json:"integrated_script"`
	StartLocation    *LatLng     `json:"start_location"`
}

// CreateRunRecordResponse 実行記録の作成レスポンス
type CreateRunRecordResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// RunRecordSummary 一覧表示用のサマリー
type RunRecordSummary struct {
	ID              string   `json:"id"`
	RouteName       string   `json:"route_name"`
	Date            string   `json:"date"`
	SpotCount       int      `json:"spot_count"`
	DurationMinutes int      `json:"duration_minutes"`
	DistanceMeters  int      `json:"distance_meters"`
	ScriptExcerpt   string   `json:"script_excerpt"`
	StartLocation   *LatLng  `json:"start_location"`
	SpotNames       []string `json:"spot_names"`
}

// GetRunRecordsResponse 実行記録一覧のレスポンス
type GetRunRecordsResponse struct {
	Runs []RunRecordSummary `json:"runs"`
}

package model

import "time"

// CachedRunResult キャッシュから取得したパイプライン実行結果
type CachedRunResult struct {
	RunID               string   `json:"run_id"`
	StartPoint          string   `json:"start_point"`
	Purpose             string   `json:"purpose"`
	Model               string   `json:"model"`
	SpotNames           []string `json:"spot_names"`
	TotalDistanceMeters int      `json:"total_distance_meters"`
	DurationMinutes     int      `json:"duration_minutes"`
	IntegratedScript    string   `json:"integrated_script,omitempty"`
}

// FirestoreRunResult Firestore保存用のパイプライン実行結果
type FirestoreRunResult struct {
	StartPoint          string    `firestore:"start_point"`
	Purpose             string    `firestore:"purpose"`
	Model               string    `firestore:"model"`
	SpotNames           []string  `firestore:"spot_names"`
	TotalDistanceMeters int       `firestore:"total_distance_meters"`
	DurationMinutes     int       `firestore:"duration_minutes"`
	IntegratedScript    string    `firestore:"integrated_script"`
	ExpireAt            time.Time `firestore:"expireAt"`
}

// ToFirestoreRunResult TTL付きのFirestore保存用構造体に変換
func (c *CachedRunResult) ToFirestoreRunResult(ttlHours int) *FirestoreRunResult {
	return &FirestoreRunResult{
		StartPoint:          c.StartPoint,
		Purpose:             c.Purpose,
		Model:               c.Model,
		SpotNames:           c.SpotNames,
		TotalDistanceMeters: c.TotalDistanceMeters,
		DurationMinutes:     c.DurationMinutes,
		IntegratedScript:    c.IntegratedScript,
		ExpireAt:            time.Now().Add(time.Duration(ttlHours) * time.Hour),
	}
}

// ToCachedRunResult Firestoreのデータからレスポンス用構造体に変換
func (f *FirestoreRunResult) ToCachedRunResult(runID string) *CachedRunResult {
	return &CachedRunResult{
		RunID:               runID,
		StartPoint:          f.StartPoint,
		Purpose:             f.Purpose,
		Model:               f.Model,
		SpotNames:           f.SpotNames,
		TotalDistanceMeters: f.TotalDistanceMeters,
		DurationMinutes:     f.DurationMinutes,
		IntegratedScript:    f.IntegratedScript,
	}
}

// FromPipelineResult PipelineResultからキャッシュ用構造体を作成
func FromPipelineResult(result *PipelineResult, integratedScript string) *CachedRunResult {
	spotNames := make([]string, 0, len(result.Spots))
	for _, spot := range result.Spots {
		spotNames = append(spotNames, spot.Name)
	}

	cached := &CachedRunResult{
		RunID:            result.RunID,
		StartPoint:       result.StartPoint,
		Purpose:          result.Purpose,
		Model:            result.Model,
		SpotNames:        spotNames,
		IntegratedScript: integratedScript,
	}
	if result.Route != nil {
		cached.TotalDistanceMeters = result.Route.TotalDistanceMeters()
		cached.DurationMinutes = int(result.Route.TotalTravelTime().Minutes())
	}
	return cached
}

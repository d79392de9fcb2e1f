package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"Meguri-App/internal/database"
	"Meguri-App/internal/domain/model"
	domainRepo "Meguri-App/internal/domain/repository"
)

// SupabaseHistoryRepository Supabaseを使用したパイプライン実行記録リポジトリ
type SupabaseHistoryRepository struct {
	client *database.SupabaseClient
}

// NewSupabaseHistoryRepository 新しいSupabaseHistoryRepositoryインスタンスを作成
func NewSupabaseHistoryRepository(client *database.SupabaseClient) domainRepo.HistoryRepository {
	return &SupabaseHistoryRepository{
		client: client,
	}
}

// runRecordDB pipeline_runsテーブルの行表現
// start_locationはWKT POINT文字列として保存する
type runRecordDB struct {
	ID              string    `json:"id"`
	RouteName       string    `json:"route_name"`
	Purpose         string    `json:"purpose"`
	SpotNames       []string  `json:"spot_names"`
	DurationMinutes int       `json:"duration_minutes"`
	DistanceMeters  int       `json:"distance_meters"`
	ScriptExcerpt   string    `json:"script_excerpt"`
	StartLocation   *string   `json:"start_location"`
	CreatedAt       time.Time `json:"created_at"`
}

// toRunRecordDB RunRecordをDB保存用の形式に変換（位置情報をWKTに変換）
func toRunRecordDB(record *model.RunRecord) *runRecordDB {
	db := &runRecordDB{
		ID:              record.ID,
		RouteName:       record.RouteName,
		Purpose:         record.Purpose,
		SpotNames:       record.SpotNames,
		DurationMinutes: record.DurationMinutes,
		DistanceMeters:  record.DistanceMeters,
		ScriptExcerpt:   record.ScriptExcerpt,
		CreatedAt:       record.CreatedAt,
	}
	if record.StartLocation != nil {
		point := orb.Point{record.StartLocation.Lng, record.StartLocation.Lat}
		wktString := wkt.MarshalString(point)
		db.StartLocation = &wktString
	}
	return db
}

// toRunRecord DB行をRunRecordに変換
func (db *runRecordDB) toRunRecord() (*model.RunRecord, error) {
	record := &model.RunRecord{
		ID:              db.ID,
		RouteName:       db.RouteName,
		Purpose:         db.Purpose,
		SpotNames:       db.SpotNames,
		DurationMinutes: db.DurationMinutes,
		DistanceMeters:  db.DistanceMeters,
		ScriptExcerpt:   db.ScriptExcerpt,
		CreatedAt:       db.CreatedAt,
	}
	if db.StartLocation != nil && *db.StartLocation != "" {
		geom, err := wkt.Unmarshal(*db.StartLocation)
		if err != nil {
			return nil, fmt.Errorf("位置情報のWKTパース失敗: %w", err)
		}
		if point, ok := geom.(orb.Point); ok {
			record.StartLocation = &model.LatLng{Lat: point.Lat(), Lng: point.Lon()}
		}
	}
	return record, nil
}

// Create は実行記録を新規作成する
func (r *SupabaseHistoryRepository) Create(ctx context.Context, record *model.RunRecord) error {
	recordDB := toRunRecordDB(record)

	data, err := json.Marshal(recordDB)
	if err != nil {
		return fmt.Errorf("実行記録のJSONマーシャル失敗: %w", err)
	}

	_, _, err = r.client.GetClient().From("pipeline_runs").Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("実行記録の作成失敗: %w", err)
	}

	return nil
}

// GetByID は指定されたIDの実行記録を取得する
func (r *SupabaseHistoryRepository) GetByID(ctx context.Context, id string) (*model.RunRecord, error) {
	data, count, err := r.client.GetClient().From("pipeline_runs").Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("実行記録の取得失敗: %w", err)
	}
	_ = count

	var rows []runRecordDB
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("実行記録のJSONアンマーシャル失敗: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("実行記録ID %s が見つかりません", id)
	}

	return rows[0].toRunRecord()
}

// List は実行記録を新しい順に最大limit件取得する
func (r *SupabaseHistoryRepository) List(ctx context.Context, limit int) ([]model.RunRecord, error) {
	data, count, err := r.client.GetClient().From("pipeline_runs").Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("実行記録一覧の取得失敗: %w", err)
	}
	_ = count

	var rows []runRecordDB
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("実行記録のJSONアンマーシャル失敗: %w", err)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	records := make([]model.RunRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toRunRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, nil
}

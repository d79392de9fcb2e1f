package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
)

// scriptExcerptLength 一覧表示用の抜粋の最大文字数（rune単位）
const scriptExcerptLength = 80

// HistoryService パイプライン実行記録に関するビジネスロジックを提供するサービス
type HistoryService interface {
	// CreateRunRecord 実行記録を新規作成
	CreateRunRecord(ctx context.Context, req *model.CreateRunRecordRequest) (*model.CreateRunRecordResponse, error)

	// ListRunRecords 実行記録一覧を新しい順に取得
	ListRunRecords(ctx context.Context, limit int) ([]model.RunRecordSummary, error)
}

// historyServiceImpl HistoryServiceの実装
type historyServiceImpl struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryService HistoryServiceの新しいインスタンスを作成
func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyServiceImpl{
		historyRepo: historyRepo,
	}
}

// CreateRunRecord 実行記録を作成
func (s *historyServiceImpl) CreateRunRecord(ctx context.Context, req *model.CreateRunRecordRequest) (*model.CreateRunRecordResponse, error) {
	// 入力バリデーション
	if err := s.validateCreateRunRecordRequest(req); err != nil {
		return nil, fmt.Errorf("リクエストの検証失敗: %w", err)
	}

	runID := uuid.New().String()

	// 訪問スポット名を抽出
	spotNames := make([]string, len(req.Spots))
	for i, spot := range req.Spots {
		spotNames[i] = spot.Name
	}

	record := &model.RunRecord{
		ID:              runID,
		RouteName:       req.RouteName,
		Purpose:         req.Purpose,
		SpotNames:       spotNames,
		DurationMinutes: req.DurationMinutes,
		DistanceMeters:  req.DistanceMeters,
		ScriptExcerpt:   excerptScript(req.IntegratedScript),
		StartLocation:   req.StartLocation,
		CreatedAt:       time.Now(),
	}

	if err := s.historyRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("実行記録の保存失敗: %w", err)
	}

	return &model.CreateRunRecordResponse{
		Status:  "success",
		Message: "実行記録を保存しました",
		RunID:   runID,
	}, nil
}

// ListRunRecords 実行記録一覧を新しい順に取得
func (s *historyServiceImpl) ListRunRecords(ctx context.Context, limit int) ([]model.RunRecordSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	records, err := s.historyRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("実行記録一覧の取得失敗: %w", err)
	}

	summaries := make([]model.RunRecordSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, model.RunRecordSummary{
			ID:              record.ID,
			RouteName:       record.RouteName,
			Date:            record.CreatedAt.Format("2006年1月2日"),
			SpotCount:       len(record.SpotNames),
			DurationMinutes: record.DurationMinutes,
			DistanceMeters:  record.DistanceMeters,
			ScriptExcerpt:   record.ScriptExcerpt,
			StartLocation:   record.StartLocation,
			SpotNames:       record.SpotNames,
		})
	}

	return summaries, nil
}

// validateCreateRunRecordRequest リクエストの検証
func (s *historyServiceImpl) validateCreateRunRecordRequest(req *model.CreateRunRecordRequest) error {
	if req.RouteName == "" {
		return fmt.Errorf("route_nameは必須です")
	}
	if req.Purpose == "" {
		return fmt.Errorf("purposeは必須です")
	}
	if len(req.Spots) == 0 {
		return fmt.Errorf("spotsは1件以上必要です")
	}
	if req.DurationMinutes < 0 || req.DistanceMeters < 0 {
		return fmt.Errorf("所要時間と距離は0以上を指定してください")
	}
	return nil
}

// excerptScript スクリプトの冒頭を抜粋する（マルチバイト対応）
func excerptScript(script string) string {
	runes := []rune(script)
	if len(runes) <= scriptExcerptLength {
		return script
	}
	return string(runes[:scriptExcerptLength]) + "..."
}

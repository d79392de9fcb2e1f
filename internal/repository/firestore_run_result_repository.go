package repository

import (
	"Meguri-App/internal/domain/model"
	domainRepo "Meguri-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

// FirestoreRunResultRepository Firestoreを使用したパイプライン実行結果キャッシュリポジトリ
type FirestoreRunResultRepository struct {
	client *firestore.Client
}

// NewFirestoreRunResultRepository 新しいFirestoreRunResultRepositoryインスタンスを作成
func NewFirestoreRunResultRepository(client *firestore.Client) domainRepo.RunResultRepository {
	return &FirestoreRunResultRepository{
		client: client,
	}
}

// SaveRunResult は実行結果をTTL付きでFirestoreに保存し、run_idを返す
func (r *FirestoreRunResultRepository) SaveRunResult(ctx context.Context, result *model.CachedRunResult, ttlHours int) (string, error) {
	runID := result.RunID
	if runID == "" {
		runID = fmt.Sprintf("run_%s", uuid.New().String())
	}

	firestoreData := result.ToFirestoreRunResult(ttlHours)

	_, err := r.client.Collection("pipelineRuns").Doc(runID).Set(ctx, firestoreData)
	if err != nil {
		log.Printf("❌ Failed to save pipeline run %s: %v", runID, err)
		return "", fmt.Errorf("実行結果の保存に失敗しました: %w", err)
	}

	log.Printf("💾 Pipeline run saved: %s (expires in %d hours)", runID, ttlHours)
	return runID, nil
}

// GetRunResult は指定されたrun_idの実行結果をFirestoreから取得する
func (r *FirestoreRunResultRepository) GetRunResult(ctx context.Context, runID string) (*model.CachedRunResult, error) {
	doc, err := r.client.Collection("pipelineRuns").Doc(runID).Get(ctx)
	if err != nil {
		// Firestoreのエラータイプをチェック
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, fmt.Errorf("実行結果が見つかりません（有効期限切れまたは無効なID）: %s", runID)
		}
		return nil, fmt.Errorf("実行結果の取得に失敗しました: %w", err)
	}

	var firestoreData model.FirestoreRunResult
	if err := doc.DataTo(&firestoreData); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	log.Printf("✅ Pipeline run retrieved: %s", runID)
	return firestoreData.ToCachedRunResult(runID), nil
}

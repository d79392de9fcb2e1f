package usecase

import (
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentGenerations は(スポット, モデル)ペアの同時生成数の上限
const maxConcurrentGenerations = 4

// ScenarioGenerationUseCase は各スポットのシナリオ生成を行うユースケース
type ScenarioGenerationUseCase interface {
	// GenerateScenario は各スポットについてリクエストされた全モデルでシナリオを生成する
	// 個々の(スポット, モデル)の失敗は結果に記録され、他の生成を妨げない
	GenerateScenario(ctx context.Context, req *model.ScenarioGenerationRequest) (*model.ScenarioOutput, error)
}

// scenarioGenerationUseCaseImpl はScenarioGenerationUseCaseの実装
type scenarioGenerationUseCaseImpl struct {
	textGenerationRepository repository.TextGenerationRepository
}

// NewScenarioGenerationUseCase は新しいScenarioGenerationUseCaseインスタンスを作成
func NewScenarioGenerationUseCase(textRepo repository.TextGenerationRepository) ScenarioGenerationUseCase {
	return &scenarioGenerationUseCaseImpl{
		textGenerationRepository: textRepo,
	}
}

// GenerateScenario は各スポットについてリクエストされた全モデルでシナリオを生成する
// 生成は同時実行されるが、結果は必ず入力スポットと同じ順序で組み立てられる
func (u *scenarioGenerationUseCaseImpl) GenerateScenario(ctx context.Context, req *model.ScenarioGenerationRequest) (*model.ScenarioOutput, error) {
	if len(req.Spots) == 0 {
		return nil, model.NewInvalidInputError("spots", "スポットが指定されていません")
	}
	if len(req.Models) == 0 {
		return nil, model.NewInvalidInputError("models", "モデルが指定されていません")
	}

	language := req.Language
	if language == "" {
		language = "日本語"
	}
	sourceModel := req.Models[0]

	log.Printf("🚀 シナリオ生成開始 (ルート: %s, スポット: %d件, モデル: %d種)", req.RouteName, len(req.Spots), len(req.Models))
	startedAt := time.Now()

	// (スポット, モデル)ペアごとに1回ずつ生成する。リトライは行わない
	// 完了順に関係なくインデックスで格納するため、出力は常に入力順になる
	results := make([][]model.ModelScenarioResult, len(req.Spots))
	for i := range results {
		results[i] = make([]model.ModelScenarioResult, len(req.Models))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentGenerations)

	for spotIdx, spot := range req.Spots {
		for modelIdx, geminiModel := range req.Models {
			spotIdx, modelIdx := spotIdx, modelIdx
			spot, geminiModel := spot, geminiModel

			g.Go(func() error {
				prompt := u.buildScenarioPrompt(req.RouteName, spot, language)

				scenario, err := u.textGenerationRepository.GenerateText(gctx, prompt, geminiModel)
				if err != nil {
					log.Printf("⚠️ スポット「%s」(モデル: %s) の生成に失敗: %v", spot.Name, geminiModel, err)
					results[spotIdx][modelIdx] = model.ModelScenarioResult{
						Model: geminiModel,
						Error: err.Error(),
					}
					return nil
				}

				results[spotIdx][modelIdx] = model.ModelScenarioResult{
					Model:    geminiModel,
					Scenario: strings.TrimSpace(scenario),
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("シナリオ生成に失敗: %w", err)
	}

	// 結果の組み立てと統計の集計
	output := &model.ScenarioOutput{
		RouteName:   req.RouteName,
		SourceModel: sourceModel,
		Language:    language,
		GeneratedAt: time.Now(),
	}
	successByModel := make(map[string]int, len(req.Models))

	for spotIdx, spot := range req.Spots {
		spotResult := model.SpotScenarioResult{
			SpotName: spot.Name,
			SpotType: spot.Type,
			Results:  results[spotIdx],
		}
		for _, r := range results[spotIdx] {
			if r.Succeeded() {
				successByModel[r.Model]++
			}
		}
		output.SpotScenarios = append(output.SpotScenarios, spotResult)
	}

	output.Stats = model.ScenarioStats{
		SuccessCount:     successByModel[sourceModel],
		TotalCount:       len(req.Spots),
		SuccessByModel:   successByModel,
		ProcessingTimeMs: time.Since(startedAt).Milliseconds(),
	}

	log.Printf("🎉 シナリオ生成完了 (成功: %d/%d, %dms)",
		output.Stats.SuccessCount, output.Stats.TotalCount, output.Stats.ProcessingTimeMs)

	return output, nil
}

// buildScenarioPrompt は1スポット分のナレーション生成用プロンプトを構築
func (u *scenarioGenerationUseCaseImpl) buildScenarioPrompt(routeName string, spot model.RouteSpot, language string) string {
	role := "立ち寄りスポット"
	switch spot.Type {
	case model.SpotTypeStart:
		role = "出発地点"
	case model.SpotTypeDestination:
		role = "目的地"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `以下の観光スポットについて、ツアーガイドのナレーション原稿を生成してください：

【ルート】%s
【スポット名】%s
【役割】%s
`, routeName, spot.Name, role)

	if spot.Description != "" {
		fmt.Fprintf(&sb, "【説明】%s\n", spot.Description)
	}
	if spot.Point != "" {
		fmt.Fprintf(&sb, "【見どころ】%s\n", spot.Point)
	}

	fmt.Fprintf(&sb, `
【要件】
- 200-300文字のナレーション原稿
- 聞き手が歩きながら聞くことを想定した語り口
- スポットの魅力と背景を織り込む
- %sで出力する

ナレーション本文のみを出力してください。`, language)

	return sb.String()
}

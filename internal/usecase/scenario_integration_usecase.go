package usecase

import (
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// ScenarioIntegrationUseCase は各スポットのシナリオを1本のスクリプトに統合するユースケース
type ScenarioIntegrationUseCase interface {
	// Integrate は生成済みシナリオを1回の生成呼び出しで統合する
	// 入力が空の場合はNoScenarioToIntegrateErrorで失敗する（空のスクリプトは返さない）
	Integrate(ctx context.Context, req *model.ScenarioIntegrationRequest) (*model.ScenarioIntegrationOutput, error)
}

// scenarioIntegrationUseCaseImpl はScenarioIntegrationUseCaseの実装
type scenarioIntegrationUseCaseImpl struct {
	textGenerationRepository repository.TextGenerationRepository
}

// NewScenarioIntegrationUseCase は新しいScenarioIntegrationUseCaseインスタンスを作成
func NewScenarioIntegrationUseCase(textRepo repository.TextGenerationRepository) ScenarioIntegrationUseCase {
	return &scenarioIntegrationUseCaseImpl{
		textGenerationRepository: textRepo,
	}
}

// Integrate は生成済みシナリオを1本のスクリプトに統合する
// 下流の生成呼び出しは1回のみで、失敗時は部分的な結果を返さずエラーを伝播する
func (u *scenarioIntegrationUseCaseImpl) Integrate(ctx context.Context, req *model.ScenarioIntegrationRequest) (*model.ScenarioIntegrationOutput, error) {
	// 呼び出し側でもチェックされるが、ここでも必ず検査する
	if len(req.SpotScenarios) == 0 {
		return nil, &model.NoScenarioToIntegrateError{}
	}
	for _, input := range req.SpotScenarios {
		if strings.TrimSpace(input.Scenario) == "" {
			return nil, model.NewInvalidInputError("spot_scenarios", fmt.Sprintf("スポット「%s」のシナリオが空です", input.SpotName))
		}
	}

	integrationModel := req.IntegrationModel
	if integrationModel == "" {
		integrationModel = req.SourceModel
	}

	log.Printf("🚀 シナリオ統合開始 (ルート: %s, シナリオ: %d件, モデル: %s)", req.RouteName, len(req.SpotScenarios), integrationModel)
	startedAt := time.Now()

	prompt := u.buildIntegrationPrompt(req.RouteName, req.SpotScenarios)

	script, err := u.textGenerationRepository.GenerateText(ctx, prompt, integrationModel)
	if err != nil {
		return nil, fmt.Errorf("シナリオ統合に失敗: %w", err)
	}

	completedAt := time.Now()
	output := &model.ScenarioIntegrationOutput{
		RouteName:        req.RouteName,
		SourceModel:      req.SourceModel,
		IntegrationModel: integrationModel,
		IntegratedScript: strings.TrimSpace(script),
		IntegratedAt:     completedAt,
		ProcessingTimeMs: completedAt.Sub(startedAt).Milliseconds(),
	}

	log.Printf("🎉 シナリオ統合完了 (%d文字, %dms)", len(output.IntegratedScript), output.ProcessingTimeMs)
	return output, nil
}

// buildIntegrationPrompt は統合用プロンプトを構築
// 各スポットのナレーションを訪問順の番号付きで並べる
func (u *scenarioIntegrationUseCaseImpl) buildIntegrationPrompt(routeName string, inputs []model.SpotScenarioInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `以下は観光ルート「%s」の各スポットのナレーション原稿です。
これらを1本の自然なツアーガイドスクリプトに統合してください：

`, routeName)

	for i, input := range inputs {
		fmt.Fprintf(&sb, "%d. %s\n%s\n\n", i+1, input.SpotName, input.Scenario)
	}

	sb.WriteString(`【要件】
- スポット間の移動を自然な繋ぎの語りで接続する
- 全体を通して語り口とトーンを統一する
- 冒頭にルート全体の導入、末尾に締めの挨拶を加える
- 各スポットの内容は省略しない

統合後のスクリプト本文のみを出力してください。`)

	return sb.String()
}

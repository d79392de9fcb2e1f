package ai

import (
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// geminiSpotSuggestionRepository はGemini APIを使用してSpotSuggestionRepositoryを実装
type geminiSpotSuggestionRepository struct {
	client *GeminiClient
}

// NewGeminiSpotSuggestionRepository は新しいgeminiSpotSuggestionRepositoryインスタンスを作成
func NewGeminiSpotSuggestionRepository(client *GeminiClient) repository.SpotSuggestionRepository {
	return &geminiSpotSuggestionRepository{
		client: client,
	}
}

// suggestedSpot はGeminiのJSON応答の1スポット分
type suggestedSpot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Point       string `json:"point"`
}

// SuggestSpots は出発地点とテーマからspotCount個のスポット候補を生成する
func (g *geminiSpotSuggestionRepository) SuggestSpots(ctx context.Context, startPoint, purpose string, spotCount int, geminiModel string) ([]model.RouteSpot, error) {
	if spotCount < 2 {
		return nil, model.NewInvalidInputError("spot_count", "スポット数は2以上を指定してください")
	}

	prompt := g.buildSuggestionPrompt(startPoint, purpose, spotCount)

	log.Printf("🤖 Gemini APIでスポット候補を生成中... (出発地点: %s, テーマ: %s)", startPoint, purpose)

	content, err := g.client.GenerateContent(ctx, prompt, geminiModel)
	if err != nil {
		return nil, fmt.Errorf("Gemini API呼び出しエラー: %w", err)
	}

	spots, err := parseSuggestedSpots(content, startPoint)
	if err != nil {
		return nil, fmt.Errorf("スポット候補のパースに失敗: %w", err)
	}

	log.Printf("✅ %d件のスポット候補を生成", len(spots))
	return spots, nil
}

// buildSuggestionPrompt はスポット候補生成用のプロンプトを構築
func (g *geminiSpotSuggestionRepository) buildSuggestionPrompt(startPoint, purpose string, spotCount int) string {
	return fmt.Sprintf(`以下の条件で、観光ルートのスポット候補を生成してください：

【条件】
出発地点: %s
目的・テーマ: %s
スポット数: %d箇所（出発地点を含む）

【要件】
- 出発地点から無理なく巡れる実在のスポットを選ぶ
- テーマに沿った魅力的なスポットを優先する
- 訪問順に並べる（1番目は出発地点）
- nameはジオコーディング可能な正式名称にする

【出力フォーマット】
以下のJSON配列のみを出力してください（説明文は不要）：
[
  {"name": "スポット名", "description": "スポットの説明（50文字程度）", "point": "見どころ（30文字程度）"}
]`,
		startPoint, purpose, spotCount)
}

// parseSuggestedSpots はGeminiの応答からスポット一覧を抽出する
// コードフェンス付きの応答にも対応し、先頭をstart、末尾をdestinationとして型付けする
func parseSuggestedSpots(content, startPoint string) ([]model.RouteSpot, error) {
	jsonText := extractJSONArray(content)
	if jsonText == "" {
		return nil, fmt.Errorf("応答にJSON配列が含まれていません")
	}

	var suggested []suggestedSpot
	if err := json.Unmarshal([]byte(jsonText), &suggested); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if len(suggested) < 2 {
		return nil, fmt.Errorf("スポット候補が%d件しか生成されませんでした", len(suggested))
	}

	spots := make([]model.RouteSpot, 0, len(suggested))
	for i, s := range suggested {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}

		spotType := model.SpotTypeWaypoint
		if i == 0 {
			spotType = model.SpotTypeStart
		} else if i == len(suggested)-1 {
			spotType = model.SpotTypeDestination
		}

		spots = append(spots, model.RouteSpot{
			Name:        strings.TrimSpace(s.Name),
			Type:        spotType,
			Description: strings.TrimSpace(s.Description),
			Point:       strings.TrimSpace(s.Point),
		})
	}

	if len(spots) < 2 {
		return nil, fmt.Errorf("有効なスポット候補が2件未満です")
	}

	// 先頭は出発地点に固定する
	if spots[0].Name != startPoint && startPoint != "" {
		spots[0].Name = startPoint
	}

	return spots, nil
}

// extractJSONArray は応答テキストからJSON配列部分を取り出す
// ```json ... ``` のコードフェンスや前後の説明文を除去する
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}

package ai

import (
	"Meguri-App/internal/domain/repository"
	"context"
	"fmt"
)

// geminiTextRepository はGemini APIを使用してTextGenerationRepositoryを実装
type geminiTextRepository struct {
	client *GeminiClient
}

// NewGeminiTextRepository は新しいgeminiTextRepositoryインスタンスを作成
func NewGeminiTextRepository(client *GeminiClient) repository.TextGenerationRepository {
	return &geminiTextRepository{
		client: client,
	}
}

// GenerateText は指定モデルでプロンプトからテキストを生成する
func (g *geminiTextRepository) GenerateText(ctx context.Context, prompt, geminiModel string) (string, error) {
	content, err := g.client.GenerateContent(ctx, prompt, geminiModel)
	if err != nil {
		return "", fmt.Errorf("Gemini API呼び出しエラー: %w", err)
	}
	return content, nil
}

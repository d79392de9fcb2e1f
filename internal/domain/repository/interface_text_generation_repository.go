package repository

import "context"

// TextGenerationRepository はテキスト生成の責務を持つリポジトリインターフェース
type TextGenerationRepository interface {
	// GenerateText は指定モデルでプロンプトからテキストを生成する
	// 失敗時はエラーを返す（構造化されたエラー分類は行わない）
	GenerateText(ctx context.Context, prompt, geminiModel string) (string, error)
}

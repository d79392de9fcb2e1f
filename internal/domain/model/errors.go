package model

import "fmt"

// InvalidInputError 入力検証エラー（部分的な結果は生成されない）
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// NewInvalidInputError 新しいInvalidInputErrorを作成
func NewInvalidInputError(field, message string) *InvalidInputError {
	return &InvalidInputError{Field: field, Message: message}
}

// NoScenarioToIntegrateError 統合可能なシナリオが1件も無い場合のエラー
// 空のスクリプトを返す代わりにこのエラーで失敗する
type NoScenarioToIntegrateError struct{}

func (e *NoScenarioToIntegrateError) Error() string {
	return "統合できるシナリオがありません"
}

// PipelineCancelledError パイプライン実行がユーザーによってキャンセルされた
// failed状態ではなくidle状態に戻るため、通常のエラーとは区別する
type PipelineCancelledError struct{}

func (e *PipelineCancelledError) Error() string {
	return "パイプライン実行がキャンセルされました"
}

// PipelineBusyError パイプラインが既に実行中の場合のエラー
type PipelineBusyError struct{}

func (e *PipelineBusyError) Error() string {
	return "パイプラインは既に実行中です"
}

// WrapStageError パイプラインのステージ名付きでエラーをラップする
func WrapStageError(stage string, err error) error {
	return fmt.Errorf("%sに失敗: %w", stage, err)
}

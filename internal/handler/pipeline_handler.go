package handler

import (
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
	"Meguri-App/internal/usecase"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PipelineHandler はパイプライン実行APIのハンドラー
type PipelineHandler struct {
	pipelineUseCase usecase.PipelineUseCase
	runResultRepo   repository.RunResultRepository // nilの場合キャッシュ取得エンドポイントは無効
}

// NewPipelineHandler は新しいPipelineHandlerインスタンスを作成
func NewPipelineHandler(pipelineUseCase usecase.PipelineUseCase, runResultRepo repository.RunResultRepository) *PipelineHandler {
	return &PipelineHandler{
		pipelineUseCase: pipelineUseCase,
		runResultRepo:   runResultRepo,
	}
}

// PostRunPipeline はパイプラインを実行するエンドポイント
// POST /pipeline/run
func (h *PipelineHandler) PostRunPipeline(c *gin.Context) {
	var req model.PipelineRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	result, err := h.pipelineUseCase.RunPipeline(c.Request.Context(), &req)
	if err != nil {
		var invalidInput *model.InvalidInputError
		var busy *model.PipelineBusyError
		var cancelled *model.PipelineCancelledError
		switch {
		case errors.As(err, &invalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "入力エラー",
				"details": err.Error(),
			})
		case errors.As(err, &busy):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "パイプラインは既に実行中です",
				"details": err.Error(),
			})
		case errors.As(err, &cancelled):
			c.JSON(http.StatusOK, gin.H{
				"status":  "cancelled",
				"message": "パイプライン実行がキャンセルされました",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "パイプライン実行に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPipelineState は現在のパイプライン状態を取得するエンドポイント
// GET /pipeline/state
func (h *PipelineHandler) GetPipelineState(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipelineUseCase.CurrentState())
}

// PostCancelPipeline は実行中のパイプラインをキャンセルするエンドポイント
// POST /pipeline/cancel
func (h *PipelineHandler) PostCancelPipeline(c *gin.Context) {
	h.pipelineUseCase.Cancel()
	c.JSON(http.StatusOK, gin.H{
		"status": "accepted",
		"state":  h.pipelineUseCase.CurrentState(),
	})
}

// GetRunResult はキャッシュされた実行結果を取得するエンドポイント
// GET /pipeline/results/:id
func (h *PipelineHandler) GetRunResult(c *gin.Context) {
	if h.runResultRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "実行結果キャッシュが有効になっていません",
		})
		return
	}

	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "run_idが指定されていません",
		})
		return
	}

	result, err := h.runResultRepo.GetRunResult(c.Request.Context(), runID)
	if err != nil {
		// エラーメッセージから404か500かを判定
		if strings.Contains(err.Error(), "見つかりません") || strings.Contains(err.Error(), "有効期限切れ") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "実行結果が見つかりません",
				"details": err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "実行結果の取得に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

package handler

import (
	"Meguri-App/internal/application"
	"Meguri-App/internal/domain/model"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// HistoryHandler はパイプライン実行記録APIのハンドラー
type HistoryHandler struct {
	historyService application.HistoryService
}

// NewHistoryHandler は新しいHistoryHandlerインスタンスを作成
func NewHistoryHandler(historyService application.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// CreateRunRecord POST /history/runs - 実行記録の作成
func (h *HistoryHandler) CreateRunRecord(c *gin.Context) {
	var req model.CreateRunRecordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	response, err := h.historyService.CreateRunRecord(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create run record: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListRunRecords GET /history/runs - 実行記録一覧の取得
func (h *HistoryHandler) ListRunRecords(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	runs, err := h.historyService.ListRunRecords(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list run records: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.GetRunRecordsResponse{Runs: runs})
}

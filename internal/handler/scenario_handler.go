package handler

import (
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/usecase"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler はシナリオ生成・統合APIのハンドラー
type ScenarioHandler struct {
	generationUseCase  usecase.ScenarioGenerationUseCase
	integrationUseCase usecase.ScenarioIntegrationUseCase
}

// NewScenarioHandler は新しいScenarioHandlerインスタンスを作成
func NewScenarioHandler(generationUseCase usecase.ScenarioGenerationUseCase, integrationUseCase usecase.ScenarioIntegrationUseCase) *ScenarioHandler {
	return &ScenarioHandler{
		generationUseCase:  generationUseCase,
		integrationUseCase: integrationUseCase,
	}
}

// PostGenerateScenario はシナリオ生成のエンドポイント
// POST /scenarios/generate
func (h *ScenarioHandler) PostGenerateScenario(c *gin.Context) {
	var req model.ScenarioGenerationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if err := h.validateGenerationRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	output, err := h.generationUseCase.GenerateScenario(c.Request.Context(), &req)
	if err != nil {
		var invalidInput *model.InvalidInputError
		if errors.As(err, &invalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "入力エラー",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "シナリオ生成に失敗しました",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, output)
}

// PostIntegrateScenarios はシナリオ統合のエンドポイント
// POST /scenarios/integrate
func (h *ScenarioHandler) PostIntegrateScenarios(c *gin.Context) {
	var req model.ScenarioIntegrationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	// 統合対象が空の場合はユースケース内でも検査されるが、ここでも先に弾く
	if len(req.SpotScenarios) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "統合できるシナリオがありません",
			"details": "spot_scenariosに成功したシナリオを1件以上指定してください",
		})
		return
	}

	output, err := h.integrationUseCase.Integrate(c.Request.Context(), &req)
	if err != nil {
		var noScenario *model.NoScenarioToIntegrateError
		var invalidInput *model.InvalidInputError
		switch {
		case errors.As(err, &noScenario):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "統合できるシナリオがありません",
				"details": err.Error(),
			})
		case errors.As(err, &invalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "入力エラー",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "シナリオ統合に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, output)
}

// validateGenerationRequest はシナリオ生成リクエストの詳細バリデーションを行う
func (h *ScenarioHandler) validateGenerationRequest(req *model.ScenarioGenerationRequest) error {
	if req.RouteName == "" {
		return &ValidationError{Field: "route_name", Message: "ルート名は必須です"}
	}
	if len(req.Spots) == 0 {
		return &ValidationError{Field: "spots", Message: "スポットを1件以上指定してください"}
	}
	for i, spot := range req.Spots {
		if spot.Name == "" {
			return &ValidationError{Field: "spots", Message: fmt.Sprintf("%d番目のスポット名が空です", i+1)}
		}
		switch spot.Type {
		case model.SpotTypeStart, model.SpotTypeWaypoint, model.SpotTypeDestination:
		default:
			return &ValidationError{Field: "spots", Message: "typeはstart/waypoint/destinationのいずれかを指定してください"}
		}
	}
	if len(req.Models) == 0 {
		return &ValidationError{Field: "models", Message: "モデルを1件以上指定してください"}
	}
	return nil
}

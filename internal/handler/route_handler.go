package handler

import (
	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/service"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouteHandler は経路計算APIのハンドラー
type RouteHandler struct {
	routeSequencer service.RouteSequencer
}

// NewRouteHandler は新しいRouteHandlerインスタンスを作成
func NewRouteHandler(routeSequencer service.RouteSequencer) *RouteHandler {
	return &RouteHandler{
		routeSequencer: routeSequencer,
	}
}

// routeCalculationResponse 経路計算のレスポンス
// 合計値は成功した区間のみの値であることに注意（has_all_segments_succeededを確認すること）
type routeCalculationResponse struct {
	Places                   []model.GeocodedPlace `json:"places"`
	Segments                 []model.RouteSegment  `json:"segments"`
	FailedSegments           []model.FailedSegment `json:"failed_segments"`
	TotalDistanceMeters      int                   `json:"total_distance_meters"`
	TotalTravelTimeSeconds   int                   `json:"total_travel_time_seconds"`
	FormattedTotalDistance   string                `json:"formatted_total_distance"`
	FormattedTotalTravelTime string                `json:"formatted_total_travel_time"`
	HasAllSegmentsSucceeded  bool                  `json:"has_all_segments_succeeded"`
	SuccessSummary           string                `json:"success_summary"`
}

// PostCalculateRoute は経路計算のエンドポイント
// POST /routes/calculate
func (h *RouteHandler) PostCalculateRoute(c *gin.Context) {
	var req model.RouteCalculationRequest

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	// バリデーション
	if err := h.validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	transport := model.TransportType(req.Transport)
	if req.Transport == "" {
		transport = model.TransportWalking
	}

	result, err := h.routeSequencer.CalculateRoute(c.Request.Context(), req.Addresses, transport)
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
			"error":   "経路計算に失敗しました",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, routeCalculationResponse{
		Places:                   result.Places,
		Segments:                 result.Segments,
		FailedSegments:           result.FailedSegments,
		TotalDistanceMeters:      result.TotalDistanceMeters(),
		TotalTravelTimeSeconds:   int(result.TotalTravelTime().Seconds()),
		FormattedTotalDistance:   result.FormattedTotalDistance(),
		FormattedTotalTravelTime: result.FormattedTotalTravelTime(),
		HasAllSegmentsSucceeded:  result.HasAllSegmentsSucceeded(),
		SuccessSummary:           result.SuccessSummary(),
	})
}

// validateRequest はリクエストの詳細バリデーションを行う
func (h *RouteHandler) validateRequest(req *model.RouteCalculationRequest) error {
	validAddresses := 0
	for _, address := range req.Addresses {
		if strings.TrimSpace(address) != "" {
			validAddresses++
		}
	}
	if validAddresses < 2 {
		return &ValidationError{Field: "addresses", Message: "経路計算には2件以上の住所が必要です"}
	}

	if req.Transport != "" && !model.TransportType(req.Transport).IsValid() {
		return &ValidationError{Field: "transport", Message: "transportは'walking'または'driving'を指定してください"}
	}

	return nil
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

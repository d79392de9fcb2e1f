package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
)

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した経路検索の実装
type GoogleDirectionsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey string) repository.DirectionsRepository {
	return &GoogleDirectionsProvider{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/directions/json",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetRoute はGoogle Maps Directions APIを呼び出して2地点間の経路情報を取得する
// 経路が存在しない場合（ZERO_RESULTS）は (nil, nil) を返す
func (g *GoogleDirectionsProvider) GetRoute(ctx context.Context, from, to model.LatLng, transport model.TransportType) (*model.RouteDetails, error) {
	reqURL := g.buildURL(from, to, transport)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	var apiResp googleRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	// 経路なしはエラーではなくnilで表現する
	if apiResp.Status == "ZERO_RESULTS" || len(apiResp.Routes) == 0 {
		return nil, nil
	}
	if apiResp.Status != "OK" {
		return nil, fmt.Errorf("APIエラー (status: %s): %s", apiResp.Status, apiResp.ErrorMessage)
	}

	// ドメインモデルに変換して返す
	firstRoute := apiResp.Routes[0]
	var totalDistanceMeters, totalDurationSec int
	for _, leg := range firstRoute.Legs {
		totalDistanceMeters += leg.Distance.Value
		totalDurationSec += leg.Duration.Value
	}

	return &model.RouteDetails{
		DistanceMeters:    totalDistanceMeters,
		TravelTimeSeconds: totalDurationSec,
		Polyline:          firstRoute.OverviewPolyline.Points,
	}, nil
}

func (g *GoogleDirectionsProvider) buildURL(from, to model.LatLng, transport model.TransportType) string {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", from.Lat, from.Lng))
	params.Set("destination", fmt.Sprintf("%f,%f", to.Lat, to.Lng))
	params.Set("mode", string(transport))
	params.Set("language", "ja")
	params.Set("key", g.apiKey)

	return fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleRouteResponse struct {
	Routes       []route `json:"routes"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
type route struct {
	Legs             []leg            `json:"legs"`
	OverviewPolyline overviewPolyline `json:"overview_polyline"`
}
type leg struct {
	Distance valueField `json:"distance"`
	Duration valueField `json:"duration"`
}
type valueField struct {
	Value int `json:"value"` // meters / seconds
}
type overviewPolyline struct {
	Points string `json:"points"`
}

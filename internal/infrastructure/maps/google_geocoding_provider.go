package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Meguri-App/internal/domain/model"
	"Meguri-App/internal/domain/repository"
)

// GoogleGeocodingProvider はGoogle Maps Geocoding APIを使用したジオコーディングの実装
// キャッシュリポジトリが設定されている場合、API呼び出し前にキャッシュを参照する
type GoogleGeocodingProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      repository.GeocodeCacheRepository // nilの場合キャッシュなし
}

// NewGoogleGeocodingProvider は新しいプロバイダを生成する
func NewGoogleGeocodingProvider(apiKey string, cache repository.GeocodeCacheRepository) repository.GeocodingRepository {
	return &GoogleGeocodingProvider{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

// Geocode は複数の住所を順番にジオコーディングする
// 解決できなかった住所は結果から除外される（全体は失敗しない）
func (g *GoogleGeocodingProvider) Geocode(ctx context.Context, addresses []string) ([]model.GeocodedPlace, error) {
	var places []model.GeocodedPlace

	for _, address := range addresses {
		address = strings.TrimSpace(address)
		if address == "" {
			continue
		}

		place, err := g.geocodeOne(ctx, address)
		if err != nil {
			// コンテキストのキャンセルは全体の失敗として扱う
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("⚠️ 住所「%s」のジオコーディングに失敗: %v", address, err)
			continue
		}
		if place == nil {
			log.Printf("⚠️ 住所「%s」に一致する場所が見つかりませんでした", address)
			continue
		}

		places = append(places, *place)
	}

	return places, nil
}

// geocodeOne は1件の住所をジオコーディングする（見つからない場合は nil, nil）
func (g *GoogleGeocodingProvider) geocodeOne(ctx context.Context, address string) (*model.GeocodedPlace, error) {
	// キャッシュ参照（エラー時はAPI呼び出しにフォールバック）
	if g.cache != nil {
		if cached, err := g.cache.Lookup(ctx, address); err == nil && cached != nil {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("language", "ja")
	params.Set("key", g.apiKey)

	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

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

	var apiResp googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if apiResp.Status == "ZERO_RESULTS" || len(apiResp.Results) == 0 {
		return nil, nil
	}
	if apiResp.Status != "OK" {
		return nil, fmt.Errorf("APIエラー (status: %s): %s", apiResp.Status, apiResp.ErrorMessage)
	}

	first := apiResp.Results[0]
	place := &model.GeocodedPlace{
		InputAddress:     address,
		FormattedAddress: first.FormattedAddress,
		Location: model.LatLng{
			Lat: first.Geometry.Location.Lat,
			Lng: first.Geometry.Location.Lng,
		},
	}

	// キャッシュ保存（失敗してもジオコーディング自体は成功扱い）
	if g.cache != nil {
		if err := g.cache.Store(ctx, place); err != nil {
			log.Printf("⚠️ ジオコーディング結果のキャッシュ保存に失敗: %v", err)
		}
	}

	return place, nil
}

// --- Google Maps Geocoding APIのレスポンスをパースするための構造体 ---

type googleGeocodeResponse struct {
	Results      []geocodeResult `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}
type geocodeResult struct {
	FormattedAddress string          `json:"formatted_address"`
	Geometry         geocodeGeometry `json:"geometry"`
}
type geocodeGeometry struct {
	Location geocodeLatLng `json:"location"`
}
type geocodeLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

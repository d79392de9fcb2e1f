package model

import (
	"fmt"
	"time"
)

// RouteCalculationRequest 経路計算APIのリクエスト
type RouteCalculationRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=2"`
	Transport string   `json:"transport"` // 省略時はwalking
}

// RouteDetails 2地点間の経路情報（Directions APIの結果）
type RouteDetails struct {
	DistanceMeters    int    `json:"distance_meters"`
	TravelTimeSeconds int    `json:"travel_time_seconds"`
	Polyline          string `json:"polyline"`
}

// RouteSegment 連続する2地点間の経路区間
type RouteSegment struct {
	From              GeocodedPlace `json:"from"`
	To                GeocodedPlace `json:"to"`
	DistanceMeters    int           `json:"distance_meters"`
	TravelTimeSeconds int           `json:"travel_time_seconds"`
	Polyline          string        `json:"polyline"`
}

// FailedSegment 経路計算に失敗した区間の記録
// CrowFlyDistanceMetersは表示用の直線距離（参考値）
type FailedSegment struct {
	From                  GeocodedPlace `json:"from"`
	To                    GeocodedPlace `json:"to"`
	Reason                string        `json:"reason"`
	CrowFlyDistanceMeters int           `json:"crow_fly_distance_meters"`
}

// AddressRouteResult 1回の経路計算の結果スナップショット
// 構築後は変更されない。合計値は成功した区間のみの合計
type AddressRouteResult struct {
	Places         []GeocodedPlace `json:"places"`
	Segments       []RouteSegment  `json:"segments"`
	FailedSegments []FailedSegment `json:"failed_segments"`
}

// TotalDistanceMeters 成功した区間の距離合計（失敗区間は含まない）
func (r *AddressRouteResult) TotalDistanceMeters() int {
	total := 0
	for _, seg := range r.Segments {
		total += seg.DistanceMeters
	}
	return total
}

// TotalTravelTime 成功した区間の所要時間合計
func (r *AddressRouteResult) TotalTravelTime() time.Duration {
	total := 0
	for _, seg := range r.Segments {
		total += seg.TravelTimeSeconds
	}
	return time.Duration(total) * time.Second
}

// HasAllSegmentsSucceeded 全区間の経路計算が成功したかどうか
// falseの場合、合計値は部分的な値なので表示時に注意が必要
func (r *AddressRouteResult) HasAllSegmentsSucceeded() bool {
	return len(r.FailedSegments) == 0
}

// FormattedTotalDistance 合計距離の表示用文字列
func (r *AddressRouteResult) FormattedTotalDistance() string {
	return FormatDistance(r.TotalDistanceMeters())
}

// FormattedTotalTravelTime 合計所要時間の表示用文字列
func (r *AddressRouteResult) FormattedTotalTravelTime() string {
	return FormatDuration(r.TotalTravelTime())
}

// SuccessSummary 区間の成功数サマリー（例: "成功: 2/5"）
func (r *AddressRouteResult) SuccessSummary() string {
	total := len(r.Segments) + len(r.FailedSegments)
	return fmt.Sprintf("成功: %d/%d", len(r.Segments), total)
}

// FormatDistance 距離を表示用文字列に変換する
// 1000m以上はkm表記（小数点1桁）、未満はm表記
func FormatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", float64(meters)/1000.0)
	}
	return fmt.Sprintf("%d m", meters)
}

// FormatDuration 所要時間を表示用文字列に変換する
// 60分以上は「H時間M分」表記（0分は省略）、未満は「M分」表記
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes >= 60 {
		hours := minutes / 60
		rem := minutes % 60
		if rem == 0 {
			return fmt.Sprintf("%d時間", hours)
		}
		return fmt.Sprintf("%d時間%d分", hours, rem)
	}
	return fmt.Sprintf("%d分", minutes)
}

package helper

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"Meguri-App/internal/domain/model"
)

// LatLngToPoint model.LatLng を orb.Point に変換
func LatLngToPoint(latLng model.LatLng) orb.Point {
	return orb.Point{latLng.Lng, latLng.Lat}
}

// PointToLatLng orb.Point を model.LatLng に変換
func PointToLatLng(point orb.Point) model.LatLng {
	return model.LatLng{
		Lat: point.Lat(),
		Lng: point.Lon(),
	}
}

// CrowFlyDistanceMeters 2地点間の直線距離（メートル）を計算する
// 経路計算に失敗した区間の参考値表示に使用する
func CrowFlyDistanceMeters(from, to model.LatLng) int {
	distance := geo.Distance(LatLngToPoint(from), LatLngToPoint(to))
	return int(distance)
}

// BoundingBox 複数地点を含む境界ボックスを計算する
func BoundingBox(locations []model.LatLng) orb.Bound {
	if len(locations) == 0 {
		return orb.Bound{}
	}

	bound := orb.Bound{
		Min: LatLngToPoint(locations[0]),
		Max: LatLngToPoint(locations[0]),
	}
	for _, loc := range locations[1:] {
		bound = bound.Extend(LatLngToPoint(loc))
	}
	return bound
}

package model

// LatLng 緯度経度を表す基本的な型（経路検索などで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TransportType 経路検索の移動手段
type TransportType string

const (
	TransportWalking TransportType = "walking"
	TransportDriving TransportType = "driving"
)

// IsValid 移動手段が有効かチェック
func (t TransportType) IsValid() bool {
	return t == TransportWalking || t == TransportDriving
}

// GeocodedPlace ジオコーディング済みの地点
// 生成後は変更されない。リストの順序が訪問順を表す
type GeocodedPlace struct {
	InputAddress     string `json:"input_address"`     // ユーザーが入力した住所
	FormattedAddress string `json:"formatted_address"` // ジオコーディングAPIが整形した住所
	Location         LatLng `json:"location"`          // 緯度経度
}

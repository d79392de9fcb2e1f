package repository

import (
	"Meguri-App/internal/domain/model"
	domainRepo "Meguri-App/internal/domain/repository"
	"Meguri-App/internal/infrastructure/database"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PostgresGeocodeCacheRepository PostgreSQLを使用したジオコーディング結果キャッシュ
// 正規化済み住所をキーとしてgeocode_cacheテーブルに保存する
type PostgresGeocodeCacheRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresGeocodeCacheRepository 新しいPostgresGeocodeCacheRepositoryインスタンスを作成
func NewPostgresGeocodeCacheRepository(client *database.PostgreSQLClient) domainRepo.GeocodeCacheRepository {
	return &PostgresGeocodeCacheRepository{
		client: client,
	}
}

// normalizeAddress 住所をキャッシュキー用に正規化する
func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Lookup は正規化済み住所のキャッシュを検索する（未登録時は nil, nil）
func (r *PostgresGeocodeCacheRepository) Lookup(ctx context.Context, address string) (*model.GeocodedPlace, error) {
	query := `
		SELECT input_address, formatted_address, latitude, longitude
		FROM geocode_cache
		WHERE address_key = $1
	`

	var place model.GeocodedPlace
	err := r.client.DB.QueryRowContext(ctx, query, normalizeAddress(address)).Scan(
		&place.InputAddress,
		&place.FormattedAddress,
		&place.Location.Lat,
		&place.Location.Lng,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ジオコーディングキャッシュの検索に失敗: %w", err)
	}

	return &place, nil
}

// Store はジオコーディング結果をキャッシュに保存する（同一キーは上書き）
func (r *PostgresGeocodeCacheRepository) Store(ctx context.Context, place *model.GeocodedPlace) error {
	query := `
		INSERT INTO geocode_cache (address_key, input_address, formatted_address, latitude, longitude, cached_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (address_key) DO UPDATE SET
			formatted_address = EXCLUDED.formatted_address,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			cached_at = NOW()
	`

	_, err := r.client.DB.ExecContext(ctx, query,
		normalizeAddress(place.InputAddress),
		place.InputAddress,
		place.FormattedAddress,
		place.Location.Lat,
		place.Location.Lng,
	)
	if err != nil {
		return fmt.Errorf("ジオコーディングキャッシュの保存に失敗: %w", err)
	}

	return nil
}

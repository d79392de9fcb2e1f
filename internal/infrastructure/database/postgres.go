package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
)

// PostgreSQLClient PostgreSQL直接接続クライアント
// ジオコーディング結果キャッシュ（geocode_cache）に使用する
type PostgreSQLClient struct {
	DB *sql.DB
}

// NewPostgreSQLClient 環境変数から新しいPostgreSQLクライアントを作成
func NewPostgreSQLClient() (*PostgreSQLClient, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabasePassword := os.Getenv("SUPABASE_DB_PASSWORD")

	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL環境変数が設定されていません")
	}
	if supabasePassword == "" {
		return nil, fmt.Errorf("SUPABASE_DB_PASSWORD環境変数が設定されていません")
	}

	// SupabaseのURLからホスト名を抽出 (https://xxx.supabase.co -> xxx.supabase.co)
	host := strings.TrimPrefix(supabaseURL, "https://")

	// SupabaseのPostgreSQL接続文字列を構築（ポート6543を使用）
	connStr := fmt.Sprintf(
		"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
		host, supabasePassword,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	// 接続テスト
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// EnsureGeocodeCacheSchema geocode_cacheテーブルを作成する（存在しない場合のみ）
func (pc *PostgreSQLClient) EnsureGeocodeCacheSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address_key       TEXT PRIMARY KEY,
			input_address     TEXT NOT NULL,
			formatted_address TEXT NOT NULL,
			latitude          DOUBLE PRECISION NOT NULL,
			longitude         DOUBLE PRECISION NOT NULL,
			cached_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pc.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("geocode_cacheテーブルの作成に失敗: %w", err)
	}
	return nil
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck() error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.Ping()
}

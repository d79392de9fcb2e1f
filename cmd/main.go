package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"Meguri-App/internal/application"
	"Meguri-App/internal/database"
	"Meguri-App/internal/domain/repository"
	"Meguri-App/internal/domain/service"
	"Meguri-App/internal/handler"
	"Meguri-App/internal/infrastructure/ai"
	pgdb "Meguri-App/internal/infrastructure/database"
	fsclient "Meguri-App/internal/infrastructure/firestore"
	"Meguri-App/internal/infrastructure/maps"
	repoImpl "Meguri-App/internal/repository"
	"Meguri-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	googleMapsAPIKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")

	if googleMapsAPIKey == "" || geminiAPIKey == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数: GOOGLE_MAPS_API_KEY, GEMINI_API_KEY")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	ctx := context.Background()

	// ジオコーディングキャッシュ（PostgreSQL、未設定時は無効）
	var geocodeCache repository.GeocodeCacheRepository
	if os.Getenv("SUPABASE_URL") != "" && os.Getenv("SUPABASE_DB_PASSWORD") != "" {
		pgClient, err := pgdb.NewPostgreSQLClient()
		if err != nil {
			log.Printf("⚠️ PostgreSQL接続に失敗、ジオコーディングキャッシュなしで起動します: %v", err)
		} else {
			defer pgClient.Close()
			if err := pgClient.EnsureGeocodeCacheSchema(ctx); err != nil {
				log.Printf("⚠️ キャッシュテーブルの初期化に失敗: %v", err)
			} else {
				geocodeCache = repoImpl.NewPostgresGeocodeCacheRepository(pgClient)
				log.Printf("✅ ジオコーディングキャッシュ有効")
			}
		}
	}

	// 実行結果キャッシュ（Firestore、未設定時は無効）
	var runResultRepo repository.RunResultRepository
	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		fsClient, err := fsclient.NewFirestoreClient(ctx, projectID)
		if err != nil {
			log.Printf("⚠️ Firestore接続に失敗、実行結果キャッシュなしで起動します: %v", err)
		} else {
			defer fsClient.Close()
			runResultRepo = repoImpl.NewFirestoreRunResultRepository(fsClient.GetClient())
			log.Printf("✅ 実行結果キャッシュ有効")
		}
	}

	// 外部コラボレーター
	geminiClient := ai.NewGeminiClient(geminiAPIKey)
	textRepo := ai.NewGeminiTextRepository(geminiClient)
	spotSuggestionRepo := ai.NewGeminiSpotSuggestionRepository(geminiClient)
	geocodingRepo := maps.NewGoogleGeocodingProvider(googleMapsAPIKey, geocodeCache)
	directionsRepo := maps.NewGoogleDirectionsProvider(googleMapsAPIKey)

	// サービスとユースケース
	routeSequencer := service.NewRouteSequencer(geocodingRepo, directionsRepo)
	generationUseCase := usecase.NewScenarioGenerationUseCase(textRepo)
	integrationUseCase := usecase.NewScenarioIntegrationUseCase(textRepo)
	pipelineUseCase := usecase.NewPipelineUseCase(spotSuggestionRepo, geocodingRepo, routeSequencer, runResultRepo)

	// ハンドラー
	routeHandler := handler.NewRouteHandler(routeSequencer)
	scenarioHandler := handler.NewScenarioHandler(generationUseCase, integrationUseCase)
	pipelineHandler := handler.NewPipelineHandler(pipelineUseCase, runResultRepo)

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "Meguri-App"})
	})

	r.POST("/routes/calculate", routeHandler.PostCalculateRoute)
	r.POST("/scenarios/generate", scenarioHandler.PostGenerateScenario)
	r.POST("/scenarios/integrate", scenarioHandler.PostIntegrateScenarios)
	r.POST("/pipeline/run", pipelineHandler.PostRunPipeline)
	r.GET("/pipeline/state", pipelineHandler.GetPipelineState)
	r.POST("/pipeline/cancel", pipelineHandler.PostCancelPipeline)
	r.GET("/pipeline/results/:id", pipelineHandler.GetRunResult)

	// 実行記録（Supabase、未設定時は無効）
	if os.Getenv("SUPABASE_URL") != "" && os.Getenv("SUPABASE_ANON_KEY") != "" {
		supabaseClient, err := database.NewSupabaseClient()
		if err != nil {
			log.Printf("⚠️ Supabase接続に失敗、実行記録なしで起動します: %v", err)
		} else {
			historyRepo := repoImpl.NewSupabaseHistoryRepository(supabaseClient)
			historyService := application.NewHistoryService(historyRepo)
			historyHandler := handler.NewHistoryHandler(historyService)
			r.POST("/history/runs", historyHandler.CreateRunRecord)
			r.GET("/history/runs", historyHandler.ListRunRecords)
			log.Printf("✅ 実行記録有効")
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Meguri-App server starting on :%s...\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("サーバーの起動に失敗: %v", err)
	}
}

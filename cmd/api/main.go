package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"marketmood/db"
	"marketmood/internal/analysis"
	"marketmood/internal/handler"
	"marketmood/internal/repository"
	"marketmood/pkg/feed"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	var cache handler.SummaryCache
	if err := db.ConnectRedis(); err != nil {
		slog.Warn("redis unavailable, summary caching disabled", "error", err)
	} else {
		defer db.CloseRedis()
		cache = db.SummaryCache{TTL: db.CacheTTL()}
	}

	clients := []feed.Client{feed.NewGoogleNewsClient()}
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		clients = append(clients, feed.NewFinnhubClient(key))
	}

	repo := repository.NewRunRepository(db.DB)
	analysisHandler := handler.NewAnalysisHandler(analysis.NewEngine(), clients, repo, cache)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/analyze", analysisHandler.PostAnalyze)
	r.POST("/upload", analysisHandler.PostUpload)
	r.GET("/runs", analysisHandler.GetRuns)
	r.GET("/runs/:id", analysisHandler.GetRun)
	r.GET("/health", analysisHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

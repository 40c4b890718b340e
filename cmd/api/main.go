package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"foolsim/internal/api/handlers"
	"foolsim/internal/api/middleware"
	"foolsim/internal/backtest"
	"foolsim/internal/config"
	"foolsim/internal/data"
	"foolsim/internal/logging"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	var provider backtest.HistoryProvider
	if cfg.Provider.FixtureDir != "" {
		provider = data.NewFileProvider(cfg.Provider.FixtureDir, log)
	} else {
		provider = data.NewYahooClient(cfg.Provider.BaseURL,
			time.Duration(cfg.Provider.TimeoutSeconds)*time.Second, log)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler(cfg, provider, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.Run)
		api.GET("/recommendations/preview", handlers.PreviewRecommendations)
		api.GET("/defaults", handlers.Defaults(cfg.Simulation))
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

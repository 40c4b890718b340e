package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"foolsim/internal/api/models"
	"foolsim/internal/config"
	"foolsim/internal/data"
)

// PreviewRecommendations handles GET /api/v1/recommendations/preview.
// It parses a server-side recommendations CSV without running anything, so
// clients can sanity-check a file before simulating.
func PreviewRecommendations(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Errorf("query parameter 'path' is required"))
		return
	}
	recs, err := data.ReadRecommendations(path)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_RECOMMENDATIONS", err)
		return
	}
	c.JSON(http.StatusOK, models.PreviewResponse{
		Count:           len(recs),
		Recommendations: recs,
	})
}

// Defaults handles GET /api/v1/defaults.
func Defaults(cfg config.SimulationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.DefaultsResponse{
			InvestmentAmount: cfg.InvestmentAmount,
			BenchmarkSymbol:  cfg.BenchmarkSymbol,
			DividendUnit:     cfg.DividendUnit,
			DividendUnits:    []string{config.DividendPercent, config.DividendCash},
		})
	}
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"foolsim/internal/analysis"
	"foolsim/internal/api/models"
	"foolsim/internal/backtest"
	"foolsim/internal/config"
	"foolsim/internal/data"
	"foolsim/internal/model"
)

// SimulateHandler runs simulations on behalf of API clients.
type SimulateHandler struct {
	cfg      config.Config
	provider backtest.HistoryProvider
	log      zerolog.Logger
}

func NewSimulateHandler(cfg config.Config, provider backtest.HistoryProvider, log zerolog.Logger) *SimulateHandler {
	return &SimulateHandler{cfg: cfg, provider: provider, log: log}
}

// Run handles POST /api/v1/simulate.
func (h *SimulateHandler) Run(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	recs, err := h.loadRecommendations(req.Recommendations)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_RECOMMENDATIONS", err)
		return
	}

	firstDate, lastDate, err := resolveWindow(req.Window, time.Now())
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_WINDOW", err)
		return
	}

	simCfg := config.MergeSimulation(h.cfg.Simulation, config.SimulationConfig{
		InvestmentAmount: req.Config.InvestmentAmount,
		BenchmarkSymbol:  req.Config.BenchmarkSymbol,
		DividendUnit:     req.Config.DividendUnit,
	})
	merged := config.Config{Simulation: simCfg}
	if err := merged.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}

	engine := backtest.New(simCfg, h.provider, h.log)
	result, err := engine.Run(recs, firstDate, lastDate)
	if err != nil {
		status, code := http.StatusInternalServerError, "SIMULATION_ERROR"
		var provErr *data.ProviderError
		var integrityErr *model.DataIntegrityError
		switch {
		case errors.As(err, &provErr):
			status, code = http.StatusBadGateway, provErr.Code
		case errors.As(err, &integrityErr):
			status, code = http.StatusBadGateway, "DATA_INTEGRITY"
		}
		writeError(c, status, code, err)
		return
	}

	resp := models.SimulateResponse{
		Status:    "ok",
		Summary:   analysis.Compute(result.Rows),
		Snapshots: result.Snapshots,
	}
	if req.Options.IncludeSeries {
		resp.Series = result.Rows
	}
	if req.Options.IncludeEvents {
		resp.Events = result.Events
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SimulateHandler) loadRecommendations(src models.RecommendationSource) ([]model.Recommendation, error) {
	switch {
	case src.CSVPath != "" && len(src.Inline) > 0:
		return nil, fmt.Errorf("set either csv_path or inline, not both")
	case src.CSVPath != "":
		return data.ReadRecommendations(src.CSVPath)
	case len(src.Inline) > 0:
		recs := make([]model.Recommendation, 0, len(src.Inline))
		for i, row := range src.Inline {
			date, err := model.ParseRecDate(row.Date)
			if err != nil {
				return nil, fmt.Errorf("recommendation %d: %w", i, err)
			}
			action, err := model.ParseAction(row.Recommendation)
			if err != nil {
				return nil, fmt.Errorf("recommendation %d: %w", i, err)
			}
			recs = append(recs, model.Recommendation{
				Date:   date,
				Symbol: strings.ToUpper(strings.TrimSpace(row.Symbol)),
				Name:   row.Name,
				Action: action,
			})
		}
		return recs, nil
	default:
		return nil, fmt.Errorf("recommendations are required")
	}
}

// resolveWindow turns the request window into [firstDate, lastDate].
// Explicit dates win over the year shorthand.
func resolveWindow(w models.WindowConfig, now time.Time) (time.Time, time.Time, error) {
	if w.FirstDate != "" || w.LastDate != "" {
		if w.FirstDate == "" || w.LastDate == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("first_date and last_date must be set together")
		}
		first, err := model.ParseRecDate(w.FirstDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		last, err := model.ParseRecDate(w.LastDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if last.Before(first) {
			return time.Time{}, time.Time{}, fmt.Errorf("last_date is before first_date")
		}
		return first, last, nil
	}

	year := w.Year
	if year == 0 {
		year = now.Year()
	}
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := model.Day(now)
	if w.EndYear != 0 {
		if w.EndYear < year {
			return time.Time{}, time.Time{}, fmt.Errorf("end_year %d is before year %d", w.EndYear, year)
		}
		last = time.Date(w.EndYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return first, last, nil
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

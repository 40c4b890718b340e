package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foolsim/internal/api/models"
	"foolsim/internal/config"
	"foolsim/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixedProvider struct {
	histories map[string]*model.History
}

func (p *fixedProvider) Fetch(symbol string, start, end time.Time) (*model.History, error) {
	h, ok := p.histories[symbol]
	if !ok {
		return model.NewHistory(symbol, nil)
	}
	var bars []model.Bar
	for _, b := range h.Bars() {
		if b.Date.Before(model.Day(start)) || b.Date.After(model.Day(end)) {
			continue
		}
		bars = append(bars, b)
	}
	return model.NewHistory(symbol, bars)
}

func flatHistory(t *testing.T, symbol string, from, to time.Time, high, low, close float64) *model.History {
	t.Helper()
	var bars []model.Bar
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		bars = append(bars, model.Bar{Date: d, Open: close, High: high, Low: low, Close: close})
	}
	h, err := model.NewHistory(symbol, bars)
	require.NoError(t, err)
	return h
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := &fixedProvider{histories: map[string]*model.History{
		"SPY":  flatHistory(t, "SPY", day(2024, 1, 1), day(2024, 3, 31), 400, 390, 395),
		"AAPL": flatHistory(t, "AAPL", day(2024, 1, 1), day(2024, 3, 31), 100, 90, 95),
	}}

	h := NewSimulateHandler(config.Default(), p, zerolog.Nop())
	r := gin.New()
	r.POST("/api/v1/simulate", h.Run)
	return r
}

func postSimulate(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSimulateInline(t *testing.T) {
	r := newTestRouter(t)
	w := postSimulate(t, r, models.SimulateRequest{
		Recommendations: models.RecommendationSource{
			Inline: []models.RecommendationRow{
				{Date: "01/02/2024", Symbol: "aapl", Name: "Apple", Recommendation: "buy"},
			},
		},
		Window:  models.WindowConfig{FirstDate: "01/01/2024", LastDate: "03/31/2024"},
		Options: models.SimulateOptions{IncludeSeries: true, IncludeEvents: true},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 10000.0, resp.Summary.CumulativeInvestment)
	// 100 shares of AAPL at close 95, every day after the buy.
	assert.InDelta(t, 9500.0, resp.Summary.FinalPortfolioValue, 1e-6)
	assert.NotEmpty(t, resp.Series)
	assert.NotEmpty(t, resp.Events)
	assert.NotEmpty(t, resp.Snapshots)
}

func TestSimulateOmitsSeriesByDefault(t *testing.T) {
	r := newTestRouter(t)
	w := postSimulate(t, r, models.SimulateRequest{
		Recommendations: models.RecommendationSource{
			Inline: []models.RecommendationRow{
				{Date: "01/02/2024", Symbol: "AAPL", Recommendation: "BUY"},
			},
		},
		Window: models.WindowConfig{FirstDate: "01/01/2024", LastDate: "03/31/2024"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Series)
	assert.Empty(t, resp.Events)
}

func TestSimulateRejectsMissingRecommendations(t *testing.T) {
	r := newTestRouter(t)
	w := postSimulate(t, r, models.SimulateRequest{
		Window: models.WindowConfig{Year: 2024},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error.Code)
}

func TestSimulateRejectsBadOverrides(t *testing.T) {
	r := newTestRouter(t)
	w := postSimulate(t, r, models.SimulateRequest{
		Recommendations: models.RecommendationSource{
			Inline: []models.RecommendationRow{
				{Date: "01/02/2024", Symbol: "AAPL", Recommendation: "BUY"},
			},
		},
		Window: models.WindowConfig{FirstDate: "01/01/2024", LastDate: "03/31/2024"},
		Config: models.SimulationOverrides{DividendUnit: "bogus"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestSimulateUnknownBenchmarkIsServerError(t *testing.T) {
	r := newTestRouter(t)
	w := postSimulate(t, r, models.SimulateRequest{
		Recommendations: models.RecommendationSource{
			Inline: []models.RecommendationRow{
				{Date: "01/02/2024", Symbol: "AAPL", Recommendation: "BUY"},
			},
		},
		Window: models.WindowConfig{FirstDate: "01/01/2024", LastDate: "03/31/2024"},
		Config: models.SimulationOverrides{BenchmarkSymbol: "NOPE"},
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResolveWindow(t *testing.T) {
	now := day(2024, 6, 15)

	first, last, err := resolveWindow(models.WindowConfig{Year: 2023}, now)
	require.NoError(t, err)
	assert.Equal(t, day(2023, 1, 1), first)
	assert.Equal(t, now, last)

	first, last, err = resolveWindow(models.WindowConfig{Year: 2020, EndYear: 2021}, now)
	require.NoError(t, err)
	assert.Equal(t, day(2020, 1, 1), first)
	assert.Equal(t, day(2021, 12, 31), last)

	first, last, err = resolveWindow(models.WindowConfig{FirstDate: "02/01/2024", LastDate: "03/01/2024"}, now)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 1), first)
	assert.Equal(t, day(2024, 3, 1), last)

	_, _, err = resolveWindow(models.WindowConfig{FirstDate: "02/01/2024"}, now)
	require.Error(t, err)

	_, _, err = resolveWindow(models.WindowConfig{FirstDate: "03/01/2024", LastDate: "02/01/2024"}, now)
	require.Error(t, err)

	_, _, err = resolveWindow(models.WindowConfig{Year: 2022, EndYear: 2021}, now)
	require.Error(t, err)
}

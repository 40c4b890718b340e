package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"foolsim/internal/model"
)

// YahooClient fetches daily bars from the Yahoo Finance chart endpoint.
type YahooClient struct {
	BaseURL string
	Client  *http.Client

	log zerolog.Logger
}

// NewYahooClient creates a chart API client. If baseURL is empty, defaults
// to "https://query1.finance.yahoo.com".
func NewYahooClient(baseURL string, timeout time.Duration, log zerolog.Logger) *YahooClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// ProviderError represents an error from the market-data API.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// chartResponse matches the JSON shape of /v8/finance/chart/{symbol}.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open  []float64 `json:"open"`
			High  []float64 `json:"high"`
			Low   []float64 `json:"low"`
			Close []float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
	Events struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
}

// Fetch returns the daily bars for symbol over [start, end], ascending,
// with dividend amounts folded onto their ex-date bars. An unknown symbol
// yields an empty history, not an error; duplicate dates in the response
// fail with a DataIntegrityError.
func (c *YahooClient) Fetch(symbol string, start, end time.Time) (*model.History, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("start and end are required")
	}
	if start.After(end) {
		return nil, fmt.Errorf("start must not be after end")
	}

	u, err := url.Parse(c.BaseURL + "/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("period1", fmt.Sprintf("%d", model.Day(start).Unix()))
	// period2 is exclusive upstream; push it one day past the window.
	q.Set("period2", fmt.Sprintf("%d", model.Day(end).AddDate(0, 0, 1).Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div")
	q.Set("includePrePost", "false")
	u.RawQuery = q.Encode()

	c.log.Debug().Str("symbol", symbol).
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Msg("fetching history")

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "foolsim/1.0")

	began := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("symbol", symbol).Int("status", resp.StatusCode).
		Dur("duration", time.Since(began)).Msg("history response")

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Unknown symbols come back 404; the contract says that is a
		// valid "no data" response.
		return model.NewHistory(symbol, nil)
	case http.StatusTooManyRequests:
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded fetching %s", symbol),
		}
	default:
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("chart API returned status %d for %s", resp.StatusCode, symbol),
		}
	}

	var cr chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if cr.Chart.Error != nil {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       cr.Chart.Error.Code,
			Message:    cr.Chart.Error.Description,
		}
	}
	if len(cr.Chart.Result) == 0 {
		return model.NewHistory(symbol, nil)
	}
	return historyFromChart(symbol, cr.Chart.Result[0])
}

func historyFromChart(symbol string, r chartResult) (*model.History, error) {
	if len(r.Indicators.Quote) == 0 {
		return model.NewHistory(symbol, nil)
	}
	quote := r.Indicators.Quote[0]

	dividends := make(map[time.Time]float64, len(r.Events.Dividends))
	for _, d := range r.Events.Dividends {
		dividends[model.Day(time.Unix(d.Date, 0).UTC())] += d.Amount
	}

	bars := make([]model.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		// Null quotes decode to zero; those are non-trading placeholders.
		if quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}
		date := model.Day(time.Unix(ts, 0).UTC())
		bars = append(bars, model.Bar{
			Date:     date,
			Open:     quote.Open[i],
			High:     quote.High[i],
			Low:      quote.Low[i],
			Close:    quote.Close[i],
			Dividend: dividends[date],
		})
	}
	return model.NewHistory(symbol, bars)
}

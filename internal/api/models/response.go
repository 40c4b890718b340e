package models

import (
	"foolsim/internal/analysis"
	"foolsim/internal/backtest"
	"foolsim/internal/model"
)

// SimulateResponse represents the response from a simulation run.
type SimulateResponse struct {
	Status    string               `json:"status"`
	Summary   analysis.Summary     `json:"summary"`
	Snapshots []backtest.Snapshot  `json:"snapshots"`
	Series    []backtest.OutputRow `json:"series,omitempty"`
	Events    []backtest.Event     `json:"events,omitempty"`
}

// PreviewResponse represents a parsed recommendations CSV.
type PreviewResponse struct {
	Count           int                    `json:"count"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// DefaultsResponse reports the server's strategy defaults, which request
// overrides overlay.
type DefaultsResponse struct {
	InvestmentAmount float64  `json:"investment_amount"`
	BenchmarkSymbol  string   `json:"benchmark_symbol"`
	DividendUnit     string   `json:"dividend_unit"`
	DividendUnits    []string `json:"dividend_units"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

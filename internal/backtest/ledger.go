package backtest

import "time"

// OutputRow is one trading day of the output series.
// This is the primary artifact for "what happened" in a simulation.
type OutputRow struct {
	Date time.Time `json:"date"`

	// CumulativeInvestment is the total new money put in so far, i.e. the
	// sum of every shortfall funded by selling benchmark shares.
	CumulativeInvestment float64 `json:"cumulative_investment"`

	// PortfolioValue is cash plus the value of every non-benchmark
	// position at that day's close.
	PortfolioValue float64 `json:"portfolio_value"`

	// BenchmarkValue is the value of the benchmark holding at the close.
	BenchmarkValue float64 `json:"benchmark_value"`
}

// Snapshot is the month-end state dump. Side-effect only: it never feeds
// back into the series.
type Snapshot struct {
	Date time.Time `json:"date"`

	// PositionValues holds the close value of each open non-benchmark
	// position.
	PositionValues map[string]float64 `json:"position_values"`

	BenchmarkValue float64 `json:"benchmark_value"`
	Cash           float64 `json:"cash"`
	PortfolioTotal float64 `json:"portfolio_total"`
}

type Result struct {
	Rows      []OutputRow `json:"rows"`
	Events    []Event     `json:"events"`
	Snapshots []Snapshot  `json:"snapshots"`

	FinalCash            float64            `json:"final_cash"`
	FinalPositions       map[string]float64 `json:"final_positions"`
	CumulativeInvestment float64            `json:"cumulative_investment"`
}

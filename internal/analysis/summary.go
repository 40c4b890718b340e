package analysis

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"foolsim/internal/backtest"
)

// Summary aggregates one output series into the numbers worth comparing
// across runs. Returns are relative to cumulative investment, since capital
// enters the simulation over time rather than up front.
type Summary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`

	CumulativeInvestment float64 `json:"cumulative_investment"`
	FinalPortfolioValue  float64 `json:"final_portfolio_value"`
	FinalBenchmarkValue  float64 `json:"final_benchmark_value"`

	PortfolioReturn float64 `json:"portfolio_return"`
	BenchmarkReturn float64 `json:"benchmark_return"`

	MeanDailyReturn      float64 `json:"mean_daily_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	MaxDrawdown          float64 `json:"max_drawdown"`

	// DaysAhead counts trading days the portfolio closed above the
	// benchmark.
	DaysAhead int `json:"days_ahead"`
}

// Compute summarizes a series. An empty series yields a zero Summary.
func Compute(rows []backtest.OutputRow) Summary {
	s := Summary{}
	if len(rows) == 0 {
		return s
	}
	s.Start = rows[0].Date
	s.End = rows[len(rows)-1].Date
	s.Days = len(rows)

	last := rows[len(rows)-1]
	s.CumulativeInvestment = last.CumulativeInvestment
	s.FinalPortfolioValue = last.PortfolioValue
	s.FinalBenchmarkValue = last.BenchmarkValue
	if s.CumulativeInvestment > 0 {
		s.PortfolioReturn = (s.FinalPortfolioValue - s.CumulativeInvestment) / s.CumulativeInvestment
		s.BenchmarkReturn = (s.FinalBenchmarkValue - s.CumulativeInvestment) / s.CumulativeInvestment
	}

	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.PortfolioValue
		if r.PortfolioValue > r.BenchmarkValue {
			s.DaysAhead++
		}
	}

	returns := dailyReturns(values)
	if len(returns) > 0 {
		s.MeanDailyReturn = stat.Mean(returns, nil)
		// 252 trading days per year.
		s.AnnualizedVolatility = stat.StdDev(returns, nil) * math.Sqrt(252)
	}
	s.MaxDrawdown = maxDrawdown(values)
	return s
}

// dailyReturns converts values to simple returns, skipping zero
// denominators (days before the first investment).
func dailyReturns(values []float64) []float64 {
	var out []float64
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		out = append(out, (values[i]-values[i-1])/values[i-1])
	}
	return out
}

// maxDrawdown returns the largest peak-to-trough decline as a positive
// fraction of the peak.
func maxDrawdown(values []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

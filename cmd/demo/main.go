package main

import (
	"flag"
	"fmt"
	"time"

	"foolsim/internal/analysis"
	"foolsim/internal/backtest"
	"foolsim/internal/config"
	"foolsim/internal/data"
	"foolsim/internal/logging"
	"foolsim/internal/model"
)

// Demo:
// - Load per-symbol bar fixtures from a directory (see cmd/fetch-history)
// - Replay a couple of hard-coded recommendations through the engine
// - Print the trace and the resulting series to show how models fit together
func main() {
	fixtures := flag.String("fixtures", "data/history", "Directory of per-symbol JSON bar files")
	year := flag.Int("year", 2024, "Simulation start year")
	flag.Parse()

	log := logging.New("debug", true)
	cfg := config.Default().Simulation

	provider := data.NewFileProvider(*fixtures, log)
	engine := backtest.New(cfg, provider, log)

	recs := []model.Recommendation{
		{Date: date(*year, 1, 2), Symbol: "AAPL", Name: "Apple", Action: model.ActionBuy},
		{Date: date(*year, 2, 1), Symbol: "MSFT", Name: "Microsoft", Action: model.ActionBuy},
		{Date: date(*year, 3, 15), Symbol: "AAPL", Name: "Apple", Action: model.ActionReduce},
		{Date: date(*year, 5, 1), Symbol: "MSFT", Name: "Microsoft", Action: model.ActionSell},
	}

	firstDate := date(*year, 1, 1)
	lastDate := date(*year, 12, 31)

	res, err := engine.Run(recs, firstDate, lastDate)
	if err != nil {
		panic(err)
	}

	fmt.Printf("\n%d trading days, %d events, %d month-end snapshots\n",
		len(res.Rows), len(res.Events), len(res.Snapshots))
	for _, e := range res.Events {
		fmt.Printf("  %s %-16s %-6s shares=%.4f price=%.2f\n",
			e.Date.Format("2006-01-02"), e.Type, e.Symbol, e.Shares, e.Price)
	}

	s := analysis.Compute(res.Rows)
	fmt.Printf("\nInvested=$%.2f Portfolio=$%.2f Benchmark=$%.2f\n",
		s.CumulativeInvestment, s.FinalPortfolioValue, s.FinalBenchmarkValue)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

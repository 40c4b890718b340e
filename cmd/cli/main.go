package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"foolsim/internal/analysis"
	"foolsim/internal/backtest"
	"foolsim/internal/chart"
	"foolsim/internal/config"
	"foolsim/internal/data"
	"foolsim/internal/logging"
	"foolsim/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "summary":
		cmdSummary(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --recs newrecs.csv --year 2024 --out results/series.csv")
	fmt.Println("  cli summary --series results/series.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate replays buy/sell/reduce recommendations against daily prices")
	fmt.Println("  - the benchmark price series defines the trading calendar")
	fmt.Println("  - summary prints aggregate statistics for a saved series CSV")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	recsPath := fs.String("recs", "newrecs.csv", "Path to recommendations CSV")
	year := fs.Int("year", time.Now().Year(), "Simulation start year (from Jan 1)")
	endYear := fs.Int("end-year", 0, "Optional end year (through Dec 31; 0=today)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	outPath := fs.String("out", "results/series.csv", "Output series CSV path")
	chartPath := fs.String("chart", "", "Chart PNG path (default portfolio_simulation_<year>.png)")
	fixtures := fs.String("fixtures", "", "Directory of per-symbol JSON bar files (offline mode)")
	_ = fs.Parse(args)

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fatal(err)
		}
		cfg = *loaded
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	recs, err := data.ReadRecommendations(*recsPath)
	if err != nil {
		fatal(err)
	}

	firstDate := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	lastDate := model.Day(time.Now())
	if *endYear != 0 {
		lastDate = time.Date(*endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	var provider backtest.HistoryProvider
	fixtureDir := *fixtures
	if fixtureDir == "" {
		fixtureDir = cfg.Provider.FixtureDir
	}
	if fixtureDir != "" {
		provider = data.NewFileProvider(fixtureDir, log)
	} else {
		provider = data.NewYahooClient(cfg.Provider.BaseURL,
			time.Duration(cfg.Provider.TimeoutSeconds)*time.Second, log)
	}

	engine := backtest.New(cfg.Simulation, provider, log)
	res, err := engine.Run(recs, firstDate, lastDate)
	if err != nil {
		fatal(err)
	}

	printSeries(res.Rows)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := backtest.WriteSeriesCSV(*outPath, res.Rows); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(res.Rows), *outPath)

	cp := *chartPath
	if cp == "" {
		cp = chart.FileName(*year)
	}
	title := fmt.Sprintf("Portfolio Simulation for %d", *year)
	if err := chart.RenderSeriesPNG(cp, title, res.Rows); err != nil {
		fatal(err)
	}
	fmt.Printf("Saved portfolio simulation to %s\n", cp)

	printSummary(analysis.Compute(res.Rows))
}

func cmdSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	seriesPath := fs.String("series", "results/series.csv", "Path to a saved series CSV")
	_ = fs.Parse(args)

	rows, err := backtest.ReadSeriesCSV(*seriesPath)
	if err != nil {
		fatal(err)
	}
	printSummary(analysis.Compute(rows))
}

func printSeries(rows []backtest.OutputRow) {
	fmt.Printf("%-12s %-14s %-16s %-14s\n", "date", "invested", "fool-portfolio", "benchmark")
	for _, r := range rows {
		fmt.Printf("%-12s %-14.2f %-16.2f %-14.2f\n",
			r.Date.Format("2006-01-02"),
			r.CumulativeInvestment,
			r.PortfolioValue,
			r.BenchmarkValue,
		)
	}
}

func printSummary(s analysis.Summary) {
	fmt.Printf("Window: %s .. %s (%d trading days)\n",
		s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.Days)
	fmt.Printf("Invested=$%.2f Portfolio=$%.2f Benchmark=$%.2f\n",
		s.CumulativeInvestment, s.FinalPortfolioValue, s.FinalBenchmarkValue)
	fmt.Printf("Return=%.2f%% BenchmarkReturn=%.2f%% MaxDrawdown=%.2f%% AnnVol=%.2f%% DaysAhead=%d\n",
		s.PortfolioReturn*100, s.BenchmarkReturn*100, s.MaxDrawdown*100,
		s.AnnualizedVolatility*100, s.DaysAhead)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

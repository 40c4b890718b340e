package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"foolsim/internal/config"
	"foolsim/internal/data"
	"foolsim/internal/logging"
	"foolsim/internal/model"
)

// Prefetches daily bars into per-symbol JSON files so simulations can run
// offline (cli --fixtures, provider.fixture_dir, cmd/demo).
func main() {
	symbols := flag.String("symbols", "", "Comma-separated symbols (e.g. SPY,AAPL)")
	recsPath := flag.String("recs", "", "Optional recommendations CSV; its symbols are added")
	start := flag.String("start", "", "Start date MM/DD/YYYY (required)")
	end := flag.String("end", "", "End date MM/DD/YYYY (default today)")
	outDir := flag.String("out", "data/history", "Output directory for JSON files")
	benchmark := flag.String("benchmark", config.Default().Simulation.BenchmarkSymbol, "Benchmark symbol, always fetched")
	flag.Parse()

	if *start == "" {
		fmt.Fprintln(os.Stderr, "error: --start is required")
		os.Exit(2)
	}
	startDate, err := model.ParseRecDate(*start)
	if err != nil {
		fatal(err)
	}
	endDate := model.Day(time.Now())
	if *end != "" {
		if endDate, err = model.ParseRecDate(*end); err != nil {
			fatal(err)
		}
	}

	want := map[string]bool{strings.ToUpper(*benchmark): true}
	for _, s := range strings.Split(*symbols, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			want[s] = true
		}
	}
	if *recsPath != "" {
		recs, err := data.ReadRecommendations(*recsPath)
		if err != nil {
			fatal(err)
		}
		for _, r := range recs {
			want[r.Symbol] = true
		}
	}

	log := logging.New("info", true)
	client := data.NewYahooClient("", 30*time.Second, log)

	saved, skipped := 0, 0
	for symbol := range want {
		h, err := client.Fetch(symbol, startDate, endDate)
		if err != nil {
			fatal(fmt.Errorf("fetch %s: %w", symbol, err))
		}
		if h.Empty() {
			log.Warn().Str("symbol", symbol).Msg("no data, skipping")
			skipped++
			continue
		}
		path := data.HistoryFilePath(*outDir, symbol)
		if err := data.SaveHistoryJSON(h, path); err != nil {
			fatal(err)
		}
		log.Info().Str("symbol", symbol).Int("bars", h.Len()).Str("path", path).Msg("saved history")
		saved++
	}
	fmt.Printf("Saved %d histories to %s (%d skipped)\n", saved, *outDir, skipped)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

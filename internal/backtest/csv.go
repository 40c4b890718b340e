package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// WriteSeriesCSV writes the output series with header
// date,cumulative_investment,fool_portfolio,benchmark.
func WriteSeriesCSV(path string, rows []OutputRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "cumulative_investment", "fool_portfolio", "benchmark"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Date.Format(dateLayout),
			fmtFloat(r.CumulativeInvestment),
			fmtFloat(r.PortfolioValue),
			fmtFloat(r.BenchmarkValue),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadSeriesCSV reads a series previously written by WriteSeriesCSV.
func ReadSeriesCSV(path string) ([]OutputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("series file %s is empty", path)
	}

	rows := make([]OutputRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 4 {
			return nil, fmt.Errorf("series row %d: want 4 columns, got %d", i+2, len(rec))
		}
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+2, err)
		}
		inv, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+2, err)
		}
		fool, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+2, err)
		}
		bench, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i+2, err)
		}
		rows = append(rows, OutputRow{
			Date:                 date,
			CumulativeInvestment: inv,
			PortfolioValue:       fool,
			BenchmarkValue:       bench,
		})
	}
	return rows, nil
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

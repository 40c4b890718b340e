package backtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesCSVRoundTrip(t *testing.T) {
	rows := []OutputRow{
		{Date: d(2024, 1, 2), CumulativeInvestment: 10000, PortfolioValue: 9950.5, BenchmarkValue: 9987.25},
		{Date: d(2024, 1, 3), CumulativeInvestment: 10000, PortfolioValue: 10100, BenchmarkValue: 10050},
	}
	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, WriteSeriesCSV(path, rows))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "date,cumulative_investment,fool_portfolio,benchmark")

	got, err := ReadSeriesCSV(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadSeriesCSVBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	contents := "date,cumulative_investment,fool_portfolio,benchmark\nnot-a-date,1,2,3\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	_, err := ReadSeriesCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

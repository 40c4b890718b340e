// Package chart renders the output series as a PNG comparing the simulated
// portfolio, the benchmark and cumulative investment over time.
package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"foolsim/internal/backtest"
)

var (
	colorPortfolio  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorBenchmark  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorInvestment = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// FileName returns the chart artifact name for a run starting in year.
func FileName(year int) string {
	return fmt.Sprintf("portfolio_simulation_%d.png", year)
}

// RenderSeriesPNG draws the three series and saves the chart to path.
// The output format follows the path extension.
func RenderSeriesPNG(path, title string, rows []backtest.OutputRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Portfolio Value ($)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	if err := addLine(p, "Fool Portfolio", colorPortfolio, rows, func(r backtest.OutputRow) float64 {
		return r.PortfolioValue
	}); err != nil {
		return err
	}
	if err := addLine(p, "S&P 500", colorBenchmark, rows, func(r backtest.OutputRow) float64 {
		return r.BenchmarkValue
	}); err != nil {
		return err
	}
	if err := addLine(p, "Cumulative Investment", colorInvestment, rows, func(r backtest.OutputRow) float64 {
		return r.CumulativeInvestment
	}); err != nil {
		return err
	}

	// Dashed zero reference line across the full date range.
	zero := plotter.XYs{
		{X: float64(rows[0].Date.Unix()), Y: 0},
		{X: float64(rows[len(rows)-1].Date.Unix()), Y: 0},
	}
	zeroLine, err := plotter.NewLine(zero)
	if err != nil {
		return err
	}
	zeroLine.Color = color.Black
	zeroLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(zeroLine)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

func addLine(p *plot.Plot, name string, c color.Color, rows []backtest.OutputRow, y func(backtest.OutputRow) float64) error {
	pts := make(plotter.XYs, len(rows))
	for i, r := range rows {
		pts[i].X = float64(r.Date.Unix())
		pts[i].Y = y(r)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = c
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

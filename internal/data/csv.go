package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"foolsim/internal/model"
)

// ReadRecommendations loads the newsletter CSV
// (header: date,symbol,name,recommendation). Dates and actions that do not
// parse fail the load; a run never starts with malformed input.
func ReadRecommendations(path string) ([]model.Recommendation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := ParseRecommendations(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return recs, nil
}

// ParseRecommendations parses recommendation rows from r. Header column
// order is not significant; extra columns are ignored.
func ParseRecommendations(r io.Reader) ([]model.Recommendation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "symbol", "name", "recommendation"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var recs []model.Recommendation
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		date, err := model.ParseRecDate(row[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		action, err := model.ParseAction(row[cols["recommendation"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		recs = append(recs, model.Recommendation{
			Date:   date,
			Symbol: strings.ToUpper(strings.TrimSpace(row[cols["symbol"]])),
			Name:   strings.TrimSpace(row[cols["name"]]),
			Action: action,
		})
	}
	return recs, nil
}

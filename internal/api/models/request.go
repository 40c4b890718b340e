package models

// SimulateRequest represents the request body for running a simulation.
type SimulateRequest struct {
	Recommendations RecommendationSource `json:"recommendations" binding:"required"`
	Window          WindowConfig         `json:"window" binding:"required"`
	Config          SimulationOverrides  `json:"config,omitempty"`
	Options         SimulateOptions      `json:"options,omitempty"`
}

// RecommendationSource defines where recommendations come from: inline
// rows, or a CSV file readable by the server. Exactly one must be set.
type RecommendationSource struct {
	CSVPath string              `json:"csv_path,omitempty"`
	Inline  []RecommendationRow `json:"inline,omitempty"`
}

// RecommendationRow is one inline recommendation. Date accepts MM/DD/YYYY
// or MM/DD/YY, matching the CSV format.
type RecommendationRow struct {
	Date           string `json:"date" binding:"required"`
	Symbol         string `json:"symbol" binding:"required"`
	Name           string `json:"name,omitempty"`
	Recommendation string `json:"recommendation" binding:"required"`
}

// WindowConfig bounds the simulation. Either a year (shorthand for
// Jan 1 through today or Dec 31 of end_year), or explicit first/last dates.
type WindowConfig struct {
	Year      int    `json:"year,omitempty"`
	EndYear   int    `json:"end_year,omitempty"`
	FirstDate string `json:"first_date,omitempty"` // MM/DD/YYYY
	LastDate  string `json:"last_date,omitempty"`  // MM/DD/YYYY
}

// SimulationOverrides overlays non-zero fields onto the server defaults.
type SimulationOverrides struct {
	InvestmentAmount float64 `json:"investment_amount,omitempty"`
	BenchmarkSymbol  string  `json:"benchmark_symbol,omitempty"`
	DividendUnit     string  `json:"dividend_unit,omitempty"`
}

// SimulateOptions contains optional response shaping.
type SimulateOptions struct {
	IncludeSeries bool `json:"include_series,omitempty"` // default: false
	IncludeEvents bool `json:"include_events,omitempty"` // default: false
}

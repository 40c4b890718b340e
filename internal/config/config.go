package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dividend units the engine understands.
//
// "percent" reproduces the historical results exactly: a dividend value v
// grows the share count by v percent. "cash" treats v as a per-share cash
// amount reinvested at that day's close, which is what the upstream field
// usually means.
const (
	DividendPercent = "percent"
	DividendCash    = "cash"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Provider   ProviderConfig   `yaml:"provider"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig parameterizes the fixed strategy. There is deliberately
// no strategy plugin surface: the engine models exactly one strategy.
type SimulationConfig struct {
	// InvestmentAmount is the fixed dollar amount bought on every BUY.
	InvestmentAmount float64 `yaml:"investment_amount"`
	// BenchmarkSymbol defines the trading calendar and doubles as the
	// cash-overflow holding vehicle.
	BenchmarkSymbol string `yaml:"benchmark_symbol"`
	DividendUnit    string `yaml:"dividend_unit"`
}

type ProviderConfig struct {
	// BaseURL overrides the market-data endpoint (tests point this at a
	// local server). Empty means the provider default.
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds bounds one history fetch. 0 means 30.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// FixtureDir, if set, reads bars from per-symbol JSON files instead
	// of the network (see cmd/fetch-history).
	FixtureDir string `yaml:"fixture_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration matching the reference strategy:
// $10,000 per buy, SPY benchmark, provider dividend values taken as percent.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			InvestmentAmount: 10000,
			BenchmarkSymbol:  "SPY",
			DividendUnit:     DividendPercent,
		},
		Provider: ProviderConfig{
			TimeoutSeconds: 30,
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config and fills defaults, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	def := Default()
	c.Simulation = MergeSimulation(def.Simulation, c.Simulation)
	if c.Provider.TimeoutSeconds == 0 {
		c.Provider.TimeoutSeconds = def.Provider.TimeoutSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	s := c.Simulation
	if s.InvestmentAmount <= 0 {
		return errors.New("simulation.investment_amount must be > 0")
	}
	if s.BenchmarkSymbol == "" {
		return errors.New("simulation.benchmark_symbol is required")
	}
	switch s.DividendUnit {
	case DividendPercent, DividendCash:
	default:
		return fmt.Errorf("simulation.dividend_unit must be %q or %q", DividendPercent, DividendCash)
	}
	if c.Provider.TimeoutSeconds < 0 {
		return errors.New("provider.timeout_seconds must be >= 0")
	}
	return nil
}

// MergeSimulation overlays non-zero fields from override onto base.
// This is used when applying per-request overrides from the API.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.InvestmentAmount != 0 {
		out.InvestmentAmount = override.InvestmentAmount
	}
	if override.BenchmarkSymbol != "" {
		out.BenchmarkSymbol = override.BenchmarkSymbol
	}
	if override.DividendUnit != "" {
		out.DividendUnit = override.DividendUnit
	}
	return out
}

package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"foolsim/internal/model"
)

// HistoryFile is the on-disk JSON shape written by cmd/fetch-history and
// consumed by the file provider.
type HistoryFile struct {
	Symbol  string      `json:"symbol"`
	SavedAt string      `json:"saved_at"` // ISO 8601 timestamp
	Bars    []model.Bar `json:"bars"`
}

// LoadHistoryJSON loads one symbol's bar series from a JSON file.
func LoadHistoryJSON(path string) (*model.History, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var hf HistoryFile
	if err := json.Unmarshal(raw, &hf); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return model.NewHistory(hf.Symbol, hf.Bars)
}

// SaveHistoryJSON writes one symbol's bar series to a JSON file.
func SaveHistoryJSON(h *model.History, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	hf := HistoryFile{
		Symbol:  h.Symbol,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Bars:    h.Bars(),
	}
	raw, err := json.MarshalIndent(hf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// HistoryFilePath returns the fixture path for a symbol inside dir.
func HistoryFilePath(dir, symbol string) string {
	return filepath.Join(dir, strings.ToUpper(symbol)+".json")
}

// FileProvider serves histories from a directory of per-symbol JSON files.
// A missing file is a valid "no data" response, not an error, which makes
// offline runs behave like runs against a provider with gaps.
type FileProvider struct {
	Dir string

	log zerolog.Logger
}

func NewFileProvider(dir string, log zerolog.Logger) *FileProvider {
	return &FileProvider{Dir: dir, log: log}
}

// Fetch loads the symbol's fixture and trims it to [start, end].
func (p *FileProvider) Fetch(symbol string, start, end time.Time) (*model.History, error) {
	path := HistoryFilePath(p.Dir, symbol)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		p.log.Warn().Str("symbol", symbol).Str("path", path).Msg("no history fixture")
		return model.NewHistory(symbol, nil)
	}
	h, err := LoadHistoryJSON(path)
	if err != nil {
		return nil, err
	}
	start, end = model.Day(start), model.Day(end)
	var bars []model.Bar
	for _, b := range h.Bars() {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		bars = append(bars, b)
	}
	return model.NewHistory(symbol, bars)
}

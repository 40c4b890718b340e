package model

import (
	"sort"
	"time"
)

// Bar is one daily price bar with that day's dividend, if any.
// The dividend unit follows the provider convention; the engine decides
// how to interpret it (see config.DividendUnit).
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Dividend float64   `json:"dividend,omitempty"`
}

// History is a dense, duplicate-free, date-indexed daily series for one
// symbol. Bars are kept in ascending date order.
type History struct {
	Symbol string

	bars  []Bar
	index map[time.Time]int
}

// NewHistory builds a History from bars in any order. A repeated date is a
// data-integrity violation and fails construction.
func NewHistory(symbol string, bars []Bar) (*History, error) {
	h := &History{
		Symbol: symbol,
		bars:   make([]Bar, len(bars)),
		index:  make(map[time.Time]int, len(bars)),
	}
	copy(h.bars, bars)
	for i := range h.bars {
		h.bars[i].Date = Day(h.bars[i].Date)
	}
	sort.SliceStable(h.bars, func(i, j int) bool {
		return h.bars[i].Date.Before(h.bars[j].Date)
	})
	for i, b := range h.bars {
		if _, dup := h.index[b.Date]; dup {
			return nil, &DataIntegrityError{Symbol: symbol, Date: b.Date}
		}
		h.index[b.Date] = i
	}
	return h, nil
}

// Bar returns the bar for a trading day, if the symbol traded that day.
func (h *History) Bar(date time.Time) (Bar, bool) {
	i, ok := h.index[Day(date)]
	if !ok {
		return Bar{}, false
	}
	return h.bars[i], true
}

// Dates returns the trading calendar of this series, ascending.
func (h *History) Dates() []time.Time {
	out := make([]time.Time, len(h.bars))
	for i, b := range h.bars {
		out[i] = b.Date
	}
	return out
}

// Bars returns the series in ascending date order.
func (h *History) Bars() []Bar {
	out := make([]Bar, len(h.bars))
	copy(out, h.bars)
	return out
}

func (h *History) Len() int { return len(h.bars) }

// Empty reports whether the provider returned no data for this symbol.
func (h *History) Empty() bool { return h == nil || len(h.bars) == 0 }

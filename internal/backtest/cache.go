package backtest

import (
	"time"

	"foolsim/internal/model"
)

// HistoryProvider supplies daily bars for one symbol over an inclusive date
// range, ascending, at most one bar per date. An empty history is a valid
// "no data" response, not an error.
type HistoryProvider interface {
	Fetch(symbol string, start, end time.Time) (*model.History, error)
}

// historyCache memoizes history fetches for the lifetime of one run.
// Entries are never evicted or refreshed: the window first requested for a
// symbol is the one the whole run sees. Empty results are not stored, so a
// later recommendation for the same symbol fetches again over its own
// window. One run owns one cache on one goroutine; no locking.
type historyCache struct {
	upstream HistoryProvider
	store    map[string]*model.History
}

func newHistoryCache(upstream HistoryProvider) *historyCache {
	return &historyCache{
		upstream: upstream,
		store:    make(map[string]*model.History),
	}
}

func (c *historyCache) get(symbol string) (*model.History, bool) {
	h, ok := c.store[symbol]
	return h, ok
}

func (c *historyCache) fetch(symbol string, start, end time.Time) (*model.History, error) {
	if h, ok := c.store[symbol]; ok {
		return h, nil
	}
	h, err := c.upstream.Fetch(symbol, start, end)
	if err != nil {
		return nil, err
	}
	if !h.Empty() {
		c.store[symbol] = h
	}
	return h, nil
}

package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"foolsim/internal/config"
	"foolsim/internal/model"
)

// Engine replays a recommendation stream against daily prices. One Engine
// is reusable; each Run owns its own state.
type Engine struct {
	cfg      config.SimulationConfig
	provider HistoryProvider
	log      zerolog.Logger

	// now bounds lazy history fetches; overridden in tests.
	now func() time.Time
}

func New(cfg config.SimulationConfig, provider HistoryProvider, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		log:      log,
		now:      time.Now,
	}
}

// simState is the single mutable state of one run. It is created at the top
// of Run and never escapes it.
type simState struct {
	cash       float64
	investment float64
	positions  map[string]float64
	// order preserves position insertion order so valuation and dividend
	// accrual walk holdings deterministically.
	order     []string
	histories *historyCache
}

func (st *simState) add(symbol string, shares float64) {
	if _, open := st.positions[symbol]; !open {
		st.order = append(st.order, symbol)
	}
	st.positions[symbol] += shares
}

func (st *simState) remove(symbol string) {
	delete(st.positions, symbol)
	for i, s := range st.order {
		if s == symbol {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

// Run replays recommendations from firstDate through lastDate and returns
// the day-by-day valuation series.
//
// Only recommendations dated strictly after firstDate participate, and a
// recommendation dated d executes on the first benchmark trading day after
// d, never on d itself. The benchmark series defines the trading calendar
// for the entire run: no other date is ever valued.
func (e *Engine) Run(recs []model.Recommendation, firstDate, lastDate time.Time) (*Result, error) {
	firstDate = model.Day(firstDate)
	lastDate = model.Day(lastDate)

	pending := pendingQueue(recs, firstDate)
	bench := e.cfg.BenchmarkSymbol

	st := &simState{
		positions: map[string]float64{bench: 0},
		order:     []string{bench},
		histories: newHistoryCache(e.provider),
	}

	benchHist, err := st.histories.fetch(bench, firstDate, lastDate)
	if err != nil {
		return nil, fmt.Errorf("fetch benchmark %s: %w", bench, err)
	}
	if benchHist.Empty() {
		return nil, fmt.Errorf("no history for benchmark %s between %s and %s",
			bench, firstDate.Format("2006-01-02"), lastDate.Format("2006-01-02"))
	}

	events := &EventLog{}
	res := &Result{}
	calendar := benchHist.Dates()

	for i, currentDate := range calendar {
		// Apply every recommendation dated before this trading day.
		for len(pending) > 0 && pending[len(pending)-1].Date.Before(currentDate) {
			rec := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			if err := e.apply(st, events, rec, currentDate); err != nil {
				return nil, err
			}
		}

		foolValue, benchValue, perSymbol := e.value(st, events, currentDate)
		res.Rows = append(res.Rows, OutputRow{
			Date:                 currentDate,
			CumulativeInvestment: st.investment,
			PortfolioValue:       foolValue,
			BenchmarkValue:       benchValue,
		})

		if i == len(calendar)-1 || calendar[i+1].Month() != currentDate.Month() {
			snap := Snapshot{
				Date:           currentDate,
				PositionValues: perSymbol,
				BenchmarkValue: benchValue,
				Cash:           st.cash,
				PortfolioTotal: foolValue,
			}
			res.Snapshots = append(res.Snapshots, snap)
			e.logSnapshot(snap)
		}
	}

	res.Events = events.Events()
	res.FinalCash = st.cash
	res.CumulativeInvestment = st.investment
	res.FinalPositions = make(map[string]float64, len(st.positions))
	for s, n := range st.positions {
		res.FinalPositions[s] = n
	}
	return res, nil
}

// pendingQueue filters out recommendations on or before firstDate and
// arranges the rest descending by date so they pop from the tail in
// ascending order. The ascending sort is stable and then reversed, so
// same-date recommendations pop in source order.
func pendingQueue(recs []model.Recommendation, firstDate time.Time) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Date.After(firstDate) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// apply executes one recommendation on the trading day it became due.
// Missing data drops the action with a diagnostic; it never fails the run.
func (e *Engine) apply(st *simState, events *EventLog, rec model.Recommendation, currentDate time.Time) error {
	symbol := rec.Symbol

	hist, tracked := st.histories.get(symbol)
	if !tracked {
		var err error
		hist, err = st.histories.fetch(symbol, currentDate, model.Day(e.now()))
		if err != nil {
			return fmt.Errorf("fetch history for %s: %w", symbol, err)
		}
		if hist.Empty() {
			e.log.Warn().Str("symbol", symbol).Time("date", currentDate).
				Msg("no historical data, dropping recommendation")
			events.Append(Event{Date: currentDate, Type: EventMissingHistory, Symbol: symbol})
			return nil
		}
		e.log.Info().Str("symbol", symbol).Msg("started tracking")
		events.Append(Event{Date: currentDate, Type: EventTrackingStarted, Symbol: symbol})
	}

	bar, ok := hist.Bar(currentDate)
	if !ok {
		e.log.Warn().Str("symbol", symbol).Time("date", currentDate).
			Msg("no price bar, skipping action")
		events.Append(Event{Date: currentDate, Type: EventMissingBar, Symbol: symbol})
		return nil
	}

	switch rec.Action {
	case model.ActionBuy:
		e.buy(st, events, symbol, bar, currentDate)
	case model.ActionSell:
		e.sell(st, events, symbol, bar, currentDate)
	case model.ActionReduce:
		e.reduce(st, events, symbol, bar, currentDate)
	case model.ActionHold:
		// Documented no-op: HOLD rows are valid input but move nothing.
		e.log.Debug().Str("symbol", symbol).Time("date", currentDate).Msg("hold, no action")
		events.Append(Event{Date: currentDate, Type: EventHold, Symbol: symbol})
	default:
		return &model.UnknownActionError{Input: string(rec.Action)}
	}
	return nil
}

// buy purchases a fixed dollar amount at the day's high. Cash on hand funds
// the purchase first; only the shortfall is drawn from the benchmark and
// counted as new investment.
func (e *Engine) buy(st *simState, events *EventLog, symbol string, bar model.Bar, currentDate time.Time) {
	amount := e.cfg.InvestmentAmount
	shares := amount / bar.High
	st.add(symbol, shares)

	e.log.Info().Time("date", currentDate).Str("symbol", symbol).
		Float64("shares", shares).Float64("price", bar.High).
		Float64("total", st.positions[symbol]).Msg("bought")
	events.Append(Event{
		Date: currentDate, Type: EventBuy, Symbol: symbol,
		Shares: shares, Price: bar.High, Amount: amount,
		TotalShares: st.positions[symbol],
	})

	if st.cash >= amount {
		st.cash -= amount
		return
	}
	shortfall := amount - st.cash
	benchHist, _ := st.histories.get(e.cfg.BenchmarkSymbol)
	benchBar, _ := benchHist.Bar(currentDate) // currentDate comes from the benchmark calendar
	benchShares := shortfall / benchBar.High
	st.add(e.cfg.BenchmarkSymbol, benchShares)
	st.investment += shortfall
	st.cash = 0

	e.log.Info().Time("date", currentDate).Str("symbol", e.cfg.BenchmarkSymbol).
		Float64("shares", benchShares).Float64("price", benchBar.High).
		Float64("invested", shortfall).Msg("benchmark funded purchase")
	events.Append(Event{
		Date: currentDate, Type: EventBenchmarkBuy, Symbol: e.cfg.BenchmarkSymbol,
		Shares: benchShares, Price: benchBar.High, Amount: shortfall,
		TotalShares: st.positions[e.cfg.BenchmarkSymbol],
	})
}

// sell liquidates the whole position at the day's low and closes it.
func (e *Engine) sell(st *simState, events *EventLog, symbol string, bar model.Bar, currentDate time.Time) {
	shares, open := st.positions[symbol]
	if !open {
		e.log.Debug().Str("symbol", symbol).Time("date", currentDate).Msg("sell with no position")
		return
	}
	proceeds := shares * bar.Low
	st.cash += proceeds
	st.remove(symbol)

	e.log.Info().Time("date", currentDate).Str("symbol", symbol).
		Float64("shares", shares).Float64("price", bar.Low).Msg("sold, position closed")
	events.Append(Event{
		Date: currentDate, Type: EventSell, Symbol: symbol,
		Shares: shares, Price: bar.Low, Amount: proceeds,
	})
}

// reduce liquidates floor(shares/2) at the day's low; the remainder stays
// open even when it is fractional.
func (e *Engine) reduce(st *simState, events *EventLog, symbol string, bar model.Bar, currentDate time.Time) {
	shares, open := st.positions[symbol]
	if !open {
		e.log.Debug().Str("symbol", symbol).Time("date", currentDate).Msg("reduce with no position")
		return
	}
	half := math.Floor(shares / 2)
	proceeds := half * bar.Low
	st.cash += proceeds
	st.positions[symbol] = shares - half

	e.log.Info().Time("date", currentDate).Str("symbol", symbol).
		Float64("shares", half).Float64("price", bar.Low).
		Float64("remaining", st.positions[symbol]).Msg("reduced position")
	events.Append(Event{
		Date: currentDate, Type: EventReduce, Symbol: symbol,
		Shares: half, Price: bar.Low, Amount: proceeds,
		TotalShares: st.positions[symbol],
	})
}

// value accrues dividends and marks every open position to the day's close.
// A position with no bar today is omitted from the total (stale valuation)
// with a diagnostic. Returns cash-inclusive portfolio value, benchmark
// value, and the per-symbol close values of non-benchmark holdings.
func (e *Engine) value(st *simState, events *EventLog, currentDate time.Time) (foolValue, benchValue float64, perSymbol map[string]float64) {
	foolValue = st.cash
	perSymbol = make(map[string]float64)

	for _, symbol := range st.order {
		hist, ok := st.histories.get(symbol)
		if !ok {
			continue
		}
		bar, ok := hist.Bar(currentDate)
		if !ok {
			e.log.Warn().Str("symbol", symbol).Time("date", currentDate).
				Msg("no price bar, skipping valuation")
			events.Append(Event{Date: currentDate, Type: EventMissingQuote, Symbol: symbol})
			continue
		}

		if bar.Dividend > 0 {
			growth := 1 + bar.Dividend/100
			if e.cfg.DividendUnit == config.DividendCash && bar.Close > 0 {
				growth = 1 + bar.Dividend/bar.Close
			}
			added := st.positions[symbol] * (growth - 1)
			st.positions[symbol] *= growth
			e.log.Info().Time("date", currentDate).Str("symbol", symbol).
				Float64("dividend", bar.Dividend).
				Float64("shares", st.positions[symbol]).Msg("dividend accrued")
			events.Append(Event{
				Date: currentDate, Type: EventDividend, Symbol: symbol,
				Shares: added, Amount: bar.Dividend,
				TotalShares: st.positions[symbol],
			})
		}

		value := st.positions[symbol] * bar.Close
		if symbol == e.cfg.BenchmarkSymbol {
			benchValue = value
		} else {
			foolValue += value
			perSymbol[symbol] = value
		}
	}
	return foolValue, benchValue, perSymbol
}

func (e *Engine) logSnapshot(s Snapshot) {
	ev := e.log.Info().Time("date", s.Date).
		Float64("cash", s.Cash).
		Float64("portfolio", s.PortfolioTotal).
		Float64("benchmark", s.BenchmarkValue)
	for symbol, v := range s.PositionValues {
		ev = ev.Float64(symbol, v)
	}
	ev.Msg("month-end portfolio")
}

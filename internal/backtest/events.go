package backtest

import "time"

// EventType labels one entry in the simulation trace.
// Keep these values stable; they are intended for JSON output and tests.
type EventType string

const (
	EventBuy             EventType = "buy"
	EventSell            EventType = "sell"
	EventReduce          EventType = "reduce"
	EventHold            EventType = "hold"
	EventBenchmarkBuy    EventType = "benchmark_buy"
	EventDividend        EventType = "dividend"
	EventTrackingStarted EventType = "tracking_started"
	EventMissingHistory  EventType = "missing_history"
	EventMissingBar      EventType = "missing_bar"
	EventMissingQuote    EventType = "missing_quote"
)

// Event is one applied action or recovered warning, dated by the trading
// day it happened on. Field meaning depends on the type: Shares/Price are
// the executed quantity and price, Amount the cash moved (or the raw
// dividend value for dividend events), TotalShares the position afterwards.
type Event struct {
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	Symbol      string    `json:"symbol,omitempty"`
	Shares      float64   `json:"shares,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	TotalShares float64   `json:"total_shares,omitempty"`
}

// EventLog collects the trace of one run in order of occurrence.
type EventLog struct {
	events []Event
}

func (l *EventLog) Append(e Event) {
	l.events = append(l.events, e)
}

func (l *EventLog) Events() []Event {
	return l.events
}

// BySymbol returns the trace entries for one symbol, in order.
func (l *EventLog) BySymbol(symbol string) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Symbol == symbol {
			out = append(out, e)
		}
	}
	return out
}

// ByType returns the trace entries of one type, in order.
func (l *EventLog) ByType(t EventType) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

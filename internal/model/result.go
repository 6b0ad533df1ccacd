package model

import "time"

// Trend is the direction derived from the fast/slow EMA comparison.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

// AnalysisResult is the per-ticker output of a scan.
type AnalysisResult struct {
	Ticker          string  `json:"ticker"`
	Price           float64 `json:"price"`
	Trend           Trend   `json:"trend"`
	Confidence      float64 `json:"confidence"` // heuristic, 0 ~ 100
	Support         float64 `json:"support"`
	Resistance      float64 `json:"resistance"`
	SmartMoneyScore float64 `json:"smart_money_score"`
	RSI             Value   `json:"rsi"`
	Degraded        bool    `json:"degraded"`
}

// TickerError records why a single ticker failed.
type TickerError struct {
	Ticker string
	Err    error
}

func (e TickerError) Error() string { return e.Ticker + ": " + e.Err.Error() }
func (e TickerError) Unwrap() error { return e.Err }

// Kind returns the taxonomy label for the wrapped error.
func (e TickerError) Kind() string { return ErrorKind(e.Err) }

// ChartData is the representative series handed to chart renderers.
type ChartData struct {
	Ticker     string        `json:"ticker"`
	Series     *Series       `json:"series"`
	Indicators *IndicatorSet `json:"indicators"`
}

// ScanReport aggregates one scan invocation.
type ScanReport struct {
	ID        string           `json:"id"`
	Tickers   []string         `json:"tickers"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Results   []AnalysisResult `json:"results"`
	Errors    []TickerError    `json:"-"`
	Chart     *ChartData       `json:"-"`
}

package model

// IndicatorSet holds indicator sequences aligned index-for-index with a Series.
type IndicatorSet struct {
	FastWindow int     `json:"fast_window"`
	SlowWindow int     `json:"slow_window"`
	RSIWindow  int     `json:"rsi_window"`
	EMAFast    []Value `json:"ema_fast"`
	EMASlow    []Value `json:"ema_slow"`
	RSI        []Value `json:"rsi"`
	// Degraded is set when at least one window exceeded the available history.
	Degraded bool `json:"degraded"`
}

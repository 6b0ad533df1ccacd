package calculator

import "StockScanner/internal/model"

// IndicatorOptions configures Compute.
type IndicatorOptions struct {
	FastWindow int
	SlowWindow int
	RSIWindow  int
	// FillNA fills the warm-up prefix of each indicator with its first
	// defined value. It is switched on automatically once any window is
	// degraded.
	FillNA bool
}

// DefaultIndicatorOptions returns EMA 20/50 and RSI 14.
func DefaultIndicatorOptions() IndicatorOptions {
	return IndicatorOptions{FastWindow: 20, SlowWindow: 50, RSIWindow: 14}
}

// Compute derives the indicator set for a sanitized series. Insufficient
// history never errors: the affected indicator is entirely undefined and the
// set is flagged Degraded.
func Compute(series *model.Series, opts IndicatorOptions) *model.IndicatorSet {
	closes := series.Closes()
	n := len(closes)

	set := &model.IndicatorSet{
		FastWindow: opts.FastWindow,
		SlowWindow: opts.SlowWindow,
		RSIWindow:  opts.RSIWindow,
		EMAFast:    CalculateEMA(closes, opts.FastWindow),
		EMASlow:    CalculateEMA(closes, opts.SlowWindow),
		RSI:        CalculateRSI(closes, opts.RSIWindow),
	}
	set.Degraded = n < opts.FastWindow || n < opts.SlowWindow || n < opts.RSIWindow

	if opts.FillNA || set.Degraded {
		set.EMAFast = FillLeading(set.EMAFast)
		set.EMASlow = FillLeading(set.EMASlow)
		set.RSI = FillLeading(set.RSI)
	}
	return set
}

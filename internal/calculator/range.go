package calculator

import (
	"errors"
	"math"

	"StockScanner/internal/model"
)

// SupportResistanceWindow is the trailing bar count used for support/resistance.
const SupportResistanceWindow = 10

// CalculateTailRange scans the most recent `window` bars (or all of them when
// the series is shorter) and returns the lowest low and the highest high.
// Each bar contributes min(Low, High) and max(Low, High), so low <= high holds
// even for bars whose extremes were reported inverted.
func CalculateTailRange(bars []model.Bar, window int) (low, high float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	n := len(bars)
	start := n - window
	if start < 0 {
		start = 0
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for i := start; i < n; i++ {
		low = math.Min(low, math.Min(bars[i].Low, bars[i].High))
		high = math.Max(high, math.Max(bars[i].Low, bars[i].High))
	}
	return low, high, nil
}
